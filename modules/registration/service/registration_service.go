package service

import (
	"context"
	"fmt"
	"time"

	"campus-events/core/cache"
	"campus-events/core/errors"
	"campus-events/core/logger"
	"campus-events/core/tasks"
	evententity "campus-events/modules/event/entity"
	notifentity "campus-events/modules/notification/entity"
	"campus-events/modules/registration/dto"
	"campus-events/modules/registration/entity"
	"campus-events/modules/registration/repository"

	"github.com/google/uuid"
)

// Notifier delivers in-app notifications without coupling this package to the
// notification module's concrete service.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]any)
}

// RegistrationService implements the student registration and attendance
// flows. The live registration count is served from Redis with a short TTL;
// writes invalidate the cached value so polls converge quickly.
type RegistrationService struct {
	repo     repository.RegistrationRepositoryInterface
	cache    *cache.Cache
	tasks    *tasks.Client
	notifier Notifier
	now      func() time.Time
}

type RegistrationServiceInterface interface {
	Register(ctx context.Context, eventID, userID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError)
	Cancel(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
	GetMine(ctx context.Context, eventID, userID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError)
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.RegistrationResponse, *errors.AppError)
	GetRoster(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) ([]dto.RosterEntryResponse, *errors.AppError)
	GetCount(ctx context.Context, eventID uuid.UUID) (*dto.RegistrationCountResponse, *errors.AppError)
	GetCounts(ctx context.Context, eventIDs []uuid.UUID) ([]dto.RegistrationCountResponse, *errors.AppError)
	MarkAttendance(ctx context.Context, registrationID, actorID uuid.UUID, isAdmin, present bool) (*dto.RegistrationResponse, *errors.AppError)
	FinalizeAttendance(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) (*dto.FinalizeAttendanceResponse, *errors.AppError)
}

func NewRegistrationService(repo repository.RegistrationRepositoryInterface, c *cache.Cache, t *tasks.Client, notifier Notifier) RegistrationServiceInterface {
	return &RegistrationService{
		repo:     repo,
		cache:    c,
		tasks:    t,
		notifier: notifier,
		now:      time.Now,
	}
}

// Register signs a student up for an approved event. The capacity limit is
// enforced by the insert itself; this method only adds the approval and
// deadline rules and the friendlier error mapping.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError) {
	event, appErr := s.eventSummary(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.ApprovalStatus != string(evententity.ApprovalStatusApproved) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Registration is open only for approved events", nil)
	}
	if event.RegistrationDeadline != nil && s.now().After(*event.RegistrationDeadline) {
		return nil, errors.NewAppError(errors.ErrDeadlinePassed, "Registration deadline has passed", nil)
	}

	reg, err := s.repo.CreateRegistration(ctx, eventID, userID)
	if err != nil {
		switch err {
		case repository.ErrCapacityReached:
			return nil, errors.NewAppError(errors.ErrCapacityFull, "Event has reached its participant limit", err)
		case repository.ErrAlreadyRegistered:
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Already registered for this event", err)
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to register for event", err)
	}

	s.invalidateCount(ctx, eventID)
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, notifentity.TypeRegistrationConfirmed,
			"Registration confirmed",
			fmt.Sprintf("You are registered for %q on %s.", event.Title, event.EventDate.Format("2006-01-02")),
			map[string]any{"event_id": eventID.String()})
	}

	resp := dto.ToRegistrationResponse(reg)
	return &resp, nil
}

func (s *RegistrationService) Cancel(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	if _, appErr := s.eventSummary(ctx, eventID); appErr != nil {
		return appErr
	}

	changed, err := s.repo.CancelRegistration(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to cancel registration", err)
	}
	if !changed {
		return errors.NewAppError(errors.ErrNotFound, "No active registration for this event", nil)
	}

	s.invalidateCount(ctx, eventID)
	return nil
}

// GetMine returns the caller's registration for an event, cancelled ones
// included so the client can tell "never registered" from "cancelled".
func (s *RegistrationService) GetMine(ctx context.Context, eventID, userID uuid.UUID) (*dto.RegistrationResponse, *errors.AppError) {
	reg, err := s.repo.GetRegistration(ctx, eventID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch registration", err)
	}
	if reg == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Not registered for this event", nil)
	}

	resp := dto.ToRegistrationResponse(reg)
	return &resp, nil
}

func (s *RegistrationService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.RegistrationResponse, *errors.AppError) {
	regs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch registrations", err)
	}

	out := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, dto.ToRegistrationResponse(&regs[i]))
	}
	return out, nil
}

// GetRoster returns the attendance roster. Only the organizer who created the
// event, or an admin, may see it.
func (s *RegistrationService) GetRoster(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) ([]dto.RosterEntryResponse, *errors.AppError) {
	event, appErr := s.eventSummary(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if !isAdmin && event.CreatedBy != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized to view this roster", nil)
	}

	entries, err := s.repo.ListRoster(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch roster", err)
	}
	return dto.ToRosterResponse(entries), nil
}

// GetCount serves the poll endpoint behind the registration counter. The
// Redis entry has a short TTL; on a miss the count comes from the database
// and the cache is refilled best-effort.
func (s *RegistrationService) GetCount(ctx context.Context, eventID uuid.UUID) (*dto.RegistrationCountResponse, *errors.AppError) {
	if s.cache != nil {
		if count, hit, err := s.cache.GetRegistrationCount(ctx, eventID.String()); err == nil && hit {
			return &dto.RegistrationCountResponse{EventID: eventID.String(), Count: count}, nil
		} else if err != nil {
			logger.Warn("RegistrationService:GetCount:cache", err)
		}
	}

	count, err := s.repo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch registration count", err)
	}
	if s.cache != nil {
		if err := s.cache.SetRegistrationCount(ctx, eventID.String(), count); err != nil {
			logger.Warn("RegistrationService:GetCount:cacheSet", err)
		}
	}
	return &dto.RegistrationCountResponse{EventID: eventID.String(), Count: count}, nil
}

// GetCounts resolves a batch of counts in one query, used by list views.
// Batch reads bypass the cache; the single-event poll is the hot path.
func (s *RegistrationService) GetCounts(ctx context.Context, eventIDs []uuid.UUID) ([]dto.RegistrationCountResponse, *errors.AppError) {
	counts, err := s.repo.CountByEvents(ctx, eventIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch registration counts", err)
	}

	out := make([]dto.RegistrationCountResponse, 0, len(eventIDs))
	for _, id := range eventIDs {
		out = append(out, dto.RegistrationCountResponse{EventID: id.String(), Count: counts[id]})
	}
	return out, nil
}

func (s *RegistrationService) MarkAttendance(ctx context.Context, registrationID, actorID uuid.UUID, isAdmin, present bool) (*dto.RegistrationResponse, *errors.AppError) {
	reg, err := s.repo.GetRegistrationByID(ctx, registrationID)
	if err != nil || reg == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Registration not found", err)
	}

	event, appErr := s.eventSummary(ctx, reg.EventID)
	if appErr != nil {
		return nil, appErr
	}
	if !isAdmin && event.CreatedBy != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized to mark attendance for this event", nil)
	}

	if err := s.repo.SetPresence(ctx, registrationID, present); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update attendance", err)
	}

	reg.IsPresent = present
	resp := dto.ToRegistrationResponse(reg)
	return &resp, nil
}

// FinalizeAttendance queues the attendance report email to the event's
// teacher. The event must carry a teacher email; the report lists the
// students marked present.
func (s *RegistrationService) FinalizeAttendance(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) (*dto.FinalizeAttendanceResponse, *errors.AppError) {
	event, appErr := s.eventSummary(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if !isAdmin && event.CreatedBy != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized to finalize attendance for this event", nil)
	}
	if event.TeacherEmail == nil || *event.TeacherEmail == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event has no teacher email to report to", nil)
	}

	present, err := s.repo.ListPresent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch attendance", err)
	}

	students := make([]tasks.PresentStudent, 0, len(present))
	for i := range present {
		roll := ""
		if present[i].RollNumber != nil {
			roll = *present[i].RollNumber
		}
		students = append(students, tasks.PresentStudent{
			Name:       present[i].FullName,
			RollNumber: roll,
			Email:      present[i].Email,
		})
	}

	payload := tasks.AttendanceReportPayload{
		TeacherName:     derefOr(event.TeacherName, "Teacher"),
		TeacherEmail:    *event.TeacherEmail,
		EventName:       event.Title,
		EventDate:       event.EventDate.Format("2006-01-02"),
		EventTime:       windowLabel(event.StartTime, event.EndTime),
		OrganizerName:   event.OrganizerName,
		PresentStudents: students,
	}

	queued := false
	if s.tasks != nil {
		if err := s.tasks.EnqueueAttendanceReport(ctx, payload); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to queue attendance report", err)
		}
		queued = true
	}

	return &dto.FinalizeAttendanceResponse{
		EventID:      eventID.String(),
		PresentCount: len(students),
		ReportQueued: queued,
	}, nil
}

// ===================== helpers =====================

func (s *RegistrationService) eventSummary(ctx context.Context, eventID uuid.UUID) (*entity.EventSummary, *errors.AppError) {
	event, err := s.repo.GetEventSummary(ctx, eventID)
	if err != nil || event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", err)
	}
	return event, nil
}

func (s *RegistrationService) invalidateCount(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRegistrationCount(ctx, eventID.String()); err != nil {
		logger.Warn("RegistrationService:invalidateCount", err)
	}
}

func derefOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}

// windowLabel formats "HH:MM - HH:MM" from the stored TIME strings, falling
// back to the raw values if they do not parse.
func windowLabel(start, end string) string {
	s, errS := evententity.ParseClock(start)
	e, errE := evententity.ParseClock(end)
	if errS != nil || errE != nil {
		return start + " - " + end
	}
	return evententity.FormatClock(s) + " - " + evententity.FormatClock(e)
}
