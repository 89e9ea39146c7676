package service

import (
	"context"
	"fmt"
	"time"

	"campus-events/core/config"
	"campus-events/core/errors"
	"campus-events/core/logger"
	"campus-events/core/params"
	"campus-events/core/utils"
	"campus-events/modules/event/dto"
	"campus-events/modules/event/entity"
	"campus-events/modules/event/repository"
	notifentity "campus-events/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Notifier delivers in-app notifications; implemented by the notification
// module. Delivery failures never fail the triggering operation.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]any)
}

// EventService handles event business logic.
type EventService struct {
	repo      repository.EventRepositoryInterface
	scheduler *Scheduler
	notifier  Notifier
}

// EventServiceInterface defines the service contract.
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, creatorID uuid.UUID, organizerName string, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError)
	CheckConflict(ctx context.Context, req *dto.CheckConflictRequest) (*dto.CheckConflictResponse, *errors.AppError)
	GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	ListApproved(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError)
	ListPending(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError)
	ListMine(ctx context.Context, creatorID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) *errors.AppError
	ApproveEvent(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	RejectEvent(ctx context.Context, eventID uuid.UUID, reason string) (*dto.EventResponse, *errors.AppError)
}

// NewEventService wires the repository, the scheduler configured with the
// campus working hours, and the notifier.
func NewEventService(repo repository.EventRepositoryInterface, notifier Notifier) EventServiceInterface {
	wh := WorkingHours{}
	if cfg, ok := config.GetSafe(); ok {
		wh.StartMinutes = cfg.Scheduler.WorkingHoursStart
		wh.EndMinutes = cfg.Scheduler.WorkingHoursEnd
	}

	return &EventService{
		repo:      repo,
		scheduler: NewScheduler(wh),
		notifier:  notifier,
	}
}

// CreateEvent runs the scheduling decision and persists the submission. A
// conflict-free window is stored approved and is immediately live; a
// conflicting one is stored pending with free slots suggested back to the
// organizer. The insert re-validates the verdict; losing that race surfaces
// as a slot-taken conflict and the organizer must pick a new time.
func (s *EventService) CreateEvent(ctx context.Context, creatorID uuid.UUID, organizerName string, req *dto.CreateEventRequest) (*dto.CreateEventResponse, *errors.AppError) {
	eventDate, appErr := parseEventDate(req.EventDate)
	if appErr != nil {
		return nil, appErr
	}

	window, err := entity.ParseTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidWindow, "Invalid time window: "+err.Error(), err)
	}

	existing, err := s.repo.GetApprovedEventsByDate(ctx, eventDate, nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load events for the selected date", err)
	}

	windows := collectWindows(existing)
	hasConflict := s.scheduler.DetectConflict(window, windows)
	status := s.scheduler.DecideApproval(hasConflict)

	event := &entity.Event{
		Title:          req.Title,
		Slug:           slug.Make(req.Title) + "-" + utils.GenerateID(),
		Category:       defaultString(req.Category, "general"),
		Location:       req.Location,
		EventDate:      eventDate,
		StartTime:      window.Start(),
		EndTime:        window.End(),
		ApprovalStatus: status,
		OrganizerName:  organizerName,
		CreatedBy:      creatorID,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if req.MaxParticipants > 0 {
		event.MaxParticipants = &req.MaxParticipants
	}
	if req.TeacherName != "" {
		event.TeacherName = &req.TeacherName
	}
	if req.TeacherEmail != "" {
		event.TeacherEmail = &req.TeacherEmail
	}
	if req.RegistrationDeadline != "" {
		deadline, parseErr := time.Parse(time.RFC3339, req.RegistrationDeadline)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid registration deadline", parseErr)
		}
		event.RegistrationDeadline = &deadline
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		if err == repository.ErrConflictingSlot {
			return nil, errors.NewAppError(errors.ErrSlotTaken,
				"The time slot was taken by a concurrent submission, please pick a new time", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	logger.Info("Event created",
		"event_id", created.ID,
		"date", req.EventDate,
		"window", window.Start()+"-"+window.End(),
		"status", created.ApprovalStatus,
		"conflict", hasConflict,
	)

	resp := &dto.CreateEventResponse{
		Event:       *dto.ToEventResponse(created),
		HasConflict: hasConflict,
	}
	if hasConflict {
		resp.SuggestedSlots = dto.ToSuggestedSlots(s.scheduler.SuggestSlots(windows))
	}
	return resp, nil
}

// CheckConflict is the advisory pre-submission probe the event form calls on
// every change to date or times. The caller must re-invoke it with a fresh
// date whenever the date field changes; nothing is cached here.
func (s *EventService) CheckConflict(ctx context.Context, req *dto.CheckConflictRequest) (*dto.CheckConflictResponse, *errors.AppError) {
	eventDate, appErr := parseEventDate(req.EventDate)
	if appErr != nil {
		return nil, appErr
	}

	window, err := entity.ParseTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidWindow, "Invalid time window: "+err.Error(), err)
	}

	existing, err := s.repo.GetApprovedEventsByDate(ctx, eventDate, nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load events for the selected date", err)
	}

	windows := collectWindows(existing)
	hasConflict := s.scheduler.DetectConflict(window, windows)

	resp := &dto.CheckConflictResponse{
		HasConflict:    hasConflict,
		ApprovalStatus: string(s.scheduler.DecideApproval(hasConflict)),
		SuggestedSlots: []dto.SuggestedSlotDTO{},
	}
	if hasConflict {
		resp.SuggestedSlots = dto.ToSuggestedSlots(s.scheduler.SuggestSlots(windows))
	}
	return resp, nil
}

func (s *EventService) GetEventByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return dto.ToEventResponse(event), nil
}

func (s *EventService) ListApproved(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	events, total, err := s.repo.ListApproved(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}
	return paginatedResponse(events, total, p), nil
}

func (s *EventService) ListPending(ctx context.Context, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	events, total, err := s.repo.ListPending(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list pending events", err)
	}
	return paginatedResponse(events, total, p), nil
}

func (s *EventService) ListMine(ctx context.Context, creatorID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListByOrganizer(ctx, creatorID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *dto.ToEventResponse(&events[i]))
	}
	return result, nil
}

// UpdateEvent edits an event the actor owns (admins may edit any). Changing
// the date or times invalidates the previous verdict, so the scheduler is
// re-run against the approved events of the (possibly new) date, excluding
// the event itself.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil || event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", err)
	}
	if !isAdmin && event.CreatedBy != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized to edit this event", nil)
	}

	windowChanged := false

	if req.Title != "" && req.Title != event.Title {
		event.Title = req.Title
		event.Slug = slug.Make(req.Title) + "-" + utils.GenerateID()
	}
	if req.Description != "" {
		event.Description = &req.Description
	}
	if req.Category != "" {
		event.Category = req.Category
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.MaxParticipants > 0 {
		event.MaxParticipants = &req.MaxParticipants
	}
	if req.TeacherName != "" {
		event.TeacherName = &req.TeacherName
	}
	if req.TeacherEmail != "" {
		event.TeacherEmail = &req.TeacherEmail
	}

	if req.EventDate != "" {
		newDate, appErr := parseEventDate(req.EventDate)
		if appErr != nil {
			return nil, appErr
		}
		if !newDate.Equal(event.EventDate) {
			event.EventDate = newDate
			windowChanged = true
		}
	}

	startTime := defaultString(req.StartTime, event.StartTime)
	endTime := defaultString(req.EndTime, event.EndTime)
	window, parseErr := entity.ParseTimeWindow(startTime, endTime)
	if parseErr != nil {
		return nil, errors.NewAppError(errors.ErrInvalidWindow, "Invalid time window: "+parseErr.Error(), parseErr)
	}
	if window.Start() != clockOrRaw(event.StartTime) || window.End() != clockOrRaw(event.EndTime) {
		windowChanged = true
	}
	event.StartTime = window.Start()
	event.EndTime = window.End()

	if windowChanged {
		existing, fetchErr := s.repo.GetApprovedEventsByDate(ctx, event.EventDate, &event.ID)
		if fetchErr != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load events for the selected date", fetchErr)
		}
		hasConflict := s.scheduler.DetectConflict(window, collectWindows(existing))
		event.ApprovalStatus = s.scheduler.DecideApproval(hasConflict)
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		if err == repository.ErrConflictingSlot {
			return nil, errors.NewAppError(errors.ErrSlotTaken,
				"The time slot was taken by a concurrent submission, please pick a new time", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update event", err)
	}

	return s.GetEventByID(ctx, eventID)
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) *errors.AppError {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil || event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", err)
	}
	if !isAdmin && event.CreatedBy != actorID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized to delete this event", nil)
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}
	return nil
}

// ApproveEvent flips a pending submission to approved. The update is guarded
// in SQL against events approved since the submission entered review; a
// now-conflicting event cannot be approved and the admin is told why.
func (s *EventService) ApproveEvent(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil || event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", err)
	}
	if event.ApprovalStatus != entity.ApprovalStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Only pending events can be approved", nil)
	}

	if err := s.repo.ApproveEvent(ctx, eventID); err != nil {
		if err == repository.ErrConflictingSlot {
			return nil, errors.NewAppError(errors.ErrSlotTaken,
				"Event now overlaps an approved event and cannot be approved", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to approve event", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, event.CreatedBy, notifentity.TypeEventApproved,
			"Event approved",
			fmt.Sprintf("Your event %q has been approved.", event.Title),
			map[string]any{"event_id": event.ID.String()})
	}

	return s.GetEventByID(ctx, eventID)
}

func (s *EventService) RejectEvent(ctx context.Context, eventID uuid.UUID, reason string) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil || event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", err)
	}
	if event.ApprovalStatus != entity.ApprovalStatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Only pending events can be rejected", nil)
	}

	if err := s.repo.UpdateApprovalStatus(ctx, eventID, entity.ApprovalStatusRejected); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to reject event", err)
	}

	msg := fmt.Sprintf("Your event %q has been rejected.", event.Title)
	if reason != "" {
		msg += " Reason: " + reason
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, event.CreatedBy, notifentity.TypeEventRejected,
			"Event rejected", msg,
			map[string]any{"event_id": event.ID.String(), "reason": reason})
	}

	return s.GetEventByID(ctx, eventID)
}

// ===================== helpers =====================

func parseEventDate(date string) (time.Time, *errors.AppError) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "Invalid event date, expected YYYY-MM-DD", err)
	}
	return parsed, nil
}

// collectWindows maps stored events to scheduler windows, skipping rows with
// malformed times rather than failing the whole decision.
func collectWindows(events []entity.Event) []entity.TimeWindow {
	windows := make([]entity.TimeWindow, 0, len(events))
	for i := range events {
		w, ok := events[i].Window()
		if !ok {
			logger.Warn("Skipping event with malformed time window", "event_id", events[i].ID)
			continue
		}
		windows = append(windows, w)
	}
	return windows
}

func paginatedResponse(events []entity.Event, total int, p params.QueryParams) *dto.PaginatedEventResponse {
	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, *dto.ToEventResponse(&events[i]))
	}
	return &dto.PaginatedEventResponse{
		Items:      items,
		TotalItems: total,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}
}

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func clockOrRaw(t string) string {
	if m, err := entity.ParseClock(t); err == nil {
		return entity.FormatClock(m)
	}
	return t
}
