package service

import (
	"context"
	"testing"
	"time"

	"campus-events/core/errors"
	"campus-events/modules/registration/entity"
	"campus-events/modules/registration/repository"

	"github.com/google/uuid"
)

type fakeRegRepo struct {
	event         *entity.EventSummary
	registrations []entity.Registration
	rosterNames   map[uuid.UUID]string
}

func (f *fakeRegRepo) GetEventSummary(ctx context.Context, eventID uuid.UUID) (*entity.EventSummary, error) {
	if f.event != nil && f.event.ID == eventID {
		e := *f.event
		return &e, nil
	}
	return nil, nil
}

func (f *fakeRegRepo) CreateRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	active := 0
	var cancelled *entity.Registration
	for i := range f.registrations {
		r := &f.registrations[i]
		if r.EventID != eventID {
			continue
		}
		if r.UserID == userID {
			if r.Status == entity.StatusRegistered {
				return nil, repository.ErrAlreadyRegistered
			}
			cancelled = r
			continue
		}
		if r.Status == entity.StatusRegistered {
			active++
		}
	}
	if f.event.MaxParticipants != nil && active >= *f.event.MaxParticipants {
		return nil, repository.ErrCapacityReached
	}
	// A cancelled row is revived in place instead of inserting a duplicate.
	if cancelled != nil {
		cancelled.Status = entity.StatusRegistered
		cancelled.RegisteredAt = time.Now()
		reg := *cancelled
		return &reg, nil
	}
	reg := entity.Registration{
		ID:           uuid.New(),
		EventID:      eventID,
		UserID:       userID,
		Status:       entity.StatusRegistered,
		RegisteredAt: time.Now(),
	}
	f.registrations = append(f.registrations, reg)
	return &reg, nil
}

func (f *fakeRegRepo) GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	for i := range f.registrations {
		if f.registrations[i].EventID == eventID && f.registrations[i].UserID == userID {
			r := f.registrations[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRegRepo) GetRegistrationByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error) {
	for i := range f.registrations {
		if f.registrations[i].ID == id {
			r := f.registrations[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRegRepo) CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	for i := range f.registrations {
		r := &f.registrations[i]
		if r.EventID == eventID && r.UserID == userID && r.Status == entity.StatusRegistered {
			r.Status = entity.StatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Registration, error) {
	var out []entity.Registration
	for i := range f.registrations {
		if f.registrations[i].UserID == userID && f.registrations[i].Status == entity.StatusRegistered {
			out = append(out, f.registrations[i])
		}
	}
	return out, nil
}

func (f *fakeRegRepo) ListRoster(ctx context.Context, eventID uuid.UUID) ([]entity.RosterEntry, error) {
	return f.roster(eventID, false), nil
}

func (f *fakeRegRepo) ListPresent(ctx context.Context, eventID uuid.UUID) ([]entity.RosterEntry, error) {
	return f.roster(eventID, true), nil
}

func (f *fakeRegRepo) roster(eventID uuid.UUID, presentOnly bool) []entity.RosterEntry {
	var out []entity.RosterEntry
	for i := range f.registrations {
		r := f.registrations[i]
		if r.EventID != eventID || r.Status != entity.StatusRegistered {
			continue
		}
		if presentOnly && !r.IsPresent {
			continue
		}
		out = append(out, entity.RosterEntry{
			Registration: r,
			FullName:     f.rosterNames[r.UserID],
			Email:        f.rosterNames[r.UserID] + "@campus.test",
		})
	}
	return out
}

func (f *fakeRegRepo) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	count := 0
	for i := range f.registrations {
		if f.registrations[i].EventID == eventID && f.registrations[i].Status == entity.StatusRegistered {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegRepo) CountByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	for _, id := range eventIDs {
		c, _ := f.CountByEvent(ctx, id)
		if c > 0 {
			counts[id] = c
		}
	}
	return counts, nil
}

func (f *fakeRegRepo) SetPresence(ctx context.Context, registrationID uuid.UUID, present bool) error {
	for i := range f.registrations {
		if f.registrations[i].ID == registrationID {
			f.registrations[i].IsPresent = present
		}
	}
	return nil
}

func approvedEvent(max *int, deadline *time.Time) *entity.EventSummary {
	teacher := "Dr. Rao"
	teacherEmail := "rao@campus.test"
	return &entity.EventSummary{
		ID:                   uuid.New(),
		Title:                "Tech Symposium",
		EventDate:            time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC),
		StartTime:            "10:00:00",
		EndTime:              "12:00:00",
		MaxParticipants:      max,
		RegistrationDeadline: deadline,
		ApprovalStatus:       "approved",
		OrganizerName:        "Alex",
		TeacherName:          &teacher,
		TeacherEmail:         &teacherEmail,
		CreatedBy:            uuid.New(),
	}
}

func newTestRegService(repo *fakeRegRepo) RegistrationServiceInterface {
	return NewRegistrationService(repo, nil, nil, nil)
}

func TestRegisterSuccess(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil)}
	svc := newTestRegService(repo)

	resp, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if resp.Status != string(entity.StatusRegistered) {
		t.Fatalf("status = %s, want registered", resp.Status)
	}
}

func TestRegisterPendingEventRejected(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil)}
	repo.event.ApprovalStatus = "pending"
	svc := newTestRegService(repo)

	_, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New())
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", appErr)
	}
}

func TestRegisterDeadlinePassed(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := &fakeRegRepo{event: approvedEvent(nil, &past)}
	svc := newTestRegService(repo)

	_, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New())
	if appErr == nil || appErr.Code != errors.ErrDeadlinePassed {
		t.Fatalf("expected ErrDeadlinePassed, got %v", appErr)
	}
}

func TestRegisterCapacityFull(t *testing.T) {
	max := 1
	repo := &fakeRegRepo{event: approvedEvent(&max, nil)}
	svc := newTestRegService(repo)

	if _, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New()); appErr != nil {
		t.Fatalf("first registration should succeed: %v", appErr)
	}
	_, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New())
	if appErr == nil || appErr.Code != errors.ErrCapacityFull {
		t.Fatalf("expected ErrCapacityFull, got %v", appErr)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil)}
	svc := newTestRegService(repo)
	student := uuid.New()

	if _, appErr := svc.Register(context.Background(), repo.event.ID, student); appErr != nil {
		t.Fatalf("first registration should succeed: %v", appErr)
	}
	_, appErr := svc.Register(context.Background(), repo.event.ID, student)
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", appErr)
	}
}

func TestCancelFreesASeat(t *testing.T) {
	max := 1
	repo := &fakeRegRepo{event: approvedEvent(&max, nil)}
	svc := newTestRegService(repo)
	first := uuid.New()

	if _, appErr := svc.Register(context.Background(), repo.event.ID, first); appErr != nil {
		t.Fatalf("register: %v", appErr)
	}
	if appErr := svc.Cancel(context.Background(), repo.event.ID, first); appErr != nil {
		t.Fatalf("cancel: %v", appErr)
	}
	// Cancelling again reports no active registration.
	if appErr := svc.Cancel(context.Background(), repo.event.ID, first); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected ErrNotFound on second cancel, got %v", appErr)
	}
	// The freed seat is available to someone else.
	if _, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New()); appErr != nil {
		t.Fatalf("seat should be free after cancel: %v", appErr)
	}
}

func TestReRegisterAfterCancel(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil)}
	svc := newTestRegService(repo)
	student := uuid.New()

	if _, appErr := svc.Register(context.Background(), repo.event.ID, student); appErr != nil {
		t.Fatalf("register: %v", appErr)
	}
	if appErr := svc.Cancel(context.Background(), repo.event.ID, student); appErr != nil {
		t.Fatalf("cancel: %v", appErr)
	}

	// The student can come back after cancelling.
	resp, appErr := svc.Register(context.Background(), repo.event.ID, student)
	if appErr != nil {
		t.Fatalf("re-register after cancel: %v", appErr)
	}
	if resp.Status != string(entity.StatusRegistered) {
		t.Fatalf("status = %s, want registered", resp.Status)
	}

	// The revived registration is active again, not duplicated.
	regs, appErr := svc.ListMine(context.Background(), student)
	if appErr != nil {
		t.Fatalf("list mine: %v", appErr)
	}
	if len(regs) != 1 {
		t.Fatalf("registrations = %d, want 1", len(regs))
	}
}

func TestReRegisterRespectsCapacity(t *testing.T) {
	max := 1
	repo := &fakeRegRepo{event: approvedEvent(&max, nil)}
	svc := newTestRegService(repo)
	first := uuid.New()

	if _, appErr := svc.Register(context.Background(), repo.event.ID, first); appErr != nil {
		t.Fatalf("register: %v", appErr)
	}
	if appErr := svc.Cancel(context.Background(), repo.event.ID, first); appErr != nil {
		t.Fatalf("cancel: %v", appErr)
	}
	// Someone else takes the freed seat.
	if _, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New()); appErr != nil {
		t.Fatalf("register second student: %v", appErr)
	}

	// Coming back now fails on capacity, not on the stale cancelled row.
	_, appErr := svc.Register(context.Background(), repo.event.ID, first)
	if appErr == nil || appErr.Code != errors.ErrCapacityFull {
		t.Fatalf("expected ErrCapacityFull, got %v", appErr)
	}
}

func TestGetMine(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil)}
	svc := newTestRegService(repo)
	student := uuid.New()

	if _, appErr := svc.GetMine(context.Background(), repo.event.ID, student); appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected ErrNotFound before registering, got %v", appErr)
	}

	if _, appErr := svc.Register(context.Background(), repo.event.ID, student); appErr != nil {
		t.Fatalf("register: %v", appErr)
	}
	mine, appErr := svc.GetMine(context.Background(), repo.event.ID, student)
	if appErr != nil {
		t.Fatalf("get mine: %v", appErr)
	}
	if mine.Status != string(entity.StatusRegistered) {
		t.Fatalf("status = %s, want registered", mine.Status)
	}

	// Cancelled registrations stay visible with their status.
	if appErr := svc.Cancel(context.Background(), repo.event.ID, student); appErr != nil {
		t.Fatalf("cancel: %v", appErr)
	}
	mine, appErr = svc.GetMine(context.Background(), repo.event.ID, student)
	if appErr != nil {
		t.Fatalf("get mine after cancel: %v", appErr)
	}
	if mine.Status != string(entity.StatusCancelled) {
		t.Fatalf("status = %s, want cancelled", mine.Status)
	}
}

func TestGetRosterOwnership(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil), rosterNames: map[uuid.UUID]string{}}
	svc := newTestRegService(repo)

	student := uuid.New()
	repo.rosterNames[student] = "Priya"
	if _, appErr := svc.Register(context.Background(), repo.event.ID, student); appErr != nil {
		t.Fatalf("register: %v", appErr)
	}

	if _, appErr := svc.GetRoster(context.Background(), repo.event.ID, uuid.New(), false); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("expected ErrForbidden for a stranger, got %v", appErr)
	}

	roster, appErr := svc.GetRoster(context.Background(), repo.event.ID, repo.event.CreatedBy, false)
	if appErr != nil {
		t.Fatalf("organizer roster: %v", appErr)
	}
	if len(roster) != 1 || roster[0].FullName != "Priya" {
		t.Fatalf("roster = %+v", roster)
	}

	// Admins see any roster.
	if _, appErr := svc.GetRoster(context.Background(), repo.event.ID, uuid.New(), true); appErr != nil {
		t.Fatalf("admin roster: %v", appErr)
	}
}

func TestMarkAttendanceAndFinalize(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil), rosterNames: map[uuid.UUID]string{}}
	svc := newTestRegService(repo)

	present := uuid.New()
	absent := uuid.New()
	repo.rosterNames[present] = "Priya"
	repo.rosterNames[absent] = "Rahul"
	for _, student := range []uuid.UUID{present, absent} {
		if _, appErr := svc.Register(context.Background(), repo.event.ID, student); appErr != nil {
			t.Fatalf("register: %v", appErr)
		}
	}

	reg, err := repo.GetRegistration(context.Background(), repo.event.ID, present)
	if err != nil || reg == nil {
		t.Fatalf("lookup registration: %v", err)
	}

	marked, appErr := svc.MarkAttendance(context.Background(), reg.ID, repo.event.CreatedBy, false, true)
	if appErr != nil {
		t.Fatalf("mark attendance: %v", appErr)
	}
	if !marked.IsPresent {
		t.Fatal("expected is_present = true")
	}

	result, appErr := svc.FinalizeAttendance(context.Background(), repo.event.ID, repo.event.CreatedBy, false)
	if appErr != nil {
		t.Fatalf("finalize: %v", appErr)
	}
	if result.PresentCount != 1 {
		t.Fatalf("present count = %d, want 1", result.PresentCount)
	}
	if result.ReportQueued {
		t.Fatal("no task client configured, report must not be marked queued")
	}
}

func TestFinalizeRequiresTeacherEmail(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil)}
	repo.event.TeacherEmail = nil
	svc := newTestRegService(repo)

	_, appErr := svc.FinalizeAttendance(context.Background(), repo.event.ID, repo.event.CreatedBy, false)
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", appErr)
	}
}

func TestGetCountsBatch(t *testing.T) {
	repo := &fakeRegRepo{event: approvedEvent(nil, nil)}
	svc := newTestRegService(repo)

	if _, appErr := svc.Register(context.Background(), repo.event.ID, uuid.New()); appErr != nil {
		t.Fatalf("register: %v", appErr)
	}
	other := uuid.New()

	counts, appErr := svc.GetCounts(context.Background(), []uuid.UUID{repo.event.ID, other})
	if appErr != nil {
		t.Fatalf("counts: %v", appErr)
	}
	if len(counts) != 2 {
		t.Fatalf("len = %d, want 2", len(counts))
	}
	if counts[0].Count != 1 || counts[1].Count != 0 {
		t.Fatalf("counts = %+v", counts)
	}
}
