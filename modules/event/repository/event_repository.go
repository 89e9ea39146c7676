package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"campus-events/core/database"
	"campus-events/core/logger"
	"campus-events/core/params"
	"campus-events/modules/event/entity"

	"github.com/google/uuid"
)

// ErrConflictingSlot is returned when the insert-time overlap guard rejects a
// write. It is the authoritative counterpart of the advisory scheduler check
// and fires when a concurrent submission won the slot.
var ErrConflictingSlot = stderrors.New("conflicting time slot")

const eventColumns = `
	id, title, slug, description, category, location, event_date, start_time, end_time,
	max_participants, registration_deadline, approval_status, priority,
	organizer_name, teacher_name, teacher_email, created_by, created_at, updated_at`

// EventRepository handles event table access.
type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetApprovedEventsByDate(ctx context.Context, date time.Time, excludeID *uuid.UUID) ([]entity.Event, error)
	ListApproved(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error)
	ListPending(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	ApproveEvent(ctx context.Context, id uuid.UUID) error
	UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

// CreateEvent inserts the event. When the event is stored as approved the
// insert re-validates the absence of an overlapping approved event in the
// same statement; losing that race returns ErrConflictingSlot. A pending
// submission needs no guard since it is invisible until an admin approves it.
func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	guarded := `
		INSERT INTO events (title, slug, description, category, location, event_date,
		                    start_time, end_time, max_participants, registration_deadline,
		                    approval_status, priority, organizer_name, teacher_name, teacher_email, created_by)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		WHERE NOT EXISTS (
			SELECT 1 FROM events
			WHERE event_date = $6
			  AND approval_status = 'approved'
			  AND start_time < $8
			  AND end_time > $7
		)
		RETURNING` + eventColumns

	unguarded := `
		INSERT INTO events (title, slug, description, category, location, event_date,
		                    start_time, end_time, max_participants, registration_deadline,
		                    approval_status, priority, organizer_name, teacher_name, teacher_email, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING` + eventColumns

	query := unguarded
	if event.ApprovalStatus == entity.ApprovalStatusApproved {
		query = guarded
	}

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title, event.Slug, event.Description, event.Category, event.Location,
		event.EventDate, event.StartTime, event.EndTime, event.MaxParticipants,
		event.RegistrationDeadline, event.ApprovalStatus, event.Priority,
		event.OrganizerName, event.TeacherName, event.TeacherEmail, event.CreatedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrConflictingSlot
		}
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}
	return &event, nil
}

// GetApprovedEventsByDate returns the approved events on the given calendar
// date, the scheduler's existing set. excludeID skips the event being edited.
func (r *EventRepository) GetApprovedEventsByDate(ctx context.Context, date time.Time, excludeID *uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT` + eventColumns + `
		FROM events
		WHERE event_date = $1 AND approval_status = 'approved' AND ($2::uuid IS NULL OR id <> $2)
		ORDER BY start_time
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, date, excludeID)
	if err != nil {
		logger.Error("EventRepository:GetApprovedEventsByDate", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ListApproved(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error) {
	return r.listByStatus(ctx, entity.ApprovalStatusApproved, p)
}

func (r *EventRepository) ListPending(ctx context.Context, p params.QueryParams) ([]entity.Event, int, error) {
	return r.listByStatus(ctx, entity.ApprovalStatusPending, p)
}

func (r *EventRepository) listByStatus(ctx context.Context, status entity.ApprovalStatus, p params.QueryParams) ([]entity.Event, int, error) {
	baseQuery := `FROM events WHERE approval_status = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR category ILIKE '%' || $2 || '%')`

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, status, p.Search); err != nil {
		logger.Error("EventRepository:listByStatus:Count", err)
		return nil, 0, err
	}

	query := `SELECT` + eventColumns + ` ` + baseQuery + `
		ORDER BY event_date, start_time
		LIMIT $3 OFFSET $4`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, status, p.Search, p.PageSize, p.Offset()); err != nil {
		logger.Error("EventRepository:listByStatus:Select", err)
		return nil, 0, err
	}

	return events, totalItems, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE created_by = $1 ORDER BY created_at DESC`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, organizerID)
	if err != nil {
		logger.Error("EventRepository:ListByOrganizer", err)
		return nil, err
	}
	return events, nil
}

// UpdateEvent rewrites the mutable fields. When the event stays approved the
// same overlap guard applies against the other approved events of that date.
func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, slug = $3, description = $4, category = $5, location = $6,
		    event_date = $7, start_time = $8, end_time = $9, max_participants = $10,
		    registration_deadline = $11, approval_status = $12, teacher_name = $13,
		    teacher_email = $14, updated_at = NOW()
		WHERE id = $1
		  AND ($12 <> 'approved' OR NOT EXISTS (
			SELECT 1 FROM events
			WHERE event_date = $7
			  AND approval_status = 'approved'
			  AND id <> $1
			  AND start_time < $9
			  AND end_time > $8
		  ))
		RETURNING id
	`

	var id uuid.UUID
	err := r.DB.GetContext(ctx, &id, query,
		event.ID, event.Title, event.Slug, event.Description, event.Category,
		event.Location, event.EventDate, event.StartTime, event.EndTime,
		event.MaxParticipants, event.RegistrationDeadline, event.ApprovalStatus,
		event.TeacherName, event.TeacherEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrConflictingSlot
		}
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}
	return nil
}

// ApproveEvent flips a pending event to approved, guarded against an overlap
// with events approved since the submission was queued for review.
func (r *EventRepository) ApproveEvent(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE events e
		SET approval_status = 'approved', updated_at = NOW()
		WHERE e.id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM events o
			WHERE o.event_date = e.event_date
			  AND o.approval_status = 'approved'
			  AND o.id <> e.id
			  AND o.start_time < e.end_time
			  AND o.end_time > e.start_time
		  )
		RETURNING e.id
	`

	var approved uuid.UUID
	err := r.DB.GetContext(ctx, &approved, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrConflictingSlot
		}
		logger.Error("EventRepository:ApproveEvent", err)
		return err
	}
	return nil
}

func (r *EventRepository) UpdateApprovalStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	query := `UPDATE events SET approval_status = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("EventRepository:UpdateApprovalStatus", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}
