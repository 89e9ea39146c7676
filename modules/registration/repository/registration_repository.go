package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"campus-events/core/database"
	"campus-events/core/logger"
	"campus-events/modules/registration/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Insert-time guard outcomes. Like the event overlap guard these are the
// authoritative checks; the service-level ones only produce friendlier errors
// for the common case.
var (
	ErrCapacityReached   = stderrors.New("event capacity reached")
	ErrAlreadyRegistered = stderrors.New("already registered for event")
)

const registrationColumns = `id, event_id, user_id, roll_number, status, is_present, registered_at`

// RegistrationRepository handles event_registrations table access.
type RegistrationRepository struct {
	DB database.Database
}

func NewRegistrationRepository(db database.Database) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

// RegistrationRepositoryInterface defines the repository contract.
type RegistrationRepositoryInterface interface {
	GetEventSummary(ctx context.Context, eventID uuid.UUID) (*entity.EventSummary, error)
	CreateRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error)
	GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error)
	GetRegistrationByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error)
	CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Registration, error)
	ListRoster(ctx context.Context, eventID uuid.UUID) ([]entity.RosterEntry, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	CountByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error)
	SetPresence(ctx context.Context, registrationID uuid.UUID, present bool) error
	ListPresent(ctx context.Context, eventID uuid.UUID) ([]entity.RosterEntry, error)
}

func (r *RegistrationRepository) GetEventSummary(ctx context.Context, eventID uuid.UUID) (*entity.EventSummary, error) {
	query := `
		SELECT id, title, event_date, start_time, end_time, max_participants,
		       registration_deadline, approval_status, organizer_name,
		       teacher_name, teacher_email, created_by
		FROM events WHERE id = $1`

	var summary entity.EventSummary
	err := r.DB.GetContext(ctx, &summary, query, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RegistrationRepository:GetEventSummary", err)
		return nil, err
	}
	return &summary, nil
}

// CreateRegistration inserts the registration with the capacity check built
// into the statement: a row is only written while the active registration
// count is below max_participants. A registration the student previously
// cancelled is revived in place through the upsert, subject to the same
// capacity check since cancelled rows no longer hold a seat. When the
// statement returns no row the existing registration tells an active
// duplicate (ErrAlreadyRegistered) apart from a full event
// (ErrCapacityReached). The student's roll number is snapshotted from the
// profile in the same statement.
func (r *RegistrationRepository) CreateRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	query := `
		INSERT INTO event_registrations (event_id, user_id, roll_number, status)
		SELECT $1, $2, (SELECT u.roll_number FROM users u WHERE u.id = $2), 'registered'
		WHERE (
			SELECT COALESCE(e.max_participants, 2147483647) FROM events e WHERE e.id = $1
		) > (
			SELECT COUNT(*) FROM event_registrations
			WHERE event_id = $1 AND status = 'registered'
		)
		ON CONFLICT (event_id, user_id) DO UPDATE
		SET status = 'registered', registered_at = NOW()
		WHERE event_registrations.status = 'cancelled'
		RETURNING ` + registrationColumns

	var created entity.Registration
	err := r.DB.GetContext(ctx, &created, query, eventID, userID)
	if err == nil {
		return &created, nil
	}
	if err != sql.ErrNoRows {
		logger.Error("RegistrationRepository:CreateRegistration", err)
		return nil, err
	}

	existing, lookupErr := r.GetRegistration(ctx, eventID, userID)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing != nil && existing.Status == entity.StatusRegistered {
		return nil, ErrAlreadyRegistered
	}
	return nil, ErrCapacityReached
}

func (r *RegistrationRepository) GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE event_id = $1 AND user_id = $2`

	var reg entity.Registration
	err := r.DB.GetContext(ctx, &reg, query, eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RegistrationRepository:GetRegistration", err)
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepository) GetRegistrationByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE id = $1`

	var reg entity.Registration
	err := r.DB.GetContext(ctx, &reg, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RegistrationRepository:GetRegistrationByID", err)
		return nil, err
	}
	return &reg, nil
}

// CancelRegistration flips an active registration to cancelled; it reports
// whether a row actually changed so the service can distinguish "not
// registered" from success.
func (r *RegistrationRepository) CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE event_registrations
		SET status = 'cancelled'
		WHERE event_id = $1 AND user_id = $2 AND status = 'registered'
		RETURNING id`

	var id uuid.UUID
	err := r.DB.GetContext(ctx, &id, query, eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		logger.Error("RegistrationRepository:CancelRegistration", err)
		return false, err
	}
	return true, nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM event_registrations
		WHERE user_id = $1 AND status = 'registered'
		ORDER BY registered_at DESC`

	var regs []entity.Registration
	if err := r.DB.SelectContext(ctx, &regs, query, userID); err != nil {
		logger.Error("RegistrationRepository:ListByUser", err)
		return nil, err
	}
	return regs, nil
}

func (r *RegistrationRepository) ListRoster(ctx context.Context, eventID uuid.UUID) ([]entity.RosterEntry, error) {
	return r.roster(ctx, eventID, false)
}

// ListPresent returns only the roster entries marked present, the body of the
// attendance report.
func (r *RegistrationRepository) ListPresent(ctx context.Context, eventID uuid.UUID) ([]entity.RosterEntry, error) {
	return r.roster(ctx, eventID, true)
}

func (r *RegistrationRepository) roster(ctx context.Context, eventID uuid.UUID, presentOnly bool) ([]entity.RosterEntry, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.roll_number, r.status, r.is_present,
		       r.registered_at, u.full_name, u.email
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.status = 'registered' AND ($2 = false OR r.is_present)
		ORDER BY u.full_name`

	var entries []entity.RosterEntry
	if err := r.DB.SelectContext(ctx, &entries, query, eventID, presentOnly); err != nil {
		logger.Error("RegistrationRepository:roster", err)
		return nil, err
	}
	return entries, nil
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = 'registered'`

	var count int
	if err := r.DB.GetContext(ctx, &count, query, eventID); err != nil {
		logger.Error("RegistrationRepository:CountByEvent", err)
		return 0, err
	}
	return count, nil
}

// CountByEvents returns active registration counts for a batch of events in
// one query. Events with no registrations are absent from the map.
func (r *RegistrationRepository) CountByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(eventIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	query := `
		SELECT event_id, COUNT(*) AS count
		FROM event_registrations
		WHERE event_id = ANY($1) AND status = 'registered'
		GROUP BY event_id`

	var rows []struct {
		EventID uuid.UUID `db:"event_id"`
		Count   int       `db:"count"`
	}
	if err := r.DB.SelectContext(ctx, &rows, query, pq.Array(eventIDs)); err != nil {
		logger.Error("RegistrationRepository:CountByEvents", err)
		return nil, err
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (r *RegistrationRepository) SetPresence(ctx context.Context, registrationID uuid.UUID, present bool) error {
	query := `UPDATE event_registrations SET is_present = $2 WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, registrationID, present); err != nil {
		logger.Error("RegistrationRepository:SetPresence", err)
		return err
	}
	return nil
}
