package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"campus-events/core/database"
	"campus-events/core/logger"
	"campus-events/modules/certificate/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Issue-time guard outcomes.
var (
	ErrNotEligible   = stderrors.New("student not eligible for certificate")
	ErrAlreadyIssued = stderrors.New("certificate already issued")
)

const certificateColumns = `id, event_id, user_id, serial_number, object_key, issued_by, issued_at`

const detailColumns = `
	c.id, c.event_id, c.user_id, c.serial_number, c.object_key, c.issued_by, c.issued_at,
	e.title AS event_title, e.event_date, u.full_name AS student_name`

// CertificateRepository handles certificates table access.
type CertificateRepository struct {
	DB database.Database
}

func NewCertificateRepository(db database.Database) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// CertificateRepositoryInterface defines the repository contract.
type CertificateRepositoryInterface interface {
	CreateCertificate(ctx context.Context, eventID, userID, issuedBy uuid.UUID, serial string) (*entity.Certificate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CertificateDetails, error)
	GetBySerial(ctx context.Context, serial string) (*entity.CertificateDetails, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.CertificateDetails, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.CertificateDetails, error)
	SetObjectKey(ctx context.Context, id uuid.UUID, key string) error
	GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, bool, error)
}

// CreateCertificate inserts the certificate with the eligibility check in the
// statement: the student must hold an active registration marked present.
// An ineligible student returns ErrNotEligible; the unique
// (event_id, user_id) index turns a re-issue into ErrAlreadyIssued.
func (r *CertificateRepository) CreateCertificate(ctx context.Context, eventID, userID, issuedBy uuid.UUID, serial string) (*entity.Certificate, error) {
	query := `
		INSERT INTO certificates (event_id, user_id, serial_number, issued_by)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (
			SELECT 1 FROM event_registrations
			WHERE event_id = $1 AND user_id = $2 AND status = 'registered' AND is_present
		)
		RETURNING ` + certificateColumns

	var created entity.Certificate
	err := r.DB.GetContext(ctx, &created, query, eventID, userID, serial, issuedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotEligible
		}
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyIssued
		}
		logger.Error("CertificateRepository:CreateCertificate", err)
		return nil, err
	}
	return &created, nil
}

func (r *CertificateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CertificateDetails, error) {
	return r.getDetails(ctx, "c.id = $1", id)
}

func (r *CertificateRepository) GetBySerial(ctx context.Context, serial string) (*entity.CertificateDetails, error) {
	return r.getDetails(ctx, "c.serial_number = $1", serial)
}

func (r *CertificateRepository) getDetails(ctx context.Context, where string, arg any) (*entity.CertificateDetails, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM certificates c
		JOIN events e ON e.id = c.event_id
		JOIN users u ON u.id = c.user_id
		WHERE ` + where

	var cert entity.CertificateDetails
	err := r.DB.GetContext(ctx, &cert, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CertificateRepository:getDetails", err)
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.CertificateDetails, error) {
	return r.list(ctx, "c.user_id = $1", userID)
}

func (r *CertificateRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.CertificateDetails, error) {
	return r.list(ctx, "c.event_id = $1", eventID)
}

func (r *CertificateRepository) list(ctx context.Context, where string, arg any) ([]entity.CertificateDetails, error) {
	query := `
		SELECT ` + detailColumns + `
		FROM certificates c
		JOIN events e ON e.id = c.event_id
		JOIN users u ON u.id = c.user_id
		WHERE ` + where + `
		ORDER BY c.issued_at DESC`

	var certs []entity.CertificateDetails
	if err := r.DB.SelectContext(ctx, &certs, query, arg); err != nil {
		logger.Error("CertificateRepository:list", err)
		return nil, err
	}
	return certs, nil
}

// GetEventOwner resolves the organizer who created the event, used for the
// issue-permission check.
func (r *CertificateRepository) GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, bool, error) {
	query := `SELECT created_by FROM events WHERE id = $1`

	var owner uuid.UUID
	err := r.DB.GetContext(ctx, &owner, query, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, false, nil
		}
		logger.Error("CertificateRepository:GetEventOwner", err)
		return uuid.Nil, false, err
	}
	return owner, true, nil
}

func (r *CertificateRepository) SetObjectKey(ctx context.Context, id uuid.UUID, key string) error {
	query := `UPDATE certificates SET object_key = $2 WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, key); err != nil {
		logger.Error("CertificateRepository:SetObjectKey", err)
		return err
	}
	return nil
}
