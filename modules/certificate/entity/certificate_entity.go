package entity

import (
	"time"

	"github.com/google/uuid"
)

// Certificate records a participation certificate issued to a student for an
// event they attended. ObjectKey points at the uploaded artifact in object
// storage once the organizer attaches one.
type Certificate struct {
	ID           uuid.UUID `db:"id" json:"id"`
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	SerialNumber string    `db:"serial_number" json:"serial_number"`
	ObjectKey    *string   `db:"object_key" json:"-"`
	IssuedBy     uuid.UUID `db:"issued_by" json:"issued_by"`
	IssuedAt     time.Time `db:"issued_at" json:"issued_at"`
}

// CertificateDetails is a certificate joined with the event and student it
// belongs to, the shape shown on listings and verification.
type CertificateDetails struct {
	Certificate
	EventTitle  string    `db:"event_title" json:"event_title"`
	EventDate   time.Time `db:"event_date" json:"event_date"`
	StudentName string    `db:"student_name" json:"student_name"`
}
