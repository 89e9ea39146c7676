package entity

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus is the lifecycle state of a student's registration.
type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusCancelled  RegistrationStatus = "cancelled"
)

// Registration links a student to an event. RollNumber is snapshotted from
// the student's profile at registration time so the attendance report stays
// correct even if the profile changes later.
type Registration struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	EventID      uuid.UUID          `db:"event_id" json:"event_id"`
	UserID       uuid.UUID          `db:"user_id" json:"user_id"`
	RollNumber   *string            `db:"roll_number" json:"roll_number,omitempty"`
	Status       RegistrationStatus `db:"status" json:"status"`
	IsPresent    bool               `db:"is_present" json:"is_present"`
	RegisteredAt time.Time          `db:"registered_at" json:"registered_at"`
}

// RosterEntry is a registration joined with the student's profile, shown to
// the organizer on the attendance screen.
type RosterEntry struct {
	Registration
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}

// EventSummary is the slice of an event the registration flow needs: enough
// to enforce the approved-only and deadline rules and to address the
// attendance report.
type EventSummary struct {
	ID                   uuid.UUID  `db:"id"`
	Title                string     `db:"title"`
	EventDate            time.Time  `db:"event_date"`
	StartTime            string     `db:"start_time"`
	EndTime              string     `db:"end_time"`
	MaxParticipants      *int       `db:"max_participants"`
	RegistrationDeadline *time.Time `db:"registration_deadline"`
	ApprovalStatus       string     `db:"approval_status"`
	OrganizerName        string     `db:"organizer_name"`
	TeacherName          *string    `db:"teacher_name"`
	TeacherEmail         *string    `db:"teacher_email"`
	CreatedBy            uuid.UUID  `db:"created_by"`
}
