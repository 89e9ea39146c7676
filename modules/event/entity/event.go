package entity

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the review state of an event submission.
type ApprovalStatus string

const (
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// Event is an organizer submission on the campus calendar. Only approved
// events participate in conflict checks and are visible to students.
type Event struct {
	ID                   uuid.UUID      `db:"id" json:"id"`
	Title                string         `db:"title" json:"title"`
	Slug                 string         `db:"slug" json:"slug"`
	Description          *string        `db:"description" json:"description,omitempty"`
	Category             string         `db:"category" json:"category"`
	Location             string         `db:"location" json:"location"`
	EventDate            time.Time      `db:"event_date" json:"event_date"`
	StartTime            string         `db:"start_time" json:"start_time"` // HH:MM:SS from Postgres TIME
	EndTime              string         `db:"end_time" json:"end_time"`
	MaxParticipants      *int           `db:"max_participants" json:"max_participants,omitempty"`
	RegistrationDeadline *time.Time     `db:"registration_deadline" json:"registration_deadline,omitempty"`
	ApprovalStatus       ApprovalStatus `db:"approval_status" json:"approval_status"`
	Priority             int            `db:"priority" json:"priority"`
	OrganizerName        string         `db:"organizer_name" json:"organizer_name"`
	TeacherName          *string        `db:"teacher_name" json:"teacher_name,omitempty"`
	TeacherEmail         *string        `db:"teacher_email" json:"teacher_email,omitempty"`
	CreatedBy            uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// Window returns the event's time window; the zero window and false are
// returned when the stored times are malformed.
func (e *Event) Window() (TimeWindow, bool) {
	w, err := ParseTimeWindow(e.StartTime, e.EndTime)
	if err != nil {
		return TimeWindow{}, false
	}
	return w, true
}
