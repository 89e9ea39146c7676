package dto

import (
	"time"

	"campus-events/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for submitting a new event. Times are HH:MM, the date is
// YYYY-MM-DD.
type CreateEventRequest struct {
	Title                string `json:"title" validate:"required"`
	Description          string `json:"description"`
	Category             string `json:"category"`
	Location             string `json:"location" validate:"required"`
	EventDate            string `json:"event_date" validate:"required"`
	StartTime            string `json:"start_time" validate:"required"`
	EndTime              string `json:"end_time" validate:"required"`
	MaxParticipants      int    `json:"max_participants"`
	RegistrationDeadline string `json:"registration_deadline"` // RFC3339, optional
	TeacherName          string `json:"teacher_name"`
	TeacherEmail         string `json:"teacher_email"`
}

// UpdateEventRequest for editing an event the organizer owns. Empty fields
// are left unchanged; changing date or times re-runs the conflict check.
type UpdateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Location        string `json:"location"`
	EventDate       string `json:"event_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	MaxParticipants int    `json:"max_participants"`
	TeacherName     string `json:"teacher_name"`
	TeacherEmail    string `json:"teacher_email"`
}

// CheckConflictRequest for the advisory pre-submission conflict probe.
type CheckConflictRequest struct {
	EventDate string `json:"event_date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// RejectEventRequest carries the optional admin note shown to the organizer.
type RejectEventRequest struct {
	Reason string `json:"reason"`
}

// ===================== Response DTOs =====================

// SuggestedSlotDTO is one free window offered to the organizer.
type SuggestedSlotDTO struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CheckConflictResponse is the advisory scheduler verdict. SuggestedSlots is
// only populated when a conflict was found.
type CheckConflictResponse struct {
	HasConflict    bool               `json:"has_conflict"`
	ApprovalStatus string             `json:"approval_status"`
	SuggestedSlots []SuggestedSlotDTO `json:"suggested_slots"`
}

// EventResponse for event details.
type EventResponse struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Slug                 string     `json:"slug"`
	Description          string     `json:"description,omitempty"`
	Category             string     `json:"category"`
	Location             string     `json:"location"`
	EventDate            string     `json:"event_date"`
	StartTime            string     `json:"start_time"`
	EndTime              string     `json:"end_time"`
	MaxParticipants      int        `json:"max_participants,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	ApprovalStatus       string     `json:"approval_status"`
	Priority             int        `json:"priority"`
	OrganizerName        string     `json:"organizer_name"`
	TeacherName          string     `json:"teacher_name,omitempty"`
	TeacherEmail         string     `json:"teacher_email,omitempty"`
	CreatedBy            string     `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
}

// CreateEventResponse couples the stored event with the scheduler verdict so
// the organizer immediately sees why the submission went to review.
type CreateEventResponse struct {
	Event          EventResponse      `json:"event"`
	HasConflict    bool               `json:"has_conflict"`
	SuggestedSlots []SuggestedSlotDTO `json:"suggested_slots,omitempty"`
}

// PaginatedEventResponse for event listings.
type PaginatedEventResponse struct {
	Items      []EventResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
}

// ===================== Mapper Functions =====================

func ToEventResponse(e *entity.Event) *EventResponse {
	resp := &EventResponse{
		ID:                   e.ID.String(),
		Title:                e.Title,
		Slug:                 e.Slug,
		Category:             e.Category,
		Location:             e.Location,
		EventDate:            e.EventDate.Format("2006-01-02"),
		StartTime:            clockOf(e.StartTime),
		EndTime:              clockOf(e.EndTime),
		RegistrationDeadline: e.RegistrationDeadline,
		ApprovalStatus:       string(e.ApprovalStatus),
		Priority:             e.Priority,
		OrganizerName:        e.OrganizerName,
		CreatedBy:            e.CreatedBy.String(),
		CreatedAt:            e.CreatedAt,
	}

	if e.Description != nil {
		resp.Description = *e.Description
	}
	if e.MaxParticipants != nil {
		resp.MaxParticipants = *e.MaxParticipants
	}
	if e.TeacherName != nil {
		resp.TeacherName = *e.TeacherName
	}
	if e.TeacherEmail != nil {
		resp.TeacherEmail = *e.TeacherEmail
	}

	return resp
}

func ToSuggestedSlots(slots []entity.TimeWindow) []SuggestedSlotDTO {
	result := make([]SuggestedSlotDTO, 0, len(slots))
	for _, s := range slots {
		result = append(result, SuggestedSlotDTO{
			StartTime: s.Start(),
			EndTime:   s.End(),
		})
	}
	return result
}

// clockOf trims Postgres TIME values (HH:MM:SS) to HH:MM for responses.
func clockOf(t string) string {
	if m, err := entity.ParseClock(t); err == nil {
		return entity.FormatClock(m)
	}
	return t
}
