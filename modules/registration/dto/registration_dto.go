package dto

import (
	"time"

	"campus-events/modules/registration/entity"
)

type RegisterRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

type MarkAttendanceRequest struct {
	IsPresent bool `json:"is_present"`
}

type RegistrationResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	RollNumber   string    `json:"roll_number,omitempty"`
	Status       string    `json:"status"`
	IsPresent    bool      `json:"is_present"`
	RegisteredAt time.Time `json:"registered_at"`
}

type RosterEntryResponse struct {
	RegistrationResponse
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// RegistrationCountResponse is the poll answer for an event's live count.
type RegistrationCountResponse struct {
	EventID string `json:"event_id"`
	Count   int    `json:"count"`
}

type FinalizeAttendanceResponse struct {
	EventID      string `json:"event_id"`
	PresentCount int    `json:"present_count"`
	ReportQueued bool   `json:"report_queued"`
}

func ToRegistrationResponse(r *entity.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:           r.ID.String(),
		EventID:      r.EventID.String(),
		UserID:       r.UserID.String(),
		Status:       string(r.Status),
		IsPresent:    r.IsPresent,
		RegisteredAt: r.RegisteredAt,
	}
	if r.RollNumber != nil {
		resp.RollNumber = *r.RollNumber
	}
	return resp
}

func ToRosterResponse(entries []entity.RosterEntry) []RosterEntryResponse {
	out := make([]RosterEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, RosterEntryResponse{
			RegistrationResponse: ToRegistrationResponse(&entries[i].Registration),
			FullName:             entries[i].FullName,
			Email:                entries[i].Email,
		})
	}
	return out
}
