package dto

import "github.com/google/uuid"

// CreateNotificationRequest is raised internally by the event, registration
// and certificate services; there is no public create endpoint.
type CreateNotificationRequest struct {
	UserID  uuid.UUID      `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
}

type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
