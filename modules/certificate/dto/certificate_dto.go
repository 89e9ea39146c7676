package dto

import (
	"time"

	"campus-events/modules/certificate/entity"
)

type IssueCertificateRequest struct {
	EventID string `json:"event_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

type CertificateResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	SerialNumber string    `json:"serial_number"`
	EventTitle   string    `json:"event_title,omitempty"`
	EventDate    string    `json:"event_date,omitempty"`
	StudentName  string    `json:"student_name,omitempty"`
	HasArtifact  bool      `json:"has_artifact"`
	IssuedAt     time.Time `json:"issued_at"`
}

type DownloadURLResponse struct {
	SerialNumber string `json:"serial_number"`
	URL          string `json:"url"`
}

// VerifyResponse answers a public serial-number lookup.
type VerifyResponse struct {
	Valid       bool                 `json:"valid"`
	Certificate *CertificateResponse `json:"certificate,omitempty"`
}

func ToCertificateResponse(c *entity.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:           c.ID.String(),
		EventID:      c.EventID.String(),
		UserID:       c.UserID.String(),
		SerialNumber: c.SerialNumber,
		HasArtifact:  c.ObjectKey != nil && *c.ObjectKey != "",
		IssuedAt:     c.IssuedAt,
	}
}

func ToCertificateDetailsResponse(c *entity.CertificateDetails) CertificateResponse {
	resp := ToCertificateResponse(&c.Certificate)
	resp.EventTitle = c.EventTitle
	resp.EventDate = c.EventDate.Format("2006-01-02")
	resp.StudentName = c.StudentName
	return resp
}
