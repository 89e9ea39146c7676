package service

import (
	"context"
	"fmt"
	"io"

	"campus-events/core/errors"
	"campus-events/core/utils"
	"campus-events/modules/certificate/dto"
	"campus-events/modules/certificate/repository"
	notifentity "campus-events/modules/notification/entity"

	"github.com/google/uuid"
)

// ObjectStore is the slice of the storage layer the certificate flow needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	PresignDownload(ctx context.Context, key string) (string, error)
}

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]any)
}

// CertificateService issues participation certificates and serves their
// artifacts through presigned links. Eligibility (registered and marked
// present) is enforced by the insert statement.
type CertificateService struct {
	repo     repository.CertificateRepositoryInterface
	store    ObjectStore
	notifier Notifier
}

type CertificateServiceInterface interface {
	Issue(ctx context.Context, eventID, userID, actorID uuid.UUID, isAdmin bool) (*dto.CertificateResponse, *errors.AppError)
	ListMine(ctx context.Context, userID uuid.UUID) ([]dto.CertificateResponse, *errors.AppError)
	ListByEvent(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) ([]dto.CertificateResponse, *errors.AppError)
	Verify(ctx context.Context, serial string) (*dto.VerifyResponse, *errors.AppError)
	AttachArtifact(ctx context.Context, certID, actorID uuid.UUID, isAdmin bool, contentType string, body io.Reader) (*dto.CertificateResponse, *errors.AppError)
	GetDownloadURL(ctx context.Context, certID, actorID uuid.UUID, isAdmin bool) (*dto.DownloadURLResponse, *errors.AppError)
}

func NewCertificateService(repo repository.CertificateRepositoryInterface, store ObjectStore, notifier Notifier) CertificateServiceInterface {
	return &CertificateService{repo: repo, store: store, notifier: notifier}
}

// Issue creates a certificate for a student who attended the event. Only the
// event's organizer or an admin may issue.
func (s *CertificateService) Issue(ctx context.Context, eventID, userID, actorID uuid.UUID, isAdmin bool) (*dto.CertificateResponse, *errors.AppError) {
	if appErr := s.requireEventOwner(ctx, eventID, actorID, isAdmin); appErr != nil {
		return nil, appErr
	}

	serial := utils.GenerateSerial()
	cert, err := s.repo.CreateCertificate(ctx, eventID, userID, actorID, serial)
	if err != nil {
		switch err {
		case repository.ErrNotEligible:
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				"Student is not registered as present for this event", err)
		case repository.ErrAlreadyIssued:
			return nil, errors.NewAppError(errors.ErrAlreadyExists,
				"Certificate already issued for this student", err)
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to issue certificate", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, notifentity.TypeCertificateIssued,
			"Certificate issued",
			fmt.Sprintf("Your participation certificate %s is ready.", cert.SerialNumber),
			map[string]any{"certificate_id": cert.ID.String(), "serial_number": cert.SerialNumber})
	}

	resp := dto.ToCertificateResponse(cert)
	return &resp, nil
}

func (s *CertificateService) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.CertificateResponse, *errors.AppError) {
	certs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch certificates", err)
	}

	out := make([]dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		out = append(out, dto.ToCertificateDetailsResponse(&certs[i]))
	}
	return out, nil
}

func (s *CertificateService) ListByEvent(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) ([]dto.CertificateResponse, *errors.AppError) {
	if appErr := s.requireEventOwner(ctx, eventID, actorID, isAdmin); appErr != nil {
		return nil, appErr
	}

	certs, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch certificates", err)
	}

	out := make([]dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		out = append(out, dto.ToCertificateDetailsResponse(&certs[i]))
	}
	return out, nil
}

// Verify answers a serial-number lookup. An unknown serial is a valid answer
// (valid=false), not an error.
func (s *CertificateService) Verify(ctx context.Context, serial string) (*dto.VerifyResponse, *errors.AppError) {
	cert, err := s.repo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to verify certificate", err)
	}
	if cert == nil {
		return &dto.VerifyResponse{Valid: false}, nil
	}

	resp := dto.ToCertificateDetailsResponse(cert)
	return &dto.VerifyResponse{Valid: true, Certificate: &resp}, nil
}

// AttachArtifact uploads the rendered certificate file and links it to the
// record. Only the issuing organizer or an admin may attach.
func (s *CertificateService) AttachArtifact(ctx context.Context, certID, actorID uuid.UUID, isAdmin bool, contentType string, body io.Reader) (*dto.CertificateResponse, *errors.AppError) {
	cert, err := s.repo.GetByID(ctx, certID)
	if err != nil || cert == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Certificate not found", err)
	}
	if appErr := s.requireEventOwner(ctx, cert.EventID, actorID, isAdmin); appErr != nil {
		return nil, appErr
	}
	if s.store == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Object storage is not configured", nil)
	}

	key := fmt.Sprintf("certificates/%s/%s.pdf", cert.EventID, cert.SerialNumber)
	if err := s.store.Upload(ctx, key, contentType, body); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to upload certificate artifact", err)
	}
	if err := s.repo.SetObjectKey(ctx, certID, key); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to link certificate artifact", err)
	}

	cert.ObjectKey = &key
	resp := dto.ToCertificateDetailsResponse(cert)
	return &resp, nil
}

// GetDownloadURL hands out a presigned link to the certificate artifact. The
// certificate's owner, the issuing organizer and admins may download.
func (s *CertificateService) GetDownloadURL(ctx context.Context, certID, actorID uuid.UUID, isAdmin bool) (*dto.DownloadURLResponse, *errors.AppError) {
	cert, err := s.repo.GetByID(ctx, certID)
	if err != nil || cert == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Certificate not found", err)
	}
	if !isAdmin && cert.UserID != actorID && cert.IssuedBy != actorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Not authorized to download this certificate", nil)
	}
	if cert.ObjectKey == nil || *cert.ObjectKey == "" {
		return nil, errors.NewAppError(errors.ErrNotFound, "Certificate has no artifact yet", nil)
	}
	if s.store == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Object storage is not configured", nil)
	}

	url, err := s.store.PresignDownload(ctx, *cert.ObjectKey)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to presign download", err)
	}

	return &dto.DownloadURLResponse{SerialNumber: cert.SerialNumber, URL: url}, nil
}

func (s *CertificateService) requireEventOwner(ctx context.Context, eventID, actorID uuid.UUID, isAdmin bool) *errors.AppError {
	owner, found, err := s.repo.GetEventOwner(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to fetch event", err)
	}
	if !found {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if !isAdmin && owner != actorID {
		return errors.NewAppError(errors.ErrForbidden, "Not authorized to manage certificates for this event", nil)
	}
	return nil
}
