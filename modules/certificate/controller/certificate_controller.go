package controller

import (
	"campus-events/core/constants"
	"campus-events/core/controller"
	"campus-events/core/errors"
	"campus-events/core/utils"
	"campus-events/modules/certificate/dto"
	"campus-events/modules/certificate/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CertificateController handles certificate HTTP requests.
type CertificateController struct {
	controller.BaseController
	CertificateService service.CertificateServiceInterface
}

func NewCertificateController(svc service.CertificateServiceInterface) *CertificateController {
	return &CertificateController{
		BaseController:     controller.NewBaseController(),
		CertificateService: svc,
	}
}

func claimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}
	return claims, nil
}

// Issue handles POST /certificates
// @Summary Issue a participation certificate
// @Description Issues a certificate to a student who was registered and marked present; organizer of the event or admin only
// @Tags Certificate
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.IssueCertificateRequest true "Event and student"
// @Success 200 {object} dto.CertificateResponse
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/certificates [post]
func (c *CertificateController) Issue(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.IssueCertificateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user id")
	}

	result, appErr := c.CertificateService.Issue(ctx.Request().Context(), eventID, userID,
		claims.UserID, claims.Role == constants.RoleAdmin)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Certificate issued")
}

// ListMine handles GET /certificates/mine
// @Summary List my certificates
// @Tags Certificate
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.CertificateResponse
// @Router /private/certificates/mine [get]
func (c *CertificateController) ListMine(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.CertificateService.ListMine(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListByEvent handles GET /events/:id/certificates
// @Summary List certificates issued for an event
// @Tags Certificate
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.CertificateResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/certificates [get]
func (c *CertificateController) ListByEvent(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.CertificateService.ListByEvent(ctx.Request().Context(), eventID,
		claims.UserID, claims.Role == constants.RoleAdmin)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Verify handles GET /certificates/verify/:serial
// @Summary Verify a certificate by serial number
// @Description Public lookup; an unknown serial returns valid=false
// @Tags Certificate
// @Produce json
// @Param serial path string true "Serial number"
// @Success 200 {object} dto.VerifyResponse
// @Router /certificates/verify/{serial} [get]
func (c *CertificateController) Verify(ctx echo.Context) error {
	serial := ctx.Param("serial")
	if serial == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Serial number is required")
	}

	result, appErr := c.CertificateService.Verify(ctx.Request().Context(), serial)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// AttachArtifact handles POST /certificates/:id/artifact
// @Summary Upload the rendered certificate file
// @Tags Certificate
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Certificate ID"
// @Param file formData file true "Certificate file"
// @Success 200 {object} dto.CertificateResponse
// @Failure 403 {object} errors.AppError
// @Router /private/certificates/{id}/artifact [post]
func (c *CertificateController) AttachArtifact(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	certID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid certificate id")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Missing file upload")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Unreadable file upload")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	result, appErr := c.CertificateService.AttachArtifact(ctx.Request().Context(), certID,
		claims.UserID, claims.Role == constants.RoleAdmin, contentType, file)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Artifact attached")
}

// Download handles GET /certificates/:id/download
// @Summary Presigned download link for a certificate
// @Tags Certificate
// @Security BearerAuth
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} dto.DownloadURLResponse
// @Failure 403 {object} errors.AppError
// @Router /private/certificates/{id}/download [get]
func (c *CertificateController) Download(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	certID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid certificate id")
	}

	result, appErr := c.CertificateService.GetDownloadURL(ctx.Request().Context(), certID,
		claims.UserID, claims.Role == constants.RoleAdmin)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
