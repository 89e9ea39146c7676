package controller

import (
	"strings"

	"campus-events/core/constants"
	"campus-events/core/controller"
	"campus-events/core/errors"
	"campus-events/core/utils"
	"campus-events/modules/registration/dto"
	"campus-events/modules/registration/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RegistrationController handles registration and attendance HTTP requests.
type RegistrationController struct {
	controller.BaseController
	RegistrationService service.RegistrationServiceInterface
}

func NewRegistrationController(svc service.RegistrationServiceInterface) *RegistrationController {
	return &RegistrationController{
		BaseController:      controller.NewBaseController(),
		RegistrationService: svc,
	}
}

func claimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}
	return claims, nil
}

// Register handles POST /events/:id/registrations
// @Summary Register for an event
// @Description Registers the current student for an approved event; fails once capacity is reached or the deadline has passed
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 409 {object} errors.AppError
// @Failure 422 {object} errors.AppError
// @Router /private/events/{id}/registrations [post]
func (c *RegistrationController) Register(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.RegistrationService.Register(ctx.Request().Context(), eventID, claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Registered successfully")
}

// GetMine handles GET /events/:id/registrations/me
// @Summary Get my registration for an event
// @Description Returns the caller's registration for the event, including a cancelled one
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id}/registrations/me [get]
func (c *RegistrationController) GetMine(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.RegistrationService.GetMine(ctx.Request().Context(), eventID, claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Registration fetched successfully")
}

// Cancel handles DELETE /events/:id/registrations
// @Summary Cancel a registration
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/events/{id}/registrations [delete]
func (c *RegistrationController) Cancel(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	if appErr := c.RegistrationService.Cancel(ctx.Request().Context(), eventID, claims.UserID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Registration cancelled")
}

// ListMine handles GET /registrations/mine
// @Summary List my registrations
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.RegistrationResponse
// @Router /private/registrations/mine [get]
func (c *RegistrationController) ListMine(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.RegistrationService.ListMine(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetRoster handles GET /events/:id/registrations
// @Summary Event attendance roster
// @Description Lists registered students with presence flags; restricted to the event's organizer and admins
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.RosterEntryResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/registrations [get]
func (c *RegistrationController) GetRoster(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.RegistrationService.GetRoster(ctx.Request().Context(), eventID, claims.UserID, claims.Role == constants.RoleAdmin)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetCount handles GET /events/:id/registrations/count
// @Summary Live registration count
// @Description Poll endpoint for the registration counter; served from a short-lived cache
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RegistrationCountResponse
// @Router /private/events/{id}/registrations/count [get]
func (c *RegistrationController) GetCount(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.RegistrationService.GetCount(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetCounts handles GET /registrations/counts?event_ids=a,b,c
// @Summary Registration counts for multiple events
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Param event_ids query string true "Comma-separated event IDs"
// @Success 200 {array} dto.RegistrationCountResponse
// @Router /private/registrations/counts [get]
func (c *RegistrationController) GetCounts(ctx echo.Context) error {
	raw := strings.Split(ctx.QueryParam("event_ids"), ",")
	ids := make([]uuid.UUID, 0, len(raw))
	for _, part := range raw {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid event id: "+part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return c.BadRequest(errors.ErrInvalidInput, "event_ids is required")
	}

	result, appErr := c.RegistrationService.GetCounts(ctx.Request().Context(), ids)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// MarkAttendance handles PUT /registrations/:id/attendance
// @Summary Toggle a student's presence flag
// @Tags Registration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param request body dto.MarkAttendanceRequest true "Presence flag"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 403 {object} errors.AppError
// @Router /private/registrations/{id}/attendance [put]
func (c *RegistrationController) MarkAttendance(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	registrationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid registration id")
	}

	var req dto.MarkAttendanceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.RegistrationService.MarkAttendance(ctx.Request().Context(), registrationID,
		claims.UserID, claims.Role == constants.RoleAdmin, req.IsPresent)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Attendance updated")
}

// FinalizeAttendance handles POST /events/:id/attendance/finalize
// @Summary Finalize attendance and email the report
// @Description Queues the HTML attendance report listing all present students to the event's teacher
// @Tags Registration
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.FinalizeAttendanceResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id}/attendance/finalize [post]
func (c *RegistrationController) FinalizeAttendance(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event id")
	}

	result, appErr := c.RegistrationService.FinalizeAttendance(ctx.Request().Context(), eventID,
		claims.UserID, claims.Role == constants.RoleAdmin)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Attendance finalized")
}
