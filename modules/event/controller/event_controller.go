package controller

import (
	"campus-events/core/constants"
	"campus-events/core/controller"
	"campus-events/core/errors"
	"campus-events/core/params"
	"campus-events/core/utils"
	"campus-events/modules/event/dto"
	"campus-events/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests.
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func claimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}
	return claims, nil
}

// CheckConflict handles POST /events/check-conflict
// @Summary Check a candidate time slot
// @Description Advisory conflict probe for the event form; returns the routing decision and up to three free slots when the window collides
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckConflictRequest true "Candidate window"
// @Success 200 {object} dto.CheckConflictResponse
// @Failure 400 {object} errors.AppError
// @Router /private/events/check-conflict [post]
func (c *EventController) CheckConflict(ctx echo.Context) error {
	var req dto.CheckConflictRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.CheckConflict(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Conflict check completed")
}

// CreateEvent handles POST /events
// @Summary Submit a new event
// @Description Creates an event; a conflict-free window is auto-approved, a conflicting one goes to admin review with suggested free slots
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 200 {object} dto.CreateEventResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), claims.UserID, claims.FullName, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// ListEvents handles GET /events
// @Summary List approved events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Title or category filter"
// @Success 200 {object} dto.PaginatedEventResponse
// @Router /private/events [get]
func (c *EventController) ListEvents(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.EventService.ListApproved(ctx.Request().Context(), *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListMyEvents handles GET /events/mine
// @Summary List my events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /private/events/mine [get]
func (c *EventController) ListMyEvents(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.EventService.ListMine(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListPendingEvents handles GET /events/pending
// @Summary List events awaiting review
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PaginatedEventResponse
// @Router /private/events/pending [get]
func (c *EventController) ListPendingEvents(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.EventService.ListPending(ctx.Request().Context(), *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetEvent handles GET /events/:id
// @Summary Get event details
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEventByID(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateEvent handles PUT /events/:id
// @Summary Update an event
// @Description Edits an owned event; changing the date or times re-runs the conflict check and may re-route the event to review
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} dto.EventResponse
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	isAdmin := claims.Role == constants.RoleAdmin
	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), eventID, claims.UserID, isAdmin, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated successfully")
}

// DeleteEvent handles DELETE /events/:id
// @Summary Delete an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} errors.AppError
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	isAdmin := claims.Role == constants.RoleAdmin
	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), eventID, claims.UserID, isAdmin); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// ApproveEvent handles PUT /events/:id/approve
// @Summary Approve a pending event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id}/approve [put]
func (c *EventController) ApproveEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.ApproveEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event approved")
}

// RejectEvent handles PUT /events/:id/reject
// @Summary Reject a pending event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.RejectEventRequest false "Rejection reason"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id}/reject [put]
func (c *EventController) RejectEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.RejectEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.RejectEvent(ctx.Request().Context(), eventID, req.Reason)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event rejected")
}
