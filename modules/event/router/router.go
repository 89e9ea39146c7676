package router

import (
	"campus-events/core/constants"
	"campus-events/core/middleware"
	"campus-events/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter registers event routes.
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

func (r *EventRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	events := e.Group("/events", mw.AuthMiddleware())

	// Browsing, open to every authenticated role
	events.GET("", r.EventController.ListEvents)
	events.GET("/:id", r.EventController.GetEvent)

	// Organizer surface
	organizerOnly := mw.RequireRole(constants.RoleOrganizer, constants.RoleAdmin)
	events.POST("", r.EventController.CreateEvent, organizerOnly)
	events.POST("/check-conflict", r.EventController.CheckConflict, organizerOnly)
	events.GET("/mine", r.EventController.ListMyEvents, organizerOnly)
	events.PUT("/:id", r.EventController.UpdateEvent, organizerOnly)
	events.DELETE("/:id", r.EventController.DeleteEvent, organizerOnly)

	// Admin review queue
	adminOnly := mw.RequireRole(constants.RoleAdmin)
	events.GET("/pending", r.EventController.ListPendingEvents, adminOnly)
	events.PUT("/:id/approve", r.EventController.ApproveEvent, adminOnly)
	events.PUT("/:id/reject", r.EventController.RejectEvent, adminOnly)
}
