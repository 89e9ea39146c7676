package router

import (
	"campus-events/core/constants"
	"campus-events/core/middleware"
	"campus-events/modules/registration/controller"

	"github.com/labstack/echo/v4"
)

// RegistrationRouter registers registration and attendance routes.
type RegistrationRouter struct {
	RegistrationController *controller.RegistrationController
}

func NewRegistrationRouter(registrationController *controller.RegistrationController) *RegistrationRouter {
	return &RegistrationRouter{RegistrationController: registrationController}
}

func (r *RegistrationRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	// Registration actions hang off the event resource.
	events := e.Group("/events", mw.AuthMiddleware())
	events.POST("/:id/registrations", r.RegistrationController.Register, mw.RequireRole(constants.RoleStudent))
	events.DELETE("/:id/registrations", r.RegistrationController.Cancel, mw.RequireRole(constants.RoleStudent))
	events.GET("/:id/registrations/count", r.RegistrationController.GetCount)
	events.GET("/:id/registrations/me", r.RegistrationController.GetMine)

	organizerOnly := mw.RequireRole(constants.RoleOrganizer, constants.RoleAdmin)
	events.GET("/:id/registrations", r.RegistrationController.GetRoster, organizerOnly)
	events.POST("/:id/attendance/finalize", r.RegistrationController.FinalizeAttendance, organizerOnly)

	registrations := e.Group("/registrations", mw.AuthMiddleware())
	registrations.GET("/mine", r.RegistrationController.ListMine)
	registrations.GET("/counts", r.RegistrationController.GetCounts)
	registrations.PUT("/:id/attendance", r.RegistrationController.MarkAttendance, organizerOnly)
}
