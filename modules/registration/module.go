package registration

import (
	"campus-events/core/cache"
	"campus-events/core/database"
	"campus-events/core/middleware"
	"campus-events/core/tasks"
	"campus-events/modules/registration/controller"
	"campus-events/modules/registration/repository"
	"campus-events/modules/registration/router"
	"campus-events/modules/registration/service"

	"github.com/labstack/echo/v4"
)

// Init wires the registration module and mounts its routes.
func Init(e *echo.Group, db database.Database, mw *middleware.Middleware, c *cache.Cache, t *tasks.Client, notifier service.Notifier) service.RegistrationServiceInterface {
	repo := repository.NewRegistrationRepository(db)
	svc := service.NewRegistrationService(repo, c, t, notifier)
	ctrl := controller.NewRegistrationController(svc)
	router.NewRegistrationRouter(ctrl).Register(e, mw)
	return svc
}
