package event

import (
	"campus-events/core/database"
	"campus-events/core/middleware"
	"campus-events/modules/event/controller"
	"campus-events/modules/event/repository"
	"campus-events/modules/event/router"
	"campus-events/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers its routes. The returned
// service is shared with the registration and certificate modules.
func Init(e *echo.Group, db database.Database, mw *middleware.Middleware, notifier service.Notifier) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, notifier)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Register(e, mw)

	return svc
}
