package notification

import (
	"campus-events/core/database"
	"campus-events/core/middleware"
	"campus-events/modules/notification/controller"
	"campus-events/modules/notification/repository"
	"campus-events/modules/notification/router"
	"campus-events/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
