package certificate

import (
	"campus-events/core/database"
	"campus-events/core/middleware"
	"campus-events/modules/certificate/controller"
	"campus-events/modules/certificate/repository"
	"campus-events/modules/certificate/router"
	"campus-events/modules/certificate/service"

	"github.com/labstack/echo/v4"
)

// Init wires the certificate module and mounts its routes.
func Init(private, public *echo.Group, db database.Database, mw *middleware.Middleware, store service.ObjectStore, notifier service.Notifier) service.CertificateServiceInterface {
	repo := repository.NewCertificateRepository(db)
	svc := service.NewCertificateService(repo, store, notifier)
	ctrl := controller.NewCertificateController(svc)
	router.NewCertificateRouter(ctrl).Register(private, public, mw)
	return svc
}
