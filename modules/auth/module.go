package auth

import (
	"campus-events/core/cache"
	"campus-events/core/config"
	"campus-events/core/database"
	"campus-events/core/middleware"
	"campus-events/modules/auth/controller"
	"campus-events/modules/auth/repository"
	"campus-events/modules/auth/router"
	"campus-events/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init wires the auth module and mounts its routes.
func Init(private, public *echo.Group, db database.Database, mw *middleware.Middleware, c *cache.Cache, googleCfg config.GoogleAPIConfig) service.AuthServiceInterface {
	var google service.GoogleExchanger
	if googleCfg.ClientID != "" {
		google = service.NewGoogleExchanger(googleCfg)
	}

	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c, google)
	ctrl := controller.NewAuthController(svc)
	router.NewAuthRouter(ctrl).Register(private, public, mw)
	return svc
}
