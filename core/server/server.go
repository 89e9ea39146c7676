package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events/core/cache"
	"campus-events/core/config"
	"campus-events/core/database"
	"campus-events/core/logger"
	appmiddleware "campus-events/core/middleware"
	"campus-events/core/storage"
	"campus-events/core/tasks"
	"campus-events/modules/auth"
	"campus-events/modules/certificate"
	"campus-events/modules/event"
	"campus-events/modules/notification"
	"campus-events/modules/registration"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Run loads configuration, connects the backing services, mounts every module
// and serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel, cfg.Server.LogPretty)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	redisCache, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer redisCache.Close()

	taskClient := tasks.NewClient(cfg.Redis)
	defer taskClient.Close()

	worker := tasks.NewWorker(cfg.Redis)
	if err := worker.Start(); err != nil {
		return fmt.Errorf("start task worker: %w", err)
	}
	defer worker.Shutdown()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	mw := appmiddleware.NewMiddleware(redisCache)
	public := e.Group("/api/v1")
	private := e.Group("/api/v1/private")

	s3Store := storage.NewS3Storage(cfg.AWS)

	notifier := notification.Init(private, db, mw)
	event.Init(private, db, mw, notifier)
	registration.Init(private, db, mw, redisCache, taskClient, notifier)
	certificate.Init(private, public, db, mw, s3Store, notifier)
	auth.Init(private, public, db, mw, redisCache, cfg.GoogleAPI)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", err)
		}
	}()
	logger.Info("server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
