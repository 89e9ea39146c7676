package router

import (
	"campus-events/core/constants"
	"campus-events/core/middleware"
	"campus-events/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter registers account and session routes.
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

// Register mounts the unauthenticated session endpoints on public and the
// profile and directory surface on private.
func (r *AuthRouter) Register(private, public *echo.Group, mw *middleware.Middleware) {
	auth := public.Group("/auth")
	auth.POST("/signup", r.AuthController.Signup)
	auth.POST("/login", r.AuthController.Login)
	auth.POST("/google", r.AuthController.GoogleLogin)
	auth.POST("/refresh", r.AuthController.Refresh)
	auth.POST("/forgot-password", r.AuthController.ForgotPassword)
	auth.POST("/reset-password", r.AuthController.ResetPassword)

	session := private.Group("/auth", mw.AuthMiddleware())
	session.POST("/logout", r.AuthController.Logout)

	users := private.Group("/users", mw.AuthMiddleware())
	users.GET("/me", r.AuthController.GetProfile)
	users.PUT("/me", r.AuthController.UpdateProfile)

	adminOnly := mw.RequireRole(constants.RoleAdmin)
	users.GET("", r.AuthController.ListUsers, adminOnly)
	users.PUT("/:id/role", r.AuthController.UpdateUserRole, adminOnly)
}
