package controller

import (
	"campus-events/core/constants"
	"campus-events/core/controller"
	"campus-events/core/errors"
	"campus-events/core/params"
	"campus-events/core/utils"
	"campus-events/modules/auth/dto"
	"campus-events/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthController handles account and session HTTP requests.
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

func claimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}
	return claims, nil
}

// Signup handles POST /auth/signup
// @Summary Create a password account
// @Description Registers a student account and returns a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account details"
// @Success 200 {object} dto.TokenResponse
// @Failure 409 {object} errors.AppError
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx echo.Context) error {
	var req dto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.BadRequest(errors.ErrInvalidInput, "email, password and full_name are required")
	}

	result, appErr := c.AuthService.Signup(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Account created")
}

// Login handles POST /auth/login
// @Summary Password login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} errors.AppError
// @Router /auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.AuthService.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in")
}

// GoogleLogin handles POST /auth/google
// @Summary Google sign-in
// @Description Exchanges a Google OAuth authorization code for a token pair, creating the account on first sign-in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleLoginRequest true "Authorization code"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} errors.AppError
// @Router /auth/google [post]
func (c *AuthController) GoogleLogin(ctx echo.Context) error {
	var req dto.GoogleLoginRequest
	if err := ctx.Bind(&req); err != nil || req.Code == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Authorization code is required")
	}

	result, appErr := c.AuthService.GoogleLogin(ctx.Request().Context(), req.Code)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in")
}

// Refresh handles POST /auth/refresh
// @Summary Rotate the token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} errors.AppError
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx echo.Context) error {
	var req dto.RefreshRequest
	if err := ctx.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Refresh token is required")
	}

	result, appErr := c.AuthService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Token refreshed")
}

// ForgotPassword handles POST /auth/forgot-password
// @Summary Request a password reset
// @Description Emails a short-lived reset code; responds the same whether or not the email is registered
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} controller.SuccessResponse
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.Bind(&req); err != nil || req.Email == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Email is required")
	}

	if appErr := c.AuthService.ForgotPassword(ctx.Request().Context(), req.Email); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "If the email is registered, a reset code has been sent")
}

// ResetPassword handles POST /auth/reset-password
// @Summary Reset the password with an emailed code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset code and new password"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := ctx.Bind(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		return c.BadRequest(errors.ErrInvalidRequestData, "Token and new password are required")
	}

	if appErr := c.AuthService.ResetPassword(ctx.Request().Context(), req.Token, req.NewPassword); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Password updated")
}

// Logout handles POST /auth/logout
// @Summary Revoke the current access token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /private/auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	token, appErr := utils.GetTokenFromHeader(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	if appErr := c.AuthService.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out")
}

// GetProfile handles GET /users/me
// @Summary Current user's profile
// @Tags User
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Router /private/users/me [get]
func (c *AuthController) GetProfile(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AuthService.GetProfile(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateProfile handles PUT /users/me
// @Summary Update the current user's profile
// @Tags User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserResponse
// @Router /private/users/me [put]
func (c *AuthController) UpdateProfile(ctx echo.Context) error {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.UpdateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.AuthService.UpdateProfile(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Profile updated")
}

// ListUsers handles GET /users
// @Summary User directory
// @Tags User
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Name or email filter"
// @Success 200 {object} dto.PaginatedUserResponse
// @Router /private/users [get]
func (c *AuthController) ListUsers(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.AuthService.ListUsers(ctx.Request().Context(), *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateUserRole handles PUT /users/:id/role
// @Summary Change a user's role
// @Tags User
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateRoleRequest true "New role"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} errors.AppError
// @Router /private/users/{id}/role [put]
func (c *AuthController) UpdateUserRole(ctx echo.Context) error {
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user id")
	}

	var req dto.UpdateRoleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.AuthService.UpdateUserRole(ctx.Request().Context(), userID, req.Role)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Role updated")
}
