package service

import (
	"context"
	"fmt"
	"time"

	"campus-events/core/config"
	"campus-events/core/constants"
	"campus-events/core/errors"
	"campus-events/core/logger"
	"campus-events/core/params"
	"campus-events/core/utils"
	"campus-events/modules/auth/dto"
	"campus-events/modules/auth/entity"
	"campus-events/modules/auth/repository"

	"github.com/google/uuid"
)

// SessionStore is the slice of the Redis cache the auth flows need: the
// token blacklist and one-shot password reset tokens.
type SessionStore interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	SetPasswordResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	ConsumePasswordResetToken(ctx context.Context, token string) (uuid.UUID, bool, error)
}

// AuthService implements account lifecycle: signup, password and Google
// login, token refresh with rotation, logout via blacklist, password reset,
// profiles and the admin user directory.
type AuthService struct {
	repo   repository.AuthRepositoryInterface
	cache  SessionStore
	google GoogleExchanger
}

type AuthServiceInterface interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError)
	GoogleLogin(ctx context.Context, code string) (*dto.TokenResponse, *errors.AppError)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, *errors.AppError)
	Logout(ctx context.Context, accessToken string) *errors.AppError
	ForgotPassword(ctx context.Context, email string) *errors.AppError
	ResetPassword(ctx context.Context, token, newPassword string) *errors.AppError
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError)
	ListUsers(ctx context.Context, p params.QueryParams) (*dto.PaginatedUserResponse, *errors.AppError)
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role string) (*dto.UserResponse, *errors.AppError)
}

func NewAuthService(repo repository.AuthRepositoryInterface, c SessionStore, google GoogleExchanger) AuthServiceInterface {
	return &AuthService{repo: repo, cache: c, google: google}
}

// Signup registers a password account. New accounts always start as students;
// organizer and admin roles are granted by an admin afterwards.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.TokenResponse, *errors.AppError) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to process password", err)
	}

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: &hash,
		FullName:     req.FullName,
		Role:         constants.RoleStudent,
		Department:   req.Department,
		YearOfStudy:  req.YearOfStudy,
		RollNumber:   req.RollNumber,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if err == repository.ErrEmailTaken {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Email already in use", err)
		}
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create account", err)
	}

	return s.tokenPair(created)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *errors.AppError) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to look up account", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}
	if !utils.ComparePassword(*user.PasswordHash, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}

	return s.tokenPair(user)
}

// GoogleLogin signs in with a Google authorization code, creating a student
// account on first contact and linking the Google ID to an existing account
// with the same email.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*dto.TokenResponse, *errors.AppError) {
	if s.google == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Google sign-in is not configured", nil)
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Google sign-in failed", err)
	}

	user, err := s.repo.GetByGoogleID(ctx, profile.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to look up account", err)
	}

	if user == nil {
		user, err = s.repo.GetByEmail(ctx, profile.Email)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to look up account", err)
		}
		if user != nil {
			if err := s.repo.LinkGoogleID(ctx, user.ID, profile.ID); err != nil {
				return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to link Google account", err)
			}
		}
	}

	if user == nil {
		googleID := profile.ID
		user, err = s.repo.CreateUser(ctx, &entity.User{
			Email:    profile.Email,
			FullName: profile.Name,
			Role:     constants.RoleStudent,
			GoogleID: &googleID,
		})
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create account", err)
		}
	}

	return s.tokenPair(user)
}

// Refresh rotates the token pair. The presented refresh token is blacklisted
// for its remaining lifetime so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, *errors.AppError) {
	claims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token is not a refresh token", nil)
	}

	if s.cache != nil {
		blacklisted, err := s.cache.IsTokenBlacklisted(ctx, refreshToken)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to validate refresh token", err)
		}
		if blacklisted {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "Refresh token has been revoked", nil)
		}
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil || user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Account no longer exists", err)
	}

	s.blacklist(ctx, refreshToken, claims)
	return s.tokenPair(user)
}

// Logout blacklists the presented access token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, accessToken string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(accessToken)
	if err != nil {
		// An expired token needs no blacklisting.
		return nil
	}
	s.blacklist(ctx, accessToken, claims)
	return nil
}

// ForgotPassword issues a one-shot reset token and emails it to the account.
// The response is identical whether or not the email is registered, so the
// endpoint cannot be used to probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) *errors.AppError {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to process reset request", err)
	}
	if user == nil || s.cache == nil {
		return nil
	}

	token := utils.GenerateResetToken()
	if token == "" {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to issue reset token", nil)
	}
	if err := s.cache.SetPasswordResetToken(ctx, token, user.ID, constants.PasswordResetTokenTTL); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to issue reset token", err)
	}

	go s.sendResetEmail(user.Email, user.FullName, token)
	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
// Consuming is atomic, so a token works exactly once.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) *errors.AppError {
	if s.cache == nil {
		return errors.NewAppError(errors.ErrUnauthorized, "Invalid or expired reset token", nil)
	}

	userID, ok, err := s.cache.ConsumePasswordResetToken(ctx, token)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to validate reset token", err)
	}
	if !ok {
		return errors.NewAppError(errors.ErrUnauthorized, "Invalid or expired reset token", nil)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to process password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to update password", err)
	}
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", err)
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", err)
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.YearOfStudy != nil {
		user.YearOfStudy = req.YearOfStudy
	}
	if req.RollNumber != nil {
		user.RollNumber = req.RollNumber
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update profile", err)
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) ListUsers(ctx context.Context, p params.QueryParams) (*dto.PaginatedUserResponse, *errors.AppError) {
	users, total, err := s.repo.ListUsers(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to fetch users", err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.ToUserResponse(&users[i]))
	}
	return &dto.PaginatedUserResponse{
		Users:      out,
		TotalItems: total,
		Page:       p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (s *AuthService) UpdateUserRole(ctx context.Context, userID uuid.UUID, role string) (*dto.UserResponse, *errors.AppError) {
	switch role {
	case constants.RoleStudent, constants.RoleOrganizer, constants.RoleAdmin:
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown role", nil)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", err)
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update role", err)
	}

	user.Role = role
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ===================== helpers =====================

func (s *AuthService) tokenPair(user *entity.User) (*dto.TokenResponse, *errors.AppError) {
	accessTTL := 60 * time.Minute
	refreshTTL := 7 * 24 * time.Hour
	if cfg, ok := config.GetSafe(); ok {
		if cfg.JWT.AccessTokenMinutes > 0 {
			accessTTL = time.Duration(cfg.JWT.AccessTokenMinutes) * time.Minute
		}
		if cfg.JWT.RefreshTokenMinutes > 0 {
			refreshTTL = time.Duration(cfg.JWT.RefreshTokenMinutes) * time.Minute
		}
	}

	access, err := utils.GenerateToken(user.ID, user.FullName, user.Role, constants.ScopeTokenAccess, accessTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue access token", err)
	}
	refresh, err := utils.GenerateToken(user.ID, user.FullName, user.Role, constants.ScopeTokenRefresh, refreshTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to issue refresh token", err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.ToUserResponse(user),
	}, nil
}

// sendResetEmail delivers the reset token out of band. Delivery failures are
// logged rather than surfaced so the endpoint's response stays uniform.
func (s *AuthService) sendResetEmail(email, name, token string) {
	cfg, ok := config.GetSafe()
	if !ok || cfg.Email.Host == "" {
		logger.Warn("AuthService:sendResetEmail", fmt.Errorf("email not configured, reset token for %s not delivered", email))
		return
	}

	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>A password reset was requested for your account. Use the code below
		within %d minutes to choose a new password:</p>
		<p><strong>%s</strong></p>
		<p>If you did not request this, you can ignore this email.</p>`,
		name, int(constants.PasswordResetTokenTTL.Minutes()), token)

	err := utils.SendEmailTLS(utils.EmailMessage{
		To:      []string{email},
		Subject: "Reset your password",
		HTML:    html,
	})
	if err != nil {
		logger.Warn("AuthService:sendResetEmail", err)
	}
}

func (s *AuthService) blacklist(ctx context.Context, token string, claims *utils.TokenClaims) {
	if s.cache == nil || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.cache.AddToTokenBlacklist(ctx, token, ttl); err != nil {
		logger.Warn("AuthService:blacklist", err)
	}
}
