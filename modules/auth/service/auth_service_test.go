package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"campus-events/core/config"
	"campus-events/core/constants"
	"campus-events/core/errors"
	"campus-events/core/params"
	"campus-events/modules/auth/dto"
	"campus-events/modules/auth/entity"
	"campus-events/modules/auth/repository"

	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	// Token issuance needs a loaded config; defaults are enough.
	if _, err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type fakeAuthRepo struct {
	users []entity.User
}

func (f *fakeAuthRepo) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].Email == user.Email {
			return nil, repository.ErrEmailTaken
		}
	}
	created := *user
	created.ID = uuid.New()
	f.users = append(f.users, created)
	return &created, nil
}

func (f *fakeAuthRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthRepo) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].GoogleID != nil && *f.users[i].GoogleID == googleID {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthRepo) LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			g := googleID
			f.users[i].GoogleID = &g
		}
	}
	return nil
}

func (f *fakeAuthRepo) UpdateProfile(ctx context.Context, user *entity.User) error {
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
		}
	}
	return nil
}

func (f *fakeAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			h := passwordHash
			f.users[i].PasswordHash = &h
		}
	}
	return nil
}

func (f *fakeAuthRepo) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].Role = role
		}
	}
	return nil
}

func (f *fakeAuthRepo) ListUsers(ctx context.Context, p params.QueryParams) ([]entity.User, int, error) {
	return f.users, len(f.users), nil
}

type fakeSessionStore struct {
	blacklisted map[string]bool
	resetTokens map[string]uuid.UUID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		blacklisted: map[string]bool{},
		resetTokens: map[string]uuid.UUID{},
	}
}

func (f *fakeSessionStore) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	f.blacklisted[token] = true
	return nil
}

func (f *fakeSessionStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return f.blacklisted[token], nil
}

func (f *fakeSessionStore) SetPasswordResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	f.resetTokens[token] = userID
	return nil
}

func (f *fakeSessionStore) ConsumePasswordResetToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	userID, ok := f.resetTokens[token]
	if !ok {
		return uuid.Nil, false, nil
	}
	delete(f.resetTokens, token)
	return userID, true, nil
}

type fakeGoogle struct {
	profile *GoogleProfile
	err     error
}

func (f *fakeGoogle) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func signup(t *testing.T, svc AuthServiceInterface, email string) *dto.TokenResponse {
	t.Helper()
	resp, appErr := svc.Signup(context.Background(), &dto.SignupRequest{
		Email:    email,
		Password: "hunter2hunter2",
		FullName: "Priya Sharma",
	})
	if appErr != nil {
		t.Fatalf("signup: %v", appErr)
	}
	return resp
}

func TestSignupAndLogin(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil, nil)

	created := signup(t, svc, "priya@campus.test")
	if created.User.Role != constants.RoleStudent {
		t.Fatalf("new accounts must start as students, got %s", created.User.Role)
	}
	if created.AccessToken == "" || created.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}

	// Duplicate email is rejected.
	_, appErr := svc.Signup(context.Background(), &dto.SignupRequest{
		Email: "priya@campus.test", Password: "hunter2hunter2", FullName: "Other",
	})
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", appErr)
	}

	// Correct password logs in, wrong one does not.
	if _, appErr = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "priya@campus.test", Password: "hunter2hunter2",
	}); appErr != nil {
		t.Fatalf("login: %v", appErr)
	}
	_, appErr = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "priya@campus.test", Password: "wrong",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", appErr)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, nil, nil)

	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ghost@campus.test", Password: "whatever",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", appErr)
	}
}

func TestGoogleLogin(t *testing.T) {
	repo := &fakeAuthRepo{}
	google := &fakeGoogle{profile: &GoogleProfile{ID: "g-123", Email: "rahul@campus.test", Name: "Rahul Verma"}}
	svc := NewAuthService(repo, nil, google)

	// First contact creates a student account.
	first, appErr := svc.GoogleLogin(context.Background(), "code")
	if appErr != nil {
		t.Fatalf("google login: %v", appErr)
	}
	if first.User.Role != constants.RoleStudent || first.User.Email != "rahul@campus.test" {
		t.Fatalf("user = %+v", first.User)
	}

	// Second sign-in resolves the same account.
	second, appErr := svc.GoogleLogin(context.Background(), "code")
	if appErr != nil {
		t.Fatalf("google login again: %v", appErr)
	}
	if second.User.ID != first.User.ID {
		t.Fatal("repeat google sign-in must reuse the account")
	}
	if len(repo.users) != 1 {
		t.Fatalf("users = %d, want 1", len(repo.users))
	}
}

func TestGoogleLoginLinksExistingEmail(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil, &fakeGoogle{
		profile: &GoogleProfile{ID: "g-456", Email: "priya@campus.test", Name: "Priya Sharma"},
	})

	signup(t, svc, "priya@campus.test")
	resp, appErr := svc.GoogleLogin(context.Background(), "code")
	if appErr != nil {
		t.Fatalf("google login: %v", appErr)
	}
	if len(repo.users) != 1 {
		t.Fatal("google sign-in with a known email must link, not duplicate")
	}
	if repo.users[0].GoogleID == nil || *repo.users[0].GoogleID != "g-456" {
		t.Fatalf("google id not linked: %+v", repo.users[0])
	}
	if resp.User.Email != "priya@campus.test" {
		t.Fatalf("user = %+v", resp.User)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil, nil)
	created := signup(t, svc, "priya@campus.test")

	// An access token must not pass for a refresh token.
	_, appErr := svc.Refresh(context.Background(), created.AccessToken)
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", appErr)
	}

	// The genuine refresh token rotates the pair.
	rotated, appErr := svc.Refresh(context.Background(), created.RefreshToken)
	if appErr != nil {
		t.Fatalf("refresh: %v", appErr)
	}
	if rotated.AccessToken == "" || rotated.User.ID != created.User.ID {
		t.Fatalf("rotated = %+v", rotated)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	repo := &fakeAuthRepo{}
	store := newFakeSessionStore()
	svc := NewAuthService(repo, store, nil)
	signup(t, svc, "priya@campus.test")

	if appErr := svc.ForgotPassword(context.Background(), "priya@campus.test"); appErr != nil {
		t.Fatalf("forgot password: %v", appErr)
	}
	if len(store.resetTokens) != 1 {
		t.Fatalf("reset tokens = %d, want 1", len(store.resetTokens))
	}
	var token string
	for tok := range store.resetTokens {
		token = tok
	}

	if appErr := svc.ResetPassword(context.Background(), token, "swordfish-42"); appErr != nil {
		t.Fatalf("reset password: %v", appErr)
	}

	// New password works, the old one is gone.
	if _, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "priya@campus.test", Password: "swordfish-42",
	}); appErr != nil {
		t.Fatalf("login with new password: %v", appErr)
	}
	_, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "priya@campus.test", Password: "hunter2hunter2",
	})
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized with old password, got %v", appErr)
	}

	// The token is one-shot.
	if appErr := svc.ResetPassword(context.Background(), token, "another-pass"); appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized on token replay, got %v", appErr)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewAuthService(&fakeAuthRepo{}, store, nil)

	// Unknown emails get the same answer as known ones and no token.
	if appErr := svc.ForgotPassword(context.Background(), "ghost@campus.test"); appErr != nil {
		t.Fatalf("forgot password: %v", appErr)
	}
	if len(store.resetTokens) != 0 {
		t.Fatalf("reset tokens = %d, want 0", len(store.resetTokens))
	}
}

func TestResetPasswordBadToken(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, newFakeSessionStore(), nil)

	appErr := svc.ResetPassword(context.Background(), "not-a-token", "whatever-99")
	if appErr == nil || appErr.Code != errors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", appErr)
	}
}

func TestUpdateUserRole(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil, nil)
	created := signup(t, svc, "priya@campus.test")
	userID, err := uuid.Parse(created.User.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	promoted, appErr := svc.UpdateUserRole(context.Background(), userID, constants.RoleOrganizer)
	if appErr != nil {
		t.Fatalf("update role: %v", appErr)
	}
	if promoted.Role != constants.RoleOrganizer {
		t.Fatalf("role = %s", promoted.Role)
	}

	_, appErr = svc.UpdateUserRole(context.Background(), userID, "superuser")
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", appErr)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil, nil)
	created := signup(t, svc, "priya@campus.test")
	userID, _ := uuid.Parse(created.User.ID)

	dept := "Computer Science"
	roll := "CS-2024-117"
	updated, appErr := svc.UpdateProfile(context.Background(), userID, &dto.UpdateProfileRequest{
		Department: &dept,
		RollNumber: &roll,
	})
	if appErr != nil {
		t.Fatalf("update profile: %v", appErr)
	}
	if updated.Department != dept || updated.RollNumber != roll {
		t.Fatalf("updated = %+v", updated)
	}
	// Untouched fields survive.
	if updated.FullName != "Priya Sharma" {
		t.Fatalf("full name = %s", updated.FullName)
	}
}
