package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"campus-events/core/database"
	"campus-events/core/logger"
	"campus-events/core/params"
	"campus-events/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrEmailTaken is returned when the unique email index rejects an insert.
var ErrEmailTaken = stderrors.New("email already in use")

const userColumns = `
	id, email, password_hash, full_name, role, department, year_of_study,
	roll_number, google_id, created_at, updated_at`

// AuthRepository handles users table access.
type AuthRepository struct {
	DB database.Database
}

func NewAuthRepository(db database.Database) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the repository contract.
type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error
	UpdateProfile(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
	ListUsers(ctx context.Context, p params.QueryParams) ([]entity.User, int, error)
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, role, department,
		                   year_of_study, roll_number, google_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.Email, user.PasswordHash, user.FullName, user.Role,
		user.Department, user.YearOfStudy, user.RollNumber, user.GoogleID)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}
	return &created, nil
}

func (r *AuthRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *AuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *AuthRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return r.getBy(ctx, "google_id = $1", googleID)
}

func (r *AuthRepository) getBy(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:getBy", err)
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) LinkGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	query := `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, userID, googleID); err != nil {
		logger.Error("AuthRepository:LinkGoogleID", err)
		return err
	}
	return nil
}

func (r *AuthRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET full_name = $2, department = $3, year_of_study = $4, roll_number = $5,
		    updated_at = NOW()
		WHERE id = $1`

	if err := r.DB.ExecContext(ctx, query,
		user.ID, user.FullName, user.Department, user.YearOfStudy, user.RollNumber); err != nil {
		logger.Error("AuthRepository:UpdateProfile", err)
		return err
	}
	return nil
}

func (r *AuthRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, userID, passwordHash); err != nil {
		logger.Error("AuthRepository:UpdatePassword", err)
		return err
	}
	return nil
}

func (r *AuthRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, userID, role); err != nil {
		logger.Error("AuthRepository:UpdateRole", err)
		return err
	}
	return nil
}

func (r *AuthRepository) ListUsers(ctx context.Context, p params.QueryParams) ([]entity.User, int, error) {
	baseQuery := `FROM users WHERE ($1 = '' OR full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')`

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, p.Search); err != nil {
		logger.Error("AuthRepository:ListUsers:Count", err)
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var users []entity.User
	if err := r.DB.SelectContext(ctx, &users, query, p.Search, p.PageSize, p.Offset()); err != nil {
		logger.Error("AuthRepository:ListUsers:Select", err)
		return nil, 0, err
	}

	return users, totalItems, nil
}
