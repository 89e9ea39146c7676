package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account profile. PasswordHash is null for accounts created via
// Google sign-in; GoogleID is null for password accounts.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         string    `db:"role" json:"role"`
	Department   *string   `db:"department" json:"department,omitempty"`
	YearOfStudy  *int      `db:"year_of_study" json:"year_of_study,omitempty"`
	RollNumber   *string   `db:"roll_number" json:"roll_number,omitempty"`
	GoogleID     *string   `db:"google_id" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
