package dto

import (
	"time"

	"campus-events/modules/auth/entity"
)

type SignupRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FullName    string  `json:"full_name" validate:"required"`
	Department  *string `json:"department,omitempty"`
	YearOfStudy *int    `json:"year_of_study,omitempty"`
	RollNumber  *string `json:"roll_number,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the authorization code from the OAuth redirect.
type GoogleLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	FullName    string  `json:"full_name,omitempty"`
	Department  *string `json:"department,omitempty"`
	YearOfStudy *int    `json:"year_of_study,omitempty"`
	RollNumber  *string `json:"roll_number,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student organizer admin"`
}

type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	Department  string    `json:"department,omitempty"`
	YearOfStudy *int      `json:"year_of_study,omitempty"`
	RollNumber  string    `json:"roll_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PaginatedUserResponse struct {
	Users      []UserResponse `json:"users"`
	TotalItems int            `json:"total_items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

func ToUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		YearOfStudy: u.YearOfStudy,
		CreatedAt:   u.CreatedAt,
	}
	if u.Department != nil {
		resp.Department = *u.Department
	}
	if u.RollNumber != nil {
		resp.RollNumber = *u.RollNumber
	}
	return resp
}
