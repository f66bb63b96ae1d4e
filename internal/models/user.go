package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the auth identity row (PostgreSQL). Signup metadata is kept here
// so the merged account view can fall back to it when the profile row is
// missing a field.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Mobile    string    `json:"mobile"`
	Barangay  string    `json:"barangay"`
	Verified  bool      `json:"verified" gorm:"default:false"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the user-editable profile record (PostgreSQL). Profile fields
// take precedence over auth metadata in the merged account view.
type Profile struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Mobile    string    `json:"mobile"`
	Barangay  string    `json:"barangay"`
	AvatarURL string    `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is the normalized merge of auth identity and profile record that
// every profile-bound response carries.
type Account struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile"`
	Barangay  string `json:"barangay"`
	AvatarURL string `json:"avatar_url"`
	IsAdmin   bool   `json:"is_admin"`
}

// MergeAccount builds the account view from an auth identity and an optional
// profile record. Profile fields win; missing profile fields fall back to
// auth metadata; still-missing fields stay empty strings.
func MergeAccount(user *User, profile *Profile) Account {
	acct := Account{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Mobile:    user.Mobile,
		Barangay:  user.Barangay,
		IsAdmin:   user.IsAdmin,
	}
	if profile == nil {
		return acct
	}
	if profile.FirstName != "" {
		acct.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		acct.LastName = profile.LastName
	}
	if profile.Mobile != "" {
		acct.Mobile = profile.Mobile
	}
	if profile.Barangay != "" {
		acct.Barangay = profile.Barangay
	}
	acct.AvatarURL = profile.AvatarURL
	return acct
}

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Mobile    string `json:"mobile" validate:"required,min=7,max=15"`
	Barangay  string `json:"barangay" validate:"required"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest carries step-1 field edits plus the step-2
// re-authentication password of the profile editor.
type UpdateProfileRequest struct {
	FirstName       string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName        string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Mobile          string `json:"mobile" validate:"omitempty,min=7,max=15"`
	Barangay        string `json:"barangay"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
