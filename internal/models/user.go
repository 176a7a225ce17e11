package models

import "time"

// User is the profile document mirrored from an account at sign-up.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID string    `json:"account_id" gorm:"column:account_id;uniqueIndex;not null"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"index"`
	Username  string    `json:"username" gorm:"index"`
	ImageURL  string    `json:"image_url" gorm:"column:image_url"`
	ImageID   string    `json:"image_id,omitempty" gorm:"column:image_id"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the collection name used by the document contract.
func (User) TableName() string {
	return "users"
}

// NewUser is the sign-up form.
type NewUser struct {
	Name     string `json:"name" form:"name" validate:"required,min=2"`
	Username string `json:"username" form:"username" validate:"required,min=2"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

// SignInRequest is the sign-in form.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateUser is a profile edit. File is optional; without it the current
// avatar is kept.
type UpdateUser struct {
	UserID string  `json:"-"`
	Name   string  `json:"name" form:"name" validate:"required,min=2"`
	Bio    string  `json:"bio" form:"bio" validate:"max=2200"`
	File   *Upload `json:"-" form:"-"`
}
