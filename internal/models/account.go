package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Account holds credentials. Profiles live in User, linked by AccountID.
type Account struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Session is a server-side login. Clients hold it as a signed token.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID string    `json:"account_id" gorm:"column:account_id;index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// SessionToken is what sign-in hands back to the caller.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionClaims are the JWT claims of a session token. ID carries the
// session id and Subject the account id.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
