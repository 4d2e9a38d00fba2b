package auth

import (
	"context"
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Phone        *string
	PasswordHash string
	Role         string

	// Recovery fields hold digests only, never the raw secrets.
	ResetTokenHash         *string
	ResetTokenExpiry       *time.Time
	VerificationCode       *string
	VerificationCodeExpiry *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the narrow persistence port the credential core works against.
// Lookups that carry an expiry predicate return (nil, nil) when nothing
// matches; callers never distinguish "absent" from "expired".
type Store interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)

	// SetPasswordReset overwrites any outstanding reset token for the user.
	SetPasswordReset(ctx context.Context, userID, tokenHash string, expiry time.Time) error
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*User, error)

	SetVerificationCode(ctx context.Context, userID, codeHash string, expiry time.Time) error
	FindByIDAndCode(ctx context.Context, userID, codeHash string) (*User, error)

	// ResetPassword stores the new hash and clears all four recovery fields
	// in a single statement.
	ResetPassword(ctx context.Context, userID, passwordHash string) error
}
