package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	ResetTokenTTL       = 1 * time.Hour
	VerificationCodeTTL = 10 * time.Minute
	MinPasswordLength   = 8
)

// Protocol outcomes. Wrong and expired secrets collapse into a single
// variant so responses carry no oracle about stored state.
var (
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrIdentityMismatch      = errors.New("identity verification failed")
	ErrInvalidOrExpiredCode  = errors.New("invalid or expired code")
	ErrWeakPassword          = errors.New("password must be at least 8 characters long")
)

// IssuedToken is the result of a reset request for an existing account.
type IssuedToken struct {
	User  *User
	Token string
}

// IssuedCode is the result of a successful identity verification.
type IssuedCode struct {
	User *User
	Code string
}

// RecoveryService drives the three-step reset protocol:
// request a token, verify identity, consume the code to set a new password.
type RecoveryService struct {
	store  Store
	hasher PasswordHasher
	now    func() time.Time
}

func NewRecoveryService(store Store, hasher PasswordHasher) *RecoveryService {
	return &RecoveryService{store: store, hasher: hasher, now: time.Now}
}

// Request issues a fresh reset token for the account behind email, replacing
// any outstanding one. A nil result with nil error means the account does not
// exist; callers must respond identically either way and only skip delivery.
func (s *RecoveryService) Request(ctx context.Context, email string) (*IssuedToken, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	token, err := NewResetToken()
	if err != nil {
		return nil, err
	}
	expiry := s.now().Add(ResetTokenTTL)
	if err := s.store.SetPasswordReset(ctx, user.ID, HashString(token), expiry); err != nil {
		return nil, err
	}
	return &IssuedToken{User: user, Token: token}, nil
}

// Verify checks possession of the reset link and the claimed identity, then
// issues the short-lived verification code. A name mismatch leaves the token
// valid for another attempt.
func (s *RecoveryService) Verify(ctx context.Context, token, firstName, lastName string) (*IssuedCode, error) {
	user, err := s.store.FindByResetTokenHash(ctx, HashString(token))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidOrExpiredToken
	}

	if !strings.EqualFold(user.FirstName, firstName) || !strings.EqualFold(user.LastName, lastName) {
		return nil, ErrIdentityMismatch
	}

	code, err := NewVerificationCode()
	if err != nil {
		return nil, err
	}
	expiry := s.now().Add(VerificationCodeTTL)
	if err := s.store.SetVerificationCode(ctx, user.ID, HashString(code), expiry); err != nil {
		return nil, err
	}
	return &IssuedCode{User: user, Code: code}, nil
}

// Consume sets the new password and clears every outstanding recovery secret.
// The length check runs before any lookup so a weak password never touches
// storage.
func (s *RecoveryService) Consume(ctx context.Context, userID, code, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.store.FindByIDAndCode(ctx, userID, HashString(code))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidOrExpiredCode
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.store.ResetPassword(ctx, user.ID, hashed)
}
