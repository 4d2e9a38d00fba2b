package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, first_name, last_name, phone, password_hash, role,
	reset_token_hash, reset_token_expiry, verification_code, verification_code_expiry,
	created_at, updated_at`

// UserRepository is the Postgres implementation of Store.
type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *User) (*User, error) {
	id := uuid.NewString()
	role := u.Role
	if role == "" {
		role = RoleUser
	}

	row := r.DB.QueryRow(ctx, `
		INSERT INTO users (id, email, first_name, last_name, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		id, u.Email, u.FirstName, u.LastName, u.Phone, u.PasswordHash, role)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) SetPasswordReset(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = $1,
		    reset_token_expiry = $2,
		    updated_at = NOW()
		WHERE id = $3
	`, tokenHash, expiry, userID)
	return err
}

func (r *UserRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE reset_token_hash = $1 AND reset_token_expiry > NOW()
	`, tokenHash)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) SetVerificationCode(ctx context.Context, userID, codeHash string, expiry time.Time) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE users
		SET verification_code = $1,
		    verification_code_expiry = $2,
		    updated_at = NOW()
		WHERE id = $3
	`, codeHash, expiry, userID)
	return err
}

func (r *UserRepository) FindByIDAndCode(ctx context.Context, userID, codeHash string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND verification_code = $2 AND verification_code_expiry > NOW()
	`, userID, codeHash)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE users
		SET password_hash = $1,
		    reset_token_hash = NULL,
		    reset_token_expiry = NULL,
		    verification_code = NULL,
		    verification_code_expiry = NULL,
		    updated_at = NOW()
		WHERE id = $2
	`, passwordHash, userID)
	return err
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		id                     string
		email                  string
		firstName              string
		lastName               string
		phone                  sql.NullString
		passwordHash           string
		role                   string
		resetTokenHash         sql.NullString
		resetTokenExpiry       sql.NullTime
		verificationCode       sql.NullString
		verificationCodeExpiry sql.NullTime
		createdAt              time.Time
		updatedAt              time.Time
	)

	if err := row.Scan(
		&id,
		&email,
		&firstName,
		&lastName,
		&phone,
		&passwordHash,
		&role,
		&resetTokenHash,
		&resetTokenExpiry,
		&verificationCode,
		&verificationCodeExpiry,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	return &User{
		ID:                     id,
		Email:                  email,
		FirstName:              firstName,
		LastName:               lastName,
		Phone:                  nullStringPtr(phone),
		PasswordHash:           passwordHash,
		Role:                   role,
		ResetTokenHash:         nullStringPtr(resetTokenHash),
		ResetTokenExpiry:       nullTimePtr(resetTokenExpiry),
		VerificationCode:       nullStringPtr(verificationCode),
		VerificationCodeExpiry: nullTimePtr(verificationCodeExpiry),
		CreatedAt:              createdAt,
		UpdatedAt:              updatedAt,
	}, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}
