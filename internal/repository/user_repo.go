package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) UserPresent(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) UserPresentByID(id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Add(email, passwordHash string) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
		email,
		passwordHash,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return result.LastInsertId()
}

func (r *UserRepository) GetUser(email string) (*domain.User, error) {
	return r.getBy("email", email)
}

func (r *UserRepository) GetUserByID(id int64) (*domain.User, error) {
	return r.getBy("id", id)
}

func (r *UserRepository) getBy(column string, value any) (*domain.User, error) {
	var (
		u      domain.User
		token  sql.NullString
		expiry sql.NullTime
	)
	err := r.db.QueryRow(
		`SELECT id, email, password_hash, password_reset_token, password_reset_expiry
		 FROM users WHERE `+column+` = ?`, value,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &token, &expiry)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if token.Valid {
		parsed, err := uuid.Parse(token.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse reset token for user %d: %w", u.ID, err)
		}
		u.PasswordResetToken = &parsed
	}
	if expiry.Valid {
		t := expiry.Time
		u.PasswordResetExpiry = &t
	}
	return &u, nil
}

// SetPasswordResetFields stores or, with nil arguments, clears the reset token and its expiry.
func (r *UserRepository) SetPasswordResetFields(id int64, token *uuid.UUID, expiry *time.Time) error {
	var tokenArg any
	if token != nil {
		tokenArg = token.String()
	}

	_, err := r.db.Exec(
		`UPDATE users SET password_reset_token = ?, password_reset_expiry = ? WHERE id = ?`,
		tokenArg, nullTime(expiry), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set password reset fields: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePasswordHash(id int64, passwordHash string) error {
	_, err := r.db.Exec(
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
