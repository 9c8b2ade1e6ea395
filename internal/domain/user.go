package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  int64
	Email               string
	PasswordHash        string
	PasswordResetToken  *uuid.UUID
	PasswordResetExpiry *time.Time
}

// UserDto is the public view of a user and the source of token claims.
type UserDto struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (u *User) Dto() UserDto {
	return UserDto{ID: u.ID, Email: u.Email}
}
