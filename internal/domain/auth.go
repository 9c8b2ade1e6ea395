package domain

import "github.com/google/uuid"

// LoginDto is used for both login and registration.
type LoginDto struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type TokenDto struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

type PasswordResetDto struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Error string `json:"error,omitempty"`
}

type ResetTokenUpdateDto struct {
	UserID   int64     `json:"userId" validate:"gt=0"`
	Token    uuid.UUID `json:"token"`
	Password string    `json:"password" validate:"required,max=72"`
}
