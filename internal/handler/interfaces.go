package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
)

type UserRepository interface {
	UserPresent(email string) (bool, error)
	UserPresentByID(id int64) (bool, error)
	Add(email, passwordHash string) (int64, error)
	GetUser(email string) (*domain.User, error)
	GetUserByID(id int64) (*domain.User, error)
	SetPasswordResetFields(id int64, token *uuid.UUID, expiry *time.Time) error
	UpdatePasswordHash(id int64, passwordHash string) error
}

type BookRepository interface {
	GetUserBooks(userID int64) ([]domain.BookDto, error)
	GetBook(id int64) (*domain.BookDto, error)
	Add(b *domain.Book) (int64, error)
	Update(b *domain.BookDto) error
	Delete(id int64) error
}

type CategoryRepository interface {
	GetAll() ([]domain.Category, error)
	Get(id int64) (*domain.Category, error)
	CategoryExists(id int64) (bool, error)
	Add(c *domain.Category) (int64, error)
	Update(c *domain.Category) error
	Delete(id int64) error
}

type RatingRepository interface {
	GetAll() ([]domain.Rating, error)
	GetUserRatings(userID int64) ([]domain.Rating, error)
	Get(id int64) (*domain.Rating, error)
	Add(rt *domain.Rating) (int64, error)
	Update(rt *domain.Rating) error
	Delete(id int64) error
}

// UserHelper covers password hashing, access tokens and ownership checks.
type UserHelper interface {
	HashPassword(password string) (string, error)
	PasswordsMatch(password, hash string) bool
	BuildToken(user domain.UserDto) (string, error)
	ValidResetToken(user *domain.User, token uuid.UUID) bool
	MatchingUsers(ctx context.Context, userID int64) bool
}

type SearchHelper interface {
	Enrich(ctx context.Context, draft domain.NewBookDto) domain.Book
}

type EmailSender interface {
	SendResetToken(to, resetURL string) error
}
