package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/middleware"
)

// UserHelper hashes passwords, issues access tokens and answers ownership questions.
type UserHelper struct {
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewUserHelper(jwtSecret string, tokenTTL time.Duration) *UserHelper {
	return &UserHelper{
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (h *UserHelper) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *UserHelper) PasswordsMatch(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BuildToken signs an HS256 access token carrying the user's id and email.
func (h *UserHelper) BuildToken(user domain.UserDto) (string, error) {
	now := h.now()
	claims := jwt.MapClaims{
		middleware.ClaimUserID: user.ID,
		"email":                user.Email,
		"exp":                  now.Add(h.tokenTTL).Unix(),
		"iat":                  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// ValidResetToken reports whether token is the one issued to user and has not expired.
// The expiry is inclusive.
func (h *UserHelper) ValidResetToken(user *domain.User, token uuid.UUID) bool {
	if user == nil || user.PasswordResetToken == nil || user.PasswordResetExpiry == nil {
		return false
	}
	stored := *user.PasswordResetToken
	if subtle.ConstantTimeCompare(stored[:], token[:]) != 1 {
		return false
	}
	return !h.now().After(*user.PasswordResetExpiry)
}

// MatchingUsers reports whether the authenticated caller is userID.
func (h *UserHelper) MatchingUsers(ctx context.Context, userID int64) bool {
	callerID, ok := middleware.UserIDFromContext(ctx)
	return ok && callerID == userID
}
