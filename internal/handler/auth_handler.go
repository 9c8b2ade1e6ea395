package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yusufkecer/bookshelf-backend/internal/apperr"
	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/repository"
	"github.com/yusufkecer/bookshelf-backend/internal/validation"
)

const (
	msgIncorrectEmail    = "Incorrect email address. Please try again."
	msgIncorrectPassword = "Incorrect password. Please try again."
	msgEmailInUse        = "Email already in use. Please try another."
	msgInvalidResetToken = "Password reset token is not valid."
)

type AuthHandler struct {
	users      UserRepository
	userHelper UserHelper
	logger     *slog.Logger
}

func NewAuthHandler(users UserRepository, userHelper UserHelper, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userHelper: userHelper,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginDto
	if err := readJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	req.Email = normalizeEmail(req.Email)

	if err := validation.Login(req).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	user, err := h.users.GetUser(req.Email)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "login"))
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, domain.TokenDto{Error: msgIncorrectEmail})
		return
	}

	if !h.userHelper.PasswordsMatch(req.Password, user.PasswordHash) {
		writeJSON(w, http.StatusUnauthorized, domain.TokenDto{Error: msgIncorrectPassword})
		return
	}

	token, err := h.userHelper.BuildToken(user.Dto())
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "generate token"))
		return
	}

	writeJSON(w, http.StatusOK, domain.TokenDto{Token: token})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginDto
	if err := readJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	req.Email = normalizeEmail(req.Email)

	if err := validation.Registration(req).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	present, err := h.users.UserPresent(req.Email)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "register"))
		return
	}
	if present {
		writeJSON(w, http.StatusConflict, domain.TokenDto{Error: msgEmailInUse})
		return
	}

	hash, err := h.userHelper.HashPassword(req.Password)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "hash password"))
		return
	}

	id, err := h.users.Add(req.Email, hash)
	if err != nil {
		// Lost a race with another registration for the same address.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeJSON(w, http.StatusConflict, domain.TokenDto{Error: msgEmailInUse})
			return
		}
		writeAppError(w, r, h.logger, wrapInternal(err, "register"))
		return
	}

	token, err := h.userHelper.BuildToken(domain.UserDto{ID: id, Email: req.Email})
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "generate token"))
		return
	}

	h.logger.Info("user registered", "user_id", id)
	writeJSON(w, http.StatusCreated, domain.TokenDto{Token: token})
}

// UpdatePasswordUsingToken applies a password reset. The reset fields are
// cleared once the new hash is stored.
func (h *AuthHandler) UpdatePasswordUsingToken(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetTokenUpdateDto
	if err := readJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := validation.ResetTokenUpdate(req).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	present, err := h.users.UserPresentByID(req.UserID)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "load user"))
		return
	}
	if !present {
		writeAppError(w, r, h.logger, apperr.NotFoundf("User with Id %d does not exist.", req.UserID))
		return
	}

	user, err := h.users.GetUserByID(req.UserID)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "load user"))
		return
	}
	if user == nil {
		writeAppError(w, r, h.logger, apperr.NotFoundf("User with Id %d does not exist.", req.UserID))
		return
	}

	if !h.userHelper.ValidResetToken(user, req.Token) {
		writeAppError(w, r, h.logger, apperr.InvalidToken(msgInvalidResetToken))
		return
	}

	hash, err := h.userHelper.HashPassword(req.Password)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "hash password"))
		return
	}

	if err := h.users.UpdatePasswordHash(user.ID, hash); err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "update password"))
		return
	}
	if err := h.users.SetPasswordResetFields(user.ID, nil, nil); err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "clear reset token"))
		return
	}

	h.logger.Info("password reset applied", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user.Dto())
}
