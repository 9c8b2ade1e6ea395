package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/validation"
)

// EmailHandler issues password reset links.
type EmailHandler struct {
	users    UserRepository
	email    EmailSender
	siteURL  string
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewEmailHandler(users UserRepository, email EmailSender, siteURL string, tokenTTL time.Duration, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		users:    users,
		email:    email,
		siteURL:  strings.TrimRight(siteURL, "/"),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// SendResetToken stores a fresh reset token on the user and emails a link
// embedding the user id and token. The token is never part of the response.
func (h *EmailHandler) SendResetToken(w http.ResponseWriter, r *http.Request) {
	var req domain.PasswordResetDto
	if err := readJSON(w, r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.Error = ""

	if err := validation.PasswordReset(req).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	user, err := h.users.GetUser(req.Email)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "load user"))
		return
	}
	if user == nil {
		req.Error = fmt.Sprintf("User with email %s does not exist.", req.Email)
		writeJSON(w, http.StatusNotFound, req)
		return
	}

	token := uuid.New()
	expiry := h.now().UTC().Add(h.tokenTTL)
	if err := h.users.SetPasswordResetFields(user.ID, &token, &expiry); err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "store reset token"))
		return
	}

	url := fmt.Sprintf("%s/%d/%s", h.siteURL, user.ID, token)
	if err := h.email.SendResetToken(req.Email, url); err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "send reset email"))
		return
	}

	writeJSON(w, http.StatusOK, req)
}
