package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yusufkecer/bookshelf-backend/internal/apperr"
	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/repository"
	"github.com/yusufkecer/bookshelf-backend/internal/validation"
)

// RatingHandler serves ratings. A rating with user id 0 is shared by everyone;
// any other rating belongs to that user and only they may change it.
type RatingHandler struct {
	ratings    RatingRepository
	userHelper UserHelper
	logger     *slog.Logger
}

func NewRatingHandler(ratings RatingRepository, userHelper UserHelper, logger *slog.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, userHelper: userHelper, logger: logger}
}

func (h *RatingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratings.GetAll()
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch ratings"))
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

// GetUserRatings lists the shared ratings together with the user's own.
func (h *RatingHandler) GetUserRatings(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	ratings, err := h.ratings.GetUserRatings(userID)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch ratings"))
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (h *RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	rating, err := h.load(id)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

func (h *RatingHandler) Post(w http.ResponseWriter, r *http.Request) {
	var rating domain.Rating
	if err := readJSON(w, r, &rating); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := validation.Rating(rating).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if !h.mayChange(r.Context(), rating.UserID) {
		writeAppError(w, r, h.logger, apperr.Forbidden("You can only add ratings for yourself."))
		return
	}

	id, err := h.ratings.Add(&rating)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "add rating"))
		return
	}

	stored, err := h.load(id)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

func (h *RatingHandler) Put(w http.ResponseWriter, r *http.Request) {
	var rating domain.Rating
	if err := readJSON(w, r, &rating); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := validation.ExistingRating(rating).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	existing, err := h.load(rating.ID)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if !h.mayChange(r.Context(), existing.UserID) || rating.UserID != existing.UserID {
		writeAppError(w, r, h.logger, apperr.Forbidden("You can only change your own ratings."))
		return
	}

	if err := h.ratings.Update(&rating); err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "update rating"))
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	rating, err := h.load(id)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if !h.mayChange(r.Context(), rating.UserID) {
		writeAppError(w, r, h.logger, apperr.Forbidden("You can only change your own ratings."))
		return
	}

	if err := h.ratings.Delete(id); err != nil {
		if errors.Is(err, repository.ErrReferenceViolation) {
			writeAppError(w, r, h.logger, apperr.Conflict("Rating is still used by books."))
			return
		}
		writeAppError(w, r, h.logger, wrapInternal(err, "delete rating"))
		return
	}

	writeJSON(w, http.StatusOK, rating)
}

func (h *RatingHandler) mayChange(ctx context.Context, ownerID int64) bool {
	return ownerID == 0 || h.userHelper.MatchingUsers(ctx, ownerID)
}

func (h *RatingHandler) load(id int64) (*domain.Rating, error) {
	rating, err := h.ratings.Get(id)
	if err != nil {
		return nil, wrapInternal(err, "fetch rating")
	}
	if rating == nil {
		return nil, apperr.NotFoundf("Rating with Id %d does not exist.", id)
	}
	return rating, nil
}
