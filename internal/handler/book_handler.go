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

const msgNotYourBook = "You can only change books you own."

type BookHandler struct {
	books        BookRepository
	ratings      RatingRepository
	userHelper   UserHelper
	searchHelper SearchHelper
	logger       *slog.Logger
}

func NewBookHandler(books BookRepository, ratings RatingRepository, userHelper UserHelper, searchHelper SearchHelper, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		books:        books,
		ratings:      ratings,
		userHelper:   userHelper,
		searchHelper: searchHelper,
		logger:       logger,
	}
}

func (h *BookHandler) GetUserBooks(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if !h.userHelper.MatchingUsers(r.Context(), userID) {
		writeAppError(w, r, h.logger, apperr.Forbidden("You can only list your own books."))
		return
	}

	books, err := h.books.GetUserBooks(userID)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch books"))
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	book, err := h.books.GetBook(id)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch book"))
		return
	}
	if book == nil {
		writeAppError(w, r, h.logger, apperr.NotFoundf("No book found for id: %d", id))
		return
	}
	if !h.userHelper.MatchingUsers(r.Context(), book.UserID) {
		writeAppError(w, r, h.logger, apperr.Forbidden("You can only view books you own."))
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Post enriches the draft from the catalog, stores it and returns the stored row.
func (h *BookHandler) Post(w http.ResponseWriter, r *http.Request) {
	var draft domain.NewBookDto
	if err := readJSON(w, r, &draft); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := validation.NewBook(draft).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if !h.userHelper.MatchingUsers(r.Context(), draft.UserID) {
		writeAppError(w, r, h.logger, apperr.Forbidden("You can only add books for yourself."))
		return
	}
	if err := h.checkRating(r.Context(), draft.RatingID); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	book := h.searchHelper.Enrich(r.Context(), draft)

	id, err := h.books.Add(&book)
	if err != nil {
		writeAppError(w, r, h.logger, storeError(err, "add book"))
		return
	}

	stored, err := h.books.GetBook(id)
	if err != nil || stored == nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch added book"))
		return
	}

	h.logger.Info("book added", "book_id", id, "user_id", draft.UserID)
	writeJSON(w, http.StatusCreated, stored)
}

func (h *BookHandler) Put(w http.ResponseWriter, r *http.Request) {
	var dto domain.BookDto
	if err := readJSON(w, r, &dto); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := validation.UpdatedBook(dto).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	existing, err := h.books.GetBook(dto.ID)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch book"))
		return
	}
	if existing == nil {
		writeAppError(w, r, h.logger, notFoundBook(dto.ID))
		return
	}
	// The owner is taken from the stored row; the payload cannot move a book to another user.
	if !h.userHelper.MatchingUsers(r.Context(), existing.UserID) || dto.UserID != existing.UserID {
		writeAppError(w, r, h.logger, apperr.Forbidden(msgNotYourBook))
		return
	}
	if err := h.checkRating(r.Context(), dto.RatingID); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := h.books.Update(&dto); err != nil {
		writeAppError(w, r, h.logger, storeError(err, "update book"))
		return
	}

	updated, err := h.books.GetBook(dto.ID)
	if err != nil || updated == nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch updated book"))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete returns the book as it was before deletion.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	book, err := h.books.GetBook(id)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch book"))
		return
	}
	if book == nil {
		writeAppError(w, r, h.logger, notFoundBook(id))
		return
	}
	if !h.userHelper.MatchingUsers(r.Context(), book.UserID) {
		writeAppError(w, r, h.logger, apperr.Forbidden(msgNotYourBook))
		return
	}

	if err := h.books.Delete(id); err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "delete book"))
		return
	}

	h.logger.Info("book deleted", "book_id", id)
	writeJSON(w, http.StatusOK, book)
}

// checkRating allows shared ratings and the caller's own.
func (h *BookHandler) checkRating(ctx context.Context, ratingID int64) error {
	rating, err := h.ratings.Get(ratingID)
	if err != nil {
		return wrapInternal(err, "fetch rating")
	}
	if rating == nil {
		return apperr.BadRequestf("Rating with Id %d does not exist.", ratingID)
	}
	if rating.UserID != 0 && !h.userHelper.MatchingUsers(ctx, rating.UserID) {
		return apperr.Forbidden("You can only use shared ratings or your own.")
	}
	return nil
}

// storeError reports a missing category or rating as a bad request.
func storeError(err error, action string) error {
	if errors.Is(err, repository.ErrReferenceViolation) {
		return apperr.BadRequestf("Category or rating does not exist.")
	}
	return wrapInternal(err, action)
}
