package handler

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/logger"
	"github.com/yusufkecer/bookshelf-backend/internal/repository"
	"github.com/yusufkecer/bookshelf-backend/internal/service"
)

const (
	owner    int64 = 1
	stranger int64 = 2
)

const (
	sharedRating   int64 = 1
	strangerRating int64 = 2
)

func newBookHandler() (*BookHandler, *fakeBooks) {
	books := newFakeBooks()
	ratings := newFakeRatings()
	ratings.Add(&domain.Rating{Description: "Loved it", Code: "❤️"})
	ratings.Add(&domain.Rating{UserID: stranger, Description: "Private", Code: "🔒"})

	search := &fakeSearch{imageURL: "small.png", pageCount: 412, summary: "Desert planet."}
	h := NewBookHandler(books, ratings, service.NewUserHelper("test-secret", time.Hour), search, logger.Discard())
	return h, books
}

func validDraft() domain.NewBookDto {
	finished := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	return domain.NewBookDto{
		Title:      "Dune",
		Author:     "Frank Herbert",
		UserID:     owner,
		CategoryID: 1,
		RatingID:   sharedRating,
		FinishedOn: &finished,
	}
}

func idVars(id int64) map[string]string {
	return map[string]string{"id": strconv.FormatInt(id, 10)}
}

func addBook(t *testing.T, h *BookHandler) domain.BookDto {
	t.Helper()
	rec := serve(t, h.Post, request{method: http.MethodPost, body: validDraft(), callerID: owner})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.BookDto](t, rec)
}

func TestBookHandler_AddThenGetRoundTrip(t *testing.T) {
	h, _ := newBookHandler()

	added := addBook(t, h)

	rec := serve(t, h.GetBook, request{method: http.MethodGet, vars: idVars(added.ID), callerID: owner})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.BookDto](t, rec)

	draft := validDraft()
	assert.Equal(t, added, got)
	assert.Equal(t, draft.Title, got.Title)
	assert.Equal(t, draft.Author, got.Author)
	assert.Equal(t, draft.UserID, got.UserID)
	assert.Equal(t, draft.CategoryID, got.CategoryID)
	assert.Equal(t, draft.RatingID, got.RatingID)
	assert.True(t, draft.FinishedOn.Equal(*got.FinishedOn))
	assert.Equal(t, "small.png", got.ImageURL)
	require.NotNil(t, got.PageCount)
	assert.Equal(t, 412, *got.PageCount)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "Desert planet.", *got.Summary)
}

func TestBookHandler_PostRejects(t *testing.T) {
	h, books := newBookHandler()

	rec := serve(t, h.Post, request{method: http.MethodPost, body: domain.NewBookDto{}, callerID: owner})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h.Post, request{method: http.MethodPost, body: validDraft(), callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	books.addErr = repository.ErrReferenceViolation
	rec = serve(t, h.Post, request{method: http.MethodPost, body: validDraft(), callerID: owner})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, books.byID)
}

func TestBookHandler_RatingMustBeSharedOrOwn(t *testing.T) {
	h, books := newBookHandler()

	draft := validDraft()
	draft.RatingID = strangerRating
	rec := serve(t, h.Post, request{method: http.MethodPost, body: draft, callerID: owner})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, books.byID)

	draft.RatingID = 99
	rec = serve(t, h.Post, request{method: http.MethodPost, body: draft, callerID: owner})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	added := addBook(t, h)
	update := added
	update.RatingID = strangerRating
	rec = serve(t, h.Put, request{method: http.MethodPut, body: update, callerID: owner})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, sharedRating, books.byID[added.ID].RatingID)
}

func TestBookHandler_GetUserBooks(t *testing.T) {
	h, _ := newBookHandler()
	addBook(t, h)
	addBook(t, h)

	vars := map[string]string{"userId": strconv.FormatInt(owner, 10)}

	rec := serve(t, h.GetUserBooks, request{method: http.MethodGet, vars: vars, callerID: owner})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.BookDto](t, rec), 2)

	rec = serve(t, h.GetUserBooks, request{method: http.MethodGet, vars: vars, callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookHandler_GetBook(t *testing.T) {
	h, _ := newBookHandler()
	added := addBook(t, h)

	rec := serve(t, h.GetBook, request{method: http.MethodGet, vars: idVars(99), callerID: owner})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h.GetBook, request{method: http.MethodGet, vars: idVars(added.ID), callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h.GetBook, request{method: http.MethodGet, vars: map[string]string{"id": "abc"}, callerID: owner})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookHandler_Put(t *testing.T) {
	h, books := newBookHandler()
	added := addBook(t, h)

	update := added
	update.Title = "Dune Messiah"
	year := 1969
	update.Year = &year

	rec := serve(t, h.Put, request{method: http.MethodPut, body: update, callerID: owner})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.BookDto](t, rec)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, 1969, *got.Year)
	assert.Equal(t, "Dune Messiah", books.byID[added.ID].Title)
}

func TestBookHandler_PutByNonOwner(t *testing.T) {
	h, books := newBookHandler()
	added := addBook(t, h)

	update := added
	update.Title = "Hijacked"
	rec := serve(t, h.Put, request{method: http.MethodPut, body: update, callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	update.UserID = stranger
	rec = serve(t, h.Put, request{method: http.MethodPut, body: update, callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The owner cannot hand the book to someone else either.
	rec = serve(t, h.Put, request{method: http.MethodPut, body: update, callerID: owner})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	invalid := domain.BookDto{ID: added.ID}
	rec = serve(t, h.Put, request{method: http.MethodPut, body: invalid, callerID: stranger})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, "Dune", books.byID[added.ID].Title)
}

func TestBookHandler_PutMissingBook(t *testing.T) {
	h, _ := newBookHandler()
	added := addBook(t, h)

	missing := added
	missing.ID = 42
	rec := serve(t, h.Put, request{method: http.MethodPut, body: missing, callerID: owner})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No book found for id: 42", decode[map[string]string](t, rec)["error"])
}

func TestBookHandler_Delete(t *testing.T) {
	h, books := newBookHandler()
	added := addBook(t, h)

	rec := serve(t, h.Delete, request{method: http.MethodDelete, vars: idVars(added.ID), callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, books.byID, added.ID)

	rec = serve(t, h.Delete, request{method: http.MethodDelete, vars: idVars(added.ID), callerID: owner})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, added, decode[domain.BookDto](t, rec))
	assert.NotContains(t, books.byID, added.ID)

	rec = serve(t, h.Delete, request{method: http.MethodDelete, vars: idVars(added.ID), callerID: owner})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No book found for id: 1", decode[map[string]string](t, rec)["error"])
}
