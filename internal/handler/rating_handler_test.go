package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/logger"
	"github.com/yusufkecer/bookshelf-backend/internal/service"
)

func newRatingHandler() (*RatingHandler, *fakeRatings) {
	ratings := newFakeRatings()
	return NewRatingHandler(ratings, service.NewUserHelper("test-secret", time.Hour), logger.Discard()), ratings
}

func TestRatingHandler_SharedAndPersonal(t *testing.T) {
	h, _ := newRatingHandler()

	rec := serve(t, h.Post, request{method: http.MethodPost, body: domain.Rating{Description: "Loved it", Code: "❤️"}, callerID: owner})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(t, h.Post, request{method: http.MethodPost, body: domain.Rating{UserID: owner, Description: "Meh", Code: "😐"}, callerID: owner})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(t, h.Post, request{method: http.MethodPost, body: domain.Rating{UserID: owner, Description: "Spam", Code: "x"}, callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h.GetUserRatings, request{method: http.MethodGet, vars: map[string]string{"userId": "2"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Rating](t, rec), 1)

	rec = serve(t, h.GetUserRatings, request{method: http.MethodGet, vars: map[string]string{"userId": "1"}})
	assert.Len(t, decode[[]domain.Rating](t, rec), 2)

	rec = serve(t, h.GetAll, request{method: http.MethodGet})
	assert.Len(t, decode[[]domain.Rating](t, rec), 2)
}

func TestRatingHandler_ChangeOwnership(t *testing.T) {
	h, ratings := newRatingHandler()
	ratings.Add(&domain.Rating{UserID: owner, Description: "Meh", Code: "😐"})

	rec := serve(t, h.Put, request{method: http.MethodPut, body: domain.Rating{ID: 1, UserID: owner, Description: "Fine", Code: "🙂"}, callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h.Delete, request{method: http.MethodDelete, vars: idVars(1), callerID: stranger})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, h.Put, request{method: http.MethodPut, body: domain.Rating{ID: 1, UserID: owner, Description: "Fine", Code: "🙂"}, callerID: owner})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fine", ratings.byID[1].Description)

	rec = serve(t, h.Delete, request{method: http.MethodDelete, vars: idVars(1), callerID: owner})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ratings.byID)

	rec = serve(t, h.Get, request{method: http.MethodGet, vars: idVars(1)})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
