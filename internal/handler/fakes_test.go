package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/middleware"
	"github.com/yusufkecer/bookshelf-backend/internal/repository"
)

var errStore = errors.New("store unavailable")

type fakeUsers struct {
	byID   map[int64]*domain.User
	nextID int64
	addErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int64]*domain.User), nextID: 1}
}

func (f *fakeUsers) UserPresent(email string) (bool, error) {
	u, _ := f.GetUser(email)
	return u != nil, nil
}

func (f *fakeUsers) UserPresentByID(id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeUsers) Add(email, passwordHash string) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	if ok, _ := f.UserPresent(email); ok {
		return 0, repository.ErrDuplicateEmail
	}
	id := f.nextID
	f.nextID++
	f.byID[id] = &domain.User{ID: id, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (f *fakeUsers) GetUser(email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByID(id int64) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) SetPasswordResetFields(id int64, token *uuid.UUID, expiry *time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return errStore
	}
	u.PasswordResetToken = token
	u.PasswordResetExpiry = expiry
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(id int64, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return errStore
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeBooks struct {
	byID   map[int64]domain.BookDto
	nextID int64
	addErr error
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{byID: make(map[int64]domain.BookDto), nextID: 1}
}

func (f *fakeBooks) GetUserBooks(userID int64) ([]domain.BookDto, error) {
	books := []domain.BookDto{}
	for id := int64(1); id < f.nextID; id++ {
		if b, ok := f.byID[id]; ok && b.UserID == userID {
			books = append(books, b)
		}
	}
	return books, nil
}

func (f *fakeBooks) GetBook(id int64) (*domain.BookDto, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBooks) Add(b *domain.Book) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	id := f.nextID
	f.nextID++
	f.byID[id] = domain.BookDto{
		ID: id, Title: b.Title, Author: b.Author, UserID: b.UserID,
		CategoryID: b.CategoryID, RatingID: b.RatingID, FinishedOn: b.FinishedOn,
		ImageURL: b.ImageURL, PageCount: b.PageCount, Summary: b.Summary, Year: b.Year,
	}
	return id, nil
}

func (f *fakeBooks) Update(b *domain.BookDto) error {
	f.byID[b.ID] = *b
	return nil
}

func (f *fakeBooks) Delete(id int64) error {
	delete(f.byID, id)
	return nil
}

type fakeCategories struct {
	byID      map[int64]domain.Category
	nextID    int64
	deleteErr error
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byID: make(map[int64]domain.Category), nextID: 1}
}

func (f *fakeCategories) GetAll() ([]domain.Category, error) {
	all := []domain.Category{}
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.byID[id]; ok {
			all = append(all, c)
		}
	}
	return all, nil
}

func (f *fakeCategories) Get(id int64) (*domain.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCategories) CategoryExists(id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeCategories) Add(c *domain.Category) (int64, error) {
	id := f.nextID
	f.nextID++
	c.ID = id
	f.byID[id] = *c
	return id, nil
}

func (f *fakeCategories) Update(c *domain.Category) error {
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCategories) Delete(id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	return nil
}

type fakeRatings struct {
	byID   map[int64]domain.Rating
	nextID int64
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{byID: make(map[int64]domain.Rating), nextID: 1}
}

func (f *fakeRatings) GetAll() ([]domain.Rating, error) {
	return f.filter(func(domain.Rating) bool { return true }), nil
}

func (f *fakeRatings) GetUserRatings(userID int64) ([]domain.Rating, error) {
	return f.filter(func(r domain.Rating) bool { return r.UserID == 0 || r.UserID == userID }), nil
}

func (f *fakeRatings) filter(keep func(domain.Rating) bool) []domain.Rating {
	all := []domain.Rating{}
	for id := int64(1); id < f.nextID; id++ {
		if r, ok := f.byID[id]; ok && keep(r) {
			all = append(all, r)
		}
	}
	return all
}

func (f *fakeRatings) Get(id int64) (*domain.Rating, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRatings) Add(rt *domain.Rating) (int64, error) {
	id := f.nextID
	f.nextID++
	rt.ID = id
	f.byID[id] = *rt
	return id, nil
}

func (f *fakeRatings) Update(rt *domain.Rating) error {
	f.byID[rt.ID] = *rt
	return nil
}

func (f *fakeRatings) Delete(id int64) error {
	delete(f.byID, id)
	return nil
}

type sentEmail struct {
	to  string
	url string
}

type fakeEmail struct {
	sent []sentEmail
}

func (f *fakeEmail) SendResetToken(to, resetURL string) error {
	f.sent = append(f.sent, sentEmail{to: to, url: resetURL})
	return nil
}

// fakeSearch fills in fixed catalog metadata.
type fakeSearch struct {
	imageURL  string
	pageCount int
	summary   string
}

func (f *fakeSearch) Enrich(ctx context.Context, draft domain.NewBookDto) domain.Book {
	pages, summary := f.pageCount, f.summary
	return domain.Book{
		Title: draft.Title, Author: draft.Author, UserID: draft.UserID,
		CategoryID: draft.CategoryID, RatingID: draft.RatingID, FinishedOn: draft.FinishedOn,
		ImageURL: f.imageURL, PageCount: &pages, Summary: &summary,
	}
}

type request struct {
	method   string
	body     interface{}
	vars     map[string]string
	callerID int64
}

func serve(t *testing.T, h http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	switch b := req.body.(type) {
	case nil:
	case string:
		body.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&body).Encode(b))
	}

	r := httptest.NewRequest(req.method, "/", &body)
	if req.vars != nil {
		r = mux.SetURLVars(r, req.vars)
	}
	if req.callerID != 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), req.callerID))
	}

	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
