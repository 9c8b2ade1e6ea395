package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/yusufkecer/bookshelf-backend/internal/config"
	"github.com/yusufkecer/bookshelf-backend/internal/handler"
	"github.com/yusufkecer/bookshelf-backend/internal/middleware"
)

type handlers struct {
	auth       *handler.AuthHandler
	email      *handler.EmailHandler
	books      *handler.BookHandler
	categories *handler.CategoryHandler
	ratings    *handler.RatingHandler
}

func newRouter(cfg *config.Config, h handlers, log *slog.Logger) http.Handler {
	loginRL := middleware.NewRateLimiter(5, 15*time.Minute, cfg.TrustProxy)
	registerRL := middleware.NewRateLimiter(5, 15*time.Minute, cfg.TrustProxy)
	resetRL := middleware.NewRateLimiter(3, 60*time.Minute, cfg.TrustProxy)

	r := mux.NewRouter()
	r.Use(middleware.SecurityHeaders)

	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.APIKeyMiddleware(cfg.APIKey))

	api.Handle("/auth/login", loginRL.Middleware(http.HandlerFunc(h.auth.Login))).Methods(http.MethodPost)
	api.Handle("/auth/register", registerRL.Middleware(http.HandlerFunc(h.auth.Register))).Methods(http.MethodPost)
	api.HandleFunc("/auth/update-password-using-token", h.auth.UpdatePasswordUsingToken).Methods(http.MethodPut)
	api.Handle("/emails/send-reset-token", resetRL.Middleware(http.HandlerFunc(h.email.SendResetToken))).Methods(http.MethodPost)

	api.HandleFunc("/categories", h.categories.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", h.categories.Get).Methods(http.MethodGet)
	api.HandleFunc("/ratings", h.ratings.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/ratings/user/{userId}", h.ratings.GetUserRatings).Methods(http.MethodGet)
	api.HandleFunc("/ratings/{id}", h.ratings.Get).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.HandleFunc("/books/user/{userId}", h.books.GetUserBooks).Methods(http.MethodGet)
	protected.HandleFunc("/books/{id}", h.books.GetBook).Methods(http.MethodGet)
	protected.HandleFunc("/books", h.books.Post).Methods(http.MethodPost)
	protected.HandleFunc("/books", h.books.Put).Methods(http.MethodPut)
	protected.HandleFunc("/books/{id}", h.books.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/categories", h.categories.Post).Methods(http.MethodPost)
	protected.HandleFunc("/categories", h.categories.Put).Methods(http.MethodPut)
	protected.HandleFunc("/categories/{id}", h.categories.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/ratings", h.ratings.Post).Methods(http.MethodPost)
	protected.HandleFunc("/ratings", h.ratings.Put).Methods(http.MethodPut)
	protected.HandleFunc("/ratings/{id}", h.ratings.Delete).Methods(http.MethodDelete)

	// CORS sits outside the router so preflight requests never reach route matching.
	var root http.Handler = r
	root = middleware.RequestLogger(log)(root)
	root = middleware.Recoverer(log)(root)
	root = middleware.CORS(cfg.AllowedOrigins)(root)
	return root
}
