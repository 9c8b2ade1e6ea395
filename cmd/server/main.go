package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yusufkecer/bookshelf-backend/internal/config"
	"github.com/yusufkecer/bookshelf-backend/internal/db"
	"github.com/yusufkecer/bookshelf-backend/internal/googlebooks"
	"github.com/yusufkecer/bookshelf-backend/internal/handler"
	"github.com/yusufkecer/bookshelf-backend/internal/logger"
	"github.com/yusufkecer/bookshelf-backend/internal/repository"
	"github.com/yusufkecer/bookshelf-backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bookshelf: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.Environment, cfg.LogLevel)

	database, err := db.Connect(cfg, log)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, db.Dialect(cfg.DBDriver), log); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, buildHandlers(cfg, database, log), log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func buildHandlers(cfg *config.Config, database *sql.DB, log *slog.Logger) handlers {
	userRepo := repository.NewUserRepository(database)
	bookRepo := repository.NewBookRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	ratingRepo := repository.NewRatingRepository(database)

	booksClient := googlebooks.NewClient(cfg.GoogleBooksURL, cfg.GoogleBooksKey, cfg.SearchTimeout, log)

	userHelper := service.NewUserHelper(cfg.JWTSecret, cfg.TokenTTL)
	searchHelper := service.NewSearchHelper(booksClient, cfg.DefaultCover, cfg.SearchTimeout, log)
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, log)

	return handlers{
		auth:       handler.NewAuthHandler(userRepo, userHelper, log),
		email:      handler.NewEmailHandler(userRepo, emailService, cfg.SiteURL, cfg.ResetTokenTTL, log),
		books:      handler.NewBookHandler(bookRepo, ratingRepo, userHelper, searchHelper, log),
		categories: handler.NewCategoryHandler(categoryRepo, log),
		ratings:    handler.NewRatingHandler(ratingRepo, userHelper, log),
	}
}
