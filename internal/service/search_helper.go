package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/googlebooks"
)

// VolumeSearcher finds catalog metadata for a title and author.
type VolumeSearcher interface {
	SearchVolumes(ctx context.Context, title, author string) (*googlebooks.VolumeSearch, error)
}

// SearchHelper enriches new books with catalog metadata.
type SearchHelper struct {
	searcher     VolumeSearcher
	defaultCover string
	timeout      time.Duration
	logger       *slog.Logger
}

func NewSearchHelper(searcher VolumeSearcher, defaultCover string, timeout time.Duration, logger *slog.Logger) *SearchHelper {
	return &SearchHelper{
		searcher:     searcher,
		defaultCover: defaultCover,
		timeout:      timeout,
		logger:       logger,
	}
}

// Enrich builds the book to persist from a draft. Lookup failures are logged and
// leave the default cover with no page count or summary; they never fail the add.
func (h *SearchHelper) Enrich(ctx context.Context, draft domain.NewBookDto) domain.Book {
	book := domain.Book{
		Title:      draft.Title,
		Author:     draft.Author,
		UserID:     draft.UserID,
		CategoryID: draft.CategoryID,
		RatingID:   draft.RatingID,
		FinishedOn: draft.FinishedOn,
		ImageURL:   h.defaultCover,
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	search, err := h.searcher.SearchVolumes(ctx, strings.ToLower(draft.Title), strings.ToLower(draft.Author))
	if err != nil {
		h.logger.Warn("book enrichment failed, using defaults",
			"title", draft.Title,
			"author", draft.Author,
			"error", err,
		)
		return book
	}
	if search == nil || search.TotalItems == 0 || len(search.Items) == 0 {
		h.logger.Debug("no catalog match", "title", draft.Title, "author", draft.Author)
		return book
	}

	volume := search.Items[0].VolumeInfo

	pageCount := volume.PageCount
	book.PageCount = &pageCount

	switch {
	case volume.ImageLinks.Small != "":
		book.ImageURL = volume.ImageLinks.Small
	case volume.ImageLinks.Thumbnail != "":
		book.ImageURL = volume.ImageLinks.Thumbnail
	}

	summary := volume.Description
	book.Summary = &summary

	return book
}
