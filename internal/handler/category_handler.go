package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yusufkecer/bookshelf-backend/internal/apperr"
	"github.com/yusufkecer/bookshelf-backend/internal/domain"
	"github.com/yusufkecer/bookshelf-backend/internal/repository"
	"github.com/yusufkecer/bookshelf-backend/internal/validation"
)

type CategoryHandler struct {
	categories CategoryRepository
	logger     *slog.Logger
}

func NewCategoryHandler(categories CategoryRepository, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAll()
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "fetch categories"))
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	category, err := h.load(id)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Post(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := readJSON(w, r, &category); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := validation.Category(category).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	id, err := h.categories.Add(&category)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "add category"))
		return
	}

	stored, err := h.load(id)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, stored)
}

func (h *CategoryHandler) Put(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := readJSON(w, r, &category); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := validation.ExistingCategory(category).Err(); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	exists, err := h.categories.CategoryExists(category.ID)
	if err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "check category"))
		return
	}
	if !exists {
		writeAppError(w, r, h.logger, categoryNotFound(category.ID))
		return
	}

	if err := h.categories.Update(&category); err != nil {
		writeAppError(w, r, h.logger, wrapInternal(err, "update category"))
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	category, err := h.load(id)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	if err := h.categories.Delete(id); err != nil {
		if errors.Is(err, repository.ErrReferenceViolation) {
			writeAppError(w, r, h.logger, apperr.Conflict("Category is still used by books."))
			return
		}
		writeAppError(w, r, h.logger, wrapInternal(err, "delete category"))
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) load(id int64) (*domain.Category, error) {
	category, err := h.categories.Get(id)
	if err != nil {
		return nil, wrapInternal(err, "fetch category")
	}
	if category == nil {
		return nil, categoryNotFound(id)
	}
	return category, nil
}

func categoryNotFound(id int64) error {
	return apperr.NotFoundf("Category with Id %d does not exist.", id)
}
