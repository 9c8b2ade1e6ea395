package repository

import (
	"database/sql"
	"fmt"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]domain.Category, error) {
	rows, err := r.db.Query(`SELECT id, description, code FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Description, &c.Code); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Get(id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRow(
		`SELECT id, description, code FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Description, &c.Code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) CategoryExists(id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

func (r *CategoryRepository) Add(c *domain.Category) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO categories (description, code) VALUES (?, ?)`,
		c.Description, c.Code,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	return result.LastInsertId()
}

func (r *CategoryRepository) Update(c *domain.Category) error {
	_, err := r.db.Exec(
		`UPDATE categories SET description = ?, code = ? WHERE id = ?`,
		c.Description, c.Code, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenceViolation
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
