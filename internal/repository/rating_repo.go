package repository

import (
	"database/sql"
	"fmt"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
)

type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) GetAll() ([]domain.Rating, error) {
	return r.list(`SELECT id, user_id, description, code FROM ratings ORDER BY id ASC`)
}

// GetUserRatings returns the ratings a user created along with the shared ones (user_id 0).
func (r *RatingRepository) GetUserRatings(userID int64) ([]domain.Rating, error) {
	return r.list(`SELECT id, user_id, description, code FROM ratings WHERE user_id IN (0, ?) ORDER BY id ASC`, userID)
}

func (r *RatingRepository) list(query string, args ...any) ([]domain.Rating, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []domain.Rating{}
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.Description, &rt.Code); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

func (r *RatingRepository) Get(id int64) (*domain.Rating, error) {
	var rt domain.Rating
	err := r.db.QueryRow(
		`SELECT id, user_id, description, code FROM ratings WHERE id = ?`, id,
	).Scan(&rt.ID, &rt.UserID, &rt.Description, &rt.Code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rt, nil
}

func (r *RatingRepository) RatingExists(id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ratings WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check rating: %w", err)
	}
	return exists, nil
}

func (r *RatingRepository) Add(rt *domain.Rating) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO ratings (user_id, description, code) VALUES (?, ?, ?)`,
		rt.UserID, rt.Description, rt.Code,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create rating: %w", err)
	}
	return result.LastInsertId()
}

func (r *RatingRepository) Update(rt *domain.Rating) error {
	_, err := r.db.Exec(
		`UPDATE ratings SET user_id = ?, description = ?, code = ? WHERE id = ?`,
		rt.UserID, rt.Description, rt.Code, rt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) Delete(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM ratings WHERE id = ?`, id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenceViolation
		}
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return nil
}
