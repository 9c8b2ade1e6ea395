package repository

import (
	"database/sql"
	"fmt"

	"github.com/yusufkecer/bookshelf-backend/internal/domain"
)

const selectBookDto = `
	SELECT b.id, b.title, b.author, b.user_id, b.category_id, b.rating_id, b.finished_on,
	       b.image_url, b.page_count, b.summary, b.year,
	       COALESCE(c.code, ''), COALESCE(c.description, ''),
	       COALESCE(r.code, ''), COALESCE(r.description, '')
	FROM books b
	LEFT JOIN categories c ON c.id = b.category_id
	LEFT JOIN ratings r ON r.id = b.rating_id`

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) GetUserBooks(userID int64) ([]domain.BookDto, error) {
	rows, err := r.db.Query(selectBookDto+` WHERE b.user_id = ? ORDER BY b.finished_on IS NULL, b.finished_on DESC, b.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []domain.BookDto{}
	for rows.Next() {
		b, err := scanBookDto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (r *BookRepository) GetBook(id int64) (*domain.BookDto, error) {
	b, err := scanBookDto(r.db.QueryRow(selectBookDto+` WHERE b.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return b, nil
}

func (r *BookRepository) BookExists(id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", err)
	}
	return exists, nil
}

func (r *BookRepository) Add(b *domain.Book) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO books (title, author, user_id, category_id, rating_id, finished_on, image_url, page_count, summary, year)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Author, b.UserID, b.CategoryID, b.RatingID,
		nullTime(b.FinishedOn), b.ImageURL, b.PageCount, b.Summary, b.Year,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrReferenceViolation
		}
		return 0, fmt.Errorf("failed to create book: %w", err)
	}
	return result.LastInsertId()
}

func (r *BookRepository) Update(b *domain.BookDto) error {
	_, err := r.db.Exec(
		`UPDATE books
		 SET title = ?, author = ?, user_id = ?, category_id = ?, rating_id = ?, finished_on = ?,
		     image_url = ?, page_count = ?, summary = ?, year = ?
		 WHERE id = ?`,
		b.Title, b.Author, b.UserID, b.CategoryID, b.RatingID, nullTime(b.FinishedOn),
		b.ImageURL, b.PageCount, b.Summary, b.Year, b.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrReferenceViolation
		}
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

func (r *BookRepository) Delete(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookDto(row rowScanner) (*domain.BookDto, error) {
	var (
		b          domain.BookDto
		finishedOn sql.NullTime
		pageCount  sql.NullInt64
		summary    sql.NullString
		year       sql.NullInt64
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.UserID, &b.CategoryID, &b.RatingID, &finishedOn,
		&b.ImageURL, &pageCount, &summary, &year,
		&b.CategoryCode, &b.CategoryDescription, &b.RatingCode, &b.RatingDescription,
	)
	if err != nil {
		return nil, err
	}

	if finishedOn.Valid {
		t := finishedOn.Time
		b.FinishedOn = &t
	}
	if pageCount.Valid {
		n := int(pageCount.Int64)
		b.PageCount = &n
	}
	if summary.Valid {
		b.Summary = &summary.String
	}
	if year.Valid {
		n := int(year.Int64)
		b.Year = &n
	}
	return &b, nil
}
