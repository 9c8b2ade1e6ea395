package domain

import "time"

// Book is the row written when a book is added.
type Book struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	UserID     int64      `json:"userId"`
	CategoryID int64      `json:"categoryId"`
	RatingID   int64      `json:"ratingId"`
	FinishedOn *time.Time `json:"finishedOn,omitempty"`
	ImageURL   string     `json:"imageUrl"`
	PageCount  *int       `json:"pageCount,omitempty"`
	Summary    *string    `json:"summary,omitempty"`
	Year       *int       `json:"year,omitempty"`
}

type NewBookDto struct {
	Title      string     `json:"title" validate:"required,max=255"`
	Author     string     `json:"author" validate:"required,max=255"`
	UserID     int64      `json:"userId" validate:"gt=0"`
	CategoryID int64      `json:"categoryId" validate:"gt=0"`
	RatingID   int64      `json:"ratingId" validate:"gt=0"`
	FinishedOn *time.Time `json:"finishedOn,omitempty"`
}

// BookDto is a persisted book together with its category and rating labels.
// The label fields are read-only; updates ignore them.
type BookDto struct {
	ID         int64      `json:"id" validate:"gt=0"`
	Title      string     `json:"title" validate:"required,max=255"`
	Author     string     `json:"author" validate:"required,max=255"`
	UserID     int64      `json:"userId" validate:"gt=0"`
	CategoryID int64      `json:"categoryId" validate:"gt=0"`
	RatingID   int64      `json:"ratingId" validate:"gt=0"`
	FinishedOn *time.Time `json:"finishedOn,omitempty"`
	ImageURL   string     `json:"imageUrl" validate:"max=2048"`
	PageCount  *int       `json:"pageCount,omitempty" validate:"omitempty,gte=0"`
	Summary    *string    `json:"summary,omitempty"`
	Year       *int       `json:"year,omitempty" validate:"omitempty,gte=0,lte=9999"`

	CategoryCode        string `json:"categoryCode,omitempty"`
	CategoryDescription string `json:"categoryDescription,omitempty"`
	RatingCode          string `json:"ratingCode,omitempty"`
	RatingDescription   string `json:"ratingDescription,omitempty"`
}
