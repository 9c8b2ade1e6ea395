package domain

type Rating struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId" validate:"gte=0"`
	Description string `json:"description" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=16"`
}
