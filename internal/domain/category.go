package domain

type Category struct {
	ID          int64  `json:"id"`
	Description string `json:"description" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=16"`
}
