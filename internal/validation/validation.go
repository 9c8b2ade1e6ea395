// Package validation checks incoming DTOs before they reach a helper or repository.
//
// Every DTO has its own function returning a Result. Struct-level rules are
// declared as validate tags on the domain types and evaluated with
// go-playground/validator; rules that do not fit a tag are checked by hand.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yusufkecer/bookshelf-backend/internal/apperr"
	"github.com/yusufkecer/bookshelf-backend/internal/domain"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// Report JSON names so clients can map errors to their fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return v
}

// Result maps field names to the reason they failed. An empty Result is valid.
type Result struct {
	Errors map[string]string `json:"errors,omitempty"`
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result, otherwise an apperr validation error
// carrying the field reasons as details.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return apperr.ValidationWithDetails("validation failed", r.Errors)
}

func (r *Result) add(field, reason string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = reason
	}
}

// maxPasswordBytes is the longest input bcrypt accepts. The validate tag
// counts characters, so multibyte passwords need this extra check.
const maxPasswordBytes = 72

func Login(dto domain.LoginDto) Result {
	r := check(dto)
	checkPasswordBytes(&r, dto.Password)
	return r
}

func Registration(dto domain.LoginDto) Result {
	r := check(dto)
	if strings.TrimSpace(dto.Password) == "" && dto.Password != "" {
		r.add("password", "must not be blank")
	}
	checkPasswordBytes(&r, dto.Password)
	return r
}

func PasswordReset(dto domain.PasswordResetDto) Result {
	return check(dto)
}

func ResetTokenUpdate(dto domain.ResetTokenUpdateDto) Result {
	r := check(dto)
	if dto.Token == uuid.Nil {
		r.add("token", "is required")
	}
	if strings.TrimSpace(dto.Password) == "" && dto.Password != "" {
		r.add("password", "must not be blank")
	}
	checkPasswordBytes(&r, dto.Password)
	return r
}

func NewBook(dto domain.NewBookDto) Result {
	return check(dto)
}

func UpdatedBook(dto domain.BookDto) Result {
	return check(dto)
}

func Category(c domain.Category) Result {
	return check(c)
}

// ExistingCategory also requires the id that updates target.
func ExistingCategory(c domain.Category) Result {
	r := check(c)
	if c.ID <= 0 {
		r.add("id", "must be greater than 0")
	}
	return r
}

func Rating(rt domain.Rating) Result {
	return check(rt)
}

func ExistingRating(rt domain.Rating) Result {
	r := check(rt)
	if rt.ID <= 0 {
		r.add("id", "must be greater than 0")
	}
	return r
}

func checkPasswordBytes(r *Result, password string) {
	if len(password) > maxPasswordBytes {
		r.add("password", fmt.Sprintf("must not exceed %d bytes", maxPasswordBytes))
	}
}

func check(s any) Result {
	var r Result

	err := validate.Struct(s)
	if err == nil {
		return r
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		r.add("_", err.Error())
		return r
	}

	for _, fe := range fieldErrs {
		r.add(fe.Field(), reason(fe))
	}
	return r
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
