package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"leave-engine/internal/domain/approval"
	"leave-engine/internal/domain/leave"
	"leave-engine/pkg/id"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error     string                 `json:"error"`
	Details   []FieldError           `json:"details,omitempty"`
	Blackouts []leave.BlockingPeriod `json:"blackouts,omitempty"`
	Shortfall *Shortfall             `json:"entitlement,omitempty"`
}

// Shortfall explains an InsufficientEntitlement refusal.
type Shortfall struct {
	TotalDays     float64 `json:"total_days"`
	DaysTaken     float64 `json:"days_taken"`
	DaysPending   float64 `json:"days_pending"`
	DaysRemaining float64 `json:"days_remaining"`
	Requested     float64 `json:"requested"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// public ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	})
	// calendar date YYYY-MM-DD
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := leave.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("decision", func(fl validator.FieldLevel) bool {
		return approval.Decision(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "isodate":
			out = append(out, FieldError{Field: field, Message: "must be a date formatted YYYY-MM-DD"})
		case "decision":
			out = append(out, FieldError{Field: field, Message: "must be APPROVED or REJECTED"})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
