package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leave-engine/internal/domain/leave"
)

// statusOf maps the engine's error kinds onto HTTP.
func statusOf(err error) int {
	switch {
	case errors.Is(err, leave.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, leave.ErrBlackoutViolation),
		errors.Is(err, leave.ErrInsufficientEntitlement),
		errors.Is(err, leave.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, leave.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, leave.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, leave.ErrStorageTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, leave.ErrStorageConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}

	var ve *leave.ValidationError
	if errors.As(err, &ve) {
		resp.Error = "validation failed"
		resp.Details = []FieldError{{Field: ve.Field, Message: ve.Reason}}
	}
	var be *leave.BlackoutViolationError
	if errors.As(err, &be) {
		resp.Blackouts = be.Periods
	}
	var ie *leave.InsufficientEntitlementError
	if errors.As(err, &ie) {
		resp.Shortfall = &Shortfall{
			TotalDays:     ie.Total,
			DaysTaken:     ie.Taken,
			DaysPending:   ie.Pending,
			DaysRemaining: ie.Remaining(),
			Requested:     ie.Requested,
		}
	}
	return resp
}

// respondError renders err. Unclassified errors are logged and hidden.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		log.Error("unhandled error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, errorBody(err))
}

func invalidBody(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid body",
		Details: []FieldError{{Field: "_", Message: err.Error()}},
	})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
