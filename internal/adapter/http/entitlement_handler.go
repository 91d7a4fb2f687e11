package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leave-engine/internal/usecase/ledger"
)

type EntitlementHandler struct {
	ledger *ledger.Ledger
	now    func() time.Time
	log    *zap.Logger
}

func NewEntitlementHandler(l *ledger.Ledger, log *zap.Logger) *EntitlementHandler {
	return &EntitlementHandler{ledger: l, now: time.Now, log: log.Named("http.entitlement")}
}

// List returns the actor's balances for ?year=YYYY, defaulting to this year.
func (h *EntitlementHandler) List(c echo.Context) error {
	userID, ok, err := actor(c)
	if !ok {
		return err
	}
	year := h.now().UTC().Year()
	if raw := c.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 || y > 9999 {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "year", Message: "must be a four-digit year"}},
			})
		}
		year = y
	}
	out, err := h.ledger.Balances(c.Request().Context(), userID, year)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"year": year, "entitlements": out})
}
