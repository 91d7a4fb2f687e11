package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health       *Handler
	Requests     *RequestHandler
	Approvals    *ApprovalHandler
	Entitlements *EntitlementHandler
}

// Register mounts every route. /health is public. Everything else requires
// auth, and the state-changing routes also go through idempotency.
func Register(e *echo.Echo, h Handlers, auth, idempotency echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	read := []echo.MiddlewareFunc{auth}
	write := []echo.MiddlewareFunc{auth}
	if idempotency != nil {
		write = append(write, idempotency)
	}

	e.POST("/requests/preview", h.Requests.Preview, read...)
	e.GET("/requests", h.Requests.List, read...)
	e.GET("/requests/:request_id", h.Requests.Get, read...)
	e.GET("/requests/:request_id/conflicts", h.Requests.Conflicts, read...)
	e.GET("/entitlements", h.Entitlements.List, read...)

	e.POST("/requests", h.Requests.Create, write...)
	e.PUT("/requests/:request_id", h.Requests.Edit, write...)
	e.POST("/requests/:request_id/submit", h.Requests.Submit, write...)
	e.POST("/requests/:request_id/cancel", h.Requests.Cancel, write...)
	e.POST("/requests/:request_id/decision", h.Approvals.Decide, write...)
}
