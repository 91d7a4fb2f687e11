package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"leave-engine/internal/adapter/middleware"
	"leave-engine/internal/domain/leave"
	domainRequest "leave-engine/internal/domain/request"
	"leave-engine/internal/usecase/request"
	"leave-engine/pkg/id"
)

type RequestHandler struct {
	uc  *request.Usecase
	log *zap.Logger
}

func NewRequestHandler(uc *request.Usecase, log *zap.Logger) *RequestHandler {
	return &RequestHandler{uc: uc, log: log.Named("http.request")}
}

type draftReq struct {
	HolidayTypeID string `json:"holiday_type_id" validate:"required,hex32"`
	StartDate     string `json:"start_date"      validate:"required,isodate"`
	EndDate       string `json:"end_date"        validate:"required,isodate"`
	StartHalfDay  bool   `json:"start_half_day"`
	EndHalfDay    bool   `json:"end_half_day"`
	Reason        string `json:"reason"          validate:"max=1000"`
}

type previewReq struct {
	StartDate    string `json:"start_date"     validate:"required,isodate"`
	EndDate      string `json:"end_date"       validate:"required,isodate"`
	StartHalfDay bool   `json:"start_half_day"`
	EndHalfDay   bool   `json:"end_half_day"`
}

// input assumes the dates passed validation.
func (r draftReq) input(userID string) request.DraftInput {
	start, _ := leave.ParseDate(r.StartDate)
	end, _ := leave.ParseDate(r.EndDate)
	return request.DraftInput{
		UserID:        userID,
		HolidayTypeID: r.HolidayTypeID,
		StartDate:     start,
		EndDate:       end,
		StartHalfDay:  r.StartHalfDay,
		EndHalfDay:    r.EndHalfDay,
		Reason:        r.Reason,
	}
}

// bindBody binds and validates; on failure the response is already written.
func bindBody(c echo.Context, v any) (bool, error) {
	if err := bindStrict(c, v); err != nil {
		return false, invalidBody(c, err)
	}
	if err := c.Validate(v); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

// requestID reads and checks the :request_id path param.
func requestID(c echo.Context) (string, bool, error) {
	rid := c.Param("request_id")
	if rid == "" {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	if !id.Valid(rid) {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request_id path param"})
	}
	return rid, true, nil
}

func actor(c echo.Context) (string, bool, error) {
	a := middleware.ActorID(c)
	if a == "" {
		return "", false, c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authenticated actor"})
	}
	return a, true, nil
}

func (h *RequestHandler) Preview(c echo.Context) error {
	userID, ok, err := actor(c)
	if !ok {
		return err
	}
	var req previewReq
	if ok, err := bindBody(c, &req); !ok {
		return err
	}
	start, _ := leave.ParseDate(req.StartDate)
	end, _ := leave.ParseDate(req.EndDate)
	out, err := h.uc.Preview(c.Request().Context(), request.DraftInput{
		UserID:       userID,
		StartDate:    start,
		EndDate:      end,
		StartHalfDay: req.StartHalfDay,
		EndHalfDay:   req.EndHalfDay,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) Create(c echo.Context) error {
	userID, ok, err := actor(c)
	if !ok {
		return err
	}
	var req draftReq
	if ok, err := bindBody(c, &req); !ok {
		return err
	}
	out, err := h.uc.Create(c.Request().Context(), req.input(userID))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *RequestHandler) Edit(c echo.Context) error {
	userID, ok, err := actor(c)
	if !ok {
		return err
	}
	rid, ok, err := requestID(c)
	if !ok {
		return err
	}
	var req draftReq
	if ok, err := bindBody(c, &req); !ok {
		return err
	}
	out, err := h.uc.EditDraft(c.Request().Context(), rid, req.input(userID))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) Submit(c echo.Context) error {
	userID, ok, err := actor(c)
	if !ok {
		return err
	}
	rid, ok, err := requestID(c)
	if !ok {
		return err
	}
	out, err := h.uc.Submit(c.Request().Context(), rid, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) Cancel(c echo.Context) error {
	userID, ok, err := actor(c)
	if !ok {
		return err
	}
	rid, ok, err := requestID(c)
	if !ok {
		return err
	}
	out, err := h.uc.Cancel(c.Request().Context(), rid, userID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) Get(c echo.Context) error {
	actorID, ok, err := actor(c)
	if !ok {
		return err
	}
	rid, ok, err := requestID(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), rid, actorID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) List(c echo.Context) error {
	userID, ok, err := actor(c)
	if !ok {
		return err
	}
	status := domainRequest.Status(strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))))
	out, err := h.uc.ListMine(c.Request().Context(), userID, status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": out})
}

func (h *RequestHandler) Conflicts(c echo.Context) error {
	actorID, ok, err := actor(c)
	if !ok {
		return err
	}
	rid, ok, err := requestID(c)
	if !ok {
		return err
	}
	out, err := h.uc.Conflicts(c.Request().Context(), rid, actorID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		out = []leave.JobConflict{}
	}
	return c.JSON(http.StatusOK, map[string]any{"request_id": rid, "conflicts": out})
}
