package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainApproval "leave-engine/internal/domain/approval"
	"leave-engine/internal/usecase/approval"
)

type ApprovalHandler struct {
	coord *approval.Coordinator
	log   *zap.Logger
}

func NewApprovalHandler(coord *approval.Coordinator, log *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{coord: coord, log: log.Named("http.approval")}
}

type decisionReq struct {
	Decision string `json:"decision" validate:"required,decision"`
	// Required when rejecting; the coordinator enforces it.
	Comments string `json:"comments" validate:"max=2000"`
}

// Decide records the authenticated approver's decision. The response
// carries the updated request and the requester's job conflicts.
func (h *ApprovalHandler) Decide(c echo.Context) error {
	approverID, ok, err := actor(c)
	if !ok {
		return err
	}
	rid, ok, err := requestID(c)
	if !ok {
		return err
	}
	var req decisionReq
	if ok, err := bindBody(c, &req); !ok {
		return err
	}
	out, err := h.coord.Decide(c.Request().Context(), approval.DecideInput{
		RequestID:  rid,
		ApproverID: approverID,
		Decision:   domainApproval.Decision(req.Decision),
		Comments:   req.Comments,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
