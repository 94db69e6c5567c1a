package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	activityUC "github.com/taskforge/backend/usecase/activity"
)

type ActivityHandler struct {
	baseHandler
	uc *activityUC.UseCase
}

func NewActivityHandler(uc *activityUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List activity for one task
// @Tags activities
// @Router /api/v1/tasks/{id}/activities [get]
func (h *ActivityHandler) ListByTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	taskID, _ := ctx.UserValue("id").(string)
	if taskID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	page := parseInt(string(ctx.QueryArgs().Peek("page")), 1)
	pageSize := parseInt(string(ctx.QueryArgs().Peek("page_size")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.ListByTask(stdCtx, taskID, userID, page, pageSize)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(result.Items, result.Meta))
}

// @Summary List activity across the user's tasks
// @Tags activities
// @Router /api/v1/activities [get]
func (h *ActivityHandler) ListForUser(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	page := parseInt(string(ctx.QueryArgs().Peek("page")), 1)
	pageSize := parseInt(string(ctx.QueryArgs().Peek("page_size")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.ListForUser(stdCtx, userID, page, pageSize)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(result.Items, result.Meta))
}
