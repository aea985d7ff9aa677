package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

// completedSegment is the reserved id addressing all completed tasks.
const completedSegment = "completed"

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List the caller's tasks
// @Tags todos
// @Router /todos [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	principal, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, principal.ID)
	if err != nil {
		h.respondError(stdCtx, ctx, err, "Error reading todos")
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags todos
// @Router /todos [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	principal, ok := h.principal(ctx)
	if !ok {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondMessage(ctx, http.StatusBadRequest, domain.ErrInvalidTaskText.Message)
		return
	}
	text, ok := req.TextValue()
	if !ok {
		h.respondMessage(ctx, http.StatusBadRequest, domain.ErrInvalidTaskText.Message)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, principal.ID, text)
	if err != nil {
		h.respondError(stdCtx, ctx, err, "Error creating todo")
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Update task text and/or completion
// @Tags todos
// @Router /todos/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	principal, ok := h.principal(ctx)
	if !ok {
		return
	}

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondMessage(ctx, http.StatusBadRequest, domain.ErrInvalidTaskUpdate.Message)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, principal.ID, taskID(ctx), req.Patch())
	if err != nil {
		h.respondError(stdCtx, ctx, err, "Error updating todo")
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete task, or all completed tasks when id is "completed"
// @Tags todos
// @Router /todos/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	if taskID(ctx) == completedSegment {
		h.ClearCompleted(ctx)
		return
	}

	principal, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, principal.ID, taskID(ctx)); err != nil {
		h.respondError(stdCtx, ctx, err, "Error deleting todo")
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Delete all completed tasks of the caller
// @Tags todos
// @Router /todos/completed [delete]
func (h *TaskHandler) ClearCompleted(ctx *fasthttp.RequestCtx) {
	principal, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.uc.ClearCompleted(stdCtx, principal.ID)
	if err != nil {
		h.respondError(stdCtx, ctx, err, "Error clearing completed todos")
		return
	}
	if count == 0 {
		h.respondNoContent(ctx)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewClearCompletedResponse(count))
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
