package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/pkg/httpcontext"
	profileUC "github.com/fastygo/tasklist/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get the caller's profile
// @Tags auth
// @Success 200 {object} domain.UserInfo
// @Router /auth/me [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	principal, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	info, err := h.uc.GetProfile(stdCtx, principal.ID)
	if err != nil {
		h.respondError(stdCtx, ctx, err, "Error loading user")
		return
	}
	h.respondJSON(ctx, http.StatusOK, info)
}
