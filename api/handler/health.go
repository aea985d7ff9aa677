package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/internal/infrastructure/monitor"
	"github.com/fastygo/tasklist/pkg/httpcontext"
)

// StatusSource reports the latest storage health.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
}

func NewHealthHandler(mon StatusSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"storage": map[string]interface{}{
			"driver":     status.Driver,
			"online":     status.Storage,
			"last_check": status.LastCheck,
		},
	}

	if status.Storage {
		payload["status"] = "ok"
		h.respondJSON(ctx, http.StatusOK, payload)
		return
	}
	payload["status"] = "degraded"
	payload["message"] = "storage unavailable"
	h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
}
