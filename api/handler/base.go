package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/middleware"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(transport.Marshal(payload))
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.ResetBody()
}

func (h baseHandler) respondMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	h.respondJSON(ctx, status, transport.NewMessage(message))
}

// respondError maps domain errors to their status. Anything else is logged
// and answered with a 500 carrying fallback as the message.
func (h baseHandler) respondError(stdCtx context.Context, ctx *fasthttp.RequestCtx, err error, fallback string) {
	status := mapError(err)
	message := domain.PublicMessage(err)
	if status == http.StatusInternalServerError || message == "" {
		logger.WithRequestID(stdCtx, h.logger).Error(fallback,
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
		status = http.StatusInternalServerError
		message = fallback
	}
	h.respondMessage(ctx, status, message)
}

// principal returns the authenticated caller or answers 401.
func (h baseHandler) principal(ctx *fasthttp.RequestCtx) (*domain.Principal, bool) {
	p, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		h.respondMessage(ctx, http.StatusUnauthorized, domain.ErrMissingToken.Message)
	}
	return p, ok
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
