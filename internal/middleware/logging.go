package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/pkg/httpcontext"
)

// RequestLogger logs one entry per request once the handler has finished.
func RequestLogger(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			reqID := httpcontext.RequestID(ctx)

			next(ctx)

			status := ctx.Response.StatusCode()
			fields := []zap.Field{
				zap.String("request_id", reqID),
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", ctx.RemoteAddr().String()),
			}
			if ua := ctx.Request.Header.UserAgent(); len(ua) > 0 {
				fields = append(fields, zap.ByteString("user_agent", ua))
			}
			switch {
			case status >= fasthttp.StatusInternalServerError:
				logger.Error("request failed", fields...)
			default:
				logger.Info("request handled", fields...)
			}
		}
	}
}

// Chain wraps h so that the first middleware is the outermost.
func Chain(h fasthttp.RequestHandler, mws ...func(fasthttp.RequestHandler) fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
