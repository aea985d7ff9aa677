package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/tasklist/api/handler"
	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/internal/middleware"
	"github.com/fastygo/tasklist/pkg/httpcontext"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := router.New()

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		writeMessage(ctx, http.StatusNotFound, "Not found")
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		writeMessage(ctx, http.StatusMethodNotAllowed, "Method not allowed")
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, rec interface{}) {
		logger.Error("handler panic",
			zap.String("request_id", httpcontext.RequestID(ctx)),
			zap.Any("panic", rec))
		writeMessage(ctx, http.StatusInternalServerError, "Internal server error")
	}

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}

	// Auth routes
	r.POST("/auth/register", handlers.Auth.Register)
	r.POST("/auth/login", handlers.Auth.Login)
	r.GET("/auth/me", authMiddleware(handlers.Profile.GetProfile))

	// Protected routes. DELETE /todos/completed is served by DeleteTask.
	r.GET("/todos", authMiddleware(handlers.Task.GetTasks))
	r.POST("/todos", authMiddleware(handlers.Task.CreateTask))
	r.PUT("/todos/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/todos/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}

// Handler wraps the router with CORS and request logging, the full stack the
// server listens with.
func Handler(r *router.Router, logger *zap.Logger) fasthttp.RequestHandler {
	return middleware.Chain(r.Handler,
		middleware.CORS,
		middleware.RequestLogger(logger),
	)
}

func writeMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(transport.Marshal(transport.NewMessage(message)))
}
