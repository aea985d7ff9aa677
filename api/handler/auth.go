package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	authUC "github.com/fastygo/tasklist/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new user
// @Tags auth
// @Router /auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseCredentials(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Register(stdCtx, req.Username, req.Password)
	if err != nil {
		h.respondError(stdCtx, ctx, err, "Error registering user")
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewAuthResponse("User registered successfully", session))
}

// @Summary Log in
// @Tags auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseCredentials(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, req.Username, req.Password)
	if err != nil {
		h.respondError(stdCtx, ctx, err, "Error logging in")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewAuthResponse("Login successful", session))
}

// parseCredentials treats an unreadable body like one with missing fields.
func (h *AuthHandler) parseCredentials(ctx *fasthttp.RequestCtx) (transport.CredentialsRequest, bool) {
	var req transport.CredentialsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Username == "" || req.Password == "" {
		h.respondMessage(ctx, http.StatusBadRequest, domain.ErrMissingCredentials.Message)
		return req, false
	}
	return req, true
}
