package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/httpcontext"
)

const principalKey = "principal"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// JWTAuth rejects requests without a valid bearer token: 401 when the token is
// missing, 403 when it is invalid or expired. Accepted requests carry the
// caller's principal, readable with PrincipalFrom.
func JWTAuth(verifier TokenVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			principal, err := verifier.Verify(extractToken(ctx))
			if err != nil {
				status := fasthttp.StatusForbidden
				if domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					status = fasthttp.StatusUnauthorized
				} else {
					logger.Warn("invalid jwt token",
						zap.String("request_id", httpcontext.RequestID(ctx)),
						zap.Error(err))
				}
				writeJSON(ctx, status, transport.NewMessage(domain.PublicMessage(err)))
				return
			}

			ctx.SetUserValue(principalKey, principal)
			next(ctx)
		}
	}
}

// PrincipalFrom returns the caller attached by JWTAuth.
func PrincipalFrom(ctx *fasthttp.RequestCtx) (*domain.Principal, bool) {
	p, ok := ctx.UserValue(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// extractToken reads "Authorization: Bearer <token>". A header without the
// scheme yields its second space-separated field, which is empty for a bare
// value.
func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(transport.Marshal(payload))
}
