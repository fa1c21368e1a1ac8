package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/easelhq/easel/config"
	"github.com/easelhq/easel/server/auth"
	"github.com/easelhq/easel/server/resp"
	"github.com/easelhq/easel/server/util"
)

// ValidateTokenMiddleware wraps a downstream handler. At execution time it
// extracts a Bearer token from the Authorization header and verifies it against
// the configured access tokens. Requests without a token are rejected with 401
// and requests with an unknown token with 403. On success the matching
// principal and a request-scoped logger are attached to the request context.
func ValidateTokenMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(auth.ExtractBearerToken(r.Header.Get("Authorization")))
		if token == "" {
			resp.WriteUnauthorized(w, "An access token is required")
			return
		}

		principal, err := auth.VerifyAccessToken(cfg, token)
		if err != nil {
			resp.WriteUnauthorized(w, "An access token is required")
			return
		}

		if principal == nil {
			resp.WriteForbidden(w, "Token validation failed")
			return
		}

		rl := util.WithRequest(log.Default(), r, principal.Name)
		ctx := util.ContextWithLogger(r.Context(), rl)
		next.ServeHTTP(w, r.WithContext(auth.AddPrincipal(ctx, principal)))
	})
}
