package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/easelhq/easel/config"
)

type principalKeyType struct{}

var principalKey = principalKeyType{}

// Principal identifies the holder of a verified access token.
type Principal struct {
	Name   string
	Scopes []string
}

// ExtractBearerToken extracts a Bearer token from an Authorization header value.
// Returns an empty string if the header is not present, malformed, or not a Bearer token.
func ExtractBearerToken(auth string) string {
	if auth == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return token
}

func AddPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func GetPrincipal(ctx context.Context) *Principal {
	principal, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil
	}

	return principal
}

func (p *Principal) String() string {
	return fmt.Sprintf("Principal{name=%v, scopes=%v}", p.Name, strings.Join(p.Scopes, " "))
}

func (p *Principal) HasScope(scope Scope) bool {
	name := scope.String()
	return slices.ContainsFunc(p.Scopes, func(s string) bool {
		return strings.EqualFold(s, name)
	})
}

var ErrEmptyToken = errors.New("received empty token")

// VerifyAccessToken checks a presented token against the configured access
// tokens using constant-time comparison. Every configured token is compared
// before the result is decided. A token matching none of them yields (nil, nil).
func VerifyAccessToken(cfg *config.Config, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	presented := []byte(token)

	var matched *config.AccessToken
	for i := range cfg.Auth.Tokens {
		candidate := &cfg.Auth.Tokens[i]
		if subtle.ConstantTimeCompare(presented, []byte(candidate.Token)) == 1 {
			matched = candidate
		}
	}

	if matched == nil {
		return nil, nil
	}

	return &Principal{Name: matched.Name, Scopes: slices.Clone(matched.Scopes)}, nil
}
