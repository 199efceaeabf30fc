package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userRoleKey  = "userRole"
	principalKey = "principal"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// PrincipalResolver loads the current role for a verified subject.
// Blocked accounts resolve to an apperr.Forbidden error.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (identity.Principal, error)
}

// AuthConfig wires Auth to its collaborators. Public requests skip
// authentication entirely.
type AuthConfig struct {
	Verifier TokenVerifier
	Resolver PrincipalResolver
	Public   func(c *gin.Context) bool
}

// Auth verifies a bearer token (or the token query parameter used by inline
// resume viewers) and stores the resolved principal in context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}
		if cfg.Public != nil && cfg.Public(c) {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok || cfg.Verifier == nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		claims, err := cfg.Verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		principal := identity.Principal{ID: claims.Sub}
		if cfg.Resolver != nil {
			principal, err = cfg.Resolver.ResolvePrincipal(c.Request.Context(), claims.Sub)
			if err != nil {
				switch apperr.KindOf(err) {
				case apperr.Forbidden:
					respond.Error(c, http.StatusForbidden, "forbidden", "account is blocked", nil)
				case apperr.NotFound:
					respond.Error(c, http.StatusUnauthorized, "unauthorized", "user no longer exists", nil)
				default:
					respond.Problem(c, err)
				}
				return
			}
		} else if role, ok := identity.ParseRole(claims.Role); ok {
			principal.Role = role
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		return token, token != ""
	}
	token := strings.TrimSpace(c.Query("token"))
	return token, token != ""
}

// SetPrincipal stores p in the gin context.
func SetPrincipal(c *gin.Context, p identity.Principal) {
	c.Set(principalKey, p)
	c.Set(userIDKey, p.ID)
	c.Set(userRoleKey, string(p.Role))
}

// PrincipalFromContext returns the principal set by Auth, or the anonymous
// principal.
func PrincipalFromContext(c *gin.Context) identity.Principal {
	if c == nil {
		return identity.Principal{}
	}
	if val, ok := c.Get(principalKey); ok {
		if p, ok := val.(identity.Principal); ok {
			return p
		}
	}
	return identity.Principal{}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return PrincipalFromContext(c).ID
}
