package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rifathmfm/portfolio-api/internal/auth"
	"github.com/rifathmfm/portfolio-api/internal/sessions"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	var token string
	if n, _ := fmt.Sscanf(header, "Bearer %s", &token); n != 1 {
		return "", fmt.Errorf("invalid Authorization header")
	}
	return token, nil
}

func resolveSession(c *gin.Context, ver Verifier, token string) (auth.Session, error) {
	if black, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token); err == nil && black {
		return auth.Anonymous(), fmt.Errorf("token revoked")
	}
	verified, err := ver.Verify(c.Request.Context(), token)
	if err != nil {
		return auth.Anonymous(), err
	}
	var claims map[string]interface{}
	if err := verified.Claims(&claims); err != nil {
		return auth.Anonymous(), fmt.Errorf("failed to parse claims")
	}
	u, ok := auth.UserFromClaims(claims)
	if !ok {
		return auth.Anonymous(), fmt.Errorf("token missing subject")
	}
	// claims kept alongside the session for per-user rate limit keying
	c.Set("claims", claims)
	return auth.Authenticated(u), nil
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the
// provided verifier and rejects requests without a valid one. Use on mutation routes.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		sess, err := resolveSession(c, ver, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}
		c.Set(auth.ContextKey, sess)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a session when a valid Bearer token is present
// and falls back to the anonymous session otherwise. Read routes use this so the
// same endpoint can gate edit affordances without rejecting visitors.
func OptionalAuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := auth.Anonymous()
		if token, err := bearerToken(c); err == nil && ver != nil {
			if resolved, err := resolveSession(c, ver, token); err == nil {
				sess = resolved
			}
		}
		c.Set(auth.ContextKey, sess)
		c.Next()
	}
}
