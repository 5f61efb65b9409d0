package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/rifathmfm/portfolio-api/internal/models"
)

// Session is the viewer state for a request: either anonymous or an
// authenticated user. Modeled as a tagged value rather than a nullable
// pointer so a future role split (admin vs viewer) stays a type change.
type Session struct {
	kind sessionKind
	user models.User
}

type sessionKind int

const (
	kindAnonymous sessionKind = iota
	kindAuthenticated
)

// Anonymous returns the unauthenticated session.
func Anonymous() Session { return Session{kind: kindAnonymous} }

// Authenticated returns a session for the given user.
func Authenticated(u models.User) Session {
	return Session{kind: kindAuthenticated, user: u}
}

// Present reports whether a user is signed in.
func (s Session) Present() bool { return s.kind == kindAuthenticated }

// User returns the signed-in user and whether one is present.
func (s Session) User() (models.User, bool) {
	return s.user, s.kind == kindAuthenticated
}

// ContextKey is the gin context key under which middleware stores the session.
const ContextKey = "session"

// FromContext returns the request session, defaulting to Anonymous when no
// auth middleware ran or the token did not resolve.
func FromContext(c *gin.Context) Session {
	if v, ok := c.Get(ContextKey); ok {
		if s, ok2 := v.(Session); ok2 {
			return s
		}
	}
	return Anonymous()
}

// UserFromClaims builds a User from verified OIDC claims. Returns false when
// the claims carry no subject.
func UserFromClaims(claims map[string]interface{}) (models.User, bool) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.User{}, false
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return models.User{Sub: sub, Email: email, Name: name}, true
}
