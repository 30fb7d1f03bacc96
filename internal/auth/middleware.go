package auth

import (
	"context"
	"net/http"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie.
const CookieName = "session_id"

const contextKeyPrincipal = "principal"

// Principal is the authenticated caller, passed explicitly through the gin
// context to handlers.
type Principal struct {
	UserID   int64
	Username string
	Role     string
}

func (p Principal) IsAdmin() bool { return p.Role == dom.RoleAdmin }

// UserLoader is the subset of the user repository the middleware needs.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
}

// PrincipalFrom returns the caller set by RequireSession or OptionalSession.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(contextKeyPrincipal)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// UserIDFromContext returns the current user ID. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	p, _ := PrincipalFrom(c)
	return p.UserID
}

// RequireSession returns a middleware that checks for a valid session cookie
// of a non-banned user and stores the Principal. Otherwise responds with 401.
func RequireSession(sessions *Store, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := resolve(c, sessions, users)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyPrincipal, p)
		c.Next()
	}
}

// OptionalSession stores the Principal when a valid session is present and
// never rejects the request.
func OptionalSession(sessions *Store, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, ok := resolve(c, sessions, users); ok {
			c.Set(contextKeyPrincipal, p)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func resolve(c *gin.Context, sessions *Store, users UserLoader) (Principal, bool) {
	sessionID, err := c.Cookie(CookieName)
	if err != nil || sessionID == "" {
		return Principal{}, false
	}
	userID, ok := sessions.GetUserID(c.Request.Context(), sessionID)
	if !ok {
		return Principal{}, false
	}
	u, err := users.GetByID(c.Request.Context(), userID)
	if err != nil || u.IsBanned {
		return Principal{}, false
	}
	return Principal{UserID: u.ID, Username: u.Username, Role: u.Role}, true
}
