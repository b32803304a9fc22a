package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/remcostoeten/testauth/internal/session"
)

// Gatekeeper intercepts every inbound request before route handling and
// decides: allow, or redirect. It mutates no state; verification failures
// are swallowed and treated as an absent session.
type Gatekeeper struct {
	sessions *session.Service
}

func NewGatekeeper(sessions *session.Service) *Gatekeeper {
	return &Gatekeeper{sessions: sessions}
}

// skipPath excludes static assets and operational endpoints from
// interception.
func skipPath(path string) bool {
	return path == "/health" ||
		path == "/favicon.ico" ||
		strings.HasPrefix(path, "/static/")
}

// authFlowPath marks the login surfaces an authenticated user should be
// redirected away from.
func authFlowPath(path string) bool {
	if path == "/login" || path == "/register" {
		return true
	}
	if !strings.HasPrefix(path, "/api/auth/") {
		return false
	}
	// Session introspection stays reachable for authenticated callers,
	// otherwise logout could never run.
	return path != "/api/auth/me" && path != "/api/auth/logout"
}

func (g *Gatekeeper) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipPath(path) {
			c.Next()
			return
		}

		user := g.sessions.Verify(session.ReadCookie(c.Request))

		if authFlowPath(path) {
			if user != nil {
				c.Redirect(http.StatusFound, "/dashboard")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if path == "/api/auth/me" || path == "/api/auth/logout" {
			c.Next()
			return
		}

		if user == nil {
			if strings.HasPrefix(path, "/api/") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}
			q := url.Values{"callbackUrl": {path}}
			c.Redirect(http.StatusFound, "/login?"+q.Encode())
			c.Abort()
			return
		}

		c.Next()
	}
}
