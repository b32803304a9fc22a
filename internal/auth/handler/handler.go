package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/remcostoeten/testauth/internal/auth/credentials"
	"github.com/remcostoeten/testauth/internal/auth/provider"
	"github.com/remcostoeten/testauth/internal/logger"
	"github.com/remcostoeten/testauth/internal/ratelimit"
	"github.com/remcostoeten/testauth/internal/session"
)

// exchangeTimeout bounds the server-to-server calls against the identity
// provider. Non-response is an exchange failure, never a hang.
const exchangeTimeout = 10 * time.Second

type Handler struct {
	providers   *provider.Registry
	sessions    *session.Service
	credentials *credentials.Service
	limiter     *ratelimit.LoginLimiter
	secure      bool
}

func NewHandler(
	registry *provider.Registry,
	sessions *session.Service,
	creds *credentials.Service,
	limiter *ratelimit.LoginLimiter,
	secure bool,
) *Handler {
	return &Handler{
		providers:   registry,
		sessions:    sessions,
		credentials: creds,
		limiter:     limiter,
		secure:      secure,
	}
}

// RegisterRoutes mounts one login/callback pair per configured provider
// plus the session endpoints.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	for _, name := range h.providers.Names() {
		r.GET("/api/auth/"+name+"/login", h.oauthLogin(name))
		r.GET("/api/auth/"+name+"/callback", h.oauthCallback(name))
	}

	r.GET("/api/auth/me", h.me)
	r.POST("/api/auth/logout", h.logout)
	r.POST("/api/auth/login", h.login)
	r.POST("/api/auth/register", h.register)
}

func (h *Handler) oauthLogin(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.providers.Get(name)
		if err != nil {
			c.String(http.StatusBadRequest, "unknown oauth provider")
			return
		}

		state := h.newState(c)
		c.Redirect(http.StatusFound, p.AuthCodeURL(state))
	}
}

func (h *Handler) oauthCallback(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.providers.Get(name)
		if err != nil {
			c.String(http.StatusBadRequest, "unknown oauth provider")
			return
		}

		code := c.Query("code")
		if code == "" {
			c.String(http.StatusBadRequest, "no code provided")
			return
		}

		// The stored nonce is invalidated regardless of match outcome:
		// a consumed state can never be replayed.
		state := c.Query("state")
		stored := h.consumeState(c)
		if state == "" || stored == "" || state != stored {
			logger.Warn("oauth state mismatch", map[string]any{
				"provider": name,
				"ip":       c.ClientIP(),
			})
			c.String(http.StatusBadRequest, "invalid state")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), exchangeTimeout)
		defer cancel()

		profile, err := p.Exchange(ctx, code)
		if err != nil {
			logger.Warn("oauth exchange failed", map[string]any{
				"provider": name,
				"error":    err.Error(),
			})
			c.String(http.StatusBadRequest, "authentication failed: %s", err.Error())
			return
		}

		// The session is only established after every verification step
		// succeeded; no intermediate cookie writes happen above.
		if err := h.sessions.Issue(c.Writer, profile.Identity()); err != nil {
			logger.Error("session issue failed", map[string]any{
				"provider": name,
				"error":    err.Error(),
			})
			c.String(http.StatusInternalServerError, "failed to create session")
			return
		}

		logger.Info("login succeeded", map[string]any{
			"provider": name,
			"user_id":  profile.Identity().ID,
		})

		c.Redirect(http.StatusFound, "/dashboard")
	}
}

func (h *Handler) me(c *gin.Context) {
	sess := h.sessions.Get(c.Request)
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Destroy(c.Writer)
	c.Status(http.StatusNoContent)
}
