package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

// newState generates an unguessable nonce binding the authorize redirect
// to its callback and stores it in a short-lived cookie. A concurrent
// second authorize request overwrites the first nonce; only one flow can
// complete.
func (h *Handler) newState(c *gin.Context) string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)

	state := base64.RawURLEncoding.EncodeToString(b)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})

	return state
}

// consumeState returns the stored nonce and invalidates it. The nonce is
// single use: it is discarded whether or not the rest of the exchange
// succeeds, so a replayed callback always fails.
func (h *Handler) consumeState(c *gin.Context) string {
	cookie, err := c.Request.Cookie(stateCookieName)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	if err != nil {
		return ""
	}
	return cookie.Value
}
