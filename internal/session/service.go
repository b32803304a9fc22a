package session

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/remcostoeten/testauth/internal/auth"
	"github.com/remcostoeten/testauth/internal/token"
)

// Session is the request-scoped projection of the session cookie. It is
// derived fresh on every request and never persisted independently.
type Session struct {
	User            *auth.User
	IsAuthenticated bool
}

// Service composes the token codec with the cookie adapter. Note that
// Issue followed by Get within the same request-response exchange does
// not observe the new session: the cookie takes effect on the next
// request.
type Service struct {
	codec  *token.Codec
	cookie CookieOptions
}

func NewService(codec *token.Codec, cookie CookieOptions) *Service {
	return &Service{codec: codec, cookie: cookie}
}

// Get derives the session from the request cookie. An absent, tampered
// or expired token yields an unauthenticated session, never an error.
func (s *Service) Get(r *http.Request) Session {
	user := s.codec.Verify(ReadCookie(r))
	return Session{
		User:            user,
		IsAuthenticated: user != nil,
	}
}

// Require returns the authenticated user, or redirects to the login page
// with the originally requested path preserved as callbackUrl and reports
// false. Protected page entry points call this first.
func (s *Service) Require(c *gin.Context) (*auth.User, bool) {
	sess := s.Get(c.Request)
	if sess.IsAuthenticated {
		return sess.User, true
	}

	q := url.Values{"callbackUrl": {c.Request.URL.Path}}
	c.Redirect(http.StatusFound, "/login?"+q.Encode())
	c.Abort()
	return nil, false
}

// Issue signs the identity and sets the session cookie.
func (s *Service) Issue(w http.ResponseWriter, user auth.User) error {
	signed, err := s.codec.Sign(user)
	if err != nil {
		return err
	}
	SetCookie(w, signed, s.cookie)
	return nil
}

// Destroy clears the session cookie. Subsequent Get calls on later
// requests return an unauthenticated session.
func (s *Service) Destroy(w http.ResponseWriter) {
	ClearCookie(w, s.cookie)
}

// Verify exposes the codec's non-throwing verification to the gatekeeper.
func (s *Service) Verify(raw string) *auth.User {
	return s.codec.Verify(raw)
}
