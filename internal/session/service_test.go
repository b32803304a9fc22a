package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remcostoeten/testauth/internal/auth"
	"github.com/remcostoeten/testauth/internal/token"
)

func newService(t *testing.T) *Service {
	t.Helper()
	codec, err := token.New("test-secret")
	require.NoError(t, err)
	return NewService(codec, CookieOptions{Secure: false})
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestIssueSetsCookie(t *testing.T) {
	svc := newService(t)
	w := httptest.NewRecorder()

	err := svc.Issue(w, auth.User{ID: "google:1", Name: "A", Email: "a@x.com"})
	require.NoError(t, err)

	c := sessionCookie(t, w)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, MaxAge, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestGetRoundTrip(t *testing.T) {
	svc := newService(t)
	user := auth.User{ID: "github:42", Name: "B", Email: "b@x.com"}

	w := httptest.NewRecorder()
	require.NoError(t, svc.Issue(w, user))
	issued := sessionCookie(t, w)
	require.NotNil(t, issued)

	// The cookie only becomes visible on the next request.
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(issued)

	sess := svc.Get(r)
	assert.True(t, sess.IsAuthenticated)
	require.NotNil(t, sess.User)
	assert.Equal(t, user, *sess.User)
}

func TestGetWithoutCookie(t *testing.T) {
	svc := newService(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	sess := svc.Get(r)
	assert.False(t, sess.IsAuthenticated)
	assert.Nil(t, sess.User)
}

func TestGetWithGarbageCookie(t *testing.T) {
	svc := newService(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})

	sess := svc.Get(r)
	assert.False(t, sess.IsAuthenticated)
}

func TestDestroyExpiresCookie(t *testing.T) {
	svc := newService(t)
	w := httptest.NewRecorder()

	svc.Destroy(w)

	c := sessionCookie(t, w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestRequireRedirectsWithCallbackURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newService(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	user, ok := svc.Require(c)
	assert.False(t, ok)
	assert.Nil(t, user)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard", w.Header().Get("Location"))
}
