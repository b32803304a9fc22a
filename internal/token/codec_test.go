package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remcostoeten/testauth/internal/auth"
)

func testUser() auth.User {
	return auth.User{
		ID:      "github:12345",
		Name:    "Remco",
		Email:   "remco@example.com",
		Picture: "https://avatars.example.com/u/12345",
	}
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("")
	require.Error(t, err)

	c, err := New("test-secret")
	require.NoError(t, err)
	require.NotNil(t, c)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	c, err := New("test-secret")
	require.NoError(t, err)

	raw, err := c.Sign(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got := c.Verify(raw)
	require.NotNil(t, got)
	assert.Equal(t, testUser(), *got)
}

func TestVerifyMalformed(t *testing.T) {
	c, err := New("test-secret")
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0..", "...."} {
		assert.Nil(t, c.Verify(raw), "raw=%q", raw)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	c, err := New("test-secret")
	require.NoError(t, err)

	raw, err := c.Sign(testUser())
	require.NoError(t, err)

	// Flip the last signature byte.
	b := []byte(raw)
	last := b[len(b)-1]
	if last == 'A' {
		b[len(b)-1] = 'B'
	} else {
		b[len(b)-1] = 'A'
	}

	assert.Nil(t, c.Verify(string(b)))
}

func TestVerifyWrongKey(t *testing.T) {
	signer, err := New("secret-one")
	require.NoError(t, err)
	verifier, err := New("secret-two")
	require.NoError(t, err)

	raw, err := signer.Sign(testUser())
	require.NoError(t, err)

	assert.Nil(t, verifier.Verify(raw))
}

func TestVerifyExpired(t *testing.T) {
	c, err := New("test-secret")
	require.NoError(t, err)

	issued := time.Now()
	c.now = func() time.Time { return issued }

	raw, err := c.Sign(testUser())
	require.NoError(t, err)
	require.NotNil(t, c.Verify(raw), "token must be valid before expiry")

	c.now = func() time.Time { return issued.Add(TTL + time.Minute) }
	assert.Nil(t, c.Verify(raw), "token must be invalid after expiry")
}
