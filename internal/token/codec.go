package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/remcostoeten/testauth/internal/auth"
)

// TTL is how long an issued session token stays valid.
const TTL = time.Hour

type claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a symmetric HS256 key.
// The key is process-wide configuration loaded once at startup.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    TTL,
		now:    time.Now,
	}, nil
}

// Sign encodes the identity plus issued-at and expiry into a signed token.
func (c *Codec) Sign(user auth.User) (string, error) {
	now := c.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign failed: %w", err)
	}
	return signed, nil
}

// Verify returns the identity carried by the token, or nil when the token
// is malformed, carries a bad signature, or has expired. It never returns
// an error value: callers treat nil as "unauthenticated" and route on it.
func (c *Codec) Verify(raw string) *auth.User {
	if raw == "" {
		return nil
	}

	var cl claims
	t, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !t.Valid {
		return nil
	}

	return &auth.User{
		ID:      cl.Subject,
		Name:    cl.Name,
		Email:   cl.Email,
		Picture: cl.Picture,
	}
}
