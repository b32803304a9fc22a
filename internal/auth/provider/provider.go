package provider

import (
	"context"

	"github.com/remcostoeten/testauth/internal/auth"
)

// Provider drives the authorization-code flow for one external identity
// provider. Implementations return profile facts only and must not touch
// users, sessions or cookies.
type Provider interface {
	// Name returns the provider identifier (e.g. "github", "google").
	Name() string

	// AuthCodeURL returns the provider authorization URL. The CSRF state
	// nonce is generated and stored by the caller.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for an access token
	// server-side and fetches the normalized profile. Provider error
	// responses surface as errors; no retries.
	Exchange(ctx context.Context, code string) (*auth.Profile, error)
}
