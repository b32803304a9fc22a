package auth

// User is the identity carried inside a session token. It is a value:
// once issued it is never mutated, only reissued.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// Profile is the normalized result of an OAuth code exchange. It contains
// facts returned by the provider only, no decisions. The access token is
// short-lived and is not persisted past the exchange.
type Profile struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	Picture        string
	AccessToken    string
}

// Identity derives the session identity for this profile. The id is
// prefixed with the provider name so that providers sharing a raw numeric
// id space cannot collide.
func (p *Profile) Identity() User {
	return User{
		ID:      p.Provider + ":" + p.ProviderUserID,
		Name:    p.Name,
		Email:   p.Email,
		Picture: p.Picture,
	}
}
