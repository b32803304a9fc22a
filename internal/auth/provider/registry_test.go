package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remcostoeten/testauth/internal/auth"
)

type fakeProvider struct{ name string }

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://example.com?state=" + state
}
func (f *fakeProvider) Exchange(ctx context.Context, code string) (*auth.Profile, error) {
	return &auth.Profile{Provider: f.name}, nil
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry(&fakeProvider{name: "github"}, &fakeProvider{name: "google"})

	p, err := r.Get("github")
	require.NoError(t, err)
	assert.Equal(t, "github", p.Name())

	_, err = r.Get("linkedin")
	assert.Error(t, err)
}

func TestRegistryNamesStableOrder(t *testing.T) {
	r := NewRegistry(&fakeProvider{name: "google"}, &fakeProvider{name: "github"})
	assert.Equal(t, []string{"github", "google"}, r.Names())
}
