package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSessionSecretOutsideDev(t *testing.T) {
	for _, env := range []string{"", "production", "staging"} {
		t.Setenv("APP_ENV", env)
		t.Setenv("SESSION_SECRET", "")

		cfg, err := Load()
		assert.ErrorIs(t, err, ErrMissingSessionSecret, env)
		assert.Nil(t, cfg, env)
	}
}

func TestLoad_DevFallsBackToDevSecret(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
}

func TestLoad_UsesConfiguredSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret-from-env")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SESSION_TTL", "nope")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "s3cret-from-env", cfg.SessionSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 14*24*time.Hour, cfg.SessionTTL)
}
