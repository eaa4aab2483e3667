package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Issuer:          "authgate",
		JWTSecret:       strings.Repeat("s", 32),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("short secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = "too-short"
		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "32")
	})

	t.Run("non-positive TTLs", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessTokenTTL = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("access TTL must undercut refresh TTL", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessTokenTTL = cfg.RefreshTokenTTL
		require.Error(t, cfg.Validate())
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "authgate", cfg.Issuer)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, "auth.db", cfg.DatabaseFile)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "custom-issuer")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "30m")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL", "48h")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")

	cfg := LoadConfig()
	require.Equal(t, "custom-issuer", cfg.Issuer)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "prod", cfg.Env)
}
