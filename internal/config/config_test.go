package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.True(t, cfg.IsDev())
	require.Equal(t, "simulated", cfg.Contact.Submitter)
	require.Equal(t, 1500*time.Millisecond, cfg.Contact.SimulatedDelay)
	require.Equal(t, 4*time.Second, cfg.Contact.DisplayFor)
	require.Equal(t, 5*time.Minute, cfg.ContentTTL)
}

func TestPrefixedOverrides(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"SNIX_WEB_PORT":                   "9090",
		"SNIX_WEB_ENV":                    "prod",
		"SNIX_WEB_SESSION_KEY":            "0123456789abcdef0123456789abcdef",
		"SNIX_WEB_CONTACT_SUBMITTER":      "mailgun",
		"SNIX_WEB_CONTACT_MAILGUN_DOMAIN": "mg.snix.ai",
		"SNIX_WEB_ALLOWED_ORIGINS":        "https://snix.ai,https://www.snix.ai",
		"PORT":                            "1",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.False(t, cfg.IsDev())
	require.Equal(t, []string{"https://snix.ai", "https://www.snix.ai"}, cfg.AllowedOrigins)

	settings := cfg.ContactSettings()
	require.Equal(t, "mailgun", settings.Kind)
	require.Equal(t, "mg.snix.ai", settings.Mailgun.Domain)
	require.Equal(t, "hello@snix.ai", settings.Mailgun.To)
}

func TestProductionRequiresSessionKey(t *testing.T) {
	_, err := FromMap(map[string]string{"SNIX_WEB_ENV": "prod"})
	require.Error(t, err)
}

func TestInvalidDuration(t *testing.T) {
	_, err := FromMap(map[string]string{"SNIX_WEB_CONTACT_DISPLAY_FOR": "soon"})
	require.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SNIX_WEB_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SNIX_WEB_LOG_LEVEL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}
