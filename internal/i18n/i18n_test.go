package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShippedLocale(t *testing.T) {
	b, err := Load("../../locales", "en", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"en"}, b.Supported())
	require.Equal(t, "Home", b.T("en", "nav.home"))
	require.Equal(t, "AI Shoot", b.T("", "nav.ai_shoot"))
	require.Equal(t, "Send Message", b.T("en", "contact.submit"))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
}

func TestFallbackAndMissingLocale(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("nav:\n  home: Home\ncount: 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.yaml"), []byte("nav:\n  home: Accueil\n"), 0o644))

	b, err := Load(dir, "en", []string{"en", "fr", "de"})
	require.NoError(t, err)
	require.Equal(t, "Accueil", b.T("fr", "nav.home"))
	require.Equal(t, "3", b.T("fr", "count"))
	require.Equal(t, "Home", b.T("de", "nav.home"))
	require.Equal(t, []string{"count", "nav.home"}, b.Keys("en"))

	_, err = Load(dir, "ja", nil)
	require.Error(t, err)
}
