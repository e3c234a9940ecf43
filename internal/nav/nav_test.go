package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"snix.ai/snix-web/internal/pages"
)

func TestBuildMarksCurrentPage(t *testing.T) {
	items := Build(For(pages.AIShoot))
	require.Len(t, items, len(Main))

	var active []string
	for _, it := range items {
		if it.Active {
			active = append(active, it.Page)
		}
	}
	require.Equal(t, []string{"ai-shoot"}, active)
	require.Equal(t, "/pages/ai-shoot", items[2].Href)
	require.Equal(t, "#blogs", items[3].Href)
	require.Empty(t, items[3].Page)
	require.True(t, items[4].CTA)
}

func TestBuildDefaultsToHome(t *testing.T) {
	items := Build(nil)
	require.True(t, items[0].Active)
	require.Equal(t, "/", items[0].Href)

	items = Build(For("nowhere"))
	require.True(t, items[0].Active)
}

func TestBuildFollowsNavigation(t *testing.T) {
	s := pages.NewSwitcher()
	require.NoError(t, s.Navigate("contact"))
	items := Build(s)
	require.True(t, items[4].Active)
	require.False(t, items[0].Active)
}
