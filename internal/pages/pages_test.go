package pages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwitcherDefaultsToHome(t *testing.T) {
	s := NewSwitcher()
	require.Equal(t, Home, s.Current())
	require.True(t, s.Renders(Home))
}

func TestNavigateRendersExactlyOnePage(t *testing.T) {
	s := NewSwitcher()
	require.NoError(t, s.Navigate("product"))
	require.NoError(t, s.Navigate("contact"))

	rendered := 0
	for _, id := range All {
		if s.Renders(id) {
			rendered++
		}
	}
	require.Equal(t, 1, rendered)
	require.True(t, s.Renders(Contact))
	require.False(t, s.Renders(Product))
}

func TestNavigateRejectsUnknownPage(t *testing.T) {
	s := NewSwitcher()
	require.NoError(t, s.Navigate("ai-shoot"))

	err := s.Navigate("blog")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownPage))
	require.Equal(t, AIShoot, s.Current())
}

func TestNavigateNotifiesChange(t *testing.T) {
	s := NewSwitcher()
	var got [][2]ID
	s.OnChange(func(prev, next ID) { got = append(got, [2]ID{prev, next}) })

	require.NoError(t, s.Navigate(" Product "))
	require.NoError(t, s.Navigate("product"))
	require.Error(t, s.Navigate(""))

	require.Equal(t, [][2]ID{{Home, Product}, {Product, Product}}, got)
}

func TestParse(t *testing.T) {
	cases := map[string]ID{
		"home":     Home,
		"PRODUCT":  Product,
		"ai-shoot": AIShoot,
		"contact":  Contact,
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got)
	}
	_, err := Parse("ai_shoot")
	require.ErrorIs(t, err, ErrUnknownPage)
}
