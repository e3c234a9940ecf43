package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	require.Equal(t, "200+", Stat(200, "+"))
	require.Equal(t, "24/7", Stat(24, "/7"))
	require.Equal(t, "0%", Stat(0, "%"))
	require.Equal(t, "1,200+", Stat(1200, "+"))
}

func TestThousands(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		require.Equal(t, want, Thousands(in))
	}
}
