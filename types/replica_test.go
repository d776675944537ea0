package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrdinal(t *testing.T) {
	cases := []struct {
		identity string
		want     uint
	}{
		{"archive-store-0", 0},
		{"archive-store-3", 3},
		{"a-b-12", 12},
		{"store-107", 107},
		{"store", 0},
		{"store-", 0},
		{"store-1a", 0},
		{"", 0},
		{"-5", 5},
	}

	for _, tc := range cases {
		t.Run(tc.identity, func(t *testing.T) {
			require.Equal(t, tc.want, ParseOrdinal(tc.identity))
		})
	}
}
