package libs

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfirmFrom(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, confirmFrom(bufio.NewReader(strings.NewReader(tc.input)), "fund?"), "input: %q", tc.input)
	}
}
