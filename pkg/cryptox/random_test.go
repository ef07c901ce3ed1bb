package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateResetPassword(t *testing.T) {
	require.Len(t, ResetPasswordAlphabet, 64)

	seen := make(map[string]struct{}, 200)
	for range 200 {
		pw, err := GenerateResetPassword()
		require.NoError(t, err)
		require.Len(t, pw, ResetPasswordLength)
		for _, c := range pw {
			require.True(t, strings.ContainsRune(ResetPasswordAlphabet, c), "unexpected symbol %q", c)
		}
		seen[pw] = struct{}{}
	}
	require.Len(t, seen, 200, "passwords should not repeat")
}

func TestRandomStringFrom_ModuloReduction(t *testing.T) {
	// 0, 64, 128 and 192 all land on the first symbol of a 64 symbol alphabet.
	src := bytes.NewReader([]byte{0, 64, 128, 192, 1, 255})
	got, err := RandomStringFrom(src, ResetPasswordAlphabet, 6)
	require.NoError(t, err)
	require.Equal(t, "aaaab?", got)
}

func TestRandomStringFrom_RejectionSampling(t *testing.T) {
	// 256 % 3 == 1, so byte 255 is discarded and redrawn.
	src := bytes.NewReader([]byte{255, 0, 1, 255, 2, 255, 255, 254})
	got, err := RandomStringFrom(src, "xyz", 3)
	require.NoError(t, err)
	require.Equal(t, "xyz", got)
}

func TestRandomStringFrom_Errors(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		n        int
		src      []byte
	}{
		{"empty alphabet", "", 4, []byte{1, 2, 3, 4}},
		{"zero length", "abc", 0, nil},
		{"short source", "abcd", 4, []byte{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RandomStringFrom(bytes.NewReader(tt.src), tt.alphabet, tt.n)
			require.Error(t, err)
			require.Empty(t, got)
		})
	}
}
