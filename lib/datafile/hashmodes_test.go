package datafile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/pwpolicycost/lib/testhelpers"
)

func TestDefaultHashModes(t *testing.T) {
	modes := DefaultHashModes()

	tests := []struct {
		mode string
		want string
	}{
		{"0", "MD5"},
		{"100", "SHA1"},
		{"1000", "NTLM"},
		{"1400", "SHA2-256"},
		{"3200", "bcrypt $2*$, Blowfish (Unix)"},
		{"8900", "scrypt"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, modes.Name(tt.mode))
		})
	}
}

func TestHashModes_NameFallsBackToMode(t *testing.T) {
	assert.Equal(t, "99999", DefaultHashModes().Name("99999"))
	assert.Equal(t, "0", HashModes{}.Name("0"))
}

func TestParseHashModes(t *testing.T) {
	modes, err := ParseHashModes(strings.NewReader("0;MD5\n\n 100 ; SHA1 ;extra\n0;md5 again\n500;md5crypt, MD5 (Unix)\n"))
	require.NoError(t, err)

	assert.Equal(t, HashModes{"0": "md5 again", "100": "SHA1", "500": "md5crypt, MD5 (Unix)"}, modes)
}

func TestParseHashModes_MissingName(t *testing.T) {
	_, err := ParseHashModes(strings.NewReader("0;MD5\n100\n"))
	require.ErrorIs(t, err, ErrBadRow)
}

func TestLoadHashModes(t *testing.T) {
	modes, err := LoadHashModes("")
	require.NoError(t, err)
	assert.Equal(t, "MD5", modes.Name("0"))

	path := testhelpers.CreateTestFile(t, t.TempDir(), "modes.csv", []byte("0;Custom MD5\n"))

	modes, err = LoadHashModes(path)
	require.NoError(t, err)
	assert.Equal(t, HashModes{"0": "Custom MD5"}, modes)

	_, err = LoadHashModes(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
