package policy

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"minimal", Policy{CharsetSize: 1, PasswordLength: 1}, false},
		{"typical", Policy{CharsetSize: 95, PasswordLength: 8}, false},
		{"zero charset", Policy{CharsetSize: 0, PasswordLength: 8}, true},
		{"negative charset", Policy{CharsetSize: -3, PasswordLength: 8}, true},
		{"zero length", Policy{CharsetSize: 95, PasswordLength: 0}, true},
		{"negative length", Policy{CharsetSize: 95, PasswordLength: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPolicy)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestPolicy_Keyspace(t *testing.T) {
	ks, err := Policy{CharsetSize: 10, PasswordLength: 13}.Keyspace()
	require.NoError(t, err)
	assert.Equal(t, "10000000000000", ks.String())

	ks, err = Policy{CharsetSize: 95, PasswordLength: 8}.Keyspace()
	require.NoError(t, err)
	assert.Equal(t, "6634204312890625", ks.String())

	// 95^20 is beyond the uint64 range and must stay exact.
	ks, err = Policy{CharsetSize: 95, PasswordLength: 20}.Keyspace()
	require.NoError(t, err)

	expected, ok := new(big.Int).SetString("3584859224085422343574104404449462890625", 10)
	require.True(t, ok)
	assert.Equal(t, 0, expected.Cmp(ks))

	_, err = Policy{CharsetSize: 0, PasswordLength: 1}.Keyspace()
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestPolicy_KeyspaceSingleCharacter(t *testing.T) {
	for c := 1; c <= 100; c++ {
		ks, err := Policy{CharsetSize: c, PasswordLength: 1}.KeyspaceFloat()
		require.NoError(t, err)
		assert.InDelta(t, float64(c), ks, 0)
	}
}

func TestPolicy_KeyspaceMonotonic(t *testing.T) {
	for c := 1; c <= 96; c += 5 {
		for l := 1; l <= 30; l++ {
			base, err := Policy{CharsetSize: c, PasswordLength: l}.KeyspaceFloat()
			require.NoError(t, err)

			longer, err := Policy{CharsetSize: c, PasswordLength: l + 1}.KeyspaceFloat()
			require.NoError(t, err)

			wider, err := Policy{CharsetSize: c + 1, PasswordLength: l}.KeyspaceFloat()
			require.NoError(t, err)

			assert.GreaterOrEqual(t, longer, base, "%d^%d", c, l)
			assert.GreaterOrEqual(t, wider, base, "%d^%d", c, l)
		}
	}
}

func TestPolicy_KeyspaceFloatOverflow(t *testing.T) {
	ks, err := Policy{CharsetSize: 95, PasswordLength: 200}.KeyspaceFloat()
	require.NoError(t, err)
	assert.True(t, math.IsInf(ks, 1))
}

func TestPolicy_KeyspaceFloatHugeLength(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   float64
	}{
		{"beyond float range", Policy{CharsetSize: 95, PasswordLength: 1_000_000_000}, math.Inf(1)},
		{"just above 2^1024", Policy{CharsetSize: 2, PasswordLength: 1025}, math.Inf(1)},
		{"single character stays exact", Policy{CharsetSize: 1, PasswordLength: 1_000_000_000}, 1},
		{"largest finite power of two", Policy{CharsetSize: 2, PasswordLength: 1023}, math.Ldexp(1, 1023)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks, err := tt.policy.KeyspaceFloat()
			require.NoError(t, err)
			assert.Equal(t, tt.want, ks) //nolint:testifylint // Exact powers of two
		})
	}
}

func TestCharsetSize(t *testing.T) {
	for _, cs := range Charsets {
		size, err := CharsetSize(cs.Name)
		require.NoError(t, err)
		assert.Equal(t, cs.Size, size)
	}

	size, err := CharsetSize("ascii_printable")
	require.NoError(t, err)
	assert.Equal(t, 95, size)

	_, err = CharsetSize("emoji")
	require.ErrorIs(t, err, ErrUnknownCharset)
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "95^8", Policy{CharsetSize: 95, PasswordLength: 8}.String())
}
