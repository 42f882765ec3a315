package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/pwpolicycost/lib/policy"
	"github.com/unclesp1d3r/pwpolicycost/lib/testhelpers"
)

func TestCalc_Cheapest(t *testing.T) {
	writeCostData(t)

	out, err := runCommand(t, calcCmd, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "Cracking password length 8 with charset of length 95 on mode 0 (MD5)")
	assert.Contains(t, out, "The cheapest option is Standard_NC4as_T4_v3 with GPU T4")
	assert.NotContains(t, out, "Standard_NC6s_v3", "a single option is printed without --top")
}

func TestCalc_PinnedSKU(t *testing.T) {
	writeCostData(t)

	out, err := runCommand(t, calcCmd, map[string]string{"sku": "Standard_NC6s_v3"})
	require.NoError(t, err)

	assert.Contains(t, out, "With SKU Standard_NC6s_v3 and GPU V100 the total cost is")
}

func TestCalc_TopListsRankedOptions(t *testing.T) {
	writeCostData(t)

	out, err := runCommand(t, calcCmd, map[string]string{"top": "5", "charset": "lowercase", "pw-len": "10"})
	require.NoError(t, err)

	assert.Contains(t, out, "charset of length 26")
	assert.Contains(t, out, "Standard_NC4as_T4_v3")
	assert.Contains(t, out, "Standard_NC6s_v3")
	assert.NotContains(t, out, "mystery", "pricing without benchmarks is not joined")
}

func TestCalc_Errors(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		wantErr error
	}{
		{"unbenchmarked mode", map[string]string{"mode": "3200"}, policy.ErrNoMatchingPolicyData},
		{"unpriced sku", map[string]string{"sku": "Standard_NC24ads_A100_v4"}, policy.ErrNoMatchingPolicyData},
		{"unknown charset", map[string]string{"charset": "emoji"}, policy.ErrUnknownCharset},
		{"zero length", map[string]string{"pw-len": "0"}, policy.ErrInvalidPolicy},
		{"empty charset", map[string]string{"charset-length": "0"}, policy.ErrInvalidPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeCostData(t)

			_, err := runCommand(t, calcCmd, tt.flags)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalc_MissingData(t *testing.T) {
	testhelpers.SetupTestState(t)

	_, err := runCommand(t, calcCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run get-benchmarks first")
}
