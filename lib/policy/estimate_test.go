package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/pwpolicycost/lib/pricing"
)

func sampleRows() []pricing.UnifiedRow {
	return []pricing.UnifiedRow{
		{SKU: "Standard_NC6s_v3", Device: "V100", HashMode: "0", Speed: 50e9, Price: 3.06},
		{SKU: "Standard_NC4as_T4_v3", Device: "T4", HashMode: "0", Speed: 20e9, Price: 0.526},
		{SKU: "Standard_NC4as_T4_v3", Device: "T4", HashMode: "1000", Speed: 35e9, Price: 0.526},
		{SKU: "Standard_NC24ads_A100_v4", Device: "A100", HashMode: "0", Speed: 60e9, Price: 3.67},
		{SKU: "Standard_Zero", Device: "T4", HashMode: "0", Speed: 0, Price: 0.1},
	}
}

func TestEstimate_Scenario(t *testing.T) {
	rows := []pricing.UnifiedRow{{SKU: "sku-x", Device: "X", HashMode: "0", Speed: 1e9, Price: 1}}
	q := Query{Policy: Policy{CharsetSize: 10, PasswordLength: 13}, HashMode: "0"}

	estimates, err := Estimate(rows, q)
	require.NoError(t, err)
	require.Len(t, estimates, 1)

	assert.InDelta(t, 10000.0, estimates[0].Seconds, 1e-9)
	assert.InDelta(t, 10000.0/3600.0, estimates[0].Dollars, 1e-9)
	assert.InDelta(t, 2.778, estimates[0].Dollars, 1e-3)
	assert.Equal(t, rows[0], estimates[0].Row)
}

func TestEstimate_RankedByCost(t *testing.T) {
	q := Query{Policy: Policy{CharsetSize: 95, PasswordLength: 8}, HashMode: "0"}

	estimates, err := Estimate(sampleRows(), q)
	require.NoError(t, err)
	require.Len(t, estimates, 3, "row without speed and other hash modes are excluded")

	assert.Equal(t, "Standard_NC4as_T4_v3", estimates[0].Row.SKU)
	assert.Equal(t, "Standard_NC24ads_A100_v4", estimates[1].Row.SKU)
	assert.Equal(t, "Standard_NC6s_v3", estimates[2].Row.SKU)

	for i := 1; i < len(estimates); i++ {
		assert.LessOrEqual(t, estimates[i-1].Dollars, estimates[i].Dollars)
	}
}

func TestEstimate_TiesKeepInputOrder(t *testing.T) {
	rows := []pricing.UnifiedRow{
		{SKU: "b", Device: "T4", HashMode: "0", Speed: 1e9, Price: 1},
		{SKU: "a", Device: "T4", HashMode: "0", Speed: 2e9, Price: 2},
		{SKU: "c", Device: "T4", HashMode: "0", Speed: 1e9, Price: 1},
	}
	q := Query{Policy: Policy{CharsetSize: 26, PasswordLength: 6}, HashMode: "0"}

	estimates, err := Estimate(rows, q)
	require.NoError(t, err)

	skus := []string{estimates[0].Row.SKU, estimates[1].Row.SKU, estimates[2].Row.SKU}
	assert.Equal(t, []string{"b", "a", "c"}, skus)

	cheapest, err := Cheapest(rows, q)
	require.NoError(t, err)
	assert.Equal(t, "b", cheapest.Row.SKU)
}

func TestEstimate_PinnedSKU(t *testing.T) {
	q := Query{Policy: Policy{CharsetSize: 95, PasswordLength: 8}, HashMode: "0", SKU: "Standard_NC6s_v3"}

	cheapest, err := Cheapest(sampleRows(), q)
	require.NoError(t, err)
	assert.Equal(t, "Standard_NC6s_v3", cheapest.Row.SKU)
	assert.Equal(t, "V100", cheapest.Row.Device)
}

func TestEstimate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		rows        []pricing.UnifiedRow
		query       Query
		expectedErr error
	}{
		{
			name:        "unknown hash mode",
			rows:        sampleRows(),
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 8}, HashMode: "22000"},
			expectedErr: ErrNoMatchingPolicyData,
		},
		{
			name:        "unknown sku",
			rows:        sampleRows(),
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 8}, HashMode: "0", SKU: "Standard_M416ms_v2"},
			expectedErr: ErrNoMatchingPolicyData,
		},
		{
			name:        "sku without the hash mode",
			rows:        sampleRows(),
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 8}, HashMode: "1000", SKU: "Standard_NC6s_v3"},
			expectedErr: ErrNoMatchingPolicyData,
		},
		{
			name:        "only rows without speed",
			rows:        sampleRows()[4:],
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 8}, HashMode: "0"},
			expectedErr: ErrNoMatchingPolicyData,
		},
		{
			name:        "no rows",
			rows:        nil,
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 8}, HashMode: "0"},
			expectedErr: ErrNoMatchingPolicyData,
		},
		{
			name:        "invalid policy",
			rows:        sampleRows(),
			query:       Query{Policy: Policy{CharsetSize: 0, PasswordLength: 8}, HashMode: "0"},
			expectedErr: ErrInvalidPolicy,
		},
		{
			name:        "keyspace overflow",
			rows:        sampleRows(),
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 200}, HashMode: "0"},
			expectedErr: ErrEstimateOverflow,
		},
		{
			name:        "huge keyspace for an unknown hash mode",
			rows:        sampleRows(),
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 200}, HashMode: "22000"},
			expectedErr: ErrNoMatchingPolicyData,
		},
		{
			name:        "time overflow",
			rows:        []pricing.UnifiedRow{{SKU: "slow", Device: "T4", HashMode: "0", Speed: 1e-300, Price: 1}},
			query:       Query{Policy: Policy{CharsetSize: 95, PasswordLength: 150}, HashMode: "0"},
			expectedErr: ErrEstimateOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimates, err := Estimate(tt.rows, tt.query)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, estimates)

			_, err = Cheapest(tt.rows, tt.query)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestEstimate_CostGrowsWithPolicy(t *testing.T) {
	rows := sampleRows()

	previous := 0.0

	for length := 1; length <= 16; length++ {
		cheapest, err := Cheapest(rows, Query{Policy: Policy{CharsetSize: 62, PasswordLength: length}, HashMode: "0"})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, cheapest.Dollars, previous)
		previous = cheapest.Dollars
	}
}

func TestEstimate_HugeLengthFailsFast(t *testing.T) {
	start := time.Now()

	estimates, err := Estimate(sampleRows(), Query{Policy: Policy{CharsetSize: 95, PasswordLength: 1_000_000_000}, HashMode: "0"})
	require.ErrorIs(t, err, ErrEstimateOverflow)
	assert.Nil(t, estimates)
	assert.Less(t, time.Since(start), time.Second)
}
