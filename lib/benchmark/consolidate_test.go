package benchmark

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/pwpolicycost/lib/device"
)

func consolidateFixture() []SourceReport {
	return []SourceReport{
		{
			Source: "gist_bm_0",
			Report: Report{
				"NVIDIA GeForce RTX 3090 #2":   {"0": 70e9},
				"NVIDIA GeForce RTX 3090 #1":   {"0": 60e9, "1000": 110e9},
				"Intel(R) UHD Graphics 630 #3": {"0": 1e9},
			},
		},
		{
			Source: "ohc_bm_0",
			Report: Report{
				"GeForce RTX 3090 #1": {"0": 80e9},
				"Tesla T4 #1":         {"0": 20e9},
			},
		},
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input       string
		expected    Strategy
		expectedErr error
	}{
		{input: "", expected: StrategyFirst},
		{input: "first", expected: StrategyFirst},
		{input: "max", expected: StrategyMax},
		{input: "mean", expected: StrategyMean},
		{input: "median", expectedErr: ErrUnknownStrategy},
		{input: "MAX", expectedErr: ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConsolidate_Strategies(t *testing.T) {
	tests := []struct {
		strategy Strategy
		expected Table
	}{
		{
			strategy: StrategyFirst,
			expected: Table{
				"RTX 3090": {"0": 60e9, "1000": 110e9},
				"T4":       {"0": 20e9},
			},
		},
		{
			strategy: StrategyMax,
			expected: Table{
				"RTX 3090": {"0": 80e9, "1000": 110e9},
				"T4":       {"0": 20e9},
			},
		},
		{
			strategy: StrategyMean,
			expected: Table{
				"RTX 3090": {"0": 70e9, "1000": 110e9},
				"T4":       {"0": 20e9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			got := Consolidate(consolidateFixture(), device.Default(), tt.strategy)

			require.Equal(t, tt.expected.Devices(), got.Devices())

			for dev, modes := range tt.expected {
				for mode, speed := range modes {
					assert.InDelta(t, speed, got[dev][mode], 1, "%s/%s", dev, mode)
				}

				assert.Len(t, got[dev], len(modes))
			}
		})
	}
}

func TestConsolidate_DropsUnknownDevices(t *testing.T) {
	got := Consolidate(consolidateFixture(), device.Default(), StrategyFirst)

	assert.NotContains(t, got, "Intel(R) UHD Graphics 630")
	assert.Equal(t, []string{"RTX 3090", "T4"}, got.Devices())
}

func TestConsolidate_SourceOrderDecidesFirst(t *testing.T) {
	reports := consolidateFixture()
	reports[0], reports[1] = reports[1], reports[0]

	got := Consolidate(reports, device.Default(), StrategyFirst)

	assert.InDelta(t, 80e9, got["RTX 3090"]["0"], 1)
}

func TestConsolidate_Deterministic(t *testing.T) {
	normalizer := device.Default()

	var outputs []string

	for range 20 {
		data, err := json.Marshal(Consolidate(consolidateFixture(), normalizer, StrategyFirst))
		require.NoError(t, err)

		outputs = append(outputs, string(data))
	}

	for _, out := range outputs[1:] {
		assert.Equal(t, outputs[0], out)
	}
}

func TestConsolidate_Empty(t *testing.T) {
	assert.Empty(t, Consolidate(nil, device.Default(), StrategyMean))
}
