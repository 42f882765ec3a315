package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-6

// AssertSpeedsInEpsilon compares two device to hash mode to speed tables.
// Keys must match exactly; speeds within a relative epsilon.
func AssertSpeedsInEpsilon[M ~map[string]map[string]float64](t *testing.T, expected, actual M) {
	t.Helper()

	assert.Len(t, actual, len(expected), "device count mismatch")

	for dev, modes := range expected {
		got, ok := actual[dev]
		if !assert.True(t, ok, "missing device %q", dev) {
			continue
		}

		assert.Len(t, got, len(modes), "hash mode count mismatch for %q", dev)

		for mode, speed := range modes {
			if assert.Contains(t, got, mode, "missing hash mode %q for %q", mode, dev) {
				assert.InEpsilon(t, speed, got[mode], epsilon, "speed mismatch for %q mode %q", dev, mode)
			}
		}
	}
}
