package testhelpers

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
)

// SetupTestState points appstate.State at a fresh temporary directory and
// restores the previous state when the test ends. It returns the directory.
func SetupTestState(t *testing.T) string {
	t.Helper()

	saved := appstate.State
	dir := t.TempDir()

	appstate.State.DataPath = dir
	appstate.State.BenchmarkFile = filepath.Join(dir, "benchmark_data.csv")
	appstate.State.PricingFile = filepath.Join(dir, "pricing_data.csv")
	appstate.State.HashmodeSource = ""
	appstate.State.HashmodeFile = filepath.Join(dir, "modes.csv")
	appstate.State.DeviceAliasesFile = ""
	appstate.State.CachePath = filepath.Join(dir, "cache")
	appstate.State.CacheBackend = "none"
	appstate.State.CacheTTL = time.Hour
	appstate.State.Proxy = false
	appstate.State.ProxyAddress = ""
	appstate.State.ConsolidationStrategy = "first"
	appstate.State.Debug = false

	t.Cleanup(func() {
		appstate.State = saved
	})

	return dir
}

// WithTestState is a convenience wrapper that sets up state, runs the test function,
// and restores the state afterwards.
func WithTestState(t *testing.T, testFunc func(dir string)) {
	t.Helper()

	testFunc(SetupTestState(t))
}
