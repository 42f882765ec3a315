package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/config"
	"github.com/unclesp1d3r/pwpolicycost/lib/datafile"
	"github.com/unclesp1d3r/pwpolicycost/lib/device"
	"github.com/unclesp1d3r/pwpolicycost/lib/downloader"
	"github.com/unclesp1d3r/pwpolicycost/lib/httpcache"
	"github.com/unclesp1d3r/pwpolicycost/lib/pricing"
)

// newHTTPClient returns the client every crawler shares and a function
// releasing its cache store.
func newHTTPClient() (*http.Client, func(), error) {
	store, err := httpcache.Open(appstate.State.CacheBackend, appstate.State.CachePath, config.CacheTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open HTTP cache: %w", err)
	}

	release := func() {
		if err := store.Close(); err != nil {
			appstate.Logger.Warn("Failed to close HTTP cache", "error", err)
		}
	}

	proxy := ""
	if appstate.State.Proxy {
		proxy = appstate.State.ProxyAddress
	}

	client, err := httpcache.NewClient(store, proxy)
	if err != nil {
		release()

		return nil, nil, err
	}

	return client, release, nil
}

// loadNormalizer returns the built-in device alias table, extended by the
// configured alias file when there is one.
func loadNormalizer() (*device.Normalizer, error) {
	if appstate.State.DeviceAliasesFile == "" {
		return device.Default(), nil
	}

	normalizer, err := device.LoadAliasFile(appstate.State.DeviceAliasesFile)
	if err != nil {
		return nil, err
	}

	appstate.Logger.Debug("Loaded device aliases", "file", appstate.State.DeviceAliasesFile,
		"devices", normalizer.Canonical())

	return normalizer, nil
}

// loadHashModes returns the hash mode names from the configured source,
// downloading it first when it is a URL.
func loadHashModes(ctx context.Context) (datafile.HashModes, error) {
	path, err := downloader.Resolve(ctx, appstate.State.HashmodeSource, appstate.State.HashmodeFile,
		appstate.State.HashmodeChecksum)
	if err != nil {
		return nil, err
	}

	return datafile.LoadHashModes(path)
}

// loadRows joins the stored pricing entries with the consolidated stored benchmarks.
func loadRows(normalizer *device.Normalizer) ([]pricing.UnifiedRow, error) {
	strategy, err := benchmark.ParseStrategy(appstate.State.ConsolidationStrategy)
	if err != nil {
		return nil, err
	}

	records, err := datafile.ReadBenchmarks(appstate.State.BenchmarkFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmarks, run get-benchmarks first: %w", err)
	}

	entries, err := datafile.ReadPricing(appstate.State.PricingFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing, run get-cloud-data first: %w", err)
	}

	table := benchmark.Consolidate(benchmark.FromRecords(records), normalizer, strategy)
	rows := pricing.Join(entries, table, normalizer)

	appstate.Logger.Debug("Joined pricing with benchmarks",
		"benchmark_records", len(records), "devices", len(table), "pricing_entries", len(entries), "rows", len(rows))

	return rows, nil
}
