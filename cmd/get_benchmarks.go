package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/cserrors"
	"github.com/unclesp1d3r/pwpolicycost/lib/datafile"
	"github.com/unclesp1d3r/pwpolicycost/lib/display"
	"github.com/unclesp1d3r/pwpolicycost/lib/sources"
)

const (
	sourceGist = "gist"
	sourceOHC  = "ohc"
)

// crawler yields the benchmark reports of one source.
type crawler interface {
	Crawl(ctx context.Context) ([]benchmark.SourceReport, error)
}

var getBenchmarksCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:   "get-benchmarks",
	Short: "Collect hashcat benchmarks from onlinehashcrack and GitHub gists",
	Long: "Collect public hashcat benchmark reports, parse them and store one row per " +
		"source, device and hash mode. Devices are consolidated later, when estimating.",
	Args: cobra.NoArgs,
	RunE: runGetBenchmarks,
}

func init() {
	getBenchmarksCmd.Flags().StringP("output", "o", "", "Benchmark output file (default from benchmark_file)")
	getBenchmarksCmd.Flags().StringSlice("source", []string{sourceOHC, sourceGist}, "Sources to crawl: ohc, gist")
	RootCmd.AddCommand(getBenchmarksCmd)
}

func runGetBenchmarks(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = appstate.State.BenchmarkFile
	}

	names, _ := cmd.Flags().GetStringSlice("source")

	client, release, err := newHTTPClient()
	if err != nil {
		return cserrors.LogAndReturn("Cannot set up HTTP client", err)
	}
	defer release()

	crawlers, err := benchmarkCrawlers(client, names)
	if err != nil {
		return err
	}

	var records []benchmark.Record

	for _, name := range names {
		start := time.Now()

		reports, err := crawlers[name].Crawl(cmd.Context())
		if err != nil {
			return cserrors.LogAndReturn("Failed to crawl "+name, err)
		}

		for _, r := range reports {
			records = append(records, r.Report.Records(r.Source)...)
		}

		display.Crawled(name, len(reports), time.Since(start))
	}

	if err := datafile.WriteBenchmarks(output, records); err != nil {
		return cserrors.LogAndReturn("Failed to save benchmarks", err)
	}

	display.Saved(output, len(records))

	return nil
}

// benchmarkCrawlers builds the crawlers for the requested source names.
func benchmarkCrawlers(client *http.Client, names []string) (map[string]crawler, error) {
	crawlers := make(map[string]crawler, len(names))

	for _, name := range names {
		switch name {
		case sourceOHC:
			crawlers[name] = sources.NewOHCCrawler(client, appstate.State.OHCURL)
		case sourceGist:
			gist, err := sources.NewGistCrawler(client, appstate.State.GistAPIURL, appstate.State.GistUser)
			if err != nil {
				return nil, err
			}

			crawlers[name] = gist
		default:
			return nil, fmt.Errorf("unknown benchmark source %q, expected %s or %s", name, sourceOHC, sourceGist)
		}
	}

	return crawlers, nil
}
