// Package sources crawls hashcat benchmark reports and cloud GPU pricing from
// public web pages and APIs. Every request goes through the injected HTTP
// client, so caching and proxying are decided by the caller.
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
)

// Public sites crawled when no other base URL is configured.
const (
	// DefaultGistUser publishes the hashcat benchmark gists.
	DefaultGistUser = "Chick3nman"
	// DefaultGitHubAPI is the GitHub REST API.
	DefaultGitHubAPI = "https://api.github.com/"
	// DefaultOHCURL is onlinehashcrack.
	DefaultOHCURL = "https://onlinehashcrack.com"
	// DefaultAzureDocsURL hosts the Azure GPU size pages.
	DefaultAzureDocsURL = "https://learn.microsoft.com"
	// DefaultAzureAPIURL serves the Azure retail prices API.
	DefaultAzureAPIURL = "https://prices.azure.com"
)

var (
	// ErrUnexpectedStatus is returned for a non-200 HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrUnexpectedLayout is returned when a page lacks the elements a crawler relies on.
	ErrUnexpectedLayout = errors.New("unexpected page layout")
)

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnexpectedStatus, rawURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}

	return body, nil
}

func fetchJSON(ctx context.Context, client *http.Client, rawURL string, v any) error {
	body, err := fetch(ctx, client, rawURL)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}

	return nil
}

// resolve resolves href against base.
func resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}

	return b.ResolveReference(ref).String(), nil
}

// sourceName names the n-th report of a crawler, counting from one.
func sourceName(prefix string, n int) string {
	return fmt.Sprintf("%s_bm_%d", prefix, n)
}

// parseReports parses the fetched texts of one crawler. Texts with nothing
// recognizable are logged and left out. Names follow the position of the
// link, so a failed fetch does not renumber the reports after it.
func parseReports(prefix string, texts map[int]string, total int) []benchmark.SourceReport {
	var reports []benchmark.SourceReport

	for n := 1; n <= total; n++ {
		text, ok := texts[n]
		if !ok {
			continue
		}

		name := sourceName(prefix, n)

		report, err := benchmark.ParseReportStrict(text)
		if err != nil {
			appstate.Logger.Warn("Skipping benchmark report", "source", name, "error", err)

			continue
		}

		appstate.Logger.Debug("Parsed benchmark report", "source", name, "devices", len(report))
		reports = append(reports, benchmark.SourceReport{Source: name, Report: report})
	}

	return reports
}
