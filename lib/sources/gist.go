package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/progress"
)

const (
	gistPrefix   = "gist"
	gistKeyword  = "benchmark"
	gistPageSize = 100
)

// GistCrawler collects the benchmark reports a GitHub user publishes as gists.
type GistCrawler struct {
	client *http.Client
	github *github.Client
	user   string
}

// NewGistCrawler returns a crawler for the gists of user. An empty apiURL
// uses the public GitHub API and an empty user the default benchmark author.
func NewGistCrawler(client *http.Client, apiURL, user string) (*GistCrawler, error) {
	gh := github.NewClient(client)

	if apiURL == "" {
		apiURL = DefaultGitHubAPI
	}

	base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
	}

	gh.BaseURL = base

	if user == "" {
		user = DefaultGistUser
	}

	return &GistCrawler{client: client, github: gh, user: user}, nil
}

// Crawl fetches and parses every file of every gist whose description
// mentions benchmarks. Reports are named gist_bm_<n>.
func (c *GistCrawler) Crawl(ctx context.Context) ([]benchmark.SourceReport, error) {
	appstate.Logger.Info("Crawling gists", "user", c.user)

	links, err := c.benchmarkFiles(ctx)
	if err != nil {
		return nil, err
	}

	counter := progress.NewCounter("gists", len(links))
	defer counter.Finish()

	texts := make(map[int]string, len(links))

	for i, link := range links {
		body, err := fetch(ctx, c.client, link)
		counter.Increment()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			appstate.Logger.Error("Bad scrape of gist file", "url", link, "error", err)

			continue
		}

		texts[i+1] = string(body)
	}

	reports := parseReports(gistPrefix, texts, len(links))
	appstate.Logger.Info("Crawled gists", "files", len(links), "reports", len(reports))

	return reports, nil
}

// benchmarkFiles lists the raw URLs of benchmark gist files, gists in API
// order and files by name.
func (c *GistCrawler) benchmarkFiles(ctx context.Context) ([]string, error) {
	opts := &github.GistListOptions{ListOptions: github.ListOptions{PerPage: gistPageSize}}

	var links []string

	for {
		gists, resp, err := c.github.Gists.List(ctx, c.user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list gists of %s: %w", c.user, err)
		}

		for _, gist := range gists {
			if !strings.Contains(strings.ToLower(gist.GetDescription()), gistKeyword) {
				continue
			}

			names := make([]string, 0, len(gist.Files))
			for name := range gist.Files {
				names = append(names, string(name))
			}

			slices.Sort(names)

			for _, name := range names {
				file := gist.Files[github.GistFilename(name)]
				if raw := file.GetRawURL(); raw != "" {
					links = append(links, raw)
				}
			}
		}

		if resp.NextPage == 0 {
			return links, nil
		}

		opts.Page = resp.NextPage
	}
}
