package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/progress"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	ohcPrefix       = "ohc"
	ohcIndexPath    = "/tools-benchmark-hashcat-gtx-1080-ti-1070-ti-rtx-2080-ti-rtx-3090-3080-4090.php"
	ohcLinkText     = "Full benchmark here"
	ohcContentClass = "entry-content"
	ohcMarginClass  = "notopmargin"
)

// OHCCrawler collects the benchmark reports linked from the onlinehashcrack benchmark index.
type OHCCrawler struct {
	client  *http.Client
	baseURL string
}

// NewOHCCrawler returns a crawler for the site at baseURL, or the public site when empty.
func NewOHCCrawler(client *http.Client, baseURL string) *OHCCrawler {
	if baseURL == "" {
		baseURL = DefaultOHCURL
	}

	return &OHCCrawler{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Crawl follows every full benchmark link of the index page and parses the
// report on it. Reports are named ohc_bm_<n>.
func (c *OHCCrawler) Crawl(ctx context.Context) ([]benchmark.SourceReport, error) {
	appstate.Logger.Info("Crawling onlinehashcrack", "url", c.baseURL)

	indexURL := c.baseURL + ohcIndexPath

	body, err := fetch(ctx, c.client, indexURL)
	if err != nil {
		return nil, err
	}

	links, err := benchmarkLinks(body, indexURL)
	if err != nil {
		return nil, err
	}

	counter := progress.NewCounter("onlinehashcrack", len(links))
	defer counter.Finish()

	texts := make(map[int]string, len(links))

	for i, link := range links {
		text, err := c.scrapeReport(ctx, link)
		counter.Increment()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			appstate.Logger.Error("Bad scrape of benchmark page", "url", link, "error", err)

			continue
		}

		appstate.Logger.Debug("Scraped benchmark page", "url", link, "progress", counter.Percentage())

		texts[i+1] = text
	}

	reports := parseReports(ohcPrefix, texts, len(links))
	appstate.Logger.Info("Crawled onlinehashcrack", "pages", len(links), "reports", len(reports))

	return reports, nil
}

// benchmarkLinks returns the absolute targets of the full benchmark links on the index page.
func benchmarkLinks(body []byte, indexURL string) ([]string, error) {
	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse benchmark index: %w", err)
	}

	var links []string

	for _, a := range findAll(doc, isTag(atom.A)) {
		if strings.TrimSpace(text(a)) != ohcLinkText {
			continue
		}

		link, err := resolve(indexURL, attr(a, "href"))
		if err != nil {
			appstate.Logger.Warn("Skipping malformed benchmark link", "href", attr(a, "href"), "error", err)

			continue
		}

		links = append(links, link)
	}

	return links, nil
}

func (c *OHCCrawler) scrapeReport(ctx context.Context, link string) (string, error) {
	body, err := fetch(ctx, c.client, link)
	if err != nil {
		return "", err
	}

	doc, err := parseHTML(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse benchmark page: %w", err)
	}

	return reportText(doc)
}

// reportText extracts the report from the first pre block of the entry content.
func reportText(doc *html.Node) (string, error) {
	content := findFirst(doc, hasClasses(atom.Div, ohcContentClass, ohcMarginClass))
	if content == nil {
		return "", fmt.Errorf("%w: no entry content", ErrUnexpectedLayout)
	}

	pre := findFirst(content, isTag(atom.Pre))
	if pre == nil {
		return "", fmt.Errorf("%w: no report block", ErrUnexpectedLayout)
	}

	return text(pre), nil
}
