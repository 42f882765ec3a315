package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/device"
	"github.com/unclesp1d3r/pwpolicycost/lib/pricing"
	"github.com/unclesp1d3r/pwpolicycost/lib/progress"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	azureSizesPath  = "/en-us/azure/virtual-machines/"
	azureSizesIndex = "sizes-gpu"
	azureRetailPath = "/api/retail/prices"
	azureGPUHeader  = "GPU"
)

// ErrNoCurrentPrice is returned when the retail API lists no current offer for a SKU.
var ErrNoCurrentPrice = errors.New("no current retail price")

// AzureCrawler collects GPU VM sizes from the Azure documentation and their
// prices from the Azure retail prices API.
type AzureCrawler struct {
	client     *http.Client
	docsURL    string
	apiURL     string
	normalizer *device.Normalizer
}

// NewAzureCrawler returns a crawler for the given documentation and API
// sites, the public ones when empty. normalizer supplies the device names
// looked for on each size page.
func NewAzureCrawler(client *http.Client, docsURL, apiURL string, normalizer *device.Normalizer) *AzureCrawler {
	if docsURL == "" {
		docsURL = DefaultAzureDocsURL
	}

	if apiURL == "" {
		apiURL = DefaultAzureAPIURL
	}

	return &AzureCrawler{
		client:     client,
		docsURL:    strings.TrimSuffix(docsURL, "/"),
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		normalizer: normalizer,
	}
}

// sizeRow is one VM size listed on a size page.
type sizeRow struct {
	SKU      string
	Device   string
	GPUCount string
}

// retailPrices is a page of the retail prices API.
type retailPrices struct {
	Items []retailItem `json:"Items"`
}

type retailItem struct {
	UnitPrice        float64 `json:"unitPrice"`
	UnitOfMeasure    string  `json:"unitOfMeasure"`
	EffectiveEndDate *string `json:"effectiveEndDate"`
}

// Crawl returns one pricing entry per priced GPU VM size. Pages and SKUs that
// cannot be scraped or priced are logged and skipped.
func (c *AzureCrawler) Crawl(ctx context.Context) ([]pricing.RawEntry, error) {
	appstate.Logger.Info("Crawling azure", "url", c.docsURL)

	links, err := c.sizePages(ctx)
	if err != nil {
		return nil, err
	}

	var rows []sizeRow

	pages := progress.NewCounter("azure sizes", len(links))

	for _, link := range links {
		pageRows, err := c.scrapeSizePage(ctx, link)
		pages.Increment()

		if err != nil {
			if ctx.Err() != nil {
				pages.Finish()

				return nil, ctx.Err()
			}

			appstate.Logger.Error("Bad scrape of size page", "url", link, "error", err)

			continue
		}

		rows = append(rows, pageRows...)
	}

	pages.Finish()

	entries := make([]pricing.RawEntry, 0, len(rows))
	prices := progress.NewCounter("azure prices", len(rows))

	defer prices.Finish()

	for _, row := range rows {
		item, err := c.retailPrice(ctx, row.SKU)
		prices.Increment()

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			appstate.Logger.Error("Cannot get pricing", "sku", row.SKU, "error", err)

			continue
		}

		entries = append(entries, pricing.RawEntry{
			SKU:       row.SKU,
			Device:    row.Device,
			UnitPrice: item.UnitPrice,
			Unit:      item.UnitOfMeasure,
			GPUCount:  row.GPUCount,
		})
	}

	appstate.Logger.Info("Crawled azure", "size_pages", len(links), "skus", len(rows), "priced", len(entries))

	return entries, nil
}

// sizePages returns the size page links of the second list in the main
// content of the GPU sizes index.
func (c *AzureCrawler) sizePages(ctx context.Context) ([]string, error) {
	base := c.docsURL + azureSizesPath

	body, err := fetch(ctx, c.client, base+azureSizesIndex)
	if err != nil {
		return nil, err
	}

	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sizes index: %w", err)
	}

	content := findFirst(doc, isTag(atom.Main))
	if content == nil {
		return nil, fmt.Errorf("%w: no main content in sizes index", ErrUnexpectedLayout)
	}

	lists := findAll(content, isTag(atom.Ul))
	if len(lists) < 2 { //nolint:mnd // The size families are the second list
		return nil, fmt.Errorf("%w: sizes index has %d lists", ErrUnexpectedLayout, len(lists))
	}

	var links []string

	for _, a := range findAll(lists[1], isTag(atom.A)) {
		href := attr(a, "href")
		if href == "" {
			continue
		}

		link, err := resolve(base, href)
		if err != nil {
			appstate.Logger.Warn("Skipping malformed size link", "href", href, "error", err)

			continue
		}

		links = append(links, link)
	}

	return links, nil
}

func (c *AzureCrawler) scrapeSizePage(ctx context.Context, link string) ([]sizeRow, error) {
	body, err := fetch(ctx, c.client, link)
	if err != nil {
		return nil, err
	}

	return parseSizePage(body, c.normalizer)
}

// parseSizePage reads the size table of a size page. The device is the
// longest canonical device name found anywhere in the page.
func parseSizePage(body []byte, normalizer *device.Normalizer) ([]sizeRow, error) {
	gpu, ok := normalizer.Detect(string(body))
	if !ok {
		return nil, fmt.Errorf("%w: missing GPU data", ErrUnexpectedLayout)
	}

	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse size page: %w", err)
	}

	root := findFirst(doc, isTag(atom.Main))
	if root == nil {
		root = doc
	}

	table := findFirst(root, isTag(atom.Table))
	if table == nil {
		return nil, fmt.Errorf("%w: no size table", ErrUnexpectedLayout)
	}

	column := gpuColumn(table)
	if column < 0 {
		return nil, fmt.Errorf("%w: no %s column", ErrUnexpectedLayout, azureGPUHeader)
	}

	var rows []sizeRow

	tbody := findFirst(table, isTag(atom.Tbody))
	if tbody == nil {
		tbody = table
	}

	for _, tr := range findAll(tbody, isTag(atom.Tr)) {
		cells := cellTexts(tr, atom.Td)
		if len(cells) <= column || cells[0] == "" {
			continue
		}

		rows = append(rows, sizeRow{SKU: cells[0], Device: gpu, GPUCount: cells[column]})
	}

	return rows, nil
}

// gpuColumn returns the index of the GPU count column, preferring an exact
// header match over a header that merely mentions GPUs.
func gpuColumn(table *html.Node) int {
	head := findFirst(table, isTag(atom.Thead))
	if head == nil {
		return -1
	}

	headers := cellTexts(head, atom.Th)

	for i, h := range headers {
		if h == azureGPUHeader {
			return i
		}
	}

	for i, h := range headers {
		if strings.HasPrefix(h, azureGPUHeader) && !strings.Contains(strings.ToLower(h), "memory") {
			return i
		}
	}

	return -1
}

func cellTexts(n *html.Node, tag atom.Atom) []string {
	var cells []string

	for _, cell := range findAll(n, isTag(tag)) {
		cells = append(cells, strings.TrimSpace(text(cell)))
	}

	return cells
}

// retailPrice returns the cheapest current consumption offer for sku.
func (c *AzureCrawler) retailPrice(ctx context.Context, sku string) (retailItem, error) {
	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("armSkuName eq '%s' and priceType eq 'Consumption'", sku))

	var page retailPrices
	if err := fetchJSON(ctx, c.client, c.apiURL+azureRetailPath+"?"+query.Encode(), &page); err != nil {
		return retailItem{}, err
	}

	return cheapestCurrent(page.Items, sku)
}

// cheapestCurrent picks the lowest priced item without an end date.
// Ties keep the first listed item.
func cheapestCurrent(items []retailItem, sku string) (retailItem, error) {
	var (
		best  retailItem
		found bool
	)

	for _, item := range items {
		if item.EffectiveEndDate != nil {
			continue
		}

		if !found || item.UnitPrice < best.UnitPrice {
			best = item
			found = true
		}
	}

	if !found {
		return retailItem{}, fmt.Errorf("%w: %s", ErrNoCurrentPrice, sku)
	}

	return best, nil
}
