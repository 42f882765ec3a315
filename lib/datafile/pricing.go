package datafile

import (
	"github.com/unclesp1d3r/pwpolicycost/lib/pricing"
)

//nolint:gochecknoglobals // Column layout is data
var pricingHeader = []string{"sku", "device", "price", "unit", "gpu_count"}

// WritePricing stores raw pricing entries at path. GPU counts are kept as
// scraped so fractional shares survive until join time.
func WritePricing(path string, entries []pricing.RawEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.SKU, e.Device, formatFloat(e.UnitPrice), e.Unit, e.GPUCount})
	}

	return writeCSV(path, pricingHeader, rows)
}

// ReadPricing loads the entries stored by WritePricing, in file order.
func ReadPricing(path string) ([]pricing.RawEntry, error) {
	rows, err := readCSV(path, pricingHeader)
	if err != nil {
		return nil, err
	}

	entries := make([]pricing.RawEntry, 0, len(rows))

	for i, row := range rows {
		price, err := parseFloat(path, i+2, "price", row[2]) //nolint:mnd // header plus one-based line
		if err != nil {
			return nil, err
		}

		entries = append(entries, pricing.RawEntry{
			SKU:       row[0],
			Device:    row[1],
			UnitPrice: price,
			Unit:      row[3],
			GPUCount:  row[4],
		})
	}

	return entries, nil
}
