// Package pricing normalizes cloud GPU pricing entries to a per-GPU hourly
// price and joins them with consolidated benchmark speeds.
package pricing

import (
	"slices"

	"github.com/duke-git/lancet/v2/maputil"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/device"
)

// RawEntry is a pricing entry as a cloud source reports it.
type RawEntry struct {
	SKU       string  // SKU is the provider's instance size name.
	Device    string  // Device is the GPU name as the source prints it.
	UnitPrice float64 // UnitPrice is the price of the whole instance per Unit.
	Unit      string  // Unit is the billing unit of measure, e.g. "1 Hour".
	GPUCount  string  // GPUCount is the raw GPU count, e.g. "2" or "1/4".
}

// Record is a pricing entry resolved to a canonical device with a per-GPU price.
type Record struct {
	SKU       string
	Device    string  // Device is the canonical device.
	UnitPrice float64 // UnitPrice is dollars per GPU per Unit.
	Unit      string  // Unit is always HourUnit.
	GPUCount  float64 // GPUCount is greater than zero.
}

// UnifiedRow pairs the price of a SKU with the speed of its device for one hash mode.
type UnifiedRow struct {
	SKU      string
	Device   string
	HashMode string
	Speed    float64 // Speed is in hashes per second.
	Price    float64 // Price is dollars per GPU-hour.
}

// Normalize resolves raw entries to Records. Entries whose device, unit or
// GPU count cannot be understood are logged and skipped.
func Normalize(entries []RawEntry, normalizer *device.Normalizer) []Record {
	records := make([]Record, 0, len(entries))

	for _, entry := range entries {
		canonical, ok := normalizer.Normalize(entry.Device)
		if !ok {
			appstate.Logger.Warn("Skipping pricing entry with unrecognized device", "sku", entry.SKU, "device", entry.Device)

			continue
		}

		count, err := ParseGPUCount(entry.GPUCount)
		if err != nil {
			appstate.Logger.Warn("Skipping pricing entry", "sku", entry.SKU, "error", err)

			continue
		}

		hourly, err := HourlyPrice(entry.UnitPrice, entry.Unit)
		if err != nil {
			appstate.Logger.Warn("Skipping pricing entry", "sku", entry.SKU, "error", err)

			continue
		}

		records = append(records, Record{
			SKU:       entry.SKU,
			Device:    canonical,
			UnitPrice: hourly / count,
			Unit:      HourUnit,
			GPUCount:  count,
		})
	}

	return records
}

// JoinRecords cross-joins records with the benchmark table on canonical
// device. Rows follow record order, then hash mode order.
func JoinRecords(records []Record, table benchmark.Table) []UnifiedRow {
	var rows []UnifiedRow

	for _, rec := range records {
		speeds, ok := table[rec.Device]
		if !ok {
			appstate.Logger.Debug("No benchmark data for priced device", "sku", rec.SKU, "device", rec.Device)

			continue
		}

		modes := maputil.Keys(speeds)
		slices.SortFunc(modes, benchmark.CompareHashModes)

		for _, mode := range modes {
			rows = append(rows, UnifiedRow{
				SKU:      rec.SKU,
				Device:   rec.Device,
				HashMode: mode,
				Speed:    speeds[mode],
				Price:    rec.UnitPrice,
			})
		}
	}

	return rows
}

// Join normalizes raw entries and joins them with the benchmark table.
func Join(entries []RawEntry, table benchmark.Table, normalizer *device.Normalizer) []UnifiedRow {
	return JoinRecords(Normalize(entries, normalizer), table)
}
