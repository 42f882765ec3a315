package policy

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/pricing"
)

const secondsPerHour = 3600.0

var (
	// ErrNoMatchingPolicyData is returned when no priced row benchmarks the requested hash mode and SKU.
	ErrNoMatchingPolicyData = errors.New("no pricing and benchmark data matches the query")
	// ErrEstimateOverflow is returned when time or cost exceeds the float64 range.
	ErrEstimateOverflow = errors.New("estimate exceeds representable range")
)

// Query selects the rows an estimate is computed for. An empty SKU matches every SKU.
type Query struct {
	Policy   Policy
	HashMode string
	SKU      string
}

// CostEstimate is the projected cost of exhausting a keyspace on one priced row.
type CostEstimate struct {
	Row     pricing.UnifiedRow
	Seconds float64 // Seconds is the wall-clock time on a single GPU.
	Dollars float64
}

// Estimate computes a CostEstimate for every row matching q, cheapest first.
// Rows with equal cost keep their input order. Rows without a positive speed
// are skipped.
func Estimate(rows []pricing.UnifiedRow, q Query) ([]CostEstimate, error) {
	keyspace, err := q.Policy.KeyspaceFloat()
	if err != nil {
		return nil, err
	}

	var matching []pricing.UnifiedRow

	for _, row := range rows {
		if row.HashMode != q.HashMode || (q.SKU != "" && row.SKU != q.SKU) {
			continue
		}

		if row.Speed <= 0 {
			appstate.Logger.Debug("Skipping row without speed", "sku", row.SKU, "device", row.Device, "hash_mode", row.HashMode)

			continue
		}

		matching = append(matching, row)
	}

	if len(matching) == 0 {
		return nil, noMatch(q)
	}

	if math.IsInf(keyspace, 0) {
		return nil, fmt.Errorf("%w: keyspace %s", ErrEstimateOverflow, q.Policy)
	}

	estimates := make([]CostEstimate, 0, len(matching))

	for _, row := range matching {
		seconds := keyspace / row.Speed
		dollars := seconds / secondsPerHour * row.Price

		if math.IsInf(seconds, 0) || math.IsInf(dollars, 0) {
			return nil, fmt.Errorf("%w: keyspace %s on %s", ErrEstimateOverflow, q.Policy, row.SKU)
		}

		estimates = append(estimates, CostEstimate{Row: row, Seconds: seconds, Dollars: dollars})
	}

	slices.SortStableFunc(estimates, func(a, b CostEstimate) int {
		return cmp.Compare(a.Dollars, b.Dollars)
	})

	return estimates, nil
}

// Cheapest returns the lowest cost estimate for q. With a SKU in q the
// search is restricted to that SKU.
func Cheapest(rows []pricing.UnifiedRow, q Query) (CostEstimate, error) {
	estimates, err := Estimate(rows, q)
	if err != nil {
		return CostEstimate{}, err
	}

	return estimates[0], nil
}

func noMatch(q Query) error {
	if q.SKU != "" {
		return fmt.Errorf("%w: hash mode %q on sku %q", ErrNoMatchingPolicyData, q.HashMode, q.SKU)
	}

	return fmt.Errorf("%w: hash mode %q", ErrNoMatchingPolicyData, q.HashMode)
}
