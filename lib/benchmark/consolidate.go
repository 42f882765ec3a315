package benchmark

import (
	"errors"
	"fmt"
	"slices"

	"github.com/duke-git/lancet/v2/maputil"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/device"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Strategy selects how several observations of the same device and hash mode are merged.
type Strategy string

const (
	// StrategyFirst keeps the first observation in source order.
	StrategyFirst Strategy = "first"
	// StrategyMax keeps the fastest observation.
	StrategyMax Strategy = "max"
	// StrategyMean averages all observations.
	StrategyMean Strategy = "mean"
)

// ErrUnknownStrategy is returned by ParseStrategy for an unsupported name.
var ErrUnknownStrategy = errors.New("unknown consolidation strategy")

// ParseStrategy validates a strategy name. An empty name selects StrategyFirst.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", StrategyFirst:
		return StrategyFirst, nil
	case StrategyMax:
		return StrategyMax, nil
	case StrategyMean:
		return StrategyMean, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Table maps canonical device to hash mode to speed in hashes per second.
type Table map[string]map[string]float64

// Devices returns the canonical devices of t in lexical order.
func (t Table) Devices() []string {
	devices := maputil.Keys(t)
	slices.Sort(devices)

	return devices
}

// Consolidate merges reports into one table keyed by canonical device.
// Devices the normalizer does not know are dropped. Observations are visited
// in a fixed order, reports as given and device keys by name then index, so
// the result never depends on map iteration order.
func Consolidate(reports []SourceReport, normalizer *device.Normalizer, strategy Strategy) Table {
	observations := make(map[string]map[string][]float64)

	for _, source := range reports {
		for _, key := range sortedDeviceKeys(source.Report) {
			canonical, ok := normalizer.Normalize(key)
			if !ok {
				appstate.Logger.Debug("Dropping unrecognized benchmark device", "source", source.Source, "device", key)

				continue
			}

			if observations[canonical] == nil {
				observations[canonical] = make(map[string][]float64)
			}

			for mode, speed := range source.Report[key] {
				observations[canonical][mode] = append(observations[canonical][mode], speed)
			}
		}
	}

	table := make(Table, len(observations))

	for canonical, modes := range observations {
		table[canonical] = make(map[string]float64, len(modes))

		for mode, speeds := range modes {
			table[canonical][mode] = reduce(speeds, strategy)
		}
	}

	return table
}

func reduce(speeds []float64, strategy Strategy) float64 {
	switch strategy {
	case StrategyMax:
		return floats.Max(speeds)
	case StrategyMean:
		return stat.Mean(speeds, nil)
	case StrategyFirst:
		return speeds[0]
	default:
		return speeds[0]
	}
}
