// Package benchmark turns raw hashcat benchmark reports into per-device,
// per-hash-mode speed tables and consolidates tables from many sources.
package benchmark

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/duke-git/lancet/v2/maputil"
	"github.com/unclesp1d3r/pwpolicycost/lib/device"
)

// ErrMalformedReport is returned by ParseReportStrict when a report yields no
// device with at least one recognized speed.
var ErrMalformedReport = errors.New("no devices with speeds recognized in benchmark report")

// Report maps "<device name> #<index>" to hash mode to speed in hashes per second.
type Report map[string]map[string]float64

// Record is one device and hash mode observation, the row form of a Report.
type Record struct {
	Source   string  // Source names the report the observation came from.
	Device   string  // Device is the raw device key, "<name> #<index>".
	HashMode string  // HashMode is the hash algorithm identifier.
	Speed    float64 // Speed is in hashes per second.
}

// SourceReport is a Report tagged with the name of the source it was parsed from.
type SourceReport struct {
	Source string
	Report Report
}

// Empty reports whether r holds no observation.
func (r Report) Empty() bool {
	return len(r) == 0
}

// Records flattens r into rows ordered by device key, then hash mode.
func (r Report) Records(source string) []Record {
	var records []Record

	for _, dev := range sortedDeviceKeys(r) {
		modes := maputil.Keys(r[dev])
		slices.SortFunc(modes, CompareHashModes)

		for _, mode := range modes {
			records = append(records, Record{Source: source, Device: dev, HashMode: mode, Speed: r[dev][mode]})
		}
	}

	return records
}

// FromRecords groups rows back into reports, one per source, in the order
// sources first appear.
func FromRecords(records []Record) []SourceReport {
	var reports []SourceReport

	position := make(map[string]int)

	for _, rec := range records {
		idx, ok := position[rec.Source]
		if !ok {
			idx = len(reports)
			position[rec.Source] = idx
			reports = append(reports, SourceReport{Source: rec.Source, Report: Report{}})
		}

		report := reports[idx].Report
		if report[rec.Device] == nil {
			report[rec.Device] = make(map[string]float64)
		}

		report[rec.Device][rec.HashMode] = rec.Speed
	}

	return reports
}

// DeviceKey formats the key a device is reported under.
func DeviceKey(name string, index int) string {
	return fmt.Sprintf("%s #%d", name, index)
}

// splitDeviceKey separates a device key into its name and numeric index.
// Keys without an index sort before indexed keys of the same name.
func splitDeviceKey(key string) (string, int) {
	name := device.StripIndex(key)
	if name == key {
		return key, 0
	}

	index, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(key[len(name):]), "#"))
	if err != nil {
		return key, 0
	}

	return name, index
}

// sortedDeviceKeys orders device keys by name, then numerically by index, so
// "X #2" precedes "X #10".
func sortedDeviceKeys[V any](m map[string]V) []string {
	keys := maputil.Keys(m)
	slices.SortFunc(keys, func(a, b string) int {
		nameA, indexA := splitDeviceKey(a)
		nameB, indexB := splitDeviceKey(b)

		if c := cmp.Compare(nameA, nameB); c != 0 {
			return c
		}

		return cmp.Compare(indexA, indexB)
	})

	return keys
}

// CompareHashModes orders numeric hash modes numerically and everything else lexically after them.
func CompareHashModes(a, b string) int {
	numA, errA := strconv.Atoi(a)
	numB, errB := strconv.Atoi(b)

	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(numA, numB)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
