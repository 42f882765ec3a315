package datafile

import (
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
)

//nolint:gochecknoglobals // Column layout is data
var benchmarkHeader = []string{"source", "device", "hashmode", "speed"}

// WriteBenchmarks stores benchmark records at path, one row per device and hash mode.
func WriteBenchmarks(path string, records []benchmark.Record) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Source, rec.Device, rec.HashMode, formatFloat(rec.Speed)})
	}

	return writeCSV(path, benchmarkHeader, rows)
}

// ReadBenchmarks loads the records stored by WriteBenchmarks, in file order.
func ReadBenchmarks(path string) ([]benchmark.Record, error) {
	rows, err := readCSV(path, benchmarkHeader)
	if err != nil {
		return nil, err
	}

	records := make([]benchmark.Record, 0, len(rows))

	for i, row := range rows {
		speed, err := parseFloat(path, i+2, "speed", row[3]) //nolint:mnd // header plus one-based line
		if err != nil {
			return nil, err
		}

		records = append(records, benchmark.Record{Source: row[0], Device: row[1], HashMode: row[2], Speed: speed})
	}

	return records, nil
}
