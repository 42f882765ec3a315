// Package datafile reads and writes the CSV files the tool keeps between
// runs: scraped benchmark records, scraped cloud pricing entries and the
// hash mode name map.
package datafile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
)

var (
	// ErrBadHeader is returned when a CSV file does not start with the expected header.
	ErrBadHeader = errors.New("unexpected CSV header")
	// ErrBadRow is returned for a row with the wrong field count or an unparseable number.
	ErrBadRow = errors.New("malformed CSV row")
)

// formatFloat renders v so that parsing it back yields exactly v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(path string, line int, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s line %d: %s %q", ErrBadRow, path, line, field, raw)
	}

	return v, nil
}

// writeCSV writes header and rows to path atomically via a temporary file and
// rename, creating the parent directory when needed.
func writeCSV(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if !fileutil.IsExist(dir) {
		if err := fileutil.CreateDir(dir); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	tmpPath := path + ".tmp"
	records := append([][]string{header}, rows...)

	if err := fileutil.WriteCsvFile(tmpPath, records, false); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			appstate.Logger.Warn("Failed to clean up temp data file", "error", removeErr, "path", tmpPath)
		}

		return fmt.Errorf("failed to rename %s: %w", tmpPath, err)
	}

	appstate.Logger.Debug("Wrote data file", "path", path, "rows", len(rows))

	return nil
}

// readCSV returns the rows of path after checking its header.
func readCSV(path string, header []string) ([][]string, error) {
	records, err := fileutil.ReadCsvFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(records) == 0 || !slices.Equal(records[0], header) {
		return nil, fmt.Errorf("%w: %s", ErrBadHeader, path)
	}

	rows := records[1:]
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: %s line %d has %d fields", ErrBadRow, path, i+2, len(row)) //nolint:mnd // header plus one-based line
		}
	}

	return rows, nil
}
