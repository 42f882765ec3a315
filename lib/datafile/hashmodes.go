package datafile

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed modes.csv
var defaultHashModes []byte

// HashModes maps a hashcat hash mode to its display name.
type HashModes map[string]string

// Name returns the display name of mode, or mode itself when it is not mapped.
func (h HashModes) Name(mode string) string {
	if name, ok := h[mode]; ok {
		return name
	}

	return mode
}

// DefaultHashModes returns the built-in hash mode map.
func DefaultHashModes() HashModes {
	modes, err := ParseHashModes(bytes.NewReader(defaultHashModes))
	if err != nil {
		panic(fmt.Sprintf("embedded hash mode map is invalid: %v", err))
	}

	return modes
}

// LoadHashModes reads a "<mode>;<name>" file. An empty path yields the
// built-in map.
func LoadHashModes(path string) (HashModes, error) {
	if path == "" {
		return DefaultHashModes(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hash mode map: %w", err)
	}
	defer func() { _ = f.Close() }()

	modes, err := ParseHashModes(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hash mode map %s: %w", path, err)
	}

	return modes, nil
}

// ParseHashModes reads "<mode>;<name>" lines. Extra fields are ignored and a
// later line for the same mode wins.
func ParseHashModes(r io.Reader) (HashModes, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	modes := HashModes{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return modes, nil
		}

		if err != nil {
			return nil, err
		}

		if len(row) < 2 || strings.TrimSpace(row[0]) == "" { //nolint:mnd // mode and name
			line, _ := reader.FieldPos(0)

			return nil, fmt.Errorf("%w: line %d", ErrBadRow, line)
		}

		modes[strings.TrimSpace(row[0])] = strings.TrimSpace(row[1])
	}
}
