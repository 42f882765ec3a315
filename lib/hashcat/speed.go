package hashcat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedSpeed is returned when a speed value is not "<number> <unit>".
	ErrMalformedSpeed = errors.New("malformed speed value")
	// ErrUnknownSpeedUnit is returned for a unit missing from the unit table.
	ErrUnknownSpeedUnit = errors.New("unknown speed unit")
)

// speedUnits converts hashcat's speed suffixes to hashes per second.
//
//nolint:gochecknoglobals // Unit table is data
var speedUnits = map[string]float64{
	"H/s":  1,
	"kH/s": 1e3,
	"MH/s": 1e6,
	"GH/s": 1e9,
}

// ParseSpeed converts a speed such as "1234.5 MH/s" to hashes per second.
func ParseSpeed(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 { //nolint:mnd // value and unit
		return 0, fmt.Errorf("%w: %q", ErrMalformedSpeed, text)
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedSpeed, text, err)
	}

	multiplier, ok := speedUnits[fields[1]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSpeedUnit, fields[1])
	}

	return value * multiplier, nil
}
