package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// HoursPerMonth is the billing month cloud catalogs assume.
const HoursPerMonth = 730.0

// HourUnit is the unit every normalized price is expressed in.
const HourUnit = "1 Hour"

// ErrUnknownUnit is returned when a unit of measure cannot be converted to hours.
var ErrUnknownUnit = errors.New("unknown unit of measure")

//nolint:gochecknoglobals // Period table is data
var periodHours = map[string]float64{
	"hour":   1,
	"hours":  1,
	"hr":     1,
	"day":    24,
	"days":   24,
	"month":  HoursPerMonth,
	"months": HoursPerMonth,
}

// UnitHours returns how many hours one unit of measure covers. It accepts the
// forms retail price lists use: "1 Hour", "100 Hours", "1/Hour", "1/Day".
func UnitHours(unit string) (float64, error) {
	text := strings.TrimSpace(unit)

	quantity := 1.0

	if head, period, found := strings.Cut(text, "/"); found {
		if head != "" {
			q, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
			}

			quantity = q
		}

		text = period
	} else if fields := strings.Fields(text); len(fields) == 2 {
		q, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
		}

		quantity = q
		text = fields[1]
	}

	hours, ok := periodHours[strings.ToLower(strings.TrimSpace(text))]
	if !ok || quantity <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}

	return quantity * hours, nil
}

// HourlyPrice converts a price billed per unit into dollars per hour.
func HourlyPrice(price float64, unit string) (float64, error) {
	hours, err := UnitHours(unit)
	if err != nil {
		return 0, err
	}

	return price / hours, nil
}
