package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidGPUCount is returned for GPU counts that are not a positive number or fraction.
var ErrInvalidGPUCount = errors.New("invalid GPU count")

// ParseGPUCount reads the GPU count of an instance as catalogs print it:
// a whole number ("2"), a fractional share ("1/4" is a quarter GPU), or
// either followed by a word ("4 GPUs").
func ParseGPUCount(raw string) (float64, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidGPUCount)
	}

	var count float64

	if num, den, found := strings.Cut(fields[0], "/"); found {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)

		if errN != nil || errD != nil || d == 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidGPUCount, raw)
		}

		count = n / d
	} else {
		n, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidGPUCount, raw)
		}

		count = n
	}

	if count <= 0 || math.IsInf(count, 0) || math.IsNaN(count) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGPUCount, raw)
	}

	return count, nil
}
