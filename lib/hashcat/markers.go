// Package hashcat recognizes the line formats hashcat prints in benchmark reports.
package hashcat

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxDevices is the highest device index scanned in a report.
const MaxDevices = 16

// LineKind represents the classification of a benchmark report line.
type LineKind int

const (
	// LineUnknown is for lines that carry nothing the parser needs.
	LineUnknown LineKind = iota
	// LineDevice announces a usable device.
	LineDevice
	// LineDeviceError is a device banner carrying an error or warning marker.
	LineDeviceError
	// LineHashMode announces the hash mode of the following speed block.
	LineHashMode
	// LineSpeed reports the speed of one device.
	LineSpeed
)

// String returns the string representation of a LineKind.
func (k LineKind) String() string {
	switch k {
	case LineUnknown:
		return "unknown"
	case LineDevice:
		return "device"
	case LineDeviceError:
		return "device_error"
	case LineHashMode:
		return "hash_mode"
	case LineSpeed:
		return "speed"
	default:
		return "unknown"
	}
}

// Line is a classified benchmark report line.
type Line struct {
	Kind    LineKind
	Variant string // Variant names the textual format that matched, e.g. "legacy" for the unstarred device banner.
	Index   int    // Index is the device index of device and speed lines.
	Value   string // Value is the device name, the hash mode, or the raw speed text.
}

// deviceErrorMarkers are substrings that disqualify a device banner.
//
//nolint:gochecknoglobals // Marker table is data
var deviceErrorMarkers = []string{
	"CUDA SDK Toolkit installation NOT detected or incorrectly installed.",
	"WARNING",
}

// Compile all patterns at init time for performance.
// An index must be followed by a non-digit so "#1" never matches "#10".
//
//nolint:gochecknoglobals // Patterns are intentionally global for performance
var (
	deviceBanners = []struct {
		variant string
		pattern *regexp.Regexp
	}{
		{"banner", regexp.MustCompile(`^\* Device #(\d+)(\D.*)?$`)},
		{"legacy", regexp.MustCompile(`^Device #(\d+)(\D.*)?$`)},
	}
	speedPrefixes = []struct {
		variant string
		pattern *regexp.Regexp
	}{
		{"speed", regexp.MustCompile(`^Speed\.#(\d+)(\D.*)?$`)},
		{"speed_dev", regexp.MustCompile(`^Speed\.Dev\.#(\d+)(\D.*)?$`)},
	}
)

// Classify returns the classification of a single report line.
func Classify(line string) Line {
	for _, banner := range deviceBanners {
		m := banner.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		index, err := strconv.Atoi(m[1])
		if err != nil {
			return Line{}
		}

		if HasDeviceErrorMarker(line) {
			return Line{Kind: LineDeviceError, Variant: banner.variant, Index: index}
		}

		return Line{Kind: LineDevice, Variant: banner.variant, Index: index, Value: deviceName(line)}
	}

	if mode, variant, ok := hashMode(line); ok {
		return Line{Kind: LineHashMode, Variant: variant, Value: mode}
	}

	for _, prefix := range speedPrefixes {
		m := prefix.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		index, err := strconv.Atoi(m[1])
		if err != nil {
			return Line{}
		}

		return Line{Kind: LineSpeed, Variant: prefix.variant, Index: index, Value: speedText(line)}
	}

	return Line{}
}

// HasDeviceErrorMarker reports whether line contains any known device error or warning marker.
func HasDeviceErrorMarker(line string) bool {
	for _, marker := range deviceErrorMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}

	return false
}

// deviceName is the text between the first colon and the first comma after it.
func deviceName(line string) string {
	_, rest, found := strings.Cut(line, ":")
	if !found {
		return ""
	}

	name, _, _ := strings.Cut(rest, ",")

	return strings.TrimSpace(name)
}

// hashMode extracts the algorithm identifier from either announcement format:
// "Hashmode: 0 - MD5" yields "0", "* Hash-Mode 0 (MD5)" yields "0".
func hashMode(line string) (string, string, bool) {
	if rest, ok := strings.CutPrefix(line, "Hashmode: "); ok {
		mode, _, _ := strings.Cut(rest, "-")
		mode = strings.TrimSpace(mode)

		return mode, "hashmode", mode != ""
	}

	if strings.HasPrefix(line, "* Hash-Mode") {
		fields := strings.Split(line, " ")
		if len(fields) < 3 || fields[2] == "" { //nolint:mnd // "*", "Hash-Mode", "<id>"
			return "", "", false
		}

		return fields[2], "hash_mode_banner", true
	}

	return "", "", false
}

// speedText is the "<value> <unit>" part of a speed line, between the first
// colon and the opening parenthesis of the timing details.
func speedText(line string) string {
	_, rest, found := strings.Cut(line, ":")
	if !found {
		return ""
	}

	value, _, _ := strings.Cut(rest, "(")

	return strings.TrimSpace(value)
}
