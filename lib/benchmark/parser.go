package benchmark

import (
	"maps"
	"strings"

	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/hashcat"
)

// State is a state of the report parser.
type State int

const (
	// AwaitingDevices scans for the consecutive device banners that open a report.
	AwaitingDevices State = iota
	// AwaitingHashMode scans for the announcement of the next benchmarked hash mode.
	AwaitingHashMode
	// AwaitingSpeeds scans for the per-device speed lines of the current hash mode.
	AwaitingSpeeds
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case AwaitingDevices:
		return "awaiting_devices"
	case AwaitingHashMode:
		return "awaiting_hash_mode"
	case AwaitingSpeeds:
		return "awaiting_speeds"
	default:
		return "unknown"
	}
}

// transition handles one classified line in a state. It returns the next
// state and whether the same line must be handled again in that state.
type transition func(p *Parser, line hashcat.Line) (State, bool)

//nolint:gochecknoglobals // Transition table is data
var transitions = map[State]transition{
	AwaitingDevices:  (*Parser).onDevices,
	AwaitingHashMode: (*Parser).onHashMode,
	AwaitingSpeeds:   (*Parser).onSpeeds,
}

// Parser is a line-oriented benchmark report parser. Lines are fed one at a
// time, so a report can be parsed while it is still being written. A Parser is
// not safe for concurrent use; independent reports use independent Parsers.
type Parser struct {
	state      State
	devices    map[int]string
	nextDevice int

	hashMode  string
	speeds    map[int]float64
	nextSpeed int

	stats map[string]map[int]float64
}

// NewParser returns a Parser in the AwaitingDevices state.
func NewParser() *Parser {
	return &Parser{
		state:      AwaitingDevices,
		devices:    make(map[int]string),
		nextDevice: 1,
		stats:      make(map[string]map[int]float64),
	}
}

// State returns the current state of the parser.
func (p *Parser) State() State {
	return p.state
}

// Feed consumes one line of report text.
func (p *Parser) Feed(raw string) {
	line := hashcat.Classify(strings.TrimRight(raw, "\r"))

	for {
		next, again := transitions[p.state](p, line)
		p.state = next

		if !again {
			return
		}
	}
}

func (p *Parser) onDevices(line hashcat.Line) (State, bool) {
	if line.Kind == hashcat.LineDevice && line.Index == p.nextDevice {
		p.devices[line.Index] = line.Value
		p.nextDevice++

		appstate.Logger.Debug("Benchmark device", "index", line.Index, "device", line.Value, "format", line.Variant)

		if p.nextDevice > hashcat.MaxDevices {
			return AwaitingHashMode, false
		}

		return AwaitingDevices, false
	}

	// Any other line, including a device banner with an error marker, ends
	// the scan once at least one device was consumed.
	if len(p.devices) > 0 {
		return AwaitingHashMode, true
	}

	return AwaitingDevices, false
}

func (p *Parser) onHashMode(line hashcat.Line) (State, bool) {
	if line.Kind != hashcat.LineHashMode {
		return AwaitingHashMode, false
	}

	appstate.Logger.Debug("Benchmark hash mode", "hash_mode", line.Value, "format", line.Variant)
	p.beginBlock(line.Value)

	return AwaitingSpeeds, false
}

func (p *Parser) onSpeeds(line hashcat.Line) (State, bool) {
	if line.Kind == hashcat.LineSpeed && line.Index == p.nextSpeed {
		speed, err := hashcat.ParseSpeed(line.Value)
		if err == nil {
			p.speeds[line.Index] = speed
			p.nextSpeed++

			if p.nextSpeed > hashcat.MaxDevices {
				p.commitBlock()

				return AwaitingHashMode, false
			}

			return AwaitingSpeeds, false
		}

		appstate.Logger.Debug("Unparseable speed line", "hash_mode", p.hashMode, "value", line.Value, "error", err)
	}

	if len(p.speeds) > 0 {
		p.commitBlock()

		return AwaitingHashMode, true
	}

	// A new announcement before any speed abandons the current block.
	if line.Kind == hashcat.LineHashMode {
		p.beginBlock(line.Value)
	}

	return AwaitingSpeeds, false
}

func (p *Parser) beginBlock(mode string) {
	p.hashMode = mode
	p.speeds = make(map[int]float64)
	p.nextSpeed = 1
}

func (p *Parser) commitBlock() {
	p.stats[p.hashMode] = p.speeds
	p.speeds = nil
}

// Result assembles the report observed so far. A speed block still being
// read counts as complete, which is what end of input means. Result does not
// change the parser, so feeding may continue afterwards.
func (p *Parser) Result() Report {
	stats := maps.Clone(p.stats)
	if p.state == AwaitingSpeeds && len(p.speeds) > 0 {
		stats[p.hashMode] = p.speeds
	}

	report := Report{}

	for index, name := range p.devices {
		modes := make(map[string]float64)

		for mode, speeds := range stats {
			if speed, ok := speeds[index]; ok {
				modes[mode] = speed
			}
		}

		if len(modes) > 0 {
			report[DeviceKey(name, index)] = modes
		}
	}

	return report
}

// ParseReport parses a complete report. Reports in which nothing is
// recognized yield an empty Report.
func ParseReport(text string) Report {
	p := NewParser()

	for line := range strings.Lines(text) {
		p.Feed(strings.TrimRight(line, "\n"))
	}

	return p.Result()
}

// ParseReportStrict parses a complete report and returns ErrMalformedReport
// when nothing usable was recognized.
func ParseReportStrict(text string) (Report, error) {
	report := ParseReport(text)
	if report.Empty() {
		return report, ErrMalformedReport
	}

	return report, nil
}
