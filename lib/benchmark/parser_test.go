package benchmark

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
)

const currentFormatReport = `hashcat (v6.2.6) starting in benchmark mode

CUDA API (CUDA 12.2)
====================
* Device #1: NVIDIA GeForce RTX 4090, 23867/24563 MB, 128MCU
* Device #2: NVIDIA GeForce RTX 4090, 23867/24563 MB, 128MCU

Benchmark relevant options:
===========================
* --optimized-kernel-enable

-------------------
* Hash-Mode 0 (MD5)
-------------------

Speed.#1.........:   164.0 GH/s (13.07ms) @ Accel:128 Loops:1024 Thr:256 Vec:8
Speed.#2.........:   163.0 GH/s (13.11ms) @ Accel:128 Loops:1024 Thr:256 Vec:8
Speed.#*.........:   327.0 GH/s

--------------------
* Hash-Mode 1000 (NTLM)
--------------------

Speed.#1.........:   288.0 GH/s (7.44ms) @ Accel:128 Loops:1024 Thr:256 Vec:8
Speed.#2.........:   287.0 GH/s (7.46ms) @ Accel:128 Loops:1024 Thr:256 Vec:8
Speed.#*.........:   575.0 GH/s

Started: Mon Jan  2 10:00:00 2023
Stopped: Mon Jan  2 10:05:00 2023
`

const legacyFormatReport = `hashcat (v4.1.0) starting in benchmark mode...

OpenCL Platform #1: NVIDIA Corporation
======================================
Device #1: GeForce GTX 1080 Ti, 2795/11178 MB allocatable, 28MCU

Benchmark relevant options:
===========================
* --optimized-kernel-enable

Hashmode: 0 - MD5

Speed.Dev.#1.....:  32000.0 MH/s (57.48ms) @ Accel:256 Loops:512 Thr:1024 Vec:2

Hashmode: 100 - SHA1

Speed.Dev.#1.....:  11000.0 MH/s (84.93ms) @ Accel:128 Loops:512 Thr:1024 Vec:1
`

func feedLines(p *Parser, lines ...string) {
	for _, line := range lines {
		p.Feed(line)
	}
}

func TestParseReport_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		report   string
		expected Report
	}{
		{
			name: "single device single mode",
			report: "* Device #1: GeForce RTX 3090, 23336/24268 MB, 82MCU\n" +
				"Hashmode: MD5\n" +
				"Speed.#1.........:  1234.5 MH/s\n",
			expected: Report{"GeForce RTX 3090 #1": {"MD5": 1234500000.0}},
		},
		{
			name:   "current format with two devices and two modes",
			report: currentFormatReport,
			expected: Report{
				"NVIDIA GeForce RTX 4090 #1": {"0": 164e9, "1000": 288e9},
				"NVIDIA GeForce RTX 4090 #2": {"0": 163e9, "1000": 287e9},
			},
		},
		{
			name:   "legacy format",
			report: legacyFormatReport,
			expected: Report{
				"GeForce GTX 1080 Ti #1": {"0": 32e9, "100": 11e9},
			},
		},
		{
			name:     "missing toolkit marker on device line",
			report:   "* Device #1: CUDA SDK Toolkit installation NOT detected or incorrectly installed.\nHashmode: MD5\nSpeed.#1.........:  1234.5 MH/s\n",
			expected: Report{},
		},
		{
			name:     "devices without speed blocks",
			report:   "* Device #1: Tesla T4, 14930/15109 MB, 40MCU\n\nStarted: now\n",
			expected: Report{},
		},
		{
			name:     "empty input",
			report:   "",
			expected: Report{},
		},
		{
			name:     "unrelated text",
			report:   "hashcat: command not found\n",
			expected: Report{},
		},
		{
			name: "windows line endings",
			report: "* Device #1: GeForce RTX 3090, 24268 MB\r\n" +
				"Hashmode: 0 - MD5\r\n" +
				"Speed.#1.........:  2.0 GH/s\r\n",
			expected: Report{"GeForce RTX 3090 #1": {"0": 2e9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseReport(tt.report))
		})
	}
}

func TestParseReport_SpeedForMissingDeviceIndex(t *testing.T) {
	report := "* Device #1: Tesla V100-SXM2-16GB, 16022/16160 MB, 80MCU\n" +
		"Hashmode: 0 - MD5\n" +
		"Speed.#1.........:  50.0 GH/s\n" +
		"Speed.#2.........:  51.0 GH/s\n"

	got := ParseReport(report)

	assert.Equal(t, Report{"Tesla V100-SXM2-16GB #1": {"0": 50e9}}, got)
}

func TestParseReportStrict(t *testing.T) {
	report, err := ParseReportStrict(legacyFormatReport)
	require.NoError(t, err)
	assert.Len(t, report, 1)

	report, err = ParseReportStrict("nothing useful here\n")
	require.ErrorIs(t, err, ErrMalformedReport)
	assert.True(t, report.Empty())
}

func TestParser_AwaitingDevices(t *testing.T) {
	t.Run("unrelated lines keep scanning", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "hashcat (v6.2.6) starting", "", "CUDA API (CUDA 12.2)")
		assert.Equal(t, AwaitingDevices, p.State())
	})

	t.Run("consecutive devices keep scanning", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "* Device #1: A, 1 MB", "* Device #2: B, 1 MB")
		assert.Equal(t, AwaitingDevices, p.State())
	})

	t.Run("first non-device line ends the scan", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "* Device #1: A, 1 MB", "")
		assert.Equal(t, AwaitingHashMode, p.State())
	})

	t.Run("error marker ends the scan", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "* Device #1: A, 1 MB", "* Device #2: WARNING! Kernel exec timeout is not disabled.")
		assert.Equal(t, AwaitingHashMode, p.State())

		feedLines(p, "Hashmode: 0 - MD5", "Speed.#1.........: 1.0 MH/s", "Speed.#2.........: 1.0 MH/s")
		assert.Equal(t, Report{"A #1": {"0": 1e6}}, p.Result())
	})

	t.Run("error marker before any device is skipped", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "* Device #1: WARNING! out of resources")
		assert.Equal(t, AwaitingDevices, p.State())
	})

	t.Run("out of order index is not a device", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "* Device #2: B, 1 MB")
		assert.Equal(t, AwaitingDevices, p.State())
	})

	t.Run("scan stops at the maximum index", func(t *testing.T) {
		p := NewParser()
		for i := 1; i <= 16; i++ {
			p.Feed(fmt.Sprintf("* Device #%d: Tesla T4, 15109 MB", i))
		}

		assert.Equal(t, AwaitingHashMode, p.State())
	})
}

func TestParser_AwaitingHashMode(t *testing.T) {
	p := NewParser()
	feedLines(p, "Device #1: GeForce GTX 1080, 8114 MB", "")
	require.Equal(t, AwaitingHashMode, p.State())

	feedLines(p, "Speed.Dev.#1.....: 1.0 MH/s", "Benchmark relevant options:")
	assert.Equal(t, AwaitingHashMode, p.State(), "speed lines without a hash mode are skipped")

	p.Feed("* Hash-Mode 1000 (NTLM)")
	assert.Equal(t, AwaitingSpeeds, p.State())
}

func TestParser_AwaitingSpeeds(t *testing.T) {
	t.Run("block without speeds is abandoned for the next announcement", func(t *testing.T) {
		p := NewParser()
		feedLines(p,
			"* Device #1: A, 1 MB",
			"",
			"Hashmode: 0 - MD5",
			"",
			"Hashmode: 100 - SHA1",
			"Speed.#1.........: 2.0 kH/s",
		)

		assert.Equal(t, Report{"A #1": {"100": 2e3}}, p.Result())
	})

	t.Run("unparseable speed is skipped", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "* Device #1: A, 1 MB", "", "Hashmode: 0 - MD5", "Speed.#1.........: 9.9 TH/s")
		assert.Equal(t, AwaitingSpeeds, p.State())
		assert.True(t, p.Result().Empty())
	})

	t.Run("line after speeds returns to hash mode scanning", func(t *testing.T) {
		p := NewParser()
		feedLines(p, "* Device #1: A, 1 MB", "", "Hashmode: 0 - MD5", "Speed.#1.........: 1.0 H/s", "")
		assert.Equal(t, AwaitingHashMode, p.State())
	})

	t.Run("announcement right after speeds starts the next block", func(t *testing.T) {
		p := NewParser()
		feedLines(p,
			"* Device #1: A, 1 MB",
			"Hashmode: 0 - MD5",
			"Speed.#1.........: 1.0 H/s",
			"Hashmode: 100 - SHA1",
		)
		assert.Equal(t, AwaitingSpeeds, p.State())

		p.Feed("Speed.#1.........: 3.0 H/s")
		assert.Equal(t, Report{"A #1": {"0": 1, "100": 3}}, p.Result())
	})
}

func TestParser_ResultDoesNotChangeParser(t *testing.T) {
	p := NewParser()
	feedLines(p, "* Device #1: A, 1 MB", "Hashmode: 0 - MD5", "Speed.#1.........: 1.0 MH/s")

	first := p.Result()
	assert.Equal(t, Report{"A #1": {"0": 1e6}}, first)
	assert.Equal(t, AwaitingSpeeds, p.State())

	feedLines(p, "", "Hashmode: 100 - SHA1", "Speed.#1.........: 2.0 MH/s")

	assert.Equal(t, Report{"A #1": {"0": 1e6, "100": 2e6}}, p.Result())
	assert.Equal(t, Report{"A #1": {"0": 1e6}}, first)
}

func TestParser_IncrementalMatchesWhole(t *testing.T) {
	p := NewParser()
	for _, line := range strings.Split(currentFormatReport, "\n") {
		p.Feed(line)
	}

	assert.Equal(t, ParseReport(currentFormatReport), p.Result())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "awaiting_devices", AwaitingDevices.String())
	assert.Equal(t, "awaiting_hash_mode", AwaitingHashMode.String())
	assert.Equal(t, "awaiting_speeds", AwaitingSpeeds.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestParser_LogsMatchedFormats(t *testing.T) {
	var buf bytes.Buffer

	level := appstate.Logger.GetLevel()
	appstate.Logger.SetOutput(&buf)
	appstate.Logger.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		appstate.Logger.SetOutput(os.Stderr)
		appstate.Logger.SetLevel(level)
	})

	ParseReport(legacyFormatReport)

	out := buf.String()
	assert.Contains(t, out, "format=legacy")
	assert.Contains(t, out, "format=hashmode")
	assert.NotContains(t, out, "format=banner")
}
