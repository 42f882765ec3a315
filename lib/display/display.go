// Package display provides output and logging functions for the password policy cost tool.
package display

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/datafile"
	"github.com/unclesp1d3r/pwpolicycost/lib/policy"
)

const (
	dollarDigits = 3
	// maxPlainDollars is the largest amount printed with digit grouping;
	// larger amounts use scientific notation.
	maxPlainDollars = 1e15
	secondsPerYear  = 365.25 * 24 * 60 * 60
	// maxClockYears bounds durations printed as hours, minutes and seconds.
	maxClockYears = 1
)

//nolint:gochecknoglobals // Table styles are shared
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Speed renders a hash rate with an SI prefix, e.g. "164 GH/s".
func Speed(hashesPerSecond float64) string {
	return humanize.SI(hashesPerSecond, "H/s")
}

// Dollars renders an amount rounded to a tenth of a cent, e.g. "$2.778".
func Dollars(amount float64) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return "$" + strconv.FormatFloat(amount, 'g', -1, 64)
	}

	if math.Abs(amount) >= maxPlainDollars {
		return fmt.Sprintf("$%.*e", dollarDigits, amount)
	}

	rounded := decimal.NewFromFloat(amount).Round(dollarDigits)

	return "$" + humanize.CommafWithDigits(rounded.InexactFloat64(), dollarDigits)
}

// Duration renders seconds as a clock duration below a year and as a count
// of years above it.
func Duration(seconds float64) string {
	if math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return strconv.FormatFloat(seconds, 'g', -1, 64) + "s"
	}

	if seconds < 1 {
		return strconv.FormatFloat(math.Round(seconds*1000)/1000, 'f', -1, 64) + "s" //nolint:mnd // millisecond precision
	}

	years := seconds / secondsPerYear
	if years < maxClockYears {
		return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
	}

	return humanize.CommafWithDigits(years, 1) + " years"
}

// Table renders rows under headers with the tool's table style.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// EstimatesTable renders ranked cost estimates, cheapest first.
func EstimatesTable(estimates []policy.CostEstimate, modes datafile.HashModes) string {
	rows := make([][]string, 0, len(estimates))

	for i, e := range estimates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Row.SKU,
			e.Row.Device,
			modes.Name(e.Row.HashMode),
			Speed(e.Row.Speed),
			Dollars(e.Row.Price),
			Duration(e.Seconds),
			Dollars(e.Dollars),
		})
	}

	return Table([]string{"#", "SKU", "GPU", "Hash", "Speed", "Price/GPU-hour", "Time", "Cost"}, rows)
}

// ReportTable renders a parsed benchmark report, one row per device and hash mode.
func ReportTable(report benchmark.Report, modes datafile.HashModes) string {
	records := report.Records("")
	rows := make([][]string, 0, len(records))

	for _, rec := range records {
		rows = append(rows, []string{rec.Device, rec.HashMode, modes.Name(rec.HashMode), Speed(rec.Speed)})
	}

	return Table([]string{"Device", "Mode", "Hash", "Speed"}, rows)
}

// Summary describes the chosen estimate for a query in one sentence.
func Summary(q policy.Query, e policy.CostEstimate) string {
	if q.SKU == "" {
		return fmt.Sprintf("The cheapest option is %s with GPU %s - total cost %s and time %s",
			e.Row.SKU, e.Row.Device, Dollars(e.Dollars), Duration(e.Seconds))
	}

	return fmt.Sprintf("With SKU %s and GPU %s the total cost is %s and time %s",
		e.Row.SKU, e.Row.Device, Dollars(e.Dollars), Duration(e.Seconds))
}

// Policy describes what is being cracked.
func Policy(q policy.Query, modes datafile.HashModes) string {
	return fmt.Sprintf("Cracking password length %d with charset of length %d on mode %s (%s), keyspace %s",
		q.Policy.PasswordLength, q.Policy.CharsetSize, q.HashMode, modes.Name(q.HashMode), q.Policy.String())
}

// Crawled logs the outcome of one data source crawl.
func Crawled(source string, items int, elapsed time.Duration) {
	appstate.Logger.Info("Crawl finished", "source", source, "items", items, "elapsed", elapsed.Round(time.Millisecond))
}

// Saved logs that a data file was written.
func Saved(path string, rows int) {
	appstate.Logger.Info("Data saved", "path", path, "rows", rows)
}
