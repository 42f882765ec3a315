package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/pwpolicycost/lib/cserrors"
	"github.com/unclesp1d3r/pwpolicycost/lib/datafile"
	"github.com/unclesp1d3r/pwpolicycost/lib/display"
	"github.com/unclesp1d3r/pwpolicycost/lib/policy"
	"github.com/unclesp1d3r/pwpolicycost/lib/pricing"
)

const (
	modeMD5         = "0"
	charsetLower    = "lowercase"
	charsetASCII    = "ascii_printable"
	experimentSKU   = "Standard_NC6s_v3"
	notAvailable    = "n/a"
	statsBaseLength = 8
	statsLongLength = 12
)

// experiment is one fixed policy of the stats report.
type experiment struct {
	Mode    string
	Length  int
	Charset string
}

//nolint:gochecknoglobals // Report layout is data
var (
	statsModes       = []string{"0", "10", "100", "1000", "1400", "3200", "8900"}
	statsLengths     = []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	statsExperiments = []experiment{
		{Mode: "0", Length: 8, Charset: charsetASCII},
		{Mode: "0", Length: 11, Charset: charsetLower},
		{Mode: "100", Length: 7, Charset: charsetASCII},
		{Mode: "1400", Length: 7, Charset: charsetASCII},
		{Mode: "1410", Length: 7, Charset: charsetASCII},
		{Mode: "1700", Length: 7, Charset: charsetASCII},
		{Mode: "8900", Length: 5, Charset: charsetASCII},
	}
)

var statsCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:   "stats",
	Short: "Print cost tables for common hash modes, lengths and charsets",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	modes, err := loadHashModes(cmd.Context())
	if err != nil {
		return cserrors.LogAndReturn("Cannot load hash mode names", err)
	}

	normalizer, err := loadNormalizer()
	if err != nil {
		return cserrors.LogAndReturn("Cannot load device aliases", err)
	}

	rows, err := loadRows(normalizer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, section := range statsSections(rows, modes) {
		_, _ = fmt.Fprintf(out, "%s\n%s\n\n", section.Title, display.Table(section.Headers, section.Rows))
	}

	return nil
}

// statsSection is one titled table of the stats report.
type statsSection struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func statsSections(rows []pricing.UnifiedRow, modes datafile.HashModes) []statsSection {
	ascii := mustCharset(charsetASCII)
	lower := mustCharset(charsetLower)

	byMode := statsSection{
		Title:   fmt.Sprintf("Different hashes on password length %d", statsBaseLength),
		Headers: []string{"Hashmode", "Hash", "Cracking price"},
	}

	for _, mode := range statsModes {
		q := policy.Query{Policy: policy.Policy{CharsetSize: ascii, PasswordLength: statsBaseLength}, HashMode: mode}
		byMode.Rows = append(byMode.Rows, []string{mode, modes.Name(mode), cheapestCost(rows, q)})
	}

	sections := []statsSection{byMode}

	for _, cs := range []struct {
		label string
		size  int
	}{
		{label: "lower", size: lower},
		{label: "lower, upper, nums, symbols", size: ascii},
	} {
		byLength := statsSection{
			Title:   fmt.Sprintf("MD5 on password lengths (%s) from %d", cs.label, statsLengths[0]),
			Headers: []string{"Password length", "Cracking price"},
		}

		for _, length := range statsLengths {
			q := policy.Query{Policy: policy.Policy{CharsetSize: cs.size, PasswordLength: length}, HashMode: modeMD5}
			byLength.Rows = append(byLength.Rows, []string{strconv.Itoa(length), cheapestCost(rows, q)})
		}

		sections = append(sections, byLength)
	}

	byCharset := statsSection{
		Title:   fmt.Sprintf("Different charsets on MD5, password length %d", statsLongLength),
		Headers: []string{"Charset", "Charset length", "Cracking price"},
	}

	for _, cs := range policy.Charsets {
		q := policy.Query{Policy: policy.Policy{CharsetSize: cs.Size, PasswordLength: statsLongLength}, HashMode: modeMD5}
		byCharset.Rows = append(byCharset.Rows, []string{cs.Name, strconv.Itoa(cs.Size), cheapestCost(rows, q)})
	}

	sections = append(sections, byCharset)

	experiments := statsSection{
		Title:   "Experiment estimates on " + experimentSKU,
		Headers: []string{"Hashmode", "Hash", "Length", "Charset", "GPU", "Speed", "Time", "Cracking price"},
	}

	for _, exp := range statsExperiments {
		q := policy.Query{
			Policy:   policy.Policy{CharsetSize: mustCharset(exp.Charset), PasswordLength: exp.Length},
			HashMode: exp.Mode,
			SKU:      experimentSKU,
		}
		row := []string{exp.Mode, modes.Name(exp.Mode), strconv.Itoa(exp.Length), exp.Charset}

		e, err := policy.Cheapest(rows, q)
		if err != nil {
			row = append(row, notAvailable, notAvailable, notAvailable, notAvailable)
		} else {
			row = append(row, e.Row.Device, display.Speed(e.Row.Speed), display.Duration(e.Seconds), display.Dollars(e.Dollars))
		}

		experiments.Rows = append(experiments.Rows, row)
	}

	return append(sections, experiments)
}

// cheapestCost formats the lowest cost for q, or n/a when nothing is priced.
func cheapestCost(rows []pricing.UnifiedRow, q policy.Query) string {
	e, err := policy.Cheapest(rows, q)
	if err != nil {
		return notAvailable
	}

	return display.Dollars(e.Dollars)
}

func mustCharset(name string) int {
	size, err := policy.CharsetSize(name)
	if err != nil {
		panic(err)
	}

	return size
}
