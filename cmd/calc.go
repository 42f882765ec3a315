package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/pwpolicycost/lib/cserrors"
	"github.com/unclesp1d3r/pwpolicycost/lib/display"
	"github.com/unclesp1d3r/pwpolicycost/lib/policy"
)

// skuCheapest selects the cheapest SKU instead of a pinned one.
const skuCheapest = "cheapest"

var calcCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:   "calc",
	Short: "Estimate the cost of exhausting a password policy",
	Long: "Estimate the time and money needed to try every password of a policy " +
		"on the cheapest priced GPU benchmarked for the hash mode, or on a given SKU.",
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	flags := calcCmd.Flags()
	flags.Int("pw-len", 8, "Length of the password") //nolint:mnd // Default policy
	flags.String("mode", "0", "Hashcat hash mode")
	flags.String("sku", skuCheapest, "SKU to estimate on, or cheapest")
	flags.String("charset", "", "Named charset: numbers, lowercase, lowercase+uppercase, "+
		"lowercase+uppercase+number, ascii_printable (overrides --charset-length)")
	flags.Int("charset-length", 95, "Length of the character set") //nolint:mnd // ASCII printable
	flags.Int("top", 1, "Number of ranked options to list")
	RootCmd.AddCommand(calcCmd)
}

// queryFromFlags builds the estimate query of the calc flags.
func queryFromFlags(cmd *cobra.Command) (policy.Query, error) {
	flags := cmd.Flags()
	pwLen, _ := flags.GetInt("pw-len")
	mode, _ := flags.GetString("mode")
	sku, _ := flags.GetString("sku")
	charset, _ := flags.GetString("charset")
	charsetLength, _ := flags.GetInt("charset-length")

	if charset != "" {
		size, err := policy.CharsetSize(charset)
		if err != nil {
			return policy.Query{}, err
		}

		charsetLength = size
	}

	if sku == skuCheapest {
		sku = ""
	}

	q := policy.Query{
		Policy:   policy.Policy{CharsetSize: charsetLength, PasswordLength: pwLen},
		HashMode: mode,
		SKU:      sku,
	}

	return q, q.Policy.Validate()
}

func runCalc(cmd *cobra.Command, _ []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")

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

	estimates, err := policy.Estimate(rows, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, display.Policy(q, modes))
	_, _ = fmt.Fprintln(out, display.Summary(q, estimates[0]))

	if top > 1 {
		_, _ = fmt.Fprintln(out, display.EstimatesTable(estimates[:min(top, len(estimates))], modes))
	}

	return nil
}
