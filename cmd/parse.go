package cmd

import (
	"context"
	"fmt"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/cserrors"
	"github.com/unclesp1d3r/pwpolicycost/lib/display"
)

var parseCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:   "parse <file>",
	Short: "Parse a local hashcat benchmark output file",
	Long: "Parse a hashcat benchmark output file and print the speeds found per device and hash mode. " +
		"With --follow the file is read as it grows until interrupted.",
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolP("follow", "f", false, "Keep reading the file as it is written")
	RootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")

	modes, err := loadHashModes(cmd.Context())
	if err != nil {
		return cserrors.LogAndReturn("Cannot load hash mode names", err)
	}

	report, err := parseFile(cmd.Context(), args[0], follow)
	if err != nil {
		return err
	}

	if report.Empty() {
		return fmt.Errorf("%s: %w", args[0], benchmark.ErrMalformedReport)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), display.ReportTable(report, modes))

	return nil
}

// parseFile feeds the lines of path into a benchmark parser. Without follow
// it stops at the end of the file, otherwise when ctx is done.
func parseFile(ctx context.Context, path string, follow bool) (benchmark.Report, error) {
	tailer, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Logger:    appstate.Logger.StandardLog(),
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't tail %q: %w", path, err)
	}

	defer tailer.Cleanup()

	parser := benchmark.NewParser()

	for done := false; !done; {
		select {
		case <-ctx.Done():
			done = true
		case line, ok := <-tailer.Lines:
			if !ok {
				done = true

				break
			}

			if line.Err != nil {
				appstate.Logger.Warn("Skipping unreadable line", "file", path, "error", line.Err)

				continue
			}

			parser.Feed(line.Text)
			appstate.Logger.Debug("Parsed line", "state", parser.State())
		}
	}

	if err := tailer.Stop(); err != nil {
		appstate.Logger.Debug("Tailer stopped", "error", err)
	}

	return parser.Result(), nil
}
