package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/pwpolicycost/lib/config"
	"github.com/unclesp1d3r/pwpolicycost/lib/cserrors"
)

var initCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:   "init",
	Short: "Write a configuration file with the current settings",
	Long: "Write the effective configuration, defaults included, to a YAML file so it can be edited.\n" +
		"The file goes to the user config directory unless --path is given.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")

		written, err := config.WriteConfigFile(path, force)
		if err != nil {
			return cserrors.LogAndReturn("Cannot write configuration", err)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration written to", written)

		return nil
	},
}

func init() {
	initCmd.Flags().String("path", "", "Config file to write (default pwpolicycost.yaml in the user config directory)")
	initCmd.Flags().Bool("force", false, "Replace an existing config file")
	RootCmd.AddCommand(initCmd)
}
