// Package cmd implements the pwpolicycost command line.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unclesp1d3r/pwpolicycost/lib/config"
)

// Version is the tool version, set at build time.
var Version = "dev" //nolint:gochecknoglobals // Set via -ldflags

var cfgFile string //nolint:gochecknoglobals // Bound to the --config flag

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:     "pwpolicycost",
	Version: Version,
	Short:   "Estimate what it costs to brute force a password policy in the cloud",
	Long: "pwpolicycost collects public hashcat benchmarks and cloud GPU prices, " +
		"then estimates the time and money needed to exhaust the keyspace of a password policy.",
	SilenceUsage: true,
}

// init registers the persistent flags, binds them to viper and sets the
// configuration defaults.
func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is pwpolicycost.yaml in the working or user config directory)")
	flags.Bool("debug", false, "Enable debug mode")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error or fatal")
	flags.Bool("proxy", false, "Send HTTP requests through the proxy")
	flags.String("proxy-address", "", "Proxy address")
	flags.String("data-path", "", "Directory holding the data files")
	flags.String("cache-backend", "", "HTTP cache store: file, sqlite, memory or none")

	bindings := map[string]string{
		"debug":         "debug",
		"log_level":     "log-level",
		"proxy":         "proxy",
		"proxy_address": "proxy-address",
		"data_path":     "data-path",
		"cache_backend": "cache-backend",
	}

	for key, flag := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}

	config.SetDefaultConfigValues()
}

// initConfig reads the configuration and resolves it into the shared state.
func initConfig() {
	config.InitConfig(cfgFile)
	config.SetupSharedState()
	config.InitLogger()
}
