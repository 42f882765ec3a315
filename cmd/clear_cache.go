package cmd

import (
	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/config"
	"github.com/unclesp1d3r/pwpolicycost/lib/cserrors"
	"github.com/unclesp1d3r/pwpolicycost/lib/httpcache"
)

var clearCacheCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:   "clear-cache",
	Short: "Remove every cached HTTP response",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := httpcache.Open(appstate.State.CacheBackend, appstate.State.CachePath, config.CacheTTL())
		if err != nil {
			return cserrors.LogAndReturn("Failed to open HTTP cache", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			return cserrors.LogAndReturn("Failed to clear HTTP cache", err)
		}

		appstate.Logger.Info("HTTP cache cleared", "backend", appstate.State.CacheBackend, "path", appstate.State.CachePath)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(clearCacheCmd)
}
