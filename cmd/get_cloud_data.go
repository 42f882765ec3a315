package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/cserrors"
	"github.com/unclesp1d3r/pwpolicycost/lib/datafile"
	"github.com/unclesp1d3r/pwpolicycost/lib/display"
	"github.com/unclesp1d3r/pwpolicycost/lib/sources"
)

var getCloudDataCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command tree
	Use:   "get-cloud-data",
	Short: "Collect Azure GPU virtual machine prices",
	Args:  cobra.NoArgs,
	RunE:  runGetCloudData,
}

func init() {
	getCloudDataCmd.Flags().StringP("output", "o", "", "Pricing output file (default from pricing_file)")
	RootCmd.AddCommand(getCloudDataCmd)
}

func runGetCloudData(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = appstate.State.PricingFile
	}

	normalizer, err := loadNormalizer()
	if err != nil {
		return cserrors.LogAndReturn("Cannot load device aliases", err)
	}

	client, release, err := newHTTPClient()
	if err != nil {
		return cserrors.LogAndReturn("Cannot set up HTTP client", err)
	}
	defer release()

	start := time.Now()
	azure := sources.NewAzureCrawler(client, appstate.State.AzureDocsURL, appstate.State.AzureAPIURL, normalizer)

	entries, err := azure.Crawl(cmd.Context())
	if err != nil {
		return cserrors.LogAndReturn("Failed to crawl azure", err)
	}

	display.Crawled("azure", len(entries), time.Since(start))

	if err := datafile.WritePricing(output, entries); err != nil {
		return cserrors.LogAndReturn("Failed to save pricing", err)
	}

	display.Saved(output, len(entries))

	return nil
}
