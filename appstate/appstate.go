// Package appstate provides the shared state and loggers used across the password policy cost tool.
package appstate

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// State represents the resolved configuration of the current invocation.
var State = appState{} //nolint:gochecknoglobals // Global tool state

// appState holds the paths and switches resolved from configuration before any command runs.
type appState struct {
	DataPath              string        // DataPath is the directory holding the CSV data files.
	BenchmarkFile         string        // BenchmarkFile is the CSV file holding parsed benchmark records.
	PricingFile           string        // PricingFile is the CSV file holding cloud pricing entries.
	HashmodeSource        string        // HashmodeSource is a local path or URL of the hash mode name map (empty for the embedded map).
	HashmodeChecksum      string        // HashmodeChecksum is an optional MD5 checksum of a downloaded hash mode map.
	HashmodeFile          string        // HashmodeFile is where a downloaded hash mode map is stored.
	DeviceAliasesFile     string        // DeviceAliasesFile is an optional YAML file extending the device alias table.
	CachePath             string        // CachePath is the directory of the HTTP response cache.
	CacheBackend          string        // CacheBackend selects the HTTP cache store: "file", "sqlite" or "none".
	CacheTTL              time.Duration // CacheTTL is how long a cached HTTP response stays fresh.
	Proxy                 bool          // Proxy specifies whether HTTP requests go through ProxyAddress.
	ProxyAddress          string        // ProxyAddress is the proxy URL used when Proxy is set.
	GistUser              string        // GistUser is the GitHub user whose benchmark gists are crawled.
	GistAPIURL            string        // GistAPIURL is the base URL of the GitHub API.
	OHCURL                string        // OHCURL is the base URL of onlinehashcrack.
	AzureDocsURL          string        // AzureDocsURL is the base URL of the Azure documentation site.
	AzureAPIURL           string        // AzureAPIURL is the base URL of the Azure retail prices API.
	ConsolidationStrategy string        // ConsolidationStrategy selects how duplicate benchmark observations are merged.
	LogLevel              string        // LogLevel is the logging level used when Debug is off.
	Debug                 bool          // Debug specifies whether the tool is running in debug mode.
}

// Logger is a shared logging instance configured to output logs at InfoLevel with timestamps to os.Stderr.
var Logger = log.NewWithOptions(os.Stderr, log.Options{ //nolint:gochecknoglobals // Global logger instance
	Level:           log.InfoLevel,
	ReportTimestamp: true,
})

// ErrorLogger is a logger instance for logging critical errors with detailed error information.
var ErrorLogger = Logger.With() //nolint:gochecknoglobals // Global error logger instance
