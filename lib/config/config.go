// Package config provides configuration management for the password policy cost tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unclesp1d3r/pwpolicycost/appstate"
	"github.com/unclesp1d3r/pwpolicycost/lib/benchmark"
	"github.com/unclesp1d3r/pwpolicycost/lib/httpcache"
	"github.com/unclesp1d3r/pwpolicycost/lib/sources"
)

const (
	// Default configuration values.
	configName            = "pwpolicycost"
	defaultProxyAddress   = "http://localhost:8080"
	defaultLogLevel       = "info"
	defaultBenchmarkFile  = "benchmark_data.csv"
	defaultPricingFile    = "pricing_data.csv"
	defaultHashmodeFile   = "modes.csv"
	defaultCacheDirectory = "http_cache"
	configFileName        = configName + ".yaml"
)

var (
	scope = gap.NewScope(gap.User, configName) //nolint:gochecknoglobals // Configuration scope
)

// InitConfig initializes the configuration from various sources. Variables
// from a .env file in the working directory are loaded into the environment
// first, so they take part in environment overrides.
func InitConfig(cfgFile string) {
	appstate.ErrorLogger.SetReportCaller(true)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		appstate.Logger.Warn("Ignoring unreadable .env file", "error", err)
	}

	home, err := os.UserConfigDir()
	cobra.CheckErr(err)

	cwd, err := os.Getwd()
	cobra.CheckErr(err)
	viper.AddConfigPath(cwd)

	configDirs, err := scope.ConfigDirs()
	cobra.CheckErr(err)

	for _, dir := range configDirs {
		viper.AddConfigPath(dir)
	}

	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName(configName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		appstate.Logger.Debug("Using config file", "config_file", viper.ConfigFileUsed())
	} else {
		appstate.Logger.Debug("No config file found, using defaults", "error", err)
	}
}

// SetupSharedState configures the shared state from configuration values.
func SetupSharedState() {
	dataRoot := viper.GetString("data_path")
	appstate.State.DataPath = dataRoot
	appstate.State.BenchmarkFile = pathUnder(dataRoot, viper.GetString("benchmark_file"))
	appstate.State.PricingFile = pathUnder(dataRoot, viper.GetString("pricing_file"))
	appstate.State.HashmodeSource = viper.GetString("hashmode_source")
	appstate.State.HashmodeChecksum = viper.GetString("hashmode_checksum")
	appstate.State.HashmodeFile = pathUnder(dataRoot, viper.GetString("hashmode_file"))
	appstate.State.DeviceAliasesFile = viper.GetString("device_aliases_file")
	appstate.State.CachePath = viper.GetString("cache_path")
	appstate.State.CacheBackend = viper.GetString("cache_backend")
	appstate.State.CacheTTL = viper.GetDuration("cache_ttl")
	appstate.State.Proxy = viper.GetBool("proxy")
	appstate.State.ProxyAddress = viper.GetString("proxy_address")
	appstate.State.GistUser = viper.GetString("gist_user")
	appstate.State.GistAPIURL = viper.GetString("gist_api_url")
	appstate.State.OHCURL = viper.GetString("ohc_url")
	appstate.State.AzureDocsURL = viper.GetString("azure_docs_url")
	appstate.State.AzureAPIURL = viper.GetString("azure_api_url")
	appstate.State.ConsolidationStrategy = viper.GetString("consolidation_strategy")
	appstate.State.LogLevel = viper.GetString("log_level")
	appstate.State.Debug = viper.GetBool("debug")
}

// pathUnder resolves a relative file name against the data directory.
func pathUnder(dataRoot, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(dataRoot, name)
}

// SetDefaultConfigValues sets default configuration values.
func SetDefaultConfigValues() {
	cwd, err := os.Getwd()
	cobra.CheckErr(err)

	dataPath := filepath.Join(cwd, "data")

	viper.SetDefault("data_path", dataPath)
	viper.SetDefault("benchmark_file", defaultBenchmarkFile)
	viper.SetDefault("pricing_file", defaultPricingFile)
	viper.SetDefault("hashmode_source", "")
	viper.SetDefault("hashmode_checksum", "")
	viper.SetDefault("hashmode_file", defaultHashmodeFile)
	viper.SetDefault("device_aliases_file", "")
	viper.SetDefault("cache_path", defaultCachePath(dataPath))
	viper.SetDefault("cache_backend", httpcache.BackendFile)
	viper.SetDefault("cache_ttl", httpcache.DefaultTTL)
	viper.SetDefault("proxy", false)
	viper.SetDefault("proxy_address", defaultProxyAddress)
	viper.SetDefault("gist_user", sources.DefaultGistUser)
	viper.SetDefault("gist_api_url", sources.DefaultGitHubAPI)
	viper.SetDefault("ohc_url", sources.DefaultOHCURL)
	viper.SetDefault("azure_docs_url", sources.DefaultAzureDocsURL)
	viper.SetDefault("azure_api_url", sources.DefaultAzureAPIURL)
	viper.SetDefault("consolidation_strategy", string(benchmark.StrategyFirst))
	viper.SetDefault("log_level", defaultLogLevel)
	viper.SetDefault("debug", false)
}

// defaultCachePath is the user cache directory of the tool, or a directory
// under the data path when the platform has none.
func defaultCachePath(dataPath string) string {
	dir, err := scope.CacheDir()
	if err != nil || dir == "" {
		return filepath.Join(dataPath, defaultCacheDirectory)
	}

	return filepath.Join(dir, defaultCacheDirectory)
}

// InitLogger sets the log level from the shared state. Debug mode also
// reports callers. An unknown level falls back to info with a warning.
func InitLogger() {
	if appstate.State.Debug {
		appstate.Logger.SetLevel(log.DebugLevel)
		appstate.Logger.SetReportCaller(true)

		return
	}

	appstate.Logger.SetReportCaller(false)

	level, err := log.ParseLevel(strings.ToLower(appstate.State.LogLevel))
	if err != nil {
		appstate.Logger.SetLevel(log.InfoLevel)
		appstate.Logger.Warn("Unknown log level, using info", "log_level", appstate.State.LogLevel)

		return
	}

	appstate.Logger.SetLevel(level)
}

// CacheTTL returns the configured cache time to live, never negative.
func CacheTTL() time.Duration {
	return max(appstate.State.CacheTTL, 0)
}

// WriteConfigFile saves the current configuration to path, or to the user
// config directory when path is empty, and returns the file written. An
// existing file is only replaced when force is set.
func WriteConfigFile(path string, force bool) (string, error) {
	if path == "" {
		var err error

		path, err = scope.ConfigPath(configFileName)
		if err != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", err)
		}
	}

	if dir := filepath.Dir(path); !fileutil.IsExist(dir) {
		if err := fileutil.CreateDir(dir); err != nil {
			return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}

	write := viper.SafeWriteConfigAs
	if force {
		write = viper.WriteConfigAs
	}

	if err := write(path); err != nil {
		return "", fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return path, nil
}
