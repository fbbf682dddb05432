package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moorbuild/internal/config"
	"moorbuild/internal/creds"
	"moorbuild/internal/logging"
	"moorbuild/internal/rdb"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configFile string
	host       string
	netrc      string
	token      string
	logLevel   string
	logFormat  string
	parallel   int
}

var rootCmd = &cobra.Command{
	Use:   "moorbuild",
	Short: "Reconstruct mooring deployment builds from the OOI RDB",
	Long: "Moorbuild pulls deployment build records from the OOI RDB asset-tracking\n" +
		"service, resolves the structural part hierarchy for every installed\n" +
		"instrument, and generates deployment configuration documents.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configFile, "config", "", "Path to a moorbuild.yaml config file")
	pf.StringVar(&rootFlags.host, "host", "", "RDB host (default: "+config.DefaultHost+", or $MOORBUILD_HOST)")
	pf.StringVar(&rootFlags.netrc, "netrc", "", "Path to the netrc file with the RDB token (default: ~/.netrc)")
	pf.StringVar(&rootFlags.token, "token", "", "RDB API token (overrides the netrc lookup)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text, json")
	pf.IntVar(&rootFlags.parallel, "parallel", 0, "Concurrent ancestry resolutions per build")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.Version = version
}

// setup loads configuration, applies flag overrides and initializes logging.
func setup() (*config.Config, error) {
	cfg, err := config.Load(rootFlags.configFile)
	if err != nil {
		return nil, err
	}
	if rootFlags.host != "" {
		cfg.Host = rootFlags.host
	}
	if rootFlags.netrc != "" {
		cfg.Netrc = rootFlags.netrc
	}
	if rootFlags.logLevel != "" {
		cfg.Log.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		cfg.Log.Format = rootFlags.logFormat
	}
	if rootFlags.parallel > 0 {
		cfg.Parallel = rootFlags.parallel
	}

	if err := logging.Init(cfg.Log.Level, cfg.Log.Format, nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient resolves credentials for the configured host and constructs the
// RDB client.
func newClient(cfg *config.Config) (*rdb.Client, error) {
	token := rootFlags.token
	if token == "" {
		path := cfg.Netrc
		if path == "" {
			var err error
			path, err = creds.DefaultPath()
			if err != nil {
				return nil, err
			}
		}
		var err error
		token, err = creds.Token(path, cfg.Host)
		if err != nil {
			return nil, err
		}
	}

	return rdb.New(cfg.BaseURL(), token,
		rdb.WithTimeout(cfg.Timeout),
		rdb.WithLogger(logging.New("rdb")),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
