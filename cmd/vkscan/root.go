package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"vkscan/pkg/config"
	"vkscan/pkg/logger"
	"vkscan/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	dbDriver    string
	dbDSN       string
	accessToken string
	accountName string
	noColor     bool
	quiet       bool
	showLogo    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vkscan",
	Short: "Catalogue the videos of VK users into a SQL database",
	Long: `vkscan builds a catalogue of the videos published by a list of VK users.

Workflow:
  1. vkscan migrate             create the users, videos and uservideo tables
  2. vkscan add-users users.txt resolve handles to ids and store them
  3. vkscan scan                list every stored user's videos and store them

Videos come from the video.get API method. When it returns nothing the public
video page is scraped instead.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetOutput(cmd.OutOrStdout())
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.SetColors(false)
		}
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
		if showLogo {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./vkscan.yaml or ~/.config/vkscan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "database driver (sqlite or pgx)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db-dsn", "", "database data source name")
	rootCmd.PersistentFlags().StringVar(&accessToken, "access-token", "", "VK API access token")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&showLogo, "logo", false, "print the logo before running")

	rootCmd.SetVersionTemplate(`vkscan {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads configuration with the global flags applied and sets up
// the global logger
func loadConfig() (*config.Config, error) {
	flags := map[string]interface{}{
		"access-token": accessToken,
		"db-driver":    dbDriver,
		"db-dsn":       dbDSN,
		"log-level":    logLevel,
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// silenceLogs drops console logging while the dashboard owns the screen.
// A configured log file still receives every entry.
func silenceLogs(cfg *config.Config) error {
	l, err := logger.NewWithWriter(&cfg.Logging, io.Discard)
	if err != nil {
		return err
	}
	logger.SetLogger(l)
	return nil
}
