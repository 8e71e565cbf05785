package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/internal/config"
	"github.com/all-dot-files/wifiprov/pkg/logger"
)

var (
	settingsFile  string
	configManager *config.Manager
	debugMode     bool
	verboseMode   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wifiprov",
	Short: "Provision WiFi credentials into a running wpa_supplicant",
	Long: `wifiprov reads a small key=value credential file (by default /boot/wifi.conf)
and reconciles it against the live configuration of wpa_supplicant through wpa_cli.

Features:
  - Add a new network, or update or replace an existing one
  - Roll back a partially configured network on failure
  - Dry-run mode that prints the commands without changing anything
  - Run history in YAML or SQLite
  - WPA passphrase to PSK derivation`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, os.Args[1:], err)
		os.Exit(1)
	}
}

// reportError prints err, preceded by command suggestions when args did
// not name a known subcommand.
func reportError(w io.Writer, args []string, err error) {
	if suggestions := suggestionsFor(rootCmd, args); len(suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean:\n")
		for _, s := range suggestions {
			fmt.Fprintf(w, "  • %s (try: wifiprov help %s)\n", s, s)
		}
		fmt.Fprintln(w)
	}
	fprintError(w, err)
}

func suggestionsFor(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return nil
	}
	found, rest, err := root.Find(args)
	if err == nil && found != root {
		return nil
	}
	name := args[0]
	if len(rest) > 0 {
		name = rest[0]
	}
	return root.SuggestionsFor(name)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.TraverseChildren = true
	rootCmd.SuggestionsMinimumDistance = 2

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.config/wifiprov/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode with detailed error messages")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "enable verbose output")
}

// initConfig reads in the settings file and sets up logging
func initConfig() {
	var err error
	configManager, err = config.NewManager(settingsFile)
	if err != nil {
		PrintError(fmt.Errorf("error initializing config: %w", err))
		os.Exit(1)
	}

	if err := configManager.Load(); err != nil {
		// Fall back to defaults; the file can be fixed with "config init --force"
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	cfg := configManager.Get()
	if debugMode {
		cfg.Debug = true
	}

	level := cfg.LogLevel
	if IsVerbose() {
		level = "debug"
	}
	logger.Setup(cfg.LogFormat, level)
}

// IsDebug returns true if debug mode is enabled
func IsDebug() bool {
	if debugMode {
		return true
	}
	if configManager != nil {
		return configManager.Get().Debug
	}
	return false
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verboseMode || debugMode
}
