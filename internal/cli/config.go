package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/internal/config"
	"github.com/all-dot-files/wifiprov/internal/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wifiprov settings",
	Long:  `View and modify wifiprov settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configManager.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "⚙️  wifiprov Settings")
		fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Fprintf(out, "Settings File:    %s\n", configManager.GetConfigPath())
		fmt.Fprintf(out, "wpa_cli:          %s\n", cfg.WpaCli)
		if cfg.CtrlDir != "" {
			fmt.Fprintf(out, "Control Dir:      %s\n", cfg.CtrlDir)
		}
		fmt.Fprintf(out, "Debug Mode:       %v\n", cfg.Debug)

		fmt.Fprintf(out, "\nCredential File:\n")
		fmt.Fprintf(out, "  Default Path:     %s\n", cfg.DefaultConfig)
		fmt.Fprintf(out, "  Processed Suffix: %s\n", cfg.ProcessedSuffix)
		fmt.Fprintf(out, "  Note Prefix:      %s\n", cfg.NotePrefix)

		fmt.Fprintf(out, "\nHistory:\n")
		fmt.Fprintf(out, "  Storage Driver:   %s\n", cfg.StorageDriver)
		fmt.Fprintf(out, "  History Limit:    %d\n", cfg.HistoryLimit)

		fmt.Fprintf(out, "\nLogging:\n")
		fmt.Fprintf(out, "  Format:           %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "  Level:            %s\n", cfg.LogLevel)

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the settings file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if err := configManager.Initialize(force); err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		Success("Settings written to %s", configManager.GetConfigPath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a settings value",
	Long: `Set a settings value.

Examples:
  wifiprov config set wpa_cli /sbin/wpa_cli
  wifiprov config set ctrl_dir /run/wpa_supplicant
  wifiprov config set storage_driver sqlite
  wifiprov config set history_limit 50`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setValue(configManager.Get(), args[0], args[1]); err != nil {
			return err
		}
		if err := config.Validate(configManager.Get()); err != nil {
			return err
		}
		if err := configManager.Save(); err != nil {
			return err
		}
		Success("Set %s = %s", args[0], args[1])
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a settings value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := getValue(configManager.Get(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func setValue(cfg *models.Config, key, value string) error {
	switch key {
	case "wpa_cli":
		cfg.WpaCli = value
	case "ctrl_dir":
		cfg.CtrlDir = value
	case "storage_driver":
		cfg.StorageDriver = value
	case "history_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid history limit: %s", value)
		}
		cfg.HistoryLimit = n
	case "log_format":
		cfg.LogFormat = value
	case "log_level":
		cfg.LogLevel = value
	case "default_config":
		cfg.DefaultConfig = value
	case "processed_suffix":
		if value == "" {
			return fmt.Errorf("processed suffix must not be empty")
		}
		cfg.ProcessedSuffix = value
	case "note_prefix":
		cfg.NotePrefix = value
	case "debug":
		val, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		cfg.Debug = val
	default:
		return fmt.Errorf("unknown settings key: %s", key)
	}
	return nil
}

func getValue(cfg *models.Config, key string) (string, error) {
	switch key {
	case "wpa_cli":
		return cfg.WpaCli, nil
	case "ctrl_dir":
		return cfg.CtrlDir, nil
	case "storage_driver":
		return cfg.StorageDriver, nil
	case "history_limit":
		return strconv.Itoa(cfg.HistoryLimit), nil
	case "log_format":
		return cfg.LogFormat, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "default_config":
		return cfg.DefaultConfig, nil
	case "processed_suffix":
		return cfg.ProcessedSuffix, nil
	case "note_prefix":
		return cfg.NotePrefix, nil
	case "debug":
		return strconv.FormatBool(cfg.Debug), nil
	}
	return "", fmt.Errorf("unknown settings key: %s", key)
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing settings file")
}
