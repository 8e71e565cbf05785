package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/internal/config"
	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/profile"
	"github.com/all-dot-files/wifiprov/internal/reconcile"
	"github.com/all-dot-files/wifiprov/internal/wpacli"
	"github.com/all-dot-files/wifiprov/pkg/errors"
	"github.com/all-dot-files/wifiprov/pkg/logger"
)

// runner starts wpa_cli; replaced in tests
var runner wpacli.Runner = wpacli.ExecRunner{}

// ApplyOptions holds the apply command flags once resolved
type ApplyOptions struct {
	Path   string
	DryRun bool
	Quiet  bool
	Rename bool
	Suffix string
}

// ApplyResult is what one apply run did
type ApplyResult struct {
	Desired *models.DesiredProfile
	Report  *reconcile.Report
	Run     models.Run
	// Retired is the new name of the credential file, if it was renamed
	Retired string
	// Skipped is set when the file was missing and Quiet was requested
	Skipped bool
}

// Applier runs the load, list, reconcile and record sequence
type Applier struct {
	manager *config.Manager
	runner  wpacli.Runner
	log     *slog.Logger
}

// NewApplier creates an applier using the given settings and wpa_cli runner
func NewApplier(manager *config.Manager, r wpacli.Runner) *Applier {
	return &Applier{
		manager: manager,
		runner:  r,
		log:     logger.With("component", "apply"),
	}
}

// Apply reconciles the credential file at opts.Path against the daemon.
func (a *Applier) Apply(ctx context.Context, opts ApplyOptions) (*ApplyResult, error) {
	cfg := a.manager.Get()
	result := &ApplyResult{}

	desired, err := profile.Load(opts.Path)
	if err != nil {
		if opts.Quiet && errors.IsCode(err, errors.ErrNotFound) {
			a.log.Debug("credential file missing, nothing to do", "path", opts.Path)
			result.Skipped = true
			return result, nil
		}
		return nil, err
	}
	result.Desired = desired

	run := models.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Source:    desired.Source,
		Iface:     desired.Iface,
		SSID:      desired.SSID,
		IDStr:     desired.IDStr,
		Method:    desired.Method,
		NetworkID: -1,
		DryRun:    opts.DryRun,
	}

	report, err := a.reconcile(cfg, desired, opts, &run)
	result.Report = report
	if report != nil {
		run.Action = report.Action
		run.NetworkID = report.NetworkID
	}
	if err != nil {
		run.Result = models.ResultFailure
		run.Error = err.Error()
	} else {
		run.Result = models.ResultSuccess
	}
	result.Run = run
	a.record(ctx, cfg, run)

	if err != nil {
		return result, err
	}

	if opts.Rename && !opts.DryRun {
		suffix := opts.Suffix
		if suffix == "" {
			suffix = cfg.ProcessedSuffix
		}
		retired, err := profile.Retire(opts.Path, suffix)
		if err != nil {
			return result, err
		}
		result.Retired = retired
	}

	return result, nil
}

func (a *Applier) reconcile(cfg *models.Config, desired *models.DesiredProfile, opts ApplyOptions, run *models.Run) (*reconcile.Report, error) {
	client := wpacli.NewClient(a.runner, wpacli.Options{
		Path:    cfg.WpaCli,
		Iface:   desired.Iface,
		CtrlDir: cfg.CtrlDir,
	})

	status, err := client.Status()
	if err != nil {
		if errors.IsCode(err, errors.ErrSpawn) {
			return nil, err
		}
		a.log.Warn("status snapshot unavailable", "iface", desired.Iface, "err", err)
	}
	run.Status = status

	networks, err := client.ListNetworks()
	if err != nil {
		return nil, err
	}
	a.log.Debug("listed networks", "iface", desired.Iface, "count", len(networks))

	return reconcile.New(client, reconcile.Options{
		DryRun:     opts.DryRun,
		NotePrefix: cfg.NotePrefix,
	}).Reconcile(networks, desired)
}

// record stores the run; failures only warn.
func (a *Applier) record(ctx context.Context, cfg *models.Config, run models.Run) {
	store, err := a.manager.OpenStore()
	if err != nil {
		a.log.Warn("history unavailable", "err", err)
		return
	}
	defer store.Close()

	if err := store.Runs().Add(ctx, run); err != nil {
		a.log.Warn("failed to record run", "run", run.ID, "err", err)
		return
	}
	if err := store.Runs().Prune(ctx, cfg.HistoryLimit); err != nil {
		a.log.Warn("failed to prune history", "err", err)
	}
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the credential file to wpa_supplicant",
	Long: `Read the credential file and bring wpa_supplicant in line with it.

The file holds key=value lines:

  IFACE=wlan0
  METHOD=integrate        # or replace
  ssid=MyNetwork
  psk=secret-passphrase
  id_str=home             # optional, matched instead of ssid when given
  priority=5              # optional
  key_mgmt=WPA-PSK        # optional

Examples:
  wifiprov apply
  wifiprov apply --config /boot/wifi.conf --rename
  wifiprov apply --dir /media/usb --file wifi.conf --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		dir, _ := cmd.Flags().GetString("dir")
		file, _ := cmd.Flags().GetString("file")
		quiet, _ := cmd.Flags().GetBool("quiet")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		rename, _ := cmd.Flags().GetBool("rename")
		suffix, _ := cmd.Flags().GetString("suffix")

		resolved, err := profile.Resolve(path, dir, file, configManager.Get().DefaultConfig)
		if err != nil {
			return err
		}
		LogVerbose("Using credential file %s", resolved)

		result, err := NewApplier(configManager, runner).Apply(cmd.Context(), ApplyOptions{
			Path:   resolved,
			DryRun: dryRun,
			Quiet:  quiet,
			Rename: rename,
			Suffix: suffix,
		})
		if err != nil {
			return err
		}
		if result.Skipped {
			return nil
		}

		printApplyResult(cmd, result)
		return nil
	},
}

func printApplyResult(cmd *cobra.Command, result *ApplyResult) {
	out := cmd.OutOrStdout()
	report := result.Report

	for _, w := range report.Warnings {
		Warning("%s", w)
	}

	if report.DryRun {
		fmt.Fprintf(out, "Dry run: would %s network %q on %s\n", report.Action, result.Desired.SSID, result.Desired.Iface)
		for _, c := range report.Commands {
			fmt.Fprintf(out, "  %s\n", c)
		}
		return
	}

	switch report.Action {
	case models.ActionAdd:
		Success("Added network %q as id %d on %s", result.Desired.SSID, report.NetworkID, result.Desired.Iface)
	case models.ActionModify:
		Success("Updated network %q (id %d) on %s", result.Desired.SSID, report.NetworkID, result.Desired.Iface)
	case models.ActionReplace:
		Success("Replaced network %q (removed %v) as id %d on %s", result.Desired.SSID, report.Removed, report.NetworkID, result.Desired.Iface)
	}
	if result.Retired != "" {
		Info("Renamed credential file to %s", result.Retired)
	}
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringP("config", "c", "", "credential file (default /boot/wifi.conf)")
	applyCmd.Flags().String("dir", "", "directory holding the credential file (use with --file)")
	applyCmd.Flags().String("file", "", "credential file name inside --dir")
	applyCmd.Flags().BoolP("quiet", "q", false, "exit silently when the credential file does not exist")
	applyCmd.Flags().BoolP("dry-run", "n", false, "print the wpa_cli commands without running them")
	applyCmd.Flags().Bool("rename", false, "rename the credential file after a successful run")
	applyCmd.Flags().String("suffix", "", "suffix for --rename (default .applied)")
}
