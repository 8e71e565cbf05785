package cli

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/internal/shell"
	"github.com/all-dot-files/wifiprov/pkg/fileio"
	"github.com/all-dot-files/wifiprov/pkg/logger"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(wifiprov completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wifiprov completion bash > /etc/bash_completion.d/wifiprov
  # macOS:
  $ wifiprov completion bash > $(brew --prefix)/etc/bash_completion.d/wifiprov

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wifiprov completion zsh > "${fpath[1]}/_wifiprov"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ wifiprov completion fish | source

  # To load completions for each session, execute once:
  $ wifiprov completion fish > ~/.config/fish/completions/wifiprov.fish

PowerShell:
  PS> wifiprov completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> wifiprov completion powershell > wifiprov.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		if install, _ := cmd.Flags().GetBool("install"); install && outPath == "" {
			outPath = shell.DefaultInstallPath(shell.ShellType(args[0]))
			if outPath == "" {
				return fmt.Errorf("no default install path for %s", args[0])
			}
		}
		clock := shell.NewStopwatch()

		var buf bytes.Buffer
		out := &buf

		switch args[0] {
		case "bash":
			if err := rootCmd.GenBashCompletion(out); err != nil {
				return fmt.Errorf("generate bash completions: %w", err)
			}
		case "zsh":
			if err := rootCmd.GenZshCompletion(out); err != nil {
				return fmt.Errorf("generate zsh completions: %w", err)
			}
		case "fish":
			if err := rootCmd.GenFishCompletion(out, true); err != nil {
				return fmt.Errorf("generate fish completions: %w", err)
			}
		case "powershell":
			if err := rootCmd.GenPowerShellCompletionWithDesc(out); err != nil {
				return fmt.Errorf("generate powershell completions: %w", err)
			}
		}

		if outPath != "" {
			if err := shell.ValidateWritable(outPath); err != nil {
				return fmt.Errorf("cannot write completions: %w", err)
			}
			if err := fileio.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write completions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote completions to %s\n", outPath)
		} else {
			if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
				return fmt.Errorf("stream completions: %w", err)
			}
		}

		elapsed := clock.Elapsed()
		if !clock.WithinBudget(150 * time.Millisecond) {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  completions generated in %s (over 150ms budget)\n", elapsed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
	completionCmd.Flags().String("out", "", "Write completions to the given file path (validates writability)")
	completionCmd.Flags().Bool("install", false, "Write completions to the default location for the shell")
}

// ValidIfacesFunc completes wireless interface names
func ValidIfacesFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	provider := newIfaceCompletionProvider(logger.Log)
	return provider.Names(), cobra.ShellCompDirectiveNoFileComp
}
