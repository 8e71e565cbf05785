package cli

import (
	"github.com/spf13/cobra"

	"github.com/all-dot-files/wifiprov/internal/config"
	"github.com/all-dot-files/wifiprov/internal/wpacli"
)

// ConfigManagerForTest sets the global config manager for tests.
func ConfigManagerForTest(mgr *config.Manager) {
	configManager = mgr
}

// RunnerForTest swaps the wpa_cli runner and returns a restore func.
func RunnerForTest(r wpacli.Runner) func() {
	prev := runner
	runner = r
	return func() { runner = prev }
}

// CompletionCommandForTest exposes the completion command for testing.
func CompletionCommandForTest() *cobra.Command {
	return completionCmd
}

// RootCommandForTest exposes the root command for suggestion checks.
func RootCommandForTest() *cobra.Command {
	return rootCmd
}
