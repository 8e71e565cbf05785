package shell

import (
	"fmt"
	"os"
	"path/filepath"
)

// ShellType represents a supported shell.
type ShellType string

const (
	ShellZsh  ShellType = "zsh"
	ShellBash ShellType = "bash"
	ShellFish ShellType = "fish"
)

// DefaultInstallPath returns where the completion script for shell is
// usually picked up, or "" when there is no conventional place.
func DefaultInstallPath(shell ShellType) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return installPath(shell, home, os.Getenv("XDG_DATA_HOME"))
}

func installPath(shell ShellType, home, dataHome string) string {
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	switch shell {
	case ShellZsh:
		return filepath.Join(home, ".zsh", "completions", "_wifiprov")
	case ShellBash:
		return filepath.Join(dataHome, "bash-completion", "completions", "wifiprov")
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "completions", "wifiprov.fish")
	default:
		return ""
	}
}

// ValidateWritable checks that the completion file can be written,
// creating its parent directory when missing.
func ValidateWritable(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("completion path not accessible (%s): %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("completion path not accessible (%s): %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("completion path parent is not a directory: %s", dir)
	}
	f, err := os.CreateTemp(dir, ".wifiprov-writecheck-*")
	if err != nil {
		return fmt.Errorf("cannot write completion file to %s: %w", dir, err)
	}
	f.Close()
	_ = os.Remove(f.Name())
	return nil
}
