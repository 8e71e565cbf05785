package wpacli

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	apperrors "github.com/all-dot-files/wifiprov/pkg/errors"
	"github.com/all-dot-files/wifiprov/pkg/logger"
)

// Runner executes an external command and returns its standard output
// split into lines.
type Runner interface {
	Run(name string, args ...string) ([]string, error)
}

// ExecRunner runs commands on the local host.
type ExecRunner struct{}

// Run blocks until the child exits. The exit status is not an error:
// wpa_cli reports command failures in its output. Only a failure to start
// the process is returned, as a SPAWN error.
func (ExecRunner) Run(name string, args ...string) ([]string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, apperrors.WrapWithSuggestion(err, apperrors.ErrSpawn, "wpacli.Run",
				fmt.Sprintf("cannot start %s", name),
				"install wpa_cli or point wpa_cli in the settings file at it")
		}
		logger.Debug("command exited non-zero", "name", name, "code", exitErr.ExitCode())
	}
	if s := strings.TrimSpace(stderr.String()); s != "" {
		logger.Debug("command wrote to stderr", "name", name, "stderr", s)
	}
	return splitLines(stdout.String()), nil
}

// splitLines trims each line and drops empty ones.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
