package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// LogVerbose prints verbose output if verbose mode is enabled
func LogVerbose(format string, args ...interface{}) {
	if IsVerbose() {
		fmt.Fprintf(os.Stderr, "🔍 "+format+"\n", args...)
	}
}

// Success prints a success message
func Success(format string, args ...interface{}) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s "+format+"\n", append([]interface{}{green("✓")}, args...)...)
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Printf("ℹ️  "+format+"\n", args...)
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(os.Stderr, "%s  "+format+"\n", append([]interface{}{yellow("⚠️")}, args...)...)
}
