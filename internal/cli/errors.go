package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/all-dot-files/wifiprov/pkg/errors"
)

// PrintError prints the error in a user-friendly format
func PrintError(err error) {
	fprintError(os.Stderr, err)
}

func fprintError(w io.Writer, err error) {
	if err == nil {
		return
	}

	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		fmt.Fprintf(w, "%s %s\n", red("Error:"), err.Error())
		if IsDebug() {
			fmt.Fprintf(w, "\n%s %+v\n", dim("Debug:"), err)
		}
		return
	}

	fmt.Fprintf(w, "%s %s\n", red("Error:"), appErr.Message)

	// Every daemon command that was not acknowledged
	var failed errors.DaemonErrors
	if stderrors.As(appErr, &failed) {
		for _, f := range failed {
			fmt.Fprintf(w, "  %s %s\n", red("✗"), f.Error())
		}
	}

	if appErr.Suggestion != "" {
		fmt.Fprintf(w, "\n%s %s\n", yellow("Suggestion:"), appErr.Suggestion)
	}

	if IsDebug() {
		fmt.Fprintf(w, "\n%s\n", dim("--- Debug Info ---"))
		fmt.Fprintf(w, "%s Code: %s\n", dim("•"), appErr.Code)
		fmt.Fprintf(w, "%s Op:   %s\n", dim("•"), appErr.Op)
		if appErr.Err != nil {
			fmt.Fprintf(w, "%s Cause: %+v\n", dim("•"), appErr.Err)
		}
	}
}

// ExitWithError prints the error and exits with code 1
func ExitWithError(err error) {
	PrintError(err)
	os.Exit(1)
}
