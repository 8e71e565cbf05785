package wpacli

import (
	"strconv"

	apperrors "github.com/all-dot-files/wifiprov/pkg/errors"
)

const (
	replyOK   = "OK"
	replyFail = "FAIL"
	noOutput  = "no output"
)

// Result is the outcome of one daemon command: either success with the
// output lines, or failure with a message.
type Result struct {
	Command string
	Lines   []string
	OK      bool
	Message string
}

// Err returns nil on success and a CommandError otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return apperrors.CommandError{Command: r.Command, Reply: r.Message}
}

// ackResult interprets commands that answer with a literal OK.
func ackResult(command string, lines []string) Result {
	r := Result{Command: command, Lines: lines}
	switch {
	case len(lines) == 0:
		r.Message = noOutput
	case lines[0] == replyOK:
		r.OK = true
	default:
		r.Message = lines[0]
	}
	return r
}

// dataResult interprets read-only commands. Only a bare FAIL is a failure.
func dataResult(command string, lines []string) Result {
	r := Result{Command: command, Lines: lines, OK: true}
	if len(lines) == 1 && (lines[0] == replyFail || lines[0] == "UNKNOWN COMMAND") {
		r.OK = false
		r.Message = lines[0]
	}
	return r
}

// idResult interprets add_network, which answers with the new id.
func idResult(command string, lines []string) (Result, int) {
	r := Result{Command: command, Lines: lines}
	if len(lines) == 0 {
		r.Message = noOutput
		return r, -1
	}
	id, err := strconv.Atoi(lines[0])
	if err != nil || id < 0 {
		r.Message = lines[0]
		return r, -1
	}
	r.OK = true
	return r, id
}
