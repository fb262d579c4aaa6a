package script

import (
	"errors"
	"fmt"
	"strings"

	forksim "github.com/forklab/forksim"
)

// FormatProgramError turns a parse or validation error into a user-facing
// message with a fix hint where one is known.
func FormatProgramError(err error) string {
	if err == nil {
		return ""
	}

	var mpe *forksim.MalformedProgramError
	if errors.As(err, &mpe) {
		var b strings.Builder
		fmt.Fprintf(&b, "Program is malformed at instruction %d.\n", mpe.Index)
		fmt.Fprintf(&b, "- %s\n", mpe.Detail)
		if hint := hintFor(mpe.Detail); hint != "" {
			fmt.Fprintf(&b, "  How to fix: %s\n", hint)
		}
		return b.String()
	}

	return "Program could not be loaded.\n- " + err.Error() + "\n"
}

func hintFor(detail string) string {
	switch {
	case strings.Contains(detail, "no body"):
		return "give the if_child block a sequence of instructions, or remove the block"
	case strings.Contains(detail, "unknown thread"):
		return "create the thread with create_thread earlier in the program, outside any block that has already closed"
	case strings.Contains(detail, "requires a thread name"):
		return "name the thread to join, e.g. `join_thread: worker`"
	case strings.Contains(detail, "requires a label"):
		return "give emit a label, e.g. `emit: FINAL`"
	default:
		return ""
	}
}
