package cli

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
// This is useful for detecting whether the application is running
// in an interactive environment (e.g., a user's terminal) or
// in a non-interactive environment (e.g., CI/CD pipeline, piped input).
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal checks if stderr is a TTY, indicating that diagnostic
// output is being displayed directly to a user's terminal rather than
// being captured by a CI system.
//
// Log output defaults to the human format on a terminal and JSON otherwise.
func IsOutputTerminal() bool {
	return IsTTY(os.Stderr.Fd())
}
