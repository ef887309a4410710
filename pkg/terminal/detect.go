// Package terminal answers questions about the controlling terminal: is
// there one, how big is it, and how to put it back the way it was.
package terminal

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// IsInteractive reports whether both in and out are terminals. The full
// screen view needs both; anything else runs headless.
func IsInteractive(in, out *os.File) bool {
	return isTTY(in) && isTTY(out)
}

func isTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Guard records the current mode of f and returns a function that puts it
// back. The returned function is safe to call more than once and is a
// no-op when f is not a terminal.
//
// bubbletea restores the terminal on a clean exit. Guard covers the paths
// where it does not get the chance, such as a panic in main.
func Guard(f *os.File, logger *slog.Logger) (restore func()) {
	fd := f.Fd()
	if !term.IsTerminal(fd) {
		return func() {}
	}
	st, err := term.GetState(fd)
	if err != nil {
		logger.Debug("terminal state not saved", "error", err)
		return func() {}
	}
	return func() {
		if err := term.Restore(fd, st); err != nil {
			logger.Debug("terminal state not restored", "error", err)
		}
	}
}
