package cmd

import "os"

// isTerminal reports whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// isStdinPipe reports whether text can be read from stdin without blocking
// on an interactive prompt.
func isStdinPipe() bool {
	_, err := os.Stdin.Stat()
	return err == nil && !isTerminal(os.Stdin)
}

// resolveColor decides whether output is colored. --no-color and "never"
// always win; "always" forces color even when piped. In "auto" mode NO_COLOR
// disables color and otherwise stdout must be a terminal.
func resolveColor(mode string, noColor bool) bool {
	switch {
	case noColor || mode == "never":
		return false
	case mode == "always":
		return true
	case os.Getenv("NO_COLOR") != "":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
