package output

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// ColorWriter wraps w so ANSI styles are downsampled to what the terminal
// supports. mode "never" strips them; "always" keeps them when w is not a
// terminal; "auto" follows detection, which honours NO_COLOR.
func ColorWriter(w io.Writer, environ []string, mode string) *colorprofile.Writer {
	cw := colorprofile.NewWriter(w, environ)
	switch mode {
	case "never":
		cw.Profile = colorprofile.NoTTY
	case "always":
		if cw.Profile == colorprofile.NoTTY {
			cw.Profile = colorprofile.ANSI256
		}
	}
	return cw
}

// Colored reports whether cw keeps any styling.
func Colored(cw *colorprofile.Writer) bool {
	return cw.Profile != colorprofile.NoTTY
}

// IsInteractive reports whether f is a terminal a person is typing at.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// HookColor returns the --color value for the hook runner.
func HookColor(mode string, colored bool) string {
	switch mode {
	case "always", "never":
		return mode
	}
	if colored {
		return "always"
	}
	return "never"
}
