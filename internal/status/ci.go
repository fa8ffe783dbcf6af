package status

import (
	"context"
	"unicode/utf8"

	"github.com/raphi011/pre-commit-vauxoo/internal/log"
)

// DiffLimit bounds the diff printed for CI runs, in bytes.
const DiffLimit = 16384

// DiffFunc returns the working tree diff of the repository.
type DiffFunc func(ctx context.Context) (string, error)

// ShowAutofixDiff logs the changes the autofix stage made, followed by
// instructions to apply them locally. It only reports; the outcome is not
// changed.
func ShowAutofixDiff(ctx context.Context, outcome RunOutcome, diff DiffFunc) {
	if !outcome.Reformatted() {
		return
	}
	l := log.FromContext(ctx)
	out, err := diff(ctx)
	if err != nil {
		l.Warnf("Cannot show autofix changes: %v", err)
		return
	}
	if out == "" {
		return
	}
	l.Errorf("Autofix changed the following files:\n%s", Truncate(out, DiffLimit))
	l.Errorf("Run 'pre-commit-vauxoo -t fix' locally, review the changes and commit them")
}

// Truncate returns at most limit bytes of s without splitting a UTF-8
// sequence, marking the cut.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (diff truncated)"
}
