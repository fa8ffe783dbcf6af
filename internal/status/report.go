package status

import (
	"context"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/ui/static"
	"github.com/raphi011/pre-commit-vauxoo/internal/ui/styles"
)

// Message returns the log line for r, e.g. "Mandatory checks passed!".
func Message(r StageResult) string {
	switch r.Outcome {
	case Reformatted:
		return r.Stage.Label + " checks reformatted"
	case Failed:
		return r.Stage.Label + " checks failed"
	default:
		return r.Stage.Label + " checks passed!"
	}
}

// Report logs one line per stage at its severity.
func Report(ctx context.Context, outcome RunOutcome) {
	l := log.FromContext(ctx)
	for _, r := range outcome.Results {
		l.Log(r.Severity.Level(), "%s", Message(r))
	}
}

// Summary writes a table of the stage results to w.
func Summary(w io.Writer, outcome RunOutcome, failOptional bool, styled bool) error {
	if len(outcome.Results) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		counts := "no"
		if r.Stage.Counts(failOptional) {
			counts = "yes"
		}
		rows = append(rows, []string{
			string(r.Stage.Name),
			r.Stage.ConfigFile,
			symbol(r.Outcome) + " " + r.Outcome.String(),
			strconv.Itoa(r.Status),
			counts,
		})
	}
	headers := []string{"STAGE", "CONFIG", "RESULT", "STATUS", "COUNTS"}

	var cell static.CellStyle
	if styled {
		cell = func(row, col int) lipgloss.Style {
			if col != 2 {
				return lipgloss.NewStyle()
			}
			return resultStyle(outcome.Results[row])
		}
	}
	_, err := io.WriteString(w, static.RenderStyledTable(headers, rows, cell))
	return err
}

func symbol(o Outcome) string {
	switch o {
	case Failed:
		return styles.SymbolFailed
	case Reformatted:
		return styles.SymbolReformatted
	default:
		return styles.SymbolPassed
	}
}

func resultStyle(r StageResult) lipgloss.Style {
	switch r.Severity {
	case Error:
		return styles.ErrorStyle
	case Warning:
		return styles.WarningStyle
	default:
		return styles.SuccessStyle
	}
}
