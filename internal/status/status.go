// Package status classifies stage results and folds them into the exit status.
package status

import (
	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/stage"
)

// Outcome is the classified result of a stage.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Reformatted
)

// String returns the outcome as printed in logs and summaries.
func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Reformatted:
		return "reformatted"
	default:
		return "passed"
	}
}

// Severity is the log level a stage result is reported at.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Level maps the severity to a log level.
func (s Severity) Level() log.Level {
	switch s {
	case Warning:
		return log.LevelWarn
	case Error:
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// StageResult is a classified stage result.
type StageResult struct {
	Stage    stage.Stage
	Status   int
	Outcome  Outcome
	Severity Severity
}

// Classifier classifies raw stage statuses.
type Classifier struct {
	// FailOptional makes optional failures errors that count toward the exit status.
	FailOptional bool
	// Interactive lowers autofix reformatting to a warning; the files were
	// fixed in place and only need to be reviewed.
	Interactive bool
}

// Classify classifies the raw status of st.
func (c Classifier) Classify(st stage.Stage, raw int) StageResult {
	r := StageResult{Stage: st, Status: raw, Outcome: Passed, Severity: Info}
	if raw == 0 {
		return r
	}
	switch st.Name {
	case stage.Fix:
		r.Outcome = Reformatted
		r.Severity = Error
		if c.Interactive {
			r.Severity = Warning
		}
	case stage.Mandatory:
		r.Outcome, r.Severity = Failed, Error
	case stage.Optional:
		r.Outcome, r.Severity = Failed, Warning
		if c.FailOptional {
			r.Severity = Error
		}
	default:
		r.Outcome, r.Severity = Failed, Warning
	}
	return r
}

// ClassifyAll classifies every runner result.
func (c Classifier) ClassifyAll(results []stage.Result) []StageResult {
	out := make([]StageResult, 0, len(results))
	for _, r := range results {
		out = append(out, c.Classify(r.Stage, r.Status))
	}
	return out
}

// RunOutcome is the aggregated result of a run.
type RunOutcome struct {
	// Total is the sum of the raw statuses of the stages that count.
	Total   int
	Results []StageResult
}

// Aggregate sums the raw statuses of the stages whose policy counts: fix
// and mandatory always, optional only with failOptional, experimental never.
func Aggregate(results []StageResult, failOptional bool) RunOutcome {
	out := RunOutcome{Results: results}
	for _, r := range results {
		if r.Stage.Counts(failOptional) {
			out.Total += r.Status
		}
	}
	return out
}

// Success reports whether the run passed.
func (o RunOutcome) Success() bool {
	return o.Total == 0
}

// ExitCode returns Total as a process exit code. Totals outside 1..255
// cannot be reported verbatim and are clamped; any non-zero total stays
// non-zero.
func (o RunOutcome) ExitCode() int {
	switch {
	case o.Total == 0:
		return 0
	case o.Total < 0:
		return 1
	case o.Total > 255:
		return 255
	default:
		return o.Total
	}
}

// Reformatted reports whether the autofix stage rewrote files.
func (o RunOutcome) Reformatted() bool {
	for _, r := range o.Results {
		if r.Outcome == Reformatted {
			return true
		}
	}
	return false
}
