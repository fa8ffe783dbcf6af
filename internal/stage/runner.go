package stage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/scope"
)

// Result is the raw outcome of one stage.
type Result struct {
	Stage  Stage
	Status int
}

// Runner runs selected stages through a Tool.
type Runner struct {
	Tool     Tool
	RepoRoot string
}

// Run installs the hooks of every selected stage, then runs the stages in
// Order. Install failures are logged and ignored. A non-zero stage status
// is a result, not an error; the error is set only when a stage could not
// be started, and the results collected so far are returned with it.
func (r Runner) Run(ctx context.Context, set Set, sc scope.Scope) ([]Result, error) {
	l := log.FromContext(ctx)
	stages := set.Stages()

	l.Infof("Installing pre-commit hooks")
	for _, st := range stages {
		if err := r.Tool.InstallHooks(ctx, r.configPath(st)); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.Warnf("Installing %s hooks failed: %v", st.Name, err)
		}
	}

	results := make([]Result, 0, len(stages))
	for _, st := range stages {
		banner := strings.Repeat("-", 25)
		l.Infof("%s %s CHECKS %s", banner, strings.ToUpper(st.Label), banner)
		l.Infof("Running %s checks (%s)", strings.ToLower(st.Label), describe(st))

		status, err := r.Tool.Run(ctx, r.configPath(st), sc)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Stage: st, Status: status})
	}
	return results, nil
}

func (r Runner) configPath(st Stage) string {
	return filepath.Join(r.RepoRoot, st.ConfigFile)
}

func describe(st Stage) string {
	switch st.Name {
	case Fix:
		return "affect status build but you can autofix them locally"
	case Mandatory:
		return "affect status build"
	case Optional:
		return "does not affect status build unless --fail-optional is set"
	default:
		return "never affect status build"
	}
}
