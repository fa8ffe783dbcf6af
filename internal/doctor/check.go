package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/pre-commit-vauxoo/internal/config"
	"github.com/raphi011/pre-commit-vauxoo/internal/hooks"
	"github.com/raphi011/pre-commit-vauxoo/internal/precommitcfg"
	"github.com/raphi011/pre-commit-vauxoo/internal/stage"
)

// checkTool checks that name is on PATH.
func checkTool(lookPath func(string) (string, error), name string) Check {
	path, err := lookPath(name)
	if err != nil {
		return Check{Name: name, Status: StatusFail, Detail: fmt.Sprintf("%s not found in PATH", name)}
	}
	return Check{Name: name, Status: StatusOK, Detail: path}
}

// checkConfigFiles checks that the TOML config files parse.
func checkConfigFiles(globalPath, repoRoot string) []Check {
	var checks []Check
	for _, path := range []string{globalPath, filepath.Join(repoRoot, config.LocalConfigFileName)} {
		if path == "" {
			continue
		}
		f, err := config.LoadFile(path)
		switch {
		case err != nil:
			checks = append(checks, Check{Name: "config", Status: StatusFail, Detail: err.Error()})
		case f == nil:
			checks = append(checks, Check{Name: "config", Status: StatusOK, Detail: path + " not present"})
		default:
			checks = append(checks, Check{Name: "config", Status: StatusOK, Detail: path})
		}
	}
	if _, err := config.ReadVariables(repoRoot); err != nil {
		checks = append(checks, Check{Name: config.VariablesFileName, Status: StatusFail, Detail: err.Error()})
	}
	return checks
}

// checkStageConfigs checks the generated pre-commit configuration of every stage.
func checkStageConfigs(repoRoot string) []Check {
	var checks []Check
	for _, st := range stage.Order {
		path := filepath.Join(repoRoot, st.ConfigFile)
		name := "stage " + string(st.Name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			checks = append(checks, Check{
				Name:      name,
				Status:    StatusWarn,
				Detail:    st.ConfigFile + " not generated yet",
				FixAction: "run pre-commit-vauxoo once to generate it",
			})
			continue
		}
		cfg, err := precommitcfg.Load(path)
		if err != nil {
			checks = append(checks, Check{Name: name, Status: StatusFail, Detail: err.Error()})
			continue
		}
		if _, err := cfg.ExcludeRegexp(); err != nil {
			checks = append(checks, Check{Name: name, Status: StatusFail, Detail: fmt.Sprintf("invalid exclude pattern: %v", err)})
			continue
		}
		checks = append(checks, Check{Name: name, Status: StatusOK, Detail: fmt.Sprintf("%s (%d hooks)", st.ConfigFile, len(cfg.HookIDs()))})
	}
	return checks
}

// checkGitHook checks that the git pre-commit hook is installed.
func checkGitHook(ctx context.Context, repoRoot string) Check {
	path, err := hooks.Path(ctx, repoRoot)
	if err != nil {
		return Check{Name: "git hook", Status: StatusFail, Detail: err.Error()}
	}
	ok, err := hooks.Installed(path)
	if err != nil {
		return Check{Name: "git hook", Status: StatusFail, Detail: err.Error()}
	}
	if !ok {
		return Check{Name: "git hook", Status: StatusWarn, Detail: "not installed", FixAction: "install " + path}
	}
	return Check{Name: "git hook", Status: StatusOK, Detail: path}
}
