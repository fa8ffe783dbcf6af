package doctor

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/raphi011/pre-commit-vauxoo/internal/git"
	"github.com/raphi011/pre-commit-vauxoo/internal/hooks"
	"github.com/raphi011/pre-commit-vauxoo/internal/ui/styles"
)

// Options configures a doctor run.
type Options struct {
	// Dir is the directory to diagnose.
	Dir string
	// GlobalConfig is the global config file path; empty skips it.
	GlobalConfig string
	// Fix installs a missing git hook.
	Fix bool
	// Bin is the command the installed hook runs.
	Bin string
	// LookPath finds executables; nil means exec.LookPath.
	LookPath func(string) (string, error)
}

// Run performs the checks, printing one line per check to w.
// It returns an error if any check failed.
func Run(ctx context.Context, w io.Writer, opts Options) (Report, error) {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var report Report
	fmt.Fprintln(w, "Checking tools...")
	report.add(printCheck(w, checkTool(lookPath, "git")))
	report.add(printCheck(w, checkTool(lookPath, "pre-commit")))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Checking repository...")
	repoRoot, err := git.RepoRoot(ctx, opts.Dir)
	if err != nil {
		report.add(printCheck(w, Check{Name: "repository", Status: StatusFail, Detail: err.Error()}))
		return report, summarize(w, report)
	}
	report.add(printCheck(w, Check{Name: "repository", Status: StatusOK, Detail: repoRoot}))
	for _, c := range checkConfigFiles(opts.GlobalConfig, repoRoot) {
		report.add(printCheck(w, c))
	}
	for _, c := range checkStageConfigs(repoRoot) {
		report.add(printCheck(w, c))
	}

	hook := checkGitHook(ctx, repoRoot)
	if hook.Status == StatusWarn && opts.Fix {
		path, err := hooks.Install(ctx, repoRoot, opts.Bin)
		if err != nil {
			hook = Check{Name: "git hook", Status: StatusFail, Detail: err.Error()}
		} else {
			hook = Check{Name: "git hook", Status: StatusOK, Detail: "installed " + path}
		}
	}
	report.add(printCheck(w, hook))

	return report, summarize(w, report)
}

func printCheck(w io.Writer, c Check) Check {
	symbol := styles.SymbolPassed
	switch c.Status {
	case StatusWarn:
		symbol = styles.SymbolReformatted
	case StatusFail:
		symbol = styles.SymbolFailed
	}
	fmt.Fprintf(w, "%s %s: %s\n", symbol, c.Name, c.Detail)
	if c.FixAction != "" && c.Status != StatusOK {
		fmt.Fprintf(w, "    fix: %s\n", c.FixAction)
	}
	return c
}

func summarize(w io.Writer, report Report) error {
	fmt.Fprintln(w)
	if n := report.Failures(); n > 0 {
		fmt.Fprintf(w, "Found %d issue(s)\n", n)
		return fmt.Errorf("%d issues found", n)
	}
	if n := report.Warnings(); n > 0 {
		fmt.Fprintf(w, "All checks passed with %d warning(s)\n", n)
		return nil
	}
	fmt.Fprintln(w, "All checks passed")
	return nil
}
