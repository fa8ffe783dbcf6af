package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/raphi011/pre-commit-vauxoo/internal/config"
	"github.com/raphi011/pre-commit-vauxoo/internal/git"
	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/manifest"
	"github.com/raphi011/pre-commit-vauxoo/internal/materialize"
	"github.com/raphi011/pre-commit-vauxoo/internal/output"
	"github.com/raphi011/pre-commit-vauxoo/internal/pathset"
	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
	"github.com/raphi011/pre-commit-vauxoo/internal/scope"
	"github.com/raphi011/pre-commit-vauxoo/internal/stage"
	"github.com/raphi011/pre-commit-vauxoo/internal/status"
)

// repoContext is where a run happens.
type repoContext struct {
	root   string
	cwdRel string
	env    config.Env
}

// cwd returns the absolute working directory inside the repository.
func (r repoContext) cwd() string {
	return filepath.Join(r.root, r.cwdRel)
}

// openRepo finds the repository containing a.dir.
func (a *app) openRepo(ctx context.Context) (repoContext, error) {
	if err := git.CheckGit(); err != nil {
		return repoContext{}, runerr.Usage(err.Error(), nil)
	}
	if !git.IsInsideRepoPath(ctx, a.dir) {
		return repoContext{}, runerr.Usage("not inside a git repository: "+a.dir, nil)
	}
	root, err := git.RepoRoot(ctx, a.dir)
	if err != nil {
		return repoContext{}, err
	}
	cwdRel, err := git.RelativePrefix(ctx, a.dir)
	if err != nil {
		return repoContext{}, err
	}
	return repoContext{root: root, cwdRel: cwdRel, env: config.EnvFromList(a.environ)}, nil
}

// loadOptions layers the config files, variables.sh, the environment and flags.
func loadOptions(repo repoContext, flags *pflag.FlagSet) (config.Options, error) {
	vars, err := config.ReadVariables(repo.root)
	if err != nil {
		return config.Options{}, runerr.Usage("cannot read "+config.VariablesFileName, err)
	}
	globalPath, err := config.GlobalPath(repo.env)
	if err != nil {
		return config.Options{}, err
	}
	global, err := config.LoadFile(globalPath)
	if err != nil {
		return config.Options{}, runerr.Usage("invalid global config", err)
	}
	local, err := config.LoadLocal(repo.root)
	if err != nil {
		return config.Options{}, runerr.Usage("invalid repository config", err)
	}
	opts, err := config.Build(config.Sources{
		File:      config.Merge(global, local),
		Variables: vars,
		Env:       repo.env,
		Flags:     flags,
	})
	if err != nil {
		return config.Options{}, runerr.Usage("invalid options", err)
	}
	return opts, nil
}

// resolvePaths turns option paths into a PathSet. Relative paths resolve
// against the working directory, falling back to the repository root.
func resolvePaths(raw []string, repo repoContext) pathset.PathSet {
	resolved := make([]string, 0, len(raw))
	for _, p := range raw {
		resolved = append(resolved, pathset.ResolveAgainstRepoRoot(p, repo.cwd(), repo.root))
	}
	return pathset.New(resolved, repo.cwd())
}

// runChecks is the whole run: options, configuration files, scope, stages
// and the aggregated exit status.
func (a *app) runChecks(cmd *cobra.Command) error {
	ctx := cmd.Context()
	repo, err := a.openRepo(ctx)
	if err != nil {
		return err
	}
	opts, err := loadOptions(repo, cmd.Flags())
	if err != nil {
		return err
	}

	if opts.LogFile != "" {
		lf := openLogFile(opts.LogFile)
		defer lf.Close()
		ctx = a.withLogging(ctx, opts.Color, lf)
	} else {
		ctx = a.withLogging(ctx, opts.Color, nil)
	}
	l := log.FromContext(ctx)

	selected, err := stage.ParseSelection(opts.PrecommitHooksType)
	if err != nil {
		return runerr.Usage("invalid --precommit-hooks-type", err)
	}
	l.Debugf("Selected stages: %s", selected)

	if err := a.writeConfigs(ctx, repo, opts); err != nil {
		return err
	}

	resolver := scope.Resolver{Files: scope.FileListerFunc(git.ListFiles)}
	sc, err := resolver.Resolve(ctx, repo.root, repo.cwdRel, resolvePaths(opts.Paths, repo))
	if err != nil {
		return err
	}

	out := output.FromContext(ctx)
	runner := stage.Runner{Tool: a.tool(repo.root, output.HookColor(opts.Color, out.Styled())), RepoRoot: repo.root}
	results, err := runner.Run(ctx, selected, sc)
	if err != nil {
		return err
	}

	classifier := status.Classifier{
		FailOptional: opts.FailOptional,
		Interactive:  !repo.env.CI() && a.isInteractive(),
	}
	outcome := status.Aggregate(classifier.ClassifyAll(results), opts.FailOptional)
	status.Report(ctx, outcome)
	if !a.quiet {
		if err := status.Summary(out.Writer(), outcome, opts.FailOptional, out.Styled()); err != nil {
			return err
		}
	}
	if repo.env.CI() {
		status.ShowAutofixDiff(ctx, outcome, func(ctx context.Context) (string, error) {
			return git.Diff(ctx, repo.root)
		})
	}

	a.exitCode = outcome.ExitCode()
	return nil
}

// writeConfigs materializes the configuration files into the repository.
// Modules whose manifest is not installable are excluded from linting.
func (a *app) writeConfigs(ctx context.Context, repo repoContext, opts config.Options) error {
	l := log.FromContext(ctx)

	notInstallable, err := manifest.NotInstallable(repo.root)
	if err != nil {
		return runerr.Usage("cannot scan manifests", err)
	}
	if len(notInstallable) > 0 {
		l.Debugf("Excluding not installable modules %v", notInstallable)
	}
	excludeLint := pathset.PathSet(notInstallable).Union(resolvePaths(opts.ExcludeLint, repo))
	excludeAutofix := resolvePaths(opts.ExcludeAutofix, repo)

	templates, source, err := materialize.TemplatesFrom(opts.TemplateDir)
	if err != nil {
		return runerr.ConfigWrite(opts.TemplateDir, err)
	}
	_, err = materialize.Materialize(ctx, templates, repo.root, materialize.Options{
		NoOverwrite:             opts.NoOverwrite,
		ExcludeLint:             pathset.ExcludeFragment(excludeLint, repo.root),
		ExcludeAutofix:          pathset.ExcludeFragment(excludeAutofix, repo.root),
		DisabledChecks:          opts.PylintDisableChecks,
		DisabledHookChecks:      opts.OCAHooksDisableChecks,
		SkipStringNormalization: opts.SkipStringNormalization,
		TargetVersion:           opts.OdooVersion,
		Source:                  source,
	})
	return err
}

func (a *app) tool(repoRoot, color string) stage.Tool {
	if a.newTool != nil {
		return a.newTool(repoRoot, color)
	}
	return stage.PreCommit{RepoRoot: repoRoot, Color: color, Stdout: a.stdout, Stderr: a.stderr}
}

func (a *app) isInteractive() bool {
	return a.interactive != nil && a.interactive()
}
