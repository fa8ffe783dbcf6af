package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/raphi011/pre-commit-vauxoo/internal/config"
	"github.com/raphi011/pre-commit-vauxoo/internal/deactivate"
	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/output"
	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
	"github.com/raphi011/pre-commit-vauxoo/internal/stage"
)

// Command group IDs for organizing help output
const (
	GroupRepo    = "repo"
	GroupUtility = "utility"
)

// app holds the process inputs a command sees. Execute fills it from the
// real process; tests fill it with fakes.
type app struct {
	dir     string
	environ []string
	stdout  io.Writer
	stderr  io.Writer

	// interactive reports whether a person is at the terminal.
	interactive func() bool
	// newTool builds the hook runner; nil runs the pre-commit executable.
	newTool     func(repoRoot, color string) stage.Tool
	// bin is the command installed git hooks run.
	bin         string
	// lookPath finds executables for doctor; nil means exec.LookPath.
	lookPath    func(string) (string, error)
	// sqlChecker checks deactivate SQL; nil runs ecpg.
	sqlChecker  deactivate.SQLChecker

	verbose bool
	quiet   bool
	install bool

	exitCode int
}

// Execute runs the command line and exits with the aggregated status.
func Execute() {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %s: failed to get working directory: %v\n", log.Name, err)
		os.Exit(1)
	}
	bin, err := os.Executable()
	if err != nil {
		bin = log.Name
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := &app{
		dir:         workDir,
		environ:     os.Environ(),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: func() bool { return output.IsInteractive(os.Stdin) },
		bin:         bin,
	}
	code := a.execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}

// execute runs args and returns the process exit status.
func (a *app) execute(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "ERROR %s: %v\n", log.Name, err)
		if runerr.IsKind(err, runerr.KindUsage) {
			fmt.Fprintln(a.stderr)
			fmt.Fprintf(a.stderr, "Run '%s -h' for help\n", log.Name)
		}
		return 1
	}
	return a.exitCode
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pre-commit-vauxoo",
		Short: "Run the Vauxoo pre-commit checks",
		Long: `pre-commit-vauxoo writes the lint and format configuration files into the
repository and runs pre-commit in stages: autofix, mandatory, optional and
experimental.

The exit status is the sum of the statuses of the stages that count:
autofix and mandatory always, optional only with --fail-optional,
experimental never.

Every flag can also be set from the environment, from variables.sh at the
repository root, or from .pre-commit-vauxoo.toml.`,
		Example: `  pre-commit-vauxoo                        # Mandatory and optional checks
  pre-commit-vauxoo -t fix                 # Only the autofix stage
  pre-commit-vauxoo -t all,-optional       # Autofix and mandatory
  pre-commit-vauxoo -p module_a,module_b   # Only files under these paths
  pre-commit-vauxoo -l module_a/migrations # Exclude a path from linting`,
		Args:                       cobra.NoArgs,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose && a.quiet {
				return runerr.Usage("--verbose and --quiet are mutually exclusive", nil)
			}
			env := config.EnvFromList(a.environ)
			color := env.Get("PRE_COMMIT_COLOR")
			if f := cmd.Flags().Lookup("color"); f != nil && f.Changed {
				color = f.Value.String()
			}
			cmd.SetContext(a.withLogging(cmd.Context(), color, nil))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.install {
				return a.installHook(cmd.Context())
			}
			return a.runChecks(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show debug messages and external commands")
	cmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Only show warnings and errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	registerRunFlags(cmd)
	cmd.Flags().BoolVar(&a.install, "install", false, "Install the git pre-commit hook and exit")
	_ = cmd.Flags().MarkHidden("install")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupRepo, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)
	cmd.AddCommand(newInstallCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newDoctorCmd(a))
	cmd.AddCommand(newCheckDeactivateCmd(a))
	return cmd
}

// registerRunFlags registers one flag per config binding.
func registerRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("paths", "p", []string{config.DefaultPath}, "Files or directories to check, comma separated (env INCLUDE_LINT)")
	f.Bool("no-overwrite", false, "Keep configuration files that already exist (env PRECOMMIT_NO_OVERWRITE_CONFIG_FILES)")
	f.Bool("fail-optional", false, "Make optional check failures count toward the exit status (env PRECOMMIT_FAIL_OPTIONAL)")
	f.StringSliceP("exclude-autofix", "x", nil, "Paths excluded from the autofix stage, comma separated (env EXCLUDE_AUTOFIX)")
	f.StringSliceP("exclude-lint", "l", nil, "Paths excluded from every stage, comma separated (env EXCLUDE_LINT)")
	f.StringSliceP("pylint-disable-checks", "d", nil, "Pylint checks to disable, comma separated (env PYLINT_DISABLE_CHECKS)")
	f.StringSlice("oca-hooks-disable-checks", nil, "OCA hooks checks to disable, comma separated (env OCA_HOOKS_DISABLE_CHECKS)")
	f.BoolP("skip-string-normalization", "S", false, "Tell black not to normalize string quotes (env BLACK_SKIP_STRING_NORMALIZATION)")
	f.StringSliceP("precommit-hooks-type", "t", []string{config.DefaultHooksType},
		fmt.Sprintf("Stages to run, comma separated; one of %v (env PRECOMMIT_HOOKS_TYPE)", stage.Choices()))
	f.String("odoo-version", "", "Odoo version the pylint checks target (env VERSION)")
	f.String("template-dir", "", "Directory with custom configuration templates (env PRE_COMMIT_VAUXOO_TEMPLATE_DIR)")
	f.String("color", config.DefaultColor, "Color output: auto, always or never (env PRE_COMMIT_COLOR)")
	f.String("log-file", "", "Also write log lines to this file, rotated")

	_ = cmd.RegisterFlagCompletionFunc("precommit-hooks-type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return stage.Choices(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("color", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagDirname("template-dir")
}

// withLogging attaches a logger writing to stderr and a printer writing to
// stdout, both downsampling colors for mode. NO_COLOR turns auto into
// never. A non-nil file receives a plain copy of every log line.
func (a *app) withLogging(ctx context.Context, mode string, file io.Writer) context.Context {
	if (mode == "" || mode == config.DefaultColor) && config.EnvFromList(a.environ).NoColor() {
		mode = "never"
	}
	errW := output.ColorWriter(a.stderr, a.environ, mode)
	logger := log.New(errW, a.verbose, a.quiet).WithStyle(output.Colored(errW))
	if file != nil {
		logger = logger.WithFile(file)
	}
	ctx = log.WithLogger(ctx, logger)

	outW := output.ColorWriter(a.stdout, a.environ, mode)
	return output.WithStyledPrinter(ctx, outW, output.Colored(outW))
}

// openLogFile opens the rotating log file at path.
func openLogFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}
