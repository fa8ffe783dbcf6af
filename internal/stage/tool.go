package stage

import (
	"context"
	"io"
	"os"

	"github.com/raphi011/pre-commit-vauxoo/internal/cmd"
	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
	"github.com/raphi011/pre-commit-vauxoo/internal/scope"
)

// Tool is the external hook runner.
type Tool interface {
	// InstallHooks prepares the hook environments of one configuration file.
	InstallHooks(ctx context.Context, configPath string) error
	// Run runs the hooks of one configuration file over sc and returns the
	// runner's exit status. The error is set only when the runner could not
	// be started.
	Run(ctx context.Context, configPath string, sc scope.Scope) (int, error)
}

// PreCommit runs the pre-commit executable in the repository root.
type PreCommit struct {
	// Bin is the executable; empty means "pre-commit" from PATH.
	Bin      string
	RepoRoot string
	// Color is passed as --color: always, never or auto.
	Color  string
	Stdout io.Writer
	Stderr io.Writer
}

// InstallHooks runs "pre-commit install-hooks --config <configPath>".
func (p PreCommit) InstallHooks(ctx context.Context, configPath string) error {
	return cmd.RunContext(ctx, p.RepoRoot, p.bin(), "install-hooks", "--config", configPath, "--color="+p.color())
}

// Run runs "pre-commit run <scope> --config <configPath>" with output streamed.
func (p PreCommit) Run(ctx context.Context, configPath string, sc scope.Scope) (int, error) {
	args := append([]string{"run"}, sc.Args()...)
	args = append(args, "--config", configPath, "--color="+p.color())

	status, err := cmd.StatusContext(ctx, p.RepoRoot, p.stdout(), p.stderr(), p.bin(), args...)
	if err != nil {
		if ctx.Err() != nil {
			return status, err
		}
		return status, runerr.ToolInvocation("cannot start "+p.bin(), err)
	}
	return status, nil
}

func (p PreCommit) bin() string {
	if p.Bin == "" {
		return "pre-commit"
	}
	return p.Bin
}

func (p PreCommit) color() string {
	if p.Color == "" {
		return "auto"
	}
	return p.Color
}

func (p PreCommit) stdout() io.Writer {
	if p.Stdout == nil {
		return os.Stdout
	}
	return p.Stdout
}

func (p PreCommit) stderr() io.Writer {
	if p.Stderr == nil {
		return os.Stderr
	}
	return p.Stderr
}
