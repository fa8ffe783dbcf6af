package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/pre-commit-vauxoo/internal/config"
	"github.com/raphi011/pre-commit-vauxoo/internal/doctor"
	"github.com/raphi011/pre-commit-vauxoo/internal/output"
)

func newDoctorCmd(a *app) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose the setup",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Diagnose the tools and repository setup.

Checks:
- git and pre-commit are installed
- The current directory is inside a git repository
- Config files and variables.sh parse
- The generated pre-commit configuration files are valid
- The git pre-commit hook is installed`,
		Example: `  pre-commit-vauxoo doctor          # Check for issues
  pre-commit-vauxoo doctor --fix    # Install a missing git hook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			globalPath, err := config.GlobalPath(config.EnvFromList(a.environ))
			if err != nil {
				globalPath = ""
			}
			_, err = doctor.Run(ctx, output.FromContext(ctx).Writer(), doctor.Options{
				Dir:          a.dir,
				GlobalConfig: globalPath,
				Fix:          fix,
				Bin:          a.bin,
				LookPath:     a.lookPath,
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Install the git hook if it is missing")
	return cmd
}
