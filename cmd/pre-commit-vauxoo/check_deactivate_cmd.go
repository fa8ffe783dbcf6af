package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/pre-commit-vauxoo/internal/deactivate"
	"github.com/raphi011/pre-commit-vauxoo/internal/log"
	"github.com/raphi011/pre-commit-vauxoo/internal/output"
)

func newCheckDeactivateCmd(a *app) *cobra.Command {
	var (
		instanceTypes []string
		ecpg          string
	)

	cmd := &cobra.Command{
		Use:     "check-deactivate FILE...",
		Short:   "Check deactivate SQL templates",
		GroupID: GroupUtility,
		Args:    cobra.MinimumNArgs(1),
		Long: `Check the Jinja templates that deactivate crons, mail servers and other
production services when an instance is copied.

Each file is rendered once per instance type. Every rendering must be a
JSON object whose values are SQL statements; the statements are joined and
checked with ecpg. Templates may only use the instance_type and nginx_url
variables.

The exit status is 1 when any file has a problem.`,
		Example: `  pre-commit-vauxoo check-deactivate deactivate/deactivate.jinja
  pre-commit-vauxoo check-deactivate --instance-types test *.jinja
  pre-commit-vauxoo check-deactivate --ecpg /usr/lib/postgresql/16/bin/ecpg deactivate.jinja`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			checker := &deactivate.Checker{SQL: a.sqlChecker, InstanceTypes: instanceTypes}
			if checker.SQL == nil {
				checker.SQL = deactivate.ECPG{Bin: ecpg}
			}

			paths := make([]string, len(args))
			for i, arg := range args {
				paths[i] = arg
				if !filepath.IsAbs(arg) {
					paths[i] = filepath.Join(a.dir, arg)
				}
			}

			problems, err := checker.CheckFiles(ctx, paths)
			for _, p := range problems {
				out.Println(p.String())
			}
			if err != nil {
				return err
			}
			if len(problems) > 0 {
				log.FromContext(ctx).Errorf("%d problem(s) in deactivate files", len(problems))
				a.exitCode = 1
				return nil
			}
			log.FromContext(ctx).Debugf("Checked %d deactivate file(s)", len(paths))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&instanceTypes, "instance-types", deactivate.InstanceTypes, "Instance types to render each file for, comma separated")
	cmd.Flags().StringVar(&ecpg, "ecpg", deactivate.DefaultECPG, "ecpg executable used to check the SQL")
	_ = cmd.RegisterFlagCompletionFunc("instance-types", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return deactivate.InstanceTypes, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
