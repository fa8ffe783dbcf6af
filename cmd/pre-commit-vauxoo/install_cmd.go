package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/raphi011/pre-commit-vauxoo/internal/hooks"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   "Install the git pre-commit hook",
		GroupID: GroupRepo,
		Args:    cobra.NoArgs,
		Long: `Install a git pre-commit hook that runs pre-commit-vauxoo before every commit.

An existing hook is replaced. The hook is skipped when NOLINT is set:

  NOLINT=1 git commit -m "wip"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.installHook(cmd.Context())
		},
	}
}

func (a *app) installHook(ctx context.Context) error {
	repo, err := a.openRepo(ctx)
	if err != nil {
		return err
	}
	_, err = hooks.Install(ctx, repo.root, a.bin)
	return err
}
