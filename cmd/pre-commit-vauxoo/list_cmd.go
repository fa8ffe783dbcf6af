package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/pre-commit-vauxoo/internal/output"
	"github.com/raphi011/pre-commit-vauxoo/internal/precommitcfg"
	"github.com/raphi011/pre-commit-vauxoo/internal/runerr"
	"github.com/raphi011/pre-commit-vauxoo/internal/stage"
	"github.com/raphi011/pre-commit-vauxoo/internal/ui/static"
)

func newListCmd(a *app) *cobra.Command {
	var (
		selection []string
		showHooks bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List stages and their configuration files",
		Aliases: []string{"ls"},
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `List the check stages, the configuration file each one runs and whether
its failures count toward the exit status.

Hook counts are read from the configuration files in the repository; a
stage whose file was not generated yet shows "-".`,
		Example: `  pre-commit-vauxoo list                # All stages
  pre-commit-vauxoo list -t all,-fix    # Mark the stages a selection runs
  pre-commit-vauxoo list --hooks        # Also list hook ids`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			selected, err := stage.ParseSelection(selection)
			if err != nil {
				return runerr.Usage("invalid --precommit-hooks-type", err)
			}
			repo, err := a.openRepo(ctx)
			if err != nil {
				return err
			}

			var rows [][]string
			hookIDs := make(map[stage.Name][]string)
			for _, st := range stage.Order {
				hooks := "-"
				cfg, err := precommitcfg.Load(filepath.Join(repo.root, st.ConfigFile))
				switch {
				case err == nil:
					hookIDs[st.Name] = cfg.HookIDs()
					hooks = fmt.Sprint(len(hookIDs[st.Name]))
				case !os.IsNotExist(err):
					return fmt.Errorf("read %s: %w", st.ConfigFile, err)
				}
				run := ""
				if selected[st.Name] {
					run = "yes"
				}
				rows = append(rows, []string{string(st.Name), st.ConfigFile, st.Policy.String(), hooks, run})
			}
			out.Print(static.RenderTable([]string{"STAGE", "CONFIG", "COUNTS", "HOOKS", "SELECTED"}, rows))

			if !showHooks {
				return nil
			}
			for _, st := range stage.Order {
				ids := hookIDs[st.Name]
				if len(ids) == 0 {
					continue
				}
				out.Println()
				out.Printf("%s:\n  %s\n", st.Label, strings.Join(ids, "\n  "))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&selection, "precommit-hooks-type", "t", []string{stage.DefaultSelection}, "Selection to mark as SELECTED")
	cmd.Flags().BoolVar(&showHooks, "hooks", false, "List the hook ids of every stage")
	_ = cmd.RegisterFlagCompletionFunc("precommit-hooks-type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return stage.Choices(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
