package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/byte4ever/gibr/branchname"
	"github.com/byte4ever/gibr/config"
	"github.com/byte4ever/gibr/git"
	"github.com/byte4ever/gibr/notify"
	"github.com/byte4ever/gibr/tracker"
	"github.com/byte4ever/gibr/translate"
)

var createCmd = &cobra.Command{
	Use:   "create ISSUE_ID",
	Short: "Create a branch for an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issueID := args[0]

		if cfg.Tracker.Kind == "" {
			return fmt.Errorf(
				"creating branch: no tracker "+
					"configured: %w",
				config.ErrConfig,
			)
		}

		tr, err := tracker.New(cfg.Tracker)
		if err != nil {
			return err
		}

		if tr.NumericIssues() {
			if _, err := strconv.Atoi(
				issueID,
			); err != nil {
				return fmt.Errorf(
					"creating branch: issue id must "+
						"be numeric for %s: %w",
					tr.DisplayName(),
					config.ErrConfig,
				)
			}
		}

		issue, err := tr.GetIssue(
			cmd.Context(), issueID,
		)
		if err != nil {
			return err
		}

		notify.Info(
			"issue #%s: %s", issue.ID, issue.Title,
		)

		if cfg.TranslateEnabled() {
			issue.Title = translate.New().
				AutoTranslate(
					cmd.Context(), issue.Title,
				)
		}

		name, err := branchname.Generate(
			cfg.BranchFormat(), issue,
		)
		if err != nil {
			return err
		}

		repo := git.NewRepo("")

		if err := repo.CreateBranch(name); err != nil {
			return err
		}

		notify.Success("created branch %q", name)

		if cfg.AutoPush {
			if err := repo.PushSetUpstream(
				name,
			); err != nil {
				return err
			}

			notify.Success(
				"pushed branch %q to %s",
				name, repo.Remote(),
			)
		}

		return nil
	},
}
