package main

import (
	"github.com/spf13/cobra"

	"github.com/byte4ever/gibr/git"
	"github.com/byte4ever/gibr/gitlab"
	"github.com/byte4ever/gibr/mr"
	"github.com/byte4ever/gibr/notify"
	"github.com/byte4ever/gibr/tracker"
	"github.com/byte4ever/gibr/translate"
)

var (
	mrTarget       string
	mrTitle        string
	mrDescription  string
	mrNoPush       bool
	mrKeepSource   bool
	mrRemoveSource bool
)

var mrCmd = &cobra.Command{
	Use:   "mr",
	Short: "Create a merge request for the current branch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := mr.Options{
			Config:   cfg,
			Checkout: git.NewRepo(""),
			NewService: func(
				project string,
			) (mr.Service, error) {
				cl, err := gitlab.NewClient(
					gitlab.Config{
						URL:      cfg.GitLabMR.URL,
						Token:    cfg.GitLabMR.Token,
						Project:  project,
						Insecure: cfg.GitLabMR.Insecure,
					},
				)
				if err != nil {
					return nil, err
				}

				return cl, nil
			},
			Target:          mrTarget,
			Title:           mrTitle,
			Description:     mrDescription,
			NoPush:          mrNoPush,
			KeepSourceSet:   mrKeepSource,
			RemoveSourceSet: mrRemoveSource,
		}

		if cfg.Tracker.Kind != "" {
			tr, err := tracker.New(cfg.Tracker)
			if err != nil {
				return err
			}

			opts.Tracker = tr
			opts.Translator = translate.New()
		}

		created, err := mr.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		notify.Success(
			"merge request created: !%d - %s",
			created.IID, created.Title,
		)
		notify.Info(
			"  source: %s", created.SourceBranch,
		)
		notify.Info(
			"  target: %s", created.TargetBranch,
		)
		notify.Line(created.WebURL)

		return nil
	},
}

func init() {
	mrCmd.Flags().StringVarP(
		&mrTarget, "target", "t", "",
		"Target branch (defaults to the project's "+
			"default branch)",
	)
	mrCmd.Flags().StringVar(
		&mrTitle, "title", "",
		"Merge request title (defaults to the branch "+
			"name)",
	)
	mrCmd.Flags().StringVarP(
		&mrDescription, "description", "d", "",
		"Merge request description",
	)
	mrCmd.Flags().BoolVar(
		&mrNoPush, "no-push", false,
		"Skip pushing the branch (use if already "+
			"pushed)",
	)
	mrCmd.Flags().BoolVar(
		&mrKeepSource, "keep-source", false,
		"Keep the source branch after merge",
	)
	mrCmd.Flags().BoolVar(
		&mrRemoveSource, "remove-source", false,
		"Remove the source branch after merge",
	)
}
