package tracker

import (
	"context"
	"fmt"
	"strconv"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/gibr/config"
)

// gitLab fetches issues from a GitLab project.
type gitLab struct {
	client  *gl.Client
	project string
}

func newGitLab(cfg config.Tracker) (*gitLab, error) {
	const errCtx = "creating gitlab tracker"

	if cfg.Project == "" {
		return nil, fmt.Errorf(
			"%s: project must be set", errCtx,
		)
	}

	host := cfg.URL
	if host == "" {
		host = "https://gitlab.com"
	}

	client, err := gl.NewClient(
		cfg.Token,
		gl.WithBaseURL(host),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &gitLab{
		client:  client,
		project: cfg.Project,
	}, nil
}

// GetIssue fetches one issue by project-local iid.
func (g *gitLab) GetIssue(
	ctx context.Context,
	id string,
) (*Issue, error) {
	const errCtx = "fetching gitlab issue"

	iid, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: id %q is not numeric: %w",
			errCtx, id, err,
		)
	}

	issue, _, err := g.client.Issues.GetIssue(
		g.project, int64(iid), gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s#%d: %w",
			errCtx, g.project, iid, err,
		)
	}

	assignee := ""
	if issue.Assignee != nil {
		assignee = issue.Assignee.Username
	}

	return &Issue{
		ID:       id,
		Title:    issue.Title,
		Assignee: assignee,
		Type:     "issue",
	}, nil
}

// NumericIssues reports that GitLab issue iids are numeric.
func (g *gitLab) NumericIssues() bool { return true }

// DisplayName names the tracker in user-facing messages.
func (g *gitLab) DisplayName() string { return "GitLab" }
