package tracker

import (
	"context"
	"fmt"
	"strconv"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/gibr/config"
)

// gitHub fetches issues from a GitHub repository.
type gitHub struct {
	client *gh.Client
	owner  string
	repo   string
}

func newGitHub(cfg config.Tracker) (*gitHub, error) {
	const errCtx = "creating github tracker"

	if cfg.Owner == "" {
		return nil, fmt.Errorf(
			"%s: owner must be set", errCtx,
		)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: repo must be set", errCtx,
		)
	}

	client := gh.NewClient(nil)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}

	return &gitHub{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
	}, nil
}

// GetIssue fetches one issue by number.
func (g *gitHub) GetIssue(
	ctx context.Context,
	id string,
) (*Issue, error) {
	const errCtx = "fetching github issue"

	number, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: id %q is not numeric: %w",
			errCtx, id, err,
		)
	}

	issue, _, err := g.client.Issues.Get(
		ctx, g.owner, g.repo, number,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s/%s#%d: %w",
			errCtx, g.owner, g.repo, number, err,
		)
	}

	assignee := ""
	if issue.Assignee != nil {
		assignee = issue.Assignee.GetLogin()
	}

	return &Issue{
		ID:       id,
		Title:    issue.GetTitle(),
		Assignee: assignee,
		Type:     "issue",
	}, nil
}

// NumericIssues reports that GitHub issue numbers are numeric.
func (g *gitHub) NumericIssues() bool { return true }

// DisplayName names the tracker in user-facing messages.
func (g *gitHub) DisplayName() string { return "GitHub" }
