// Package tracker fetches issues from the configured issue
// tracker. Issues feed branch-name generation and merge request
// auto-titles; tracker problems are advisory there, so callers
// degrade instead of aborting.
package tracker

import (
	"context"
	"fmt"
	"regexp"

	"github.com/byte4ever/gibr/config"
)

// Issue is the tracker-agnostic view of one issue.
type Issue struct {
	// ID is the tracker identifier ("123" or "PROJ-123").
	ID string
	// Title is the issue summary.
	Title string
	// Assignee is the login of the assigned user, empty when
	// unassigned.
	Assignee string
	// Type is the issue kind ("issue", "bug", ...).
	Type string
}

// Tracker fetches issues from an issue tracker.
//
// Pattern: Strategy -- swap tracker backends without changing
// branch or title generation.
type Tracker interface {
	// GetIssue fetches one issue by identifier.
	GetIssue(ctx context.Context, id string) (*Issue, error)
	// NumericIssues reports whether identifiers must be numeric.
	NumericIssues() bool
	// DisplayName names the tracker in user-facing messages.
	DisplayName() string
}

// issueKeyPattern matches Jira-style issue keys embedded in branch
// names (e.g. "PROJ-123" in "feature/PROJ-123-login").
var issueKeyPattern = regexp.MustCompile(
	`([A-Z][A-Z0-9_]*-\d+)`,
)

// ExtractIssueKey returns the first issue key found in the branch
// name, or empty when there is none.
func ExtractIssueKey(branch string) string {
	return issueKeyPattern.FindString(branch)
}

// New builds the tracker selected by cfg.Kind.
//
// Pattern: Factory -- selects tracker implementation at runtime.
func New(cfg config.Tracker) (Tracker, error) {
	const errCtx = "creating issue tracker"

	switch cfg.Kind {
	case "github":
		tr, err := newGitHub(cfg)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return tr, nil

	case "gitlab":
		tr, err := newGitLab(cfg)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return tr, nil

	case "jira":
		tr, err := newJira(cfg)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return tr, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown kind %q",
			errCtx, cfg.Kind,
		)
	}
}
