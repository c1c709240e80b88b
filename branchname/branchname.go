// Package branchname generates branch names from issues using a
// configurable format template.
package branchname

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/gibr/config"
	"github.com/byte4ever/gibr/tracker"
)

// Generate expands format with the issue's fields. Supported
// placeholders: {id}, {title}, {assignee}, {type}. The title is
// slugified; translate it before calling when needed. A format
// requiring {assignee} fails for an unassigned issue, since a
// branch name with a hole in it helps nobody.
func Generate(
	format string,
	issue *tracker.Issue,
) (string, error) {
	const errCtx = "generating branch name"

	if strings.Contains(format, "{assignee}") &&
		issue.Assignee == "" {
		return "", fmt.Errorf(
			"%s: issue %s has no assignee but the "+
				"format requires one: %w",
			errCtx, issue.ID, config.ErrConfig,
		)
	}

	// NewTemplate reports malformed formats (e.g. an unclosed
	// placeholder) instead of panicking like New does; the format
	// comes straight from user configuration.
	tpl, err := fasttemplate.NewTemplate(format, "{", "}")
	if err != nil {
		return "", fmt.Errorf(
			"%s: format %q: %v: %w",
			errCtx, format, err, config.ErrConfig,
		)
	}

	name := tpl.ExecuteString(map[string]any{
		"id":       issue.ID,
		"title":    slug.Make(issue.Title),
		"assignee": slug.Make(issue.Assignee),
		"type":     issue.Type,
	})

	if name == "" {
		return "", fmt.Errorf(
			"%s: format %q produced an empty name: %w",
			errCtx, format, config.ErrConfig,
		)
	}

	return name, nil
}
