package git

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotResolvable reports that a remote URL matched none of the
// supported locator shapes, or that the extracted path is not a
// valid project identity.
var ErrNotResolvable = errors.New("remote url not resolvable")

// Anchored patterns for the three supported remote locator shapes.
// Order matters: the SSH shorthand also contains a ":" and must be
// tried before the scheme-based shapes so it cannot cross-match.
var locatorPatterns = []*regexp.Regexp{
	// SSH shorthand: git@host:group/project
	regexp.MustCompile(`^[^@/]+@[^:/]+:(.+)$`),
	// HTTPS: https://host/group/project
	regexp.MustCompile(`^https?://[^/]+/(.+)$`),
	// SSH with scheme and optional port:
	// ssh://git@host:2222/group/project
	regexp.MustCompile(`^ssh://[^@]+@[^/]+/(.+)$`),
}

// ResolveProject extracts the "namespace/repository" project path
// from a remote URL. A trailing ".git" suffix is stripped before
// matching. Returns ErrNotResolvable when the URL matches none of
// the supported shapes or the extracted path is not exactly one
// namespace and one repository segment.
func ResolveProject(remoteURL string) (string, error) {
	const errCtx = "resolving project from remote url"

	trimmed := strings.TrimRight(remoteURL, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	if trimmed == "" {
		return "", fmt.Errorf(
			"%s: empty url: %w",
			errCtx, ErrNotResolvable,
		)
	}

	for _, re := range locatorPatterns {
		m := re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		path := m[1]
		if !validProjectPath(path) {
			return "", fmt.Errorf(
				"%s: %q yields invalid project path %q: %w",
				errCtx, remoteURL, path, ErrNotResolvable,
			)
		}

		return path, nil
	}

	return "", fmt.Errorf(
		"%s: %q: %w",
		errCtx, remoteURL, ErrNotResolvable,
	)
}

// validProjectPath reports whether path is exactly
// "namespace/repository" with both segments non-empty.
func validProjectPath(path string) bool {
	ns, repo, ok := strings.Cut(path, "/")
	if !ok {
		return false
	}

	if ns == "" || repo == "" {
		return false
	}

	return !strings.Contains(repo, "/")
}
