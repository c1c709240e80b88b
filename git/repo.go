package git

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/byte4ever/gibr/exec"
)

// ErrDetachedHead reports that the repository HEAD does not point
// to a named branch.
var ErrDetachedHead = errors.New("detached HEAD")

// ErrPushFailed reports that a push operation was rejected or
// could not reach the remote.
var ErrPushFailed = errors.New("push failed")

// Repo is a local git checkout. The zero RemoteName defaults to
// "origin" via NewRepo.
type Repo struct {
	// Dir is the filesystem location of the checkout. Empty means
	// the current working directory.
	Dir string
	// RemoteName is the name of the remote used for pushes and
	// project resolution.
	RemoteName string
}

// NewRepo returns a Repo rooted at dir using the "origin" remote.
func NewRepo(dir string) *Repo {
	return &Repo{
		Dir:        dir,
		RemoteName: "origin",
	}
}

// Remote returns the remote name used for pushes.
func (r *Repo) Remote() string {
	return r.RemoteName
}

// CurrentBranch returns the name of the checked-out branch.
// Returns ErrDetachedHead when HEAD is not on a branch.
func (r *Repo) CurrentBranch() (string, error) {
	const errCtx = "reading current branch"

	name, err := exec.Out(
		r.Dir, "git",
		"symbolic-ref", "--short", "-q", "HEAD",
	)
	if err != nil {
		// symbolic-ref exits non-zero for a detached HEAD.
		return "", fmt.Errorf(
			"%s: %w", errCtx, ErrDetachedHead,
		)
	}

	if name == "" {
		return "", fmt.Errorf(
			"%s: %w", errCtx, ErrDetachedHead,
		)
	}

	return name, nil
}

// RemoteURL returns the fetch URL of the configured remote.
func (r *Repo) RemoteURL() (string, error) {
	const errCtx = "reading remote url"

	url, err := exec.Out(
		r.Dir, "git",
		"remote", "get-url", r.RemoteName,
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s: remote %s: %w",
			errCtx, r.RemoteName, err,
		)
	}

	return url, nil
}

// Ancestry describes how a local branch relates to its counterpart
// on the remote.
type Ancestry struct {
	// HasUpstream is true when the remote tracking ref exists.
	HasUpstream bool
	// Ahead is the number of local commits the remote lacks.
	Ahead int
	// Behind is the number of remote commits the local branch
	// lacks.
	Behind int
}

// Ancestry computes the relationship between branch and
// <remote>/<branch>. The remote tracking ref is probed locally;
// no network traffic is involved.
func (r *Repo) Ancestry(branch string) (Ancestry, error) {
	const errCtx = "computing branch ancestry"

	remoteRef := fmt.Sprintf(
		"refs/remotes/%s/%s", r.RemoteName, branch,
	)

	_, err := exec.Out(
		r.Dir, "git",
		"rev-parse", "--verify", "--quiet", remoteRef,
	)
	if err != nil {
		// No tracking ref on the remote yet.
		return Ancestry{HasUpstream: false}, nil
	}

	counts, err := exec.Out(
		r.Dir, "git",
		"rev-list", "--left-right", "--count",
		branch+"..."+remoteRef,
	)
	if err != nil {
		return Ancestry{}, fmt.Errorf(
			"%s: branch %s: %w", errCtx, branch, err,
		)
	}

	ahead, behind, err := parseCounts(counts)
	if err != nil {
		return Ancestry{}, fmt.Errorf(
			"%s: branch %s: %w", errCtx, branch, err,
		)
	}

	return Ancestry{
		HasUpstream: true,
		Ahead:       ahead,
		Behind:      behind,
	}, nil
}

// parseCounts parses the "<ahead>\t<behind>" output of
// rev-list --left-right --count.
func parseCounts(out string) (int, int, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf(
			"unexpected rev-list output %q", out,
		)
	}

	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf(
			"parse ahead count: %w", err,
		)
	}

	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf(
			"parse behind count: %w", err,
		)
	}

	return ahead, behind, nil
}

// Push pushes branch to the remote.
func (r *Repo) Push(branch string) error {
	const errCtx = "pushing branch"

	out, err := exec.Ex(
		r.Dir, "git",
		"push", r.RemoteName,
		branch+":"+branch,
	)
	if err != nil {
		return fmt.Errorf(
			"%s: %s to %s: %s: %w",
			errCtx, branch, r.RemoteName,
			strings.TrimSpace(out), ErrPushFailed,
		)
	}

	return nil
}

// PushSetUpstream pushes branch to the remote and records it as
// the branch's upstream.
func (r *Repo) PushSetUpstream(branch string) error {
	const errCtx = "pushing branch with upstream"

	out, err := exec.Ex(
		r.Dir, "git",
		"push", "--set-upstream", r.RemoteName,
		branch+":"+branch,
	)
	if err != nil {
		return fmt.Errorf(
			"%s: %s to %s: %s: %w",
			errCtx, branch, r.RemoteName,
			strings.TrimSpace(out), ErrPushFailed,
		)
	}

	return nil
}

// CreateBranch creates branch at HEAD and checks it out.
func (r *Repo) CreateBranch(branch string) error {
	const errCtx = "creating branch"

	if out, err := exec.Ex(
		r.Dir, "git", "checkout", "-b", branch,
	); err != nil {
		return fmt.Errorf(
			"%s: %s: %s: %w",
			errCtx, branch,
			strings.TrimSpace(out), err,
		)
	}

	return nil
}
