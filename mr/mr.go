// Package mr orchestrates merge request creation: it guards the
// flag combination, resolves the target project from the remote
// URL when not configured, reconciles the current branch with the
// remote, pushes when required, and submits the creation call.
//
// The main entry point is Run, which accepts an Options struct
// with all parameters for the workflow.
package mr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/byte4ever/gibr/config"
	"github.com/byte4ever/gibr/git"
	"github.com/byte4ever/gibr/gitlab"
	"github.com/byte4ever/gibr/notify"
	"github.com/byte4ever/gibr/tracker"
	"github.com/byte4ever/gibr/translate"
)

// Checkout is the local source-control capability Run needs.
// *git.Repo implements it.
type Checkout interface {
	CurrentBranch() (string, error)
	RemoteURL() (string, error)
	Remote() string
	Ancestry(branch string) (git.Ancestry, error)
	ExecuteSyncPlan(plan git.SyncPlan) error
}

// Service is the remote service capability Run needs.
// *gitlab.Client implements it.
type Service interface {
	Validate(ctx context.Context) error
	DefaultBranch(ctx context.Context) (string, error)
	CreateMergeRequest(
		ctx context.Context,
		spec gitlab.MergeRequestSpec,
	) (*gitlab.MergeRequest, error)
}

// Options holds all settings for one merge request creation run.
type Options struct {
	// Config is the loaded configuration.
	Config *config.Config

	// Checkout is the local repository adapter.
	Checkout Checkout

	// NewService builds the service client once the project path
	// is known. The transport policy is applied inside.
	NewService func(project string) (Service, error)

	// Tracker is the optional issue tracker used for auto-titles.
	// Nil disables tracker lookups.
	Tracker tracker.Tracker

	// Translator translates tracker titles. Nil disables
	// translation.
	Translator *translate.Translator

	// Target is the target branch override. Empty means the
	// project's default branch.
	Target string

	// Title is the title override. Empty means derived.
	Title string

	// Description is the merge request description.
	Description string

	// NoPush suppresses branch reconciliation and pushing.
	NoPush bool

	// KeepSourceSet is true when --keep-source was given.
	KeepSourceSet bool

	// RemoveSourceSet is true when --remove-source was given.
	RemoveSourceSet bool
}

// Run executes the merge request creation workflow and returns
// the created merge request handle.
func Run(
	ctx context.Context,
	opts Options,
) (*gitlab.MergeRequest, error) {
	const errCtx = "creating merge request"

	// Conflicting flags are a hard configuration error, checked
	// before anything touches the network.
	if opts.KeepSourceSet && opts.RemoveSourceSet {
		return nil, fmt.Errorf(
			"%s: --keep-source and --remove-source "+
				"are mutually exclusive: %w",
			errCtx, config.ErrConfig,
		)
	}

	if err := opts.Config.ValidateMR(); err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	project, err := resolveProject(opts)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	svc, err := opts.NewService(project)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	if err := svc.Validate(ctx); err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	branch, err := opts.Checkout.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	if opts.NoPush {
		notify.Info("using current branch: %s", branch)
	} else if err := syncBranch(
		opts.Checkout, branch,
	); err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	spec, err := buildSpec(ctx, opts, svc, branch)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	notify.Info(
		"creating merge request %s -> %s on %s",
		spec.SourceBranch, spec.TargetBranch, project,
	)

	created, err := svc.CreateMergeRequest(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return created, nil
}

// resolveProject returns the configured project path, deriving it
// from the remote URL when not explicitly set. Derivation failure
// is terminal; a guessed project would create the MR in the wrong
// place.
func resolveProject(opts Options) (string, error) {
	if p := opts.Config.GitLabMR.Project; p != "" {
		slog.Debug(
			"using configured project", "project", p,
		)

		return p, nil
	}

	remoteURL, err := opts.Checkout.RemoteURL()
	if err != nil {
		return "", fmt.Errorf(
			"detecting project: %w", err,
		)
	}

	project, err := git.ResolveProject(remoteURL)
	if err != nil {
		return "", err
	}

	notify.Info(
		"auto-detected project from git remote: %s",
		project,
	)

	return project, nil
}

// syncBranch reconciles branch with its remote counterpart and
// pushes when the plan asks for it.
func syncBranch(co Checkout, branch string) error {
	anc, err := co.Ancestry(branch)
	if err != nil {
		return err
	}

	plan, err := git.PlanSync(
		branch, co.Remote(), anc,
	)
	if err != nil {
		return err
	}

	switch plan.Action {
	case git.UpToDate:
		notify.Info(
			"branch %q is up to date with %s",
			branch, plan.Remote,
		)

		return nil
	case git.NeedsInitialPush:
		notify.Info(
			"branch %q not on %s yet, pushing",
			branch, plan.Remote,
		)
	case git.NeedsFastForwardPush:
		notify.Info(
			"branch %q is ahead of %s, pushing",
			branch, plan.Remote,
		)
	}

	if err := co.ExecuteSyncPlan(plan); err != nil {
		return err
	}

	notify.Success(
		"pushed branch %q to %s", branch, plan.Remote,
	)

	return nil
}

// buildSpec assembles the creation payload: title and target
// defaulting plus the keep/remove decision.
func buildSpec(
	ctx context.Context,
	opts Options,
	svc Service,
	branch string,
) (gitlab.MergeRequestSpec, error) {
	title := opts.Title
	if title == "" {
		title = autoTitle(ctx, opts, branch)
	}

	target := opts.Target
	if target == "" {
		var err error

		target, err = svc.DefaultBranch(ctx)
		if err != nil {
			return gitlab.MergeRequestSpec{}, err
		}

		slog.Debug(
			"using default target branch",
			"target", target,
		)
	}

	return gitlab.MergeRequestSpec{
		SourceBranch:       branch,
		TargetBranch:       target,
		Title:              title,
		Description:        opts.Description,
		RemoveSourceBranch: removeSource(opts),
	}, nil
}

// removeSource decides the remove_source_branch payload value.
// Explicit flags win over the config default; with neither flag
// set the source branch is kept.
func removeSource(opts Options) bool {
	switch {
	case opts.KeepSourceSet:
		return false
	case opts.RemoveSourceSet:
		return true
	case opts.Config.GitLabMR.KeepSource:
		return false
	default:
		return false
	}
}

// autoTitle derives the title from the issue tracker when the
// branch carries an issue key, falling back to the branch name.
// Tracker trouble is advisory: the MR still gets created.
func autoTitle(
	ctx context.Context,
	opts Options,
	branch string,
) string {
	if opts.Tracker == nil {
		return branch
	}

	key := tracker.ExtractIssueKey(branch)
	if key == "" {
		slog.Debug(
			"no issue key in branch name",
			"branch", branch,
		)

		return branch
	}

	issue, err := opts.Tracker.GetIssue(ctx, key)
	if err != nil {
		notify.Warning(
			"could not fetch issue %s, using branch "+
				"name as title",
			key,
		)
		slog.Debug(
			"tracker lookup failed",
			"key", key, "error", err,
		)

		return branch
	}

	issueTitle := issue.Title
	if opts.Translator != nil &&
		opts.Config.TranslateEnabled() {
		issueTitle = opts.Translator.AutoTranslate(
			ctx, issueTitle,
		)
	}

	title := fmt.Sprintf("%s: %s", issue.ID, issueTitle)

	notify.Info("auto-generated title: %s", title)

	return title
}

// FailureKind names the error kind for the exit message.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, config.ErrConfig):
		return "configuration error"
	case errors.Is(err, git.ErrDetachedHead):
		return "detached HEAD"
	case errors.Is(err, git.ErrDiverged):
		return "diverged history"
	case errors.Is(err, git.ErrNotResolvable):
		return "configuration error"
	case errors.Is(err, git.ErrPushFailed):
		return "push failure"
	case errors.Is(err, gitlab.ErrAuth):
		return "auth error"
	case errors.Is(err, gitlab.ErrConnectivity):
		return "connectivity error"
	case errors.Is(err, gitlab.ErrUnknownProject):
		return "unknown project"
	case errors.Is(err, gitlab.ErrRejected):
		return "remote rejected"
	default:
		return "error"
	}
}
