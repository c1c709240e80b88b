package git

import (
	"errors"
	"fmt"
)

// ErrDiverged reports that the local branch is behind its remote
// counterpart or has diverged from it. Resolution is left to the
// operator; the tool never force-pushes.
var ErrDiverged = errors.New("branch diverged from remote")

// SyncAction is the push action required to bring the remote in
// line with the local branch.
type SyncAction int

const (
	// UpToDate means local and remote tips are identical.
	UpToDate SyncAction = iota
	// NeedsInitialPush means the branch has no remote counterpart
	// and must be pushed with upstream tracking.
	NeedsInitialPush
	// NeedsFastForwardPush means the local branch is strictly
	// ahead and a plain push suffices.
	NeedsFastForwardPush
)

// String returns a short name for the action.
func (a SyncAction) String() string {
	switch a {
	case UpToDate:
		return "up_to_date"
	case NeedsInitialPush:
		return "needs_initial_push"
	case NeedsFastForwardPush:
		return "needs_fast_forward_push"
	default:
		return fmt.Sprintf("sync_action(%d)", int(a))
	}
}

// SyncPlan is the result of reconciling a branch against its
// remote counterpart.
type SyncPlan struct {
	// Branch is the local branch the plan applies to.
	Branch string
	// Remote is the remote name the plan pushes to.
	Remote string
	// Action is the required push action.
	Action SyncAction
}

// PlanSync decides what push action branch requires given its
// ancestry relative to remote. Pure function: the only side effects
// happen later in ExecuteSyncPlan. Returns ErrDiverged when the
// local branch is behind or has diverged, since fixing that needs
// an operator decision.
func PlanSync(
	branch string,
	remote string,
	anc Ancestry,
) (SyncPlan, error) {
	const errCtx = "planning branch sync"

	plan := SyncPlan{
		Branch: branch,
		Remote: remote,
	}

	if !anc.HasUpstream {
		plan.Action = NeedsInitialPush

		return plan, nil
	}

	if anc.Behind > 0 {
		return SyncPlan{}, fmt.Errorf(
			"%s: %s is %d behind and %d ahead of %s: %w",
			errCtx, branch, anc.Behind, anc.Ahead,
			remote, ErrDiverged,
		)
	}

	if anc.Ahead > 0 {
		plan.Action = NeedsFastForwardPush

		return plan, nil
	}

	plan.Action = UpToDate

	return plan, nil
}

// ExecuteSyncPlan performs the push the plan calls for. UpToDate
// is a no-op.
func (r *Repo) ExecuteSyncPlan(plan SyncPlan) error {
	switch plan.Action {
	case NeedsInitialPush:
		return r.PushSetUpstream(plan.Branch)
	case NeedsFastForwardPush:
		return r.Push(plan.Branch)
	case UpToDate:
		return nil
	default:
		return fmt.Errorf(
			"executing sync plan: unknown action %v",
			plan.Action,
		)
	}
}
