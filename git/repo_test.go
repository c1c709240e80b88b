package git_test

import (
	"context"
	oe "os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/gibr/git"
)

func TestRepo_CurrentBranch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)

	rp := git.NewRepo(dir)

	branch, err := rp.CurrentBranch()

	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestRepo_CurrentBranch_detached(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)
	gitCmd(t, dir, "checkout", "--detach")

	rp := git.NewRepo(dir)

	_, err := rp.CurrentBranch()

	assert.ErrorIs(t, err, git.ErrDetachedHead)
}

func TestRepo_RemoteURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)
	gitCmd(
		t, dir, "remote", "add", "origin",
		"git@gitlab.example.com:group/project.git",
	)

	rp := git.NewRepo(dir)

	url, err := rp.RemoteURL()

	require.NoError(t, err)
	assert.Equal(
		t,
		"git@gitlab.example.com:group/project.git",
		url,
	)
}

func TestRepo_RemoteURL_missing_remote(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)

	rp := git.NewRepo(dir)

	_, err := rp.RemoteURL()

	assert.Error(t, err)
}

func TestRepo_Ancestry_no_upstream(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)

	rp := git.NewRepo(dir)

	anc, err := rp.Ancestry("main")

	require.NoError(t, err)
	assert.False(t, anc.HasUpstream)
}

func TestRepo_Ancestry_up_to_date(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)
	addBareRemote(t, dir)
	gitCmd(t, dir, "push", "-u", "origin", "main")

	rp := git.NewRepo(dir)

	anc, err := rp.Ancestry("main")

	require.NoError(t, err)
	assert.True(t, anc.HasUpstream)
	assert.Zero(t, anc.Ahead)
	assert.Zero(t, anc.Behind)
}

func TestRepo_Ancestry_ahead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)
	addBareRemote(t, dir)
	gitCmd(t, dir, "push", "-u", "origin", "main")
	gitCmd(
		t, dir, "commit", "--allow-empty",
		"-m", "second",
	)

	rp := git.NewRepo(dir)

	anc, err := rp.Ancestry("main")

	require.NoError(t, err)
	assert.True(t, anc.HasUpstream)
	assert.Equal(t, 1, anc.Ahead)
	assert.Zero(t, anc.Behind)
}

func TestRepo_Ancestry_behind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)
	addBareRemote(t, dir)
	gitCmd(
		t, dir, "commit", "--allow-empty",
		"-m", "second",
	)
	gitCmd(t, dir, "push", "-u", "origin", "main")
	gitCmd(t, dir, "reset", "--hard", "HEAD~1")

	rp := git.NewRepo(dir)

	anc, err := rp.Ancestry("main")

	require.NoError(t, err)
	assert.True(t, anc.HasUpstream)
	assert.Zero(t, anc.Ahead)
	assert.Equal(t, 1, anc.Behind)
}

func TestRepo_PushSetUpstream(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)
	addBareRemote(t, dir)

	rp := git.NewRepo(dir)

	err := rp.PushSetUpstream("main")

	require.NoError(t, err)

	anc, err := rp.Ancestry("main")

	require.NoError(t, err)
	assert.True(t, anc.HasUpstream)
}

func TestRepo_Push(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)
	addBareRemote(t, dir)
	gitCmd(t, dir, "push", "-u", "origin", "main")
	gitCmd(
		t, dir, "commit", "--allow-empty",
		"-m", "second",
	)

	rp := git.NewRepo(dir)

	err := rp.Push("main")

	require.NoError(t, err)

	anc, err := rp.Ancestry("main")

	require.NoError(t, err)
	assert.Zero(t, anc.Ahead)
}

func TestRepo_Push_no_remote(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)

	rp := git.NewRepo(dir)

	err := rp.Push("main")

	assert.ErrorIs(t, err, git.ErrPushFailed)
}

func TestRepo_CreateBranch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	initGitRepo(t, dir)

	rp := git.NewRepo(dir)

	err := rp.CreateBranch("feature/new")
	require.NoError(t, err)

	branch, err := rp.CurrentBranch()

	require.NoError(t, err)
	assert.Equal(t, "feature/new", branch)
}

// initGitRepo creates a git repository with one
// initial commit. Git hooks are disabled to avoid
// interference from pre-commit hooks.
func initGitRepo(tb testing.TB, dir string) {
	tb.Helper()

	cmds := [][]string{
		{"init", "-b", "main"},
		{
			"config",
			"user.email", "test@test.com",
		},
		{"config", "user.name", "Test"},
		// Disable hooks so pre-commit scanners do
		// not interfere with tests.
		{
			"config", "core.hooksPath",
			"/dev/null",
		},
		{
			"commit", "--allow-empty",
			"-m", "initial",
		},
	}

	for _, args := range cmds {
		gitCmd(tb, dir, args...)
	}
}

// addBareRemote creates a bare repository next to dir and
// registers it as origin.
func addBareRemote(tb testing.TB, dir string) {
	tb.Helper()

	bare := filepath.Join(tb.TempDir(), "remote.git")

	cmd := oe.CommandContext(
		context.Background(),
		"git", "init", "--bare", bare,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		tb.Fatalf(
			"git init --bare failed: %s: %v",
			string(out), err,
		)
	}

	gitCmd(tb, dir, "remote", "add", "origin", bare)
}

// gitCmd runs a git command in the given directory.
func gitCmd(
	tb testing.TB,
	dir string,
	args ...string,
) {
	tb.Helper()

	//nolint:gosec // test helper
	cmd := oe.CommandContext(
		context.Background(), "git", args...,
	)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		tb.Fatalf(
			"git %v failed: %s: %v",
			args, string(out), err,
		)
	}
}
