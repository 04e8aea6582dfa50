// Package gitops wraps the git client as an opaque external process.
// Only exit status and selected stdout text (revision hashes, log
// lines) are ever interpreted.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/astral1119/formulary-setup/internal/platform"
)

// RevisionRef is an opaque identifier of a checked-out source revision.
// Refs are compared by equality only, never parsed or ordered.
type RevisionRef string

// ErrGit indicates a git invocation failed.
var ErrGit = errors.New("gitops: git command failed")

// Service is the VCS surface the orchestrators consume. The concrete
// Runner shells out to git; tests substitute a stub.
type Service interface {
	Clone(ctx context.Context, url, branch, dir string) error
	Fetch(ctx context.Context) error
	Head(ctx context.Context) (RevisionRef, error)
	RemoteHead(ctx context.Context) (RevisionRef, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
	Stash(ctx context.Context, label string) error
	ResetHardToRemote(ctx context.Context) error
	RecentLog(ctx context.Context, count int) (string, error)
}

// Compile-time interface compliance check.
var _ Service = (*Runner)(nil)

// Runner implements Service by invoking git through the platform
// adapter, always against a fixed working tree.
type Runner struct {
	sys     platform.Adapter
	repoDir string
	remote  string
	branch  string
}

// NewRunner creates a Runner bound to repoDir and the tracked
// remote/branch pair.
func NewRunner(sys platform.Adapter, repoDir, remote, branch string) *Runner {
	return &Runner{sys: sys, repoDir: repoDir, remote: remote, branch: branch}
}

// Clone acquires the source tree into dir. It runs outside the repo
// directory because the tree does not exist yet.
func (r *Runner) Clone(ctx context.Context, url, branch, dir string) error {
	result := r.sys.RunProcess(ctx, "", "git", "clone", "--branch", branch, url, dir)
	return r.check("clone", result)
}

// Fetch updates remote revision metadata for the tracked remote.
func (r *Runner) Fetch(ctx context.Context) error {
	result := r.sys.RunProcess(ctx, r.repoDir, "git", "fetch", r.remote)
	return r.check("fetch", result)
}

// Head returns the short hash of the local HEAD revision.
func (r *Runner) Head(ctx context.Context) (RevisionRef, error) {
	return r.revParse(ctx, "HEAD")
}

// RemoteHead returns the short hash of the tracked remote branch. Call
// Fetch first; this only inspects already-fetched metadata.
func (r *Runner) RemoteHead(ctx context.Context) (RevisionRef, error) {
	return r.revParse(ctx, r.remote+"/"+r.branch)
}

// HasUncommittedChanges reports whether the working tree has local
// modifications relative to HEAD. diff-index exits 1 when it does.
func (r *Runner) HasUncommittedChanges(ctx context.Context) (bool, error) {
	// Refresh the index first so stat-only differences don't count.
	_ = r.sys.RunProcess(ctx, r.repoDir, "git", "update-index", "-q", "--refresh")

	result := r.sys.RunProcess(ctx, r.repoDir, "git", "diff-index", "--quiet", "HEAD", "--")
	if result.Err != nil {
		return false, fmt.Errorf("%w: diff-index: %v", ErrGit, result.Err)
	}
	switch result.ExitCode {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: diff-index exited %d: %s", ErrGit, result.ExitCode, result.Stderr)
	}
}

// Stash preserves uncommitted modifications under the given label,
// including untracked files.
func (r *Runner) Stash(ctx context.Context, label string) error {
	result := r.sys.RunProcess(ctx, r.repoDir, "git", "stash", "push", "--include-untracked", "-m", label)
	return r.check("stash", result)
}

// ResetHardToRemote forces the working tree to exactly match the
// tracked remote branch. Local history is discarded: this is a
// deployed-artifact tree, not a development workspace.
func (r *Runner) ResetHardToRemote(ctx context.Context) error {
	result := r.sys.RunProcess(ctx, r.repoDir, "git", "reset", "--hard", r.remote+"/"+r.branch)
	return r.check("reset --hard", result)
}

// RecentLog returns a one-line-per-commit log of the most recent count
// revisions for user-facing display.
func (r *Runner) RecentLog(ctx context.Context, count int) (string, error) {
	result := r.sys.RunProcess(ctx, r.repoDir, "git", "log", "--oneline", fmt.Sprintf("-%d", count))
	if !result.Success() {
		return "", r.check("log", result)
	}
	return result.Stdout, nil
}

func (r *Runner) revParse(ctx context.Context, ref string) (RevisionRef, error) {
	result := r.sys.RunProcess(ctx, r.repoDir, "git", "rev-parse", "--short", ref)
	if !result.Success() {
		return "", r.check("rev-parse "+ref, result)
	}
	rev := RevisionRef(strings.TrimSpace(result.Stdout))
	if rev == "" {
		return "", fmt.Errorf("%w: rev-parse %s produced no output", ErrGit, ref)
	}
	return rev, nil
}

// check converts a failed ProcResult into a wrapped ErrGit.
func (r *Runner) check(op string, result platform.ProcResult) error {
	if result.Success() {
		return nil
	}
	if result.Err != nil {
		return fmt.Errorf("%w: %s: %v", ErrGit, op, result.Err)
	}
	detail := result.Stderr
	if detail == "" {
		detail = result.Stdout
	}
	return fmt.Errorf("%w: %s exited %d: %s", ErrGit, op, result.ExitCode, detail)
}
