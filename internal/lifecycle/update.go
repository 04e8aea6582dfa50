package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/astral1119/formulary-setup/internal/browser"
	"github.com/astral1119/formulary-setup/internal/gitops"
)

// ErrNotInstalled indicates update was invoked without an installation.
var ErrNotInstalled = errors.New("lifecycle: no installation found, run \"formulary-setup install\" first")

// stashTimestampFormat labels preservation snapshots for traceability.
const stashTimestampFormat = "2006-01-02 15:04:05"

// UpdateStatus distinguishes the two successful update outcomes.
type UpdateStatus int

const (
	UpToDate UpdateStatus = iota
	Updated
)

// UpdateResult reports the outcome of an update run.
type UpdateResult struct {
	Status     UpdateStatus
	Old, New   gitops.RevisionRef
	StashLabel string
}

// Update advances the installation to the latest remote revision.
//
// Uncommitted local modifications are preserved in a timestamped stash
// before any destructive step. When local and remote revisions already
// match, the run is a side-effect-free no-op beyond the fetch.
//
// Dependency re-resolution failure after the hard reset is fatal for
// the invocation, but the revision pointer stays on the new revision:
// the user retries dependency resolution rather than silently rolling
// back to a tree that no longer matches the remote.
func (m *Manager) Update(ctx context.Context) (*UpdateResult, error) {
	state := ProbeState(m.cfg, m.sys)
	if !state.RepoPresent {
		return nil, ErrNotInstalled
	}

	oldRev, err := m.git.Head(ctx)
	if err != nil {
		return nil, fmt.Errorf("read local revision: %w", err)
	}

	var stashLabel string
	dirty, err := m.git.HasUncommittedChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect working tree: %w", err)
	}
	if dirty {
		stashLabel = "formulary-setup update " + time.Now().Format(stashTimestampFormat)
		m.printf("Local modifications detected, preserving them as %q...\n", stashLabel)
		if err := m.git.Stash(ctx, stashLabel); err != nil {
			return nil, fmt.Errorf("preserve local modifications: %w", err)
		}
	}

	m.printf("Fetching %s...\n", m.cfg.Remote)
	if err := m.git.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("fetch remote metadata: %w", err)
	}

	remoteRev, err := m.git.RemoteHead(ctx)
	if err != nil {
		return nil, fmt.Errorf("read remote revision: %w", err)
	}

	if oldRev == remoteRev {
		m.writeUpdateCache(false, oldRev, remoteRev)
		m.printf("%s Already up to date (revision %s).\n", symSuccess(), oldRev)
		return &UpdateResult{Status: UpToDate, Old: oldRev, New: oldRev, StashLabel: stashLabel}, nil
	}

	m.printf("Updating %s -> %s...\n", oldRev, remoteRev)
	if err := m.git.ResetHardToRemote(ctx); err != nil {
		return nil, fmt.Errorf("advance to remote revision: %w", err)
	}

	newRev, err := m.git.Head(ctx)
	if err != nil {
		return nil, fmt.Errorf("read updated revision: %w", err)
	}

	m.printf("Resolving dependencies...\n")
	if err := m.syncDependencies(ctx); err != nil {
		// Intentional asymmetry: the tree stays on newRev.
		m.printf("%s The source tree is now at revision %s, but dependency resolution failed.\n", symError(), newRev)
		m.printf("  Fix the problem and re-run \"formulary-setup update\", or run \"uv sync\" in %s.\n", m.cfg.RepoDir())
		return nil, fmt.Errorf("resolve dependencies after update: %w", err)
	}

	m.reprovisionRuntime(ctx)

	if log, err := m.git.RecentLog(ctx, 5); err == nil && log != "" {
		m.printf("Recent changes:\n%s\n", indent(log))
	}

	m.clearUpdateCache()
	m.printf("%s Updated %s -> %s.\n", symSuccess(), oldRev, newRev)
	return &UpdateResult{Status: Updated, Old: oldRev, New: newRev, StashLabel: stashLabel}, nil
}

// reprovisionRuntime optionally reinstalls the persisted engine's
// assets after an update. Declined by default; failure is a warning.
func (m *Manager) reprovisionRuntime(ctx context.Context) {
	engine := browser.Load(m.cfg.InstallRoot)
	ok, err := m.gate.Confirm(fmt.Sprintf("Reinstall %s runtime assets?", engine), false)
	if err != nil || !ok {
		return
	}
	if err := browser.Provision(ctx, m.sys, m.cfg.RepoDir(), engine); err != nil {
		m.warn("browser provisioning failed: %v", err)
		m.printf("  Run %q later to install the %s engine.\n", "formulary-browsers", engine)
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n  ")
}
