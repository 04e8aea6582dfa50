package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/astral1119/formulary-setup/internal/shell"
	"github.com/astral1119/formulary-setup/internal/ui"
)

// UninstallOutcome distinguishes cancellation from completion.
type UninstallOutcome int

const (
	UninstallCancelled UninstallOutcome = iota
	UninstallDone
)

// UninstallResult reports what the uninstall run removed and kept.
type UninstallResult struct {
	Outcome         UninstallOutcome
	RemovedWrappers []string
	RepoRemoved     bool
	PurgedData      []Category
	KeptData        []Category
	RootRemoved     bool
}

// Uninstall removes the managed installation. Only the two launcher
// wrappers and the install root are ever touched; startup files and
// anything else on disk stay intact.
//
// User data is handled separately: the categories present on disk are
// inventoried and either all purged or all kept, decided by a single
// confirmation. skipConfirm answers yes to every prompt, including the
// purge.
func (m *Manager) Uninstall(ctx context.Context, skipConfirm bool) (*UninstallResult, error) {
	state := ProbeState(m.cfg, m.sys)

	if !skipConfirm {
		m.printf("This removes the Formulary installation at %s.\n", m.cfg.InstallRoot)
		ok, err := m.gate.Confirm("Uninstall Formulary?", false)
		if err != nil && !errors.Is(err, ui.ErrCancelled) {
			return nil, err
		}
		if err != nil || !ok {
			m.printf("Uninstall cancelled. Nothing was removed.\n")
			return &UninstallResult{Outcome: UninstallCancelled}, nil
		}
	}

	result := &UninstallResult{Outcome: UninstallDone}

	for _, name := range []string{shell.PrimaryWrapper, shell.BrowserWrapper} {
		removed, err := shell.Remove(m.sys, m.cfg.BinDir, name)
		if err != nil {
			m.warn("could not remove wrapper %s: %v", name, err)
			continue
		}
		if removed {
			result.RemovedWrappers = append(result.RemovedWrappers, name)
			m.printf("%s Removed wrapper %s.\n", symSuccess(), name)
		}
	}

	if state.RepoPresent {
		if err := os.RemoveAll(m.cfg.RepoDir()); err != nil {
			return nil, fmt.Errorf("remove source tree: %w", err)
		}
		result.RepoRemoved = true
		m.printf("%s Removed source tree %s.\n", symSuccess(), m.cfg.RepoDir())
	}
	m.clearUpdateCache()

	present := PresentCategories(m.cfg.InstallRoot)
	if len(present) == 0 {
		result.RootRemoved = m.removeRootIfEmpty()
		m.printf("%s Formulary uninstalled.\n", symSuccess())
		m.pathCleanupHint(state)
		return result, nil
	}

	m.printf("User data found at %s:\n", m.cfg.InstallRoot)
	for _, c := range present {
		m.printf("  %s %s (%s)\n", styleMuted.Render("-"), c.Name, c.Description)
	}

	purge := skipConfirm
	if !skipConfirm {
		ok, err := m.gate.Confirm("Delete all user data too?", false)
		if err != nil && !errors.Is(err, ui.ErrCancelled) {
			return nil, err
		}
		purge = err == nil && ok
	}

	if purge {
		if err := PurgeCategories(m.cfg.InstallRoot, present); err != nil {
			return nil, fmt.Errorf("purge user data: %w", err)
		}
		result.PurgedData = present
		result.RootRemoved = m.removeRootIfEmpty()
		m.printf("%s User data deleted.\n", symSuccess())
	} else {
		result.KeptData = present
		m.printf("User data kept at %s.\n", m.cfg.InstallRoot)
	}

	m.printf("%s Formulary uninstalled.\n", symSuccess())
	m.pathCleanupHint(state)
	return result, nil
}

// removeRootIfEmpty removes the install root only when it holds no
// entries. Unknown files are never force-removed.
func (m *Manager) removeRootIfEmpty() bool {
	entries, err := os.ReadDir(m.cfg.InstallRoot)
	if err != nil {
		return false
	}
	if len(entries) > 0 {
		m.printf("Leaving %s in place: it contains unmanaged files.\n", m.cfg.InstallRoot)
		return false
	}
	if err := os.Remove(m.cfg.InstallRoot); err != nil {
		m.warn("could not remove %s: %v", m.cfg.InstallRoot, err)
		return false
	}
	return true
}

// pathCleanupHint reminds the user about the PATH line added during
// install. Startup files are never edited here either.
func (m *Manager) pathCleanupHint(state *InstallationState) {
	if !state.PathConfigured {
		return
	}
	dialect := shell.DetectDialect(m.sys.ShellName())
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	hint := shell.ProfileFor(dialect, home, m.cfg.BinDir)
	m.printf("If you added %s to your PATH for Formulary, you can now remove that line from %s.\n",
		m.cfg.BinDir, hint.File)
}
