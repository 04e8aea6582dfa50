package lifecycle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astral1119/formulary-setup/internal/shell"
)

func TestProbeStateFreshSystem(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	state := ProbeState(h.cfg, h.sys)

	if state.RepoPresent {
		t.Error("RepoPresent = true on a fresh system")
	}
	if state.Wrappers[shell.PrimaryWrapper] || state.Wrappers[shell.BrowserWrapper] {
		t.Error("wrappers reported present on a fresh system")
	}
	if len(state.UserData) != 0 {
		t.Errorf("UserData = %v on a fresh system", state.UserData)
	}
}

func TestProbeStateTreeWithoutGitIsNotAnInstallation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := os.MkdirAll(filepath.Join(h.cfg.RepoDir(), "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	if ProbeState(h.cfg, h.sys).RepoPresent {
		t.Error("a source directory without a repository must not count as installed")
	}
}

func TestProbeStateReflectsDiskImmediately(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.writeUserData(t, "browser_choice")

	state := ProbeState(h.cfg, h.sys)
	if !state.RepoPresent {
		t.Error("RepoPresent = false with a cloned tree")
	}
	if len(state.UserData) != 1 {
		t.Errorf("UserData = %v, want the browser choice", state.UserData)
	}

	// External deletion shows up on the next probe; nothing is cached.
	if err := os.RemoveAll(h.cfg.RepoDir()); err != nil {
		t.Fatal(err)
	}
	if ProbeState(h.cfg, h.sys).RepoPresent {
		t.Error("probe must reflect external deletion")
	}
}

func TestProbeStatePathConfigured(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.sys.path = []string{"/usr/bin", h.cfg.BinDir}

	if !ProbeState(h.cfg, h.sys).PathConfigured {
		t.Error("PathConfigured = false with the bin dir on the search path")
	}
}
