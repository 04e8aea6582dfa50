package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astral1119/formulary-setup/internal/shell"
)

func (h *harness) installWrappers(t *testing.T) {
	t.Helper()
	wrappers := shell.Wrappers("linux", h.cfg.InstallRoot, h.cfg.RepoDir())
	if err := shell.Install(h.sys, h.cfg.BinDir, wrappers); err != nil {
		t.Fatal(err)
	}
}

func TestUninstallDeclinedTouchesNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.installWrappers(t)
	h.gate.confirms = []bool{false}

	res, err := h.mgr.Uninstall(context.Background(), false)
	if err != nil {
		t.Fatalf("declined uninstall must not be an error: %v", err)
	}
	if res.Outcome != UninstallCancelled {
		t.Fatal("result must report cancellation")
	}
	if _, err := os.Stat(h.cfg.RepoDir()); err != nil {
		t.Error("source tree must survive a declined uninstall")
	}
	if !shell.Present(h.sys, h.cfg.BinDir, shell.PrimaryWrapper) {
		t.Error("wrappers must survive a declined uninstall")
	}
}

func TestUninstallRemovesWrappersAndTree(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.installWrappers(t)
	h.gate.confirms = []bool{true}

	res, err := h.mgr.Uninstall(context.Background(), false)
	if err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if res.Outcome != UninstallDone {
		t.Fatal("uninstall must complete")
	}
	if !res.RepoRemoved {
		t.Error("source tree removal not reported")
	}
	if len(res.RemovedWrappers) != 2 {
		t.Errorf("removed wrappers = %v, want both", res.RemovedWrappers)
	}
	if _, err := os.Stat(h.cfg.RepoDir()); !os.IsNotExist(err) {
		t.Error("source tree still present")
	}
	// No user data existed, so the empty root goes too.
	if !res.RootRemoved {
		t.Error("empty install root must be removed")
	}
	if _, err := os.Stat(h.cfg.InstallRoot); !os.IsNotExist(err) {
		t.Error("install root still present")
	}
}

func TestUninstallMissingWrappersIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.gate.confirms = []bool{true}

	res, err := h.mgr.Uninstall(context.Background(), false)
	if err != nil {
		t.Fatalf("absent wrappers must not fail the uninstall: %v", err)
	}
	if len(res.RemovedWrappers) != 0 {
		t.Errorf("removed wrappers = %v, want none", res.RemovedWrappers)
	}
}

func TestUninstallKeepUserData(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.writeUserData(t, "config.toml")
	h.writeUserData(t, "profiles/default/state")
	// yes to uninstall, no to the purge
	h.gate.confirms = []bool{true, false}

	res, err := h.mgr.Uninstall(context.Background(), false)
	if err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if len(res.KeptData) != 2 {
		t.Errorf("kept = %v, want both present categories", res.KeptData)
	}
	if len(res.PurgedData) != 0 {
		t.Error("declined purge must delete nothing")
	}
	if _, err := os.Stat(filepath.Join(h.cfg.InstallRoot, "config.toml")); err != nil {
		t.Error("kept user data missing")
	}
	if res.RootRemoved {
		t.Error("root must stay while user data remains")
	}
	if !strings.Contains(h.out.String(), h.cfg.InstallRoot) {
		t.Error("output must tell the user where the kept data lives")
	}
}

func TestUninstallPurgeIsAllOrNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.writeUserData(t, "config.toml")
	h.writeUserData(t, "profiles/default/state")
	h.writeUserData(t, "browser_choice")
	// yes to uninstall, yes to the purge
	h.gate.confirms = []bool{true, true}

	res, err := h.mgr.Uninstall(context.Background(), false)
	if err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if len(res.PurgedData) != 3 {
		t.Errorf("purged = %v, want all three present categories", res.PurgedData)
	}
	if !res.RootRemoved {
		t.Error("root must be removed once the purge emptied it")
	}
	if _, err := os.Stat(h.cfg.InstallRoot); !os.IsNotExist(err) {
		t.Error("install root still present after full purge")
	}
}

func TestUninstallSkipConfirmPurgesEverything(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.writeUserData(t, "cache/pkg.whl")

	res, err := h.mgr.Uninstall(context.Background(), true)
	if err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if len(h.gate.confirmPrompts) != 0 {
		t.Errorf("prompts asked with skipConfirm: %v", h.gate.confirmPrompts)
	}
	if len(res.PurgedData) != 1 {
		t.Errorf("purged = %v, want the cache category", res.PurgedData)
	}
	if _, err := os.Stat(h.cfg.InstallRoot); !os.IsNotExist(err) {
		t.Error("install root still present")
	}
}

func TestUninstallLeavesRootWithUnmanagedFiles(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	unmanaged := filepath.Join(h.cfg.InstallRoot, "notes.txt")
	if err := os.WriteFile(unmanaged, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := h.mgr.Uninstall(context.Background(), true)
	if err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if res.RootRemoved {
		t.Error("root with unmanaged files must not be removed")
	}
	if _, err := os.Stat(unmanaged); err != nil {
		t.Error("unmanaged file must survive")
	}
}

func TestUninstallPathCleanupHint(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.installRepo(t)
	h.sys.path = []string{h.cfg.BinDir}
	h.sys.shell = "bash"

	if _, err := h.mgr.Uninstall(context.Background(), true); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	out := h.out.String()
	if !strings.Contains(out, ".bashrc") {
		t.Errorf("cleanup hint must name the profile file:\n%s", out)
	}
}
