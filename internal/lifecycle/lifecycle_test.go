package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/astral1119/formulary-setup/internal/config"
	"github.com/astral1119/formulary-setup/internal/gitops"
	"github.com/astral1119/formulary-setup/internal/platform"
)

// fakeSystem is an in-memory platform adapter. Processes succeed unless
// a command prefix is listed in failures.
type fakeSystem struct {
	commands []string
	failures map[string]platform.ProcResult
	path     []string
	shell    string
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{failures: map[string]platform.ProcResult{}, shell: "zsh"}
}

func (f *fakeSystem) RunProcess(_ context.Context, dir, name string, args ...string) platform.ProcResult {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.commands = append(f.commands, cmd)
	for prefix, res := range f.failures {
		if strings.HasPrefix(cmd, prefix) {
			return res
		}
	}
	return platform.ProcResult{ExitCode: 0}
}

func (f *fakeSystem) RunScript(_ context.Context, _ string) platform.ProcResult {
	return platform.ProcResult{ExitCode: 0}
}

func (f *fakeSystem) WriteExecutable(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o755)
}

func (f *fakeSystem) SearchPath() []string { return f.path }

func (f *fakeSystem) LookPath(string) bool { return true }

func (f *fakeSystem) ShellName() string { return f.shell }

func (f *fakeSystem) ExecutableName(b string) string { return b }

func (f *fakeSystem) ran(prefix string) bool {
	for _, cmd := range f.commands {
		if strings.HasPrefix(cmd, prefix) {
			return true
		}
	}
	return false
}

// fakeGit simulates the repository state transitions the orchestrators
// drive. Clone materializes a .git directory so state probes see it.
type fakeGit struct {
	local    gitops.RevisionRef
	remote   gitops.RevisionRef
	dirty    bool
	cloneErr error
	headErr  error

	stashed []string
	fetched bool
	resets  int
}

func (g *fakeGit) Clone(_ context.Context, _, _ string, dir string) error {
	if g.cloneErr != nil {
		return g.cloneErr
	}
	return os.MkdirAll(filepath.Join(dir, ".git"), 0o755)
}

func (g *fakeGit) Fetch(context.Context) error {
	g.fetched = true
	return nil
}

func (g *fakeGit) Head(context.Context) (gitops.RevisionRef, error) {
	if g.headErr != nil {
		return "", g.headErr
	}
	return g.local, nil
}
func (g *fakeGit) RemoteHead(context.Context) (gitops.RevisionRef, error) { return g.remote, nil }

func (g *fakeGit) HasUncommittedChanges(context.Context) (bool, error) { return g.dirty, nil }

func (g *fakeGit) Stash(_ context.Context, label string) error {
	g.stashed = append(g.stashed, label)
	g.dirty = false
	return nil
}

func (g *fakeGit) ResetHardToRemote(context.Context) error {
	g.resets++
	g.local = g.remote
	return nil
}

func (g *fakeGit) RecentLog(context.Context, int) (string, error) {
	return "abc1234 latest change", nil
}

// scriptedGate answers Confirm calls from a queue and Select calls with
// a fixed choice. An exhausted queue answers the fallback.
type scriptedGate struct {
	confirms []bool
	selectAs string

	confirmPrompts []string
}

func (g *scriptedGate) Confirm(prompt string, fallback bool) (bool, error) {
	g.confirmPrompts = append(g.confirmPrompts, prompt)
	if len(g.confirms) == 0 {
		return fallback, nil
	}
	answer := g.confirms[0]
	g.confirms = g.confirms[1:]
	return answer, nil
}

func (g *scriptedGate) Select(_ string, _ []string, fallback string) (string, error) {
	if g.selectAs != "" {
		return g.selectAs, nil
	}
	return fallback, nil
}

type fakeToolchain struct {
	err error
}

func (f *fakeToolchain) Ensure(context.Context) error { return f.err }

// harness bundles a Manager with its fakes over a temp install root.
type harness struct {
	cfg  *config.Settings
	sys  *fakeSystem
	git  *fakeGit
	gate *scriptedGate
	tc   *fakeToolchain
	out  *strings.Builder
	mgr  *Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := filepath.Join(t.TempDir(), ".formulary")

	h := &harness{
		cfg: &config.Settings{
			InstallRoot:    root,
			BinDir:         filepath.Join(t.TempDir(), "bin"),
			RepoURL:        "https://example.com/formulary.git",
			Branch:         "main",
			Remote:         "origin",
			BootstrapURL:   "https://example.com/install.sh",
			ProcessTimeout: time.Minute,
		},
		sys:  newFakeSystem(),
		git:  &fakeGit{local: "abc1234", remote: "abc1234"},
		gate: &scriptedGate{},
		tc:   &fakeToolchain{},
		out:  &strings.Builder{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.mgr = NewManager(h.cfg, h.sys, h.git, h.gate, h.tc, logger, h.out)
	return h
}

// installRepo materializes an existing standard installation.
func (h *harness) installRepo(t *testing.T) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(h.cfg.RepoDir(), ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) writeUserData(t *testing.T, rel string) {
	t.Helper()
	path := filepath.Join(h.cfg.InstallRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if strings.HasSuffix(rel, "/") {
		if err := os.MkdirAll(path, 0o755); err != nil {
			t.Fatal(err)
		}
		return
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSyncDependenciesReportsFailureDetail(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.sys.failures["uv sync"] = platform.ProcResult{ExitCode: 2, Stderr: "no solution found"}

	err := h.mgr.syncDependencies(context.Background())
	if err == nil {
		t.Fatal("syncDependencies() expected error")
	}
	if !strings.Contains(err.Error(), "no solution found") {
		t.Errorf("error must surface stderr detail: %v", err)
	}
}

var errBoom = errors.New("boom")

func failedProc(stderr string) platform.ProcResult {
	return platform.ProcResult{ExitCode: 1, Stderr: stderr}
}
