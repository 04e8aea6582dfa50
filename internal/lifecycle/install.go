package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/astral1119/formulary-setup/internal/browser"
	"github.com/astral1119/formulary-setup/internal/gitops"
	"github.com/astral1119/formulary-setup/internal/shell"
	"github.com/astral1119/formulary-setup/internal/ui"
)

// InstallResult reports the outcome of an install run.
type InstallResult struct {
	// Cancelled is true when the user declined to reinstall over an
	// existing tree. Not an error: nothing was mutated.
	Cancelled bool

	Revision gitops.RevisionRef
	Engine   browser.Engine
}

// Install drives first-time or repeated installation:
// prerequisite check, source acquisition, dependency resolution,
// runtime provisioning, wrapper registration, PATH check.
//
// Wrapper and PATH problems are warnings; everything before dependency
// resolution succeeds is fatal, so a failed install never leaves a
// wrapped but broken tree behind.
func (m *Manager) Install(ctx context.Context) (*InstallResult, error) {
	if err := m.toolchain.Ensure(ctx); err != nil {
		return nil, err
	}

	state := ProbeState(m.cfg, m.sys)
	repoDir := m.cfg.RepoDir()

	// Any pre-existing tree needs confirmation before removal, including
	// one without a repository: it may hold files the user put there.
	if _, statErr := os.Stat(repoDir); statErr == nil {
		if state.RepoPresent {
			m.printf("An existing installation was found at %s.\n", repoDir)
		} else {
			m.printf("A directory already exists at %s but is not a standard installation.\n", repoDir)
		}
		ok, err := m.gate.Confirm("Remove it and reinstall?", false)
		if err != nil && !errors.Is(err, ui.ErrCancelled) {
			return nil, err
		}
		if err != nil || !ok {
			m.printf("Install cancelled. Existing files left untouched.\n")
			return &InstallResult{Cancelled: true}, nil
		}
		if err := os.RemoveAll(repoDir); err != nil {
			return nil, fmt.Errorf("remove existing source tree: %w", err)
		}
	}

	if err := os.MkdirAll(m.cfg.InstallRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create install root: %w", err)
	}

	m.printf("Cloning %s (branch %s)...\n", m.cfg.RepoURL, m.cfg.Branch)
	if err := m.git.Clone(ctx, m.cfg.RepoURL, m.cfg.Branch, repoDir); err != nil {
		// No partial state may remain registered as installed.
		_ = os.RemoveAll(repoDir)
		return nil, fmt.Errorf("acquire source tree: %w", err)
	}

	m.printf("Resolving dependencies...\n")
	if err := m.syncDependencies(ctx); err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}

	engine := m.provisionRuntime(ctx)
	m.registerWrappers()
	m.checkSearchPath()

	rev, err := m.git.Head(ctx)
	if err != nil {
		m.warn("could not read installed revision: %v", err)
	}

	if rev != "" {
		m.printf("%s Formulary installed at %s (revision %s).\n", symSuccess(), repoDir, rev)
	} else {
		m.printf("%s Formulary installed at %s.\n", symSuccess(), repoDir)
	}
	m.printf("Run %q to get started.\n", shell.PrimaryWrapper)
	return &InstallResult{Revision: rev, Engine: engine}, nil
}

// provisionRuntime asks for the engine choice, persists it, and
// installs the engine's assets. Provisioning failure is a warning: the
// choice is persisted regardless so a later manual run reuses it.
func (m *Manager) provisionRuntime(ctx context.Context) browser.Engine {
	current := browser.Load(m.cfg.InstallRoot)

	options := make([]string, 0, len(browser.Engines()))
	for _, e := range browser.Engines() {
		options = append(options, string(e))
	}

	answer, err := m.gate.Select("Browser engine for sheet automation", options, string(current))
	if err != nil {
		m.warn("engine prompt unavailable, keeping %s", current)
		answer = string(current)
	}
	engine, err := browser.Parse(answer)
	if err != nil {
		engine = current
	}

	if err := browser.Save(m.cfg.InstallRoot, engine); err != nil {
		m.warn("could not persist browser choice: %v", err)
	}

	m.printf("Installing %s runtime assets...\n", engine)
	if err := browser.Provision(ctx, m.sys, m.cfg.RepoDir(), engine); err != nil {
		m.warn("browser provisioning failed: %v", err)
		m.printf("  Run %q later to install the %s engine.\n", shell.BrowserWrapper, engine)
	}
	return engine
}

// registerWrappers regenerates both launcher scripts, overwriting any
// previous content. Failure is a warning: the application remains
// usable via direct invocation inside the source tree.
func (m *Manager) registerWrappers() {
	wrappers := shell.Wrappers(goos(), m.cfg.InstallRoot, m.cfg.RepoDir())
	if err := shell.Install(m.sys, m.cfg.BinDir, wrappers); err != nil {
		m.warn("wrapper registration failed: %v", err)
		m.printf("  You can still run Formulary with: cd %s && uv run formulary\n", m.cfg.RepoDir())
		return
	}
	m.printf("%s Installed %s and %s into %s.\n",
		symSuccess(), shell.PrimaryWrapper, shell.BrowserWrapper, m.cfg.BinDir)
}

// checkSearchPath emits shell-specific guidance when the wrapper
// directory is not on PATH. Startup files are never edited.
func (m *Manager) checkSearchPath() {
	if shell.IsOnSearchPath(m.sys.SearchPath(), m.cfg.BinDir) {
		return
	}

	dialect := shell.DetectDialect(m.sys.ShellName())
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	hint := shell.ProfileFor(dialect, home, m.cfg.BinDir)

	m.warn("%s is not on your PATH", m.cfg.BinDir)
	m.printf("  Add this line to %s:\n", hint.File)
	m.printf("    %s\n", hint.Syntax)
	m.printf("  Then restart your terminal.\n")
}
