package lifecycle

import (
	"os"
	"path/filepath"

	"github.com/astral1119/formulary-setup/internal/config"
	"github.com/astral1119/formulary-setup/internal/platform"
	"github.com/astral1119/formulary-setup/internal/shell"
)

// InstallationState is the derived on-disk state of an installation.
// It is reconstructed from the filesystem on every run and never cached
// across invocations, so manual deletion or external mutation cannot
// produce stale decisions.
type InstallationState struct {
	InstallRoot    string
	RepoPresent    bool
	Wrappers       map[string]bool
	UserData       []Category
	PathConfigured bool
}

// ProbeState reconstructs the installation state from disk.
func ProbeState(cfg *config.Settings, sys platform.Adapter) *InstallationState {
	repoDir := cfg.RepoDir()

	// A source tree without .git is not a standard installation; the
	// update and uninstall flows treat it the same as absent.
	_, err := os.Stat(filepath.Join(repoDir, ".git"))
	repoPresent := err == nil

	wrappers := map[string]bool{
		shell.PrimaryWrapper: shell.Present(sys, cfg.BinDir, shell.PrimaryWrapper),
		shell.BrowserWrapper: shell.Present(sys, cfg.BinDir, shell.BrowserWrapper),
	}

	return &InstallationState{
		InstallRoot:    cfg.InstallRoot,
		RepoPresent:    repoPresent,
		Wrappers:       wrappers,
		UserData:       PresentCategories(cfg.InstallRoot),
		PathConfigured: shell.IsOnSearchPath(sys.SearchPath(), cfg.BinDir),
	}
}
