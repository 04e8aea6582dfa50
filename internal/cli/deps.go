// Package cli provides the Cobra command tree and dependency wiring
// for formulary-setup. This file defines the Dependencies struct
// (Composition Root) that wires all domain modules together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/astral1119/formulary-setup/internal/config"
	"github.com/astral1119/formulary-setup/internal/gitops"
	"github.com/astral1119/formulary-setup/internal/lifecycle"
	"github.com/astral1119/formulary-setup/internal/platform"
	"github.com/astral1119/formulary-setup/internal/prereq"
	"github.com/astral1119/formulary-setup/internal/ui"
)

// Dependencies holds all domain-level services used by CLI commands.
// This is the Composition Root: the only place where concrete types
// are instantiated and wired together.
type Dependencies struct {
	Settings  *config.Settings
	System    platform.Adapter
	Git       gitops.Service
	Gateway   ui.Gateway
	Toolchain *prereq.Toolchain
	Lifecycle *lifecycle.Manager
	Logger    *slog.Logger
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies creates and wires all domain dependencies. It should
// be called once during application startup.
func InitDependencies() error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Diagnostic logging stays silent unless debugging is enabled.
	logOut := io.Discard
	if settings.Debug {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sys := platform.New()
	headless := ui.NewHeadlessManager()
	gateway := ui.NewGateway(headless, os.Stdout)

	git := gitops.NewRunner(sys, settings.RepoDir(), settings.Remote, settings.Branch)
	prober := prereq.NewProber(sys)
	toolchain := prereq.NewToolchain(prober, settings.BootstrapURL, nil, logger)

	deps = &Dependencies{
		Settings:  settings,
		System:    sys,
		Git:       git,
		Gateway:   gateway,
		Toolchain: toolchain,
		Logger:    logger,
	}
	deps.Lifecycle = lifecycle.NewManager(settings, sys, git, gateway, toolchain, logger, os.Stdout)
	return nil
}

// GetDeps returns the current Dependencies instance. Returns nil if
// InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}
