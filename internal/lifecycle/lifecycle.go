// Package lifecycle contains the three orchestrators: install, update,
// and uninstall. Each composes the environment prober, the confirmation
// gateway, and the shell integration layer; no orchestrator depends on
// another.
package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/astral1119/formulary-setup/internal/config"
	"github.com/astral1119/formulary-setup/internal/gitops"
	"github.com/astral1119/formulary-setup/internal/platform"
	"github.com/astral1119/formulary-setup/internal/ui"
)

// Output styles shared by the orchestrators.
var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"})
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"})
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})
)

func goos() string { return runtime.GOOS }

func symSuccess() string { return styleSuccess.Render("✓") }
func symWarning() string { return styleWarn.Render("!") }
func symError() string   { return styleError.Render("✗") }

// ToolchainEnsurer checks the external toolchain before a run.
type ToolchainEnsurer interface {
	Ensure(ctx context.Context) error
}

// Manager wires the collaborators every orchestrator needs. State is
// never cached between operations; each run re-probes the filesystem.
type Manager struct {
	cfg       *config.Settings
	sys       platform.Adapter
	git       gitops.Service
	gate      ui.Gateway
	toolchain ToolchainEnsurer
	logger    *slog.Logger
	out       io.Writer
}

// NewManager creates a Manager from its collaborators.
func NewManager(
	cfg *config.Settings,
	sys platform.Adapter,
	git gitops.Service,
	gate ui.Gateway,
	toolchain ToolchainEnsurer,
	logger *slog.Logger,
	out io.Writer,
) *Manager {
	return &Manager{
		cfg:       cfg,
		sys:       sys,
		git:       git,
		gate:      gate,
		toolchain: toolchain,
		logger:    logger,
		out:       out,
	}
}

func (m *Manager) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

// warn emits a non-fatal problem and keeps the orchestrator going.
func (m *Manager) warn(format string, args ...any) {
	m.printf("%s %s\n", symWarning(), fmt.Sprintf(format, args...))
}

// syncDependencies invokes the dependency manager against the source
// tree. Callers decide whether failure is fatal.
func (m *Manager) syncDependencies(ctx context.Context) error {
	result := m.sys.RunProcess(ctx, m.cfg.RepoDir(), "uv", "sync")
	if !result.Success() {
		if result.Err != nil {
			return fmt.Errorf("uv sync: %w", result.Err)
		}
		detail := result.Stderr
		if detail == "" {
			detail = result.Stdout
		}
		return fmt.Errorf("uv sync exited %d: %s", result.ExitCode, detail)
	}
	return nil
}
