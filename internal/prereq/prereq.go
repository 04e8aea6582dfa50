// Package prereq probes the external toolchain before any orchestrator
// mutates state. Probes are read-only; the single exception is the
// one-shot uv bootstrap, which installs the dependency manager from its
// fixed trusted source when it is absent.
package prereq

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/astral1119/formulary-setup/internal/platform"
)

// Status is the outcome of a single prerequisite probe.
type Status int

const (
	Satisfied Status = iota
	Missing
	TooOld
)

// String returns a short status label for user-facing messages.
func (s Status) String() string {
	switch s {
	case Satisfied:
		return "ok"
	case Missing:
		return "missing"
	case TooOld:
		return "too old"
	default:
		return "unknown"
	}
}

// Tool describes one external prerequisite.
type Tool struct {
	// Name is the user-facing tool name.
	Name string

	// Binary is the executable probed on the search path.
	Binary string

	// VersionArgs produce a version string on stdout.
	VersionArgs []string

	// Constraint is a semver range the reported version must satisfy.
	Constraint string

	// InstallHint tells the user where to obtain the tool.
	InstallHint string
}

// Result pairs a tool with its probe outcome.
type Result struct {
	Tool    Tool
	Status  Status
	Version string
}

// Remediation returns the user-facing message for a failed probe.
func (r Result) Remediation() string {
	switch r.Status {
	case Missing:
		return fmt.Sprintf("%s is not installed. %s", r.Tool.Name, r.Tool.InstallHint)
	case TooOld:
		return fmt.Sprintf("%s %s is too old (need %s). %s",
			r.Tool.Name, r.Version, r.Tool.Constraint, r.Tool.InstallHint)
	default:
		return ""
	}
}

// RequiredTools returns the probes for the tools that must already be
// present. These are never bootstrapped.
func RequiredTools() []Tool {
	return []Tool{
		{
			Name:        "git",
			Binary:      "git",
			VersionArgs: []string{"--version"},
			Constraint:  ">= 2.20",
			InstallHint: "Install it from https://git-scm.com/downloads (minimum version 2.20).",
		},
		{
			Name:        "python",
			Binary:      "python3",
			VersionArgs: []string{"--version"},
			Constraint:  ">= 3.10",
			InstallHint: "Install it from https://www.python.org/downloads/ (minimum version 3.10).",
		},
	}
}

// UVTool returns the probe for the dependency manager, which is
// bootstrapped once when absent.
func UVTool() Tool {
	return Tool{
		Name:        "uv",
		Binary:      "uv",
		VersionArgs: []string{"--version"},
		Constraint:  ">= 0.4",
		InstallHint: "Install it from https://docs.astral.sh/uv/ (minimum version 0.4).",
	}
}

// versionPattern extracts the leading numeric version from strings like
// "git version 2.39.2" or "uv 0.5.11 (linux)".
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Prober runs capability probes through the platform adapter.
type Prober struct {
	sys platform.Adapter
}

// NewProber creates a Prober backed by the given adapter.
func NewProber(sys platform.Adapter) *Prober {
	return &Prober{sys: sys}
}

// Check probes a single tool: presence on the search path, then a
// version query compared against the tool's constraint. Versions are
// compared numerically by major/minor/patch, never as strings.
func (p *Prober) Check(ctx context.Context, tool Tool) Result {
	if !p.sys.LookPath(tool.Binary) {
		return Result{Tool: tool, Status: Missing}
	}

	out := p.sys.RunProcess(ctx, "", tool.Binary, tool.VersionArgs...)
	if !out.Success() {
		// Present but unqueryable; treat as missing so the user gets a
		// reinstall hint rather than a constraint mismatch.
		return Result{Tool: tool, Status: Missing}
	}

	version := versionPattern.FindString(out.Stdout)
	if version == "" {
		version = versionPattern.FindString(out.Stderr)
	}
	if version == "" {
		return Result{Tool: tool, Status: Missing}
	}

	ok, err := satisfies(version, tool.Constraint)
	if err != nil || !ok {
		return Result{Tool: tool, Status: TooOld, Version: version}
	}
	return Result{Tool: tool, Status: Satisfied, Version: version}
}

// satisfies reports whether version meets the semver constraint.
func satisfies(version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parse constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", version, err)
	}
	return c.Check(v), nil
}
