// Package platform isolates the OS-specific surface the orchestrators
// need: running external processes, writing executable wrapper files,
// inspecting the executable search path, and naming the user's shell.
// Orchestrators depend only on the Adapter interface; tests substitute
// fakes so no real process is ever spawned.
package platform

import (
	"context"
	"runtime"
)

// ProcResult captures the observable outcome of an external process.
// Only exit status and selected stdout text are ever interpreted.
type ProcResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Success reports whether the process started and exited zero.
func (r ProcResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Adapter is the thin per-OS surface used by all orchestrators.
type Adapter interface {
	// RunProcess runs name with args in dir (empty dir means inherit),
	// blocking until exit or ctx cancellation. Stdout and stderr are
	// captured and trimmed.
	RunProcess(ctx context.Context, dir, name string, args ...string) ProcResult

	// RunScript feeds script to the platform shell interpreter
	// (sh on Unix, powershell on Windows). Used only for the uv
	// bootstrap installer.
	RunScript(ctx context.Context, script string) ProcResult

	// WriteExecutable writes content to path with execute permission,
	// fully replacing any existing file.
	WriteExecutable(path string, content []byte) error

	// SearchPath returns the entries of the executable search path.
	SearchPath() []string

	// LookPath reports whether binary resolves on the search path.
	LookPath(binary string) bool

	// ShellName returns the base name of the user's configured shell
	// ("zsh", "bash", ...), or "" when undetectable.
	ShellName() string

	// ExecutableName adds the platform executable suffix to base
	// (".cmd" on Windows, none on Unix).
	ExecutableName(base string) string
}

// New returns the Adapter for the current operating system.
func New() Adapter {
	if runtime.GOOS == "windows" {
		return &windowsAdapter{}
	}
	return &unixAdapter{}
}
