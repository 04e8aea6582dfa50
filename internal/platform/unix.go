package platform

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// unixAdapter implements Adapter for Linux and macOS.
type unixAdapter struct{}

func (a *unixAdapter) RunProcess(ctx context.Context, dir, name string, args ...string) ProcResult {
	return capture(exec.CommandContext(ctx, name, args...), dir)
}

func (a *unixAdapter) RunScript(ctx context.Context, script string) ProcResult {
	cmd := exec.CommandContext(ctx, "sh")
	cmd.Stdin = strings.NewReader(script)
	return capture(cmd, "")
}

func (a *unixAdapter) WriteExecutable(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o755); err != nil {
		return err
	}
	// WriteFile does not touch the mode of a pre-existing file.
	return os.Chmod(path, 0o755)
}

func (a *unixAdapter) SearchPath() []string {
	return filepath.SplitList(os.Getenv("PATH"))
}

func (a *unixAdapter) LookPath(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

func (a *unixAdapter) ShellName() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return ""
	}
	return filepath.Base(sh)
}

func (a *unixAdapter) ExecutableName(base string) string {
	return base
}

// capture runs cmd with collected stdout/stderr and converts the outcome
// into a ProcResult.
func capture(cmd *exec.Cmd, dir string) ProcResult {
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ProcResult{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Err = err
		}
	}

	return result
}
