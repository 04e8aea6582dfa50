package platform

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// windowsAdapter implements Adapter for Windows. Wrapper files are .cmd
// batch scripts and the bootstrap interpreter is powershell.
type windowsAdapter struct{}

func (a *windowsAdapter) RunProcess(ctx context.Context, dir, name string, args ...string) ProcResult {
	return capture(exec.CommandContext(ctx, name, args...), dir)
}

func (a *windowsAdapter) RunScript(ctx context.Context, script string) ProcResult {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", "-")
	cmd.Stdin = strings.NewReader(script)
	return capture(cmd, "")
}

func (a *windowsAdapter) WriteExecutable(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// Execute permission is carried by the .cmd extension on Windows.
	return os.WriteFile(path, content, 0o644)
}

func (a *windowsAdapter) SearchPath() []string {
	return filepath.SplitList(os.Getenv("PATH"))
}

func (a *windowsAdapter) LookPath(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

func (a *windowsAdapter) ShellName() string {
	return "powershell"
}

func (a *windowsAdapter) ExecutableName(base string) string {
	return base + ".cmd"
}
