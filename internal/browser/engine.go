// Package browser manages the persisted Playwright engine choice and
// drives engine provisioning through the dependency manager.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/astral1119/formulary-setup/internal/platform"
)

// Engine is the browser-automation engine Formulary drives. The set is
// closed; the choice is persisted as a single trimmed line of text.
type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"

	// DefaultEngine is used whenever no choice has been persisted.
	DefaultEngine = EngineChromium

	// ChoiceFile is the persistence file name under the install root.
	ChoiceFile = "browser_choice"
)

// Engines lists the valid choices in presentation order.
func Engines() []Engine {
	return []Engine{EngineChromium, EngineFirefox}
}

// Parse maps a user-supplied string to an Engine. Empty input selects
// the default; anything else unrecognized is an error.
func Parse(s string) (Engine, error) {
	switch Engine(strings.TrimSpace(strings.ToLower(s))) {
	case "":
		return DefaultEngine, nil
	case EngineChromium:
		return EngineChromium, nil
	case EngineFirefox:
		return EngineFirefox, nil
	default:
		return "", fmt.Errorf("unknown browser engine %q (valid: chromium, firefox)", s)
	}
}

// Load reads the persisted choice from the install root. A missing or
// unreadable file yields the default.
func Load(installRoot string) Engine {
	data, err := os.ReadFile(filepath.Join(installRoot, ChoiceFile))
	if err != nil {
		return DefaultEngine
	}
	engine, err := Parse(string(data))
	if err != nil {
		return DefaultEngine
	}
	return engine
}

// Save persists the choice under the install root.
func Save(installRoot string, engine Engine) error {
	if err := os.MkdirAll(installRoot, 0o755); err != nil {
		return fmt.Errorf("create install root: %w", err)
	}
	path := filepath.Join(installRoot, ChoiceFile)
	if err := os.WriteFile(path, []byte(string(engine)+"\n"), 0o644); err != nil {
		return fmt.Errorf("persist browser choice: %w", err)
	}
	return nil
}

// Provision installs the engine's runtime assets by invoking the
// dependency manager's Playwright entry point inside the source tree.
func Provision(ctx context.Context, sys platform.Adapter, repoDir string, engine Engine) error {
	result := sys.RunProcess(ctx, repoDir, "uv", "run", "playwright", "install", string(engine))
	if !result.Success() {
		return fmt.Errorf("playwright install %s failed: %s", engine, procFailure(result))
	}
	return nil
}

func procFailure(r platform.ProcResult) string {
	if r.Err != nil {
		return r.Err.Error()
	}
	if r.Stderr != "" {
		return fmt.Sprintf("exit %d: %s", r.ExitCode, r.Stderr)
	}
	return fmt.Sprintf("exit %d", r.ExitCode)
}
