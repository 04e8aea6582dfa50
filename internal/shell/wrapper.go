package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/astral1119/formulary-setup/internal/platform"
)

// Wrapper command base names. The platform adapter appends the
// executable suffix where one is required.
const (
	PrimaryWrapper = "formulary"
	BrowserWrapper = "formulary-browsers"
)

// Wrapper is a generated launcher script. Content is fully owned by the
// installer and regenerated on every install, never merged.
type Wrapper struct {
	Name    string
	Content []byte
}

// Wrappers builds both launcher scripts for the given layout. goos
// selects the script dialect ("windows" produces .cmd batch content).
func Wrappers(goos, installRoot, repoDir string) []Wrapper {
	if goos == "windows" {
		return []Wrapper{
			{Name: PrimaryWrapper, Content: windowsPrimary(repoDir)},
			{Name: BrowserWrapper, Content: windowsBrowser(installRoot, repoDir)},
		}
	}
	return []Wrapper{
		{Name: PrimaryWrapper, Content: unixPrimary(repoDir)},
		{Name: BrowserWrapper, Content: unixBrowser(installRoot, repoDir)},
	}
}

func unixPrimary(repoDir string) []byte {
	return fmt.Appendf(nil, `#!/bin/sh
# Generated by formulary-setup. Do not edit; reinstalling regenerates this file.
cd %q || exit 1
exec uv run formulary "$@"
`, repoDir)
}

func unixBrowser(installRoot, repoDir string) []byte {
	choiceFile := filepath.Join(installRoot, "browser_choice")
	return fmt.Appendf(nil, `#!/bin/sh
# Generated by formulary-setup. Do not edit; reinstalling regenerates this file.
engine=chromium
if [ -f %q ]; then
    engine=$(tr -d '[:space:]' < %q)
fi
cd %q || exit 1
exec uv run playwright install "$engine"
`, choiceFile, choiceFile, repoDir)
}

func windowsPrimary(repoDir string) []byte {
	return fmt.Appendf(nil, "@echo off\r\nrem Generated by formulary-setup. Do not edit.\r\ncd /d \"%s\"\r\nuv run formulary %%*\r\n", repoDir)
}

func windowsBrowser(installRoot, repoDir string) []byte {
	choiceFile := filepath.Join(installRoot, "browser_choice")
	return fmt.Appendf(nil, "@echo off\r\nrem Generated by formulary-setup. Do not edit.\r\nset engine=chromium\r\nif exist \"%s\" set /p engine=<\"%s\"\r\ncd /d \"%s\"\r\nuv run playwright install %%engine%%\r\n", choiceFile, choiceFile, repoDir)
}

// Install writes every wrapper into binDir, overwriting existing files.
func Install(sys platform.Adapter, binDir string, wrappers []Wrapper) error {
	for _, w := range wrappers {
		path := filepath.Join(binDir, sys.ExecutableName(w.Name))
		if err := sys.WriteExecutable(path, w.Content); err != nil {
			return fmt.Errorf("write wrapper %s: %w", w.Name, err)
		}
	}
	return nil
}

// Remove deletes a wrapper if present. Absence is not an error; the
// returned bool reports whether a file was actually removed.
func Remove(sys platform.Adapter, binDir, name string) (bool, error) {
	path := filepath.Join(binDir, sys.ExecutableName(name))
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("remove wrapper %s: %w", name, err)
	}
	return true, nil
}

// Present reports whether the wrapper file exists in binDir.
func Present(sys platform.Adapter, binDir, name string) bool {
	_, err := os.Stat(filepath.Join(binDir, sys.ExecutableName(name)))
	return err == nil
}
