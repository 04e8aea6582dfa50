// Package shell generates the launcher wrappers and produces PATH
// guidance for the user's shell. It never edits shell startup files:
// profile information is emitted as instructions only, because startup
// files cannot be safely rewritten without fully parsing them.
package shell

import "path/filepath"

// Dialect identifies the user's shell family for profile-file guidance.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectBash
	DialectZsh
	DialectFish
	DialectPowerShell
)

// String returns the conventional shell name.
func (d Dialect) String() string {
	switch d {
	case DialectBash:
		return "bash"
	case DialectZsh:
		return "zsh"
	case DialectFish:
		return "fish"
	case DialectPowerShell:
		return "powershell"
	default:
		return "unknown"
	}
}

// DetectDialect maps a shell binary name (e.g. the base name of $SHELL)
// to a Dialect. Unrecognized names map to DialectUnknown.
func DetectDialect(shellName string) Dialect {
	switch shellName {
	case "bash":
		return DialectBash
	case "zsh":
		return DialectZsh
	case "fish":
		return DialectFish
	case "powershell", "pwsh":
		return DialectPowerShell
	default:
		return DialectUnknown
	}
}

// ProfileHint names the startup file for a dialect and the line the user
// should add to put a directory on their PATH.
type ProfileHint struct {
	File   string
	Syntax string
}

// profileTable maps each dialect to its hint builder. Unknown dialects
// fall back to the generic ~/.profile entry.
var profileTable = map[Dialect]func(home, dir string) ProfileHint{
	DialectBash: func(home, dir string) ProfileHint {
		return ProfileHint{
			File:   filepath.Join(home, ".bashrc"),
			Syntax: `export PATH="` + dir + `:$PATH"`,
		}
	},
	DialectZsh: func(home, dir string) ProfileHint {
		return ProfileHint{
			File:   filepath.Join(home, ".zshrc"),
			Syntax: `export PATH="` + dir + `:$PATH"`,
		}
	},
	DialectFish: func(home, dir string) ProfileHint {
		return ProfileHint{
			File:   filepath.Join(home, ".config", "fish", "config.fish"),
			Syntax: `fish_add_path ` + dir,
		}
	},
	DialectPowerShell: func(home, dir string) ProfileHint {
		return ProfileHint{
			File:   filepath.Join(home, "Documents", "PowerShell", "profile.ps1"),
			Syntax: `$env:Path = "` + dir + `;" + $env:Path`,
		}
	},
}

// ProfileFor returns the PATH guidance for the given dialect.
func ProfileFor(d Dialect, home, dir string) ProfileHint {
	if build, ok := profileTable[d]; ok {
		return build(home, dir)
	}
	return ProfileHint{
		File:   filepath.Join(home, ".profile"),
		Syntax: `export PATH="` + dir + `:$PATH"`,
	}
}

// IsOnSearchPath reports whether dir is an exact member of the search
// path entries. Comparison is by cleaned path equality, never substring
// matching across unrelated entries.
func IsOnSearchPath(entries []string, dir string) bool {
	want := filepath.Clean(dir)
	for _, e := range entries {
		if e == "" {
			continue
		}
		if filepath.Clean(e) == want {
			return true
		}
	}
	return false
}
