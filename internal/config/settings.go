package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File and directory names under the install root. The layout is shared
// with the Formulary application itself, which reads the same files.
const (
	RepoSubdir       = "repo"
	ConfigTOML       = "config.toml"
	ProfilesSubdir   = "profiles"
	ProfilesJSON     = "profiles.json"
	BrowserChoice    = "browser_choice"
	CacheSubdir      = "cache"
	UpdateCacheJSON  = "update_check_cache.json"
	OverrideYAML     = "setup.yaml"
	installRootName  = ".formulary"
	defaultBinSubdir = ".local/bin"
)

// Settings is the single configuration struct constructed at entry and
// passed into each orchestrator. There is no ambient global state.
type Settings struct {
	// InstallRoot is the per-user directory holding the source tree and
	// all persisted state (default ~/.formulary).
	InstallRoot string `yaml:"install_root"`

	// BinDir is the directory wrapper commands are installed into.
	BinDir string `yaml:"bin_dir"`

	// RepoURL is the canonical clone URL of the Formulary source tree.
	RepoURL string `yaml:"repo_url"`

	// Branch is the tracked branch the update orchestrator follows.
	Branch string `yaml:"branch"`

	// Remote is the git remote name used for fetch and reset.
	Remote string `yaml:"remote"`

	// BootstrapURL is the fixed trusted source of the uv install script.
	BootstrapURL string `yaml:"bootstrap_url"`

	// ProcessTimeout bounds a whole lifecycle run, covering all of its
	// external process invocations together.
	ProcessTimeout time.Duration `yaml:"process_timeout"`

	// Debug enables slog output to stderr.
	Debug bool `yaml:"-"`
}

// RepoDir returns the path of the acquired source tree.
func (s *Settings) RepoDir() string {
	return filepath.Join(s.InstallRoot, RepoSubdir)
}

// Defaults returns the compiled default settings for the current user.
func Defaults() (*Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoHomeDir, err)
	}

	binDir := filepath.Join(home, filepath.FromSlash(defaultBinSubdir))
	if runtime.GOOS == "windows" {
		if lad := os.Getenv("LOCALAPPDATA"); lad != "" {
			binDir = filepath.Join(lad, "formulary", "bin")
		}
	}

	return &Settings{
		InstallRoot:    filepath.Join(home, installRootName),
		BinDir:         binDir,
		RepoURL:        "https://github.com/Astral1119/formulary.git",
		Branch:         "main",
		Remote:         "origin",
		BootstrapURL:   "https://astral.sh/uv/install.sh",
		ProcessTimeout: 10 * time.Minute,
	}, nil
}

// Load builds Settings from defaults, the optional setup.yaml override
// file under the install root, and environment variables, then validates
// the merged result.
func Load() (*Settings, error) {
	s, err := Defaults()
	if err != nil {
		return nil, err
	}

	// FORMULARY_SETUP_HOME moves the whole install root, and with it the
	// location of the override file.
	if root := os.Getenv("FORMULARY_SETUP_HOME"); root != "" {
		s.InstallRoot = filepath.Clean(root)
	}

	if err := applyOverrideFile(s, filepath.Join(s.InstallRoot, OverrideYAML)); err != nil {
		return nil, err
	}

	applyEnvOverrides(s)

	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// applyOverrideFile merges setup.yaml values over the defaults.
// A missing file is not an error.
func applyOverrideFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Environment variables have higher priority than file-based values.
func applyEnvOverrides(s *Settings) {
	if root := os.Getenv("FORMULARY_SETUP_HOME"); root != "" {
		s.InstallRoot = filepath.Clean(root)
	}
	if u := os.Getenv("FORMULARY_SETUP_REPO_URL"); u != "" {
		s.RepoURL = u
	}
	if dir := os.Getenv("FORMULARY_SETUP_BIN_DIR"); dir != "" {
		s.BinDir = filepath.Clean(dir)
	}
	if dbg := os.Getenv("FORMULARY_SETUP_DEBUG"); dbg == "1" || dbg == "true" {
		s.Debug = true
	}
}

// Validate checks the merged settings for internal consistency.
func Validate(s *Settings) error {
	var problems []string

	if s.InstallRoot == "" || !filepath.IsAbs(s.InstallRoot) {
		problems = append(problems, fmt.Sprintf("install_root must be an absolute path (got %q)", s.InstallRoot))
	}
	if s.BinDir == "" || !filepath.IsAbs(s.BinDir) {
		problems = append(problems, fmt.Sprintf("bin_dir must be an absolute path (got %q)", s.BinDir))
	}
	if err := validateURL(s.RepoURL); err != nil {
		problems = append(problems, fmt.Sprintf("repo_url: %v", err))
	}
	if err := validateURL(s.BootstrapURL); err != nil {
		problems = append(problems, fmt.Sprintf("bootstrap_url: %v", err))
	}
	if s.Branch == "" {
		problems = append(problems, "branch must not be empty")
	}
	if s.Remote == "" {
		problems = append(problems, "remote must not be empty")
	}
	if s.ProcessTimeout <= 0 {
		problems = append(problems, "process_timeout must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}
