// Package ui provides the confirmation gateway: every yes/no and
// selection prompt goes through it, so the orchestrators never care
// whether a terminal is attached.
package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// HeadlessManager detects whether the process is running without an
// interactive input stream (e.g. invoked via a curl|sh pipe).
type HeadlessManager struct {
	forced *bool
}

// NewHeadlessManager creates a HeadlessManager that detects headless
// mode from the TTY state of os.Stdin.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{}
}

// IsHeadless returns true when prompts cannot be read from stdin.
// ForceHeadless overrides TTY detection.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	return !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// ForceHeadless overrides TTY detection. Pass true to force headless
// mode, or false to force interactive mode regardless of TTY state.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce removes any forced override, reverting to automatic
// TTY detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}
