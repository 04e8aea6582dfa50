package lifecycle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/astral1119/formulary-setup/internal/config"
	"github.com/astral1119/formulary-setup/internal/gitops"
)

// updateCheckCache mirrors the file the managed application reads to
// decide whether to nag about pending updates.
type updateCheckCache struct {
	UpdateAvailable bool   `json:"update_available"`
	LocalCommit     string `json:"local_commit"`
	RemoteCommit    string `json:"remote_commit"`
	Timestamp       string `json:"timestamp"`
}

func (m *Manager) updateCachePath() string {
	return filepath.Join(m.cfg.InstallRoot, config.UpdateCacheJSON)
}

// writeUpdateCache records the outcome of a remote comparison. Failure
// only degrades the application's update hint, so it is logged and
// swallowed.
func (m *Manager) writeUpdateCache(available bool, local, remote gitops.RevisionRef) {
	cache := updateCheckCache{
		UpdateAvailable: available,
		LocalCommit:     string(local),
		RemoteCommit:    string(remote),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		m.logger.Debug("encode update cache", "error", err)
		return
	}
	if err := os.WriteFile(m.updateCachePath(), append(data, '\n'), 0o644); err != nil {
		m.logger.Debug("write update cache", "error", err)
	}
}

// clearUpdateCache drops a stale comparison after the tree moved.
func (m *Manager) clearUpdateCache() {
	if err := os.Remove(m.updateCachePath()); err != nil && !os.IsNotExist(err) {
		m.logger.Debug("clear update cache", "error", err)
	}
}
