package version

import (
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	t.Parallel()

	if got := GetVersion(); got != Version {
		t.Errorf("GetVersion() = %q, want %q", got, Version)
	}
}

func TestGetFullVersionIncludesBuildMetadata(t *testing.T) {
	t.Parallel()

	full := GetFullVersion()
	for _, part := range []string{Version, Commit, Date} {
		if !strings.Contains(full, part) {
			t.Errorf("GetFullVersion() = %q, missing %q", full, part)
		}
	}
}
