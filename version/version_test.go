package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGet_LinkerValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0"
	GitCommit = "0123456789abcdef"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.4.0" {
		t.Errorf("expected version 1.4.0, got %q", info.Version)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("expected linker build time to win, got %q", info.BuildTime)
	}
}

func TestInfo_Short(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", IsDirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		if got := tc.info.Short(); got != tc.want {
			t.Errorf("Short() = %q, want %q", got, tc.want)
		}
	}
}

func TestInfo_String(t *testing.T) {
	s := Info{Version: "1.0.0", BuildTime: "2026-01-15T10:30:00Z", GoVersion: "go1.26.0"}.String()
	if s != "1.0.0 (built 2026-01-15T10:30:00Z) go1.26.0" {
		t.Errorf("unexpected String(): %q", s)
	}
}

func TestUserAgent(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.1.0"
	if got := UserAgent("apicall"); got != "apicall/2.1.0" {
		t.Errorf("UserAgent() = %q", got)
	}
	if !strings.HasPrefix(UserAgent("x"), "x/") {
		t.Error("expected product prefix")
	}
}
