package main

import (
	"runtime/debug"
	"testing"
)

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{
			name: "no build info",
			want: "0.1.0",
		},
		{
			name: "installed module",
			info: &debug.BuildInfo{Main: debug.Module{Version: "v0.1.2"}},
			want: "v0.1.2",
		},
		{
			name: "checkout without vcs",
			info: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: "devel-0.1.0",
		},
		{
			name: "checkout with revision",
			info: &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
			},
			want: "devel-0.1.0+0123456",
		},
		{
			name: "modified checkout",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: "devel-0.1.0+0123456-dirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildVersion("0.1.0", tt.info); got != tt.want {
				t.Errorf("buildVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}
