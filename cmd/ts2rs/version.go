package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the module version for `go install ts2rs@vX` builds, and
// "devel-<VERSION>[+<revision>]" for builds from a checkout.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return buildVersion(strings.TrimSpace(embeddedVersion), info)
}

func buildVersion(base string, info *debug.BuildInfo) string {
	if info == nil {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	version := "devel-" + base
	for _, s := range info.Settings {
		if s.Key != "vcs.revision" || len(s.Value) < 7 {
			continue
		}
		version += "+" + s.Value[:7]
		for _, m := range info.Settings {
			if m.Key == "vcs.modified" && m.Value == "true" {
				version += "-dirty"
			}
		}
		break
	}
	return version
}
