package version

import (
	"runtime/debug"
)

// Version is set at build time:
//
//	go build -ldflags "-X github.com/shorty-cgi/shorty/api/version.Version=v1.2.0"
var Version = ""

const unknown = "unknown"

func init() {
	Version = resolve(Version, debug.ReadBuildInfo)
}

func resolve(ldflags string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if ldflags != "" {
		return ldflags
	}
	info, ok := readBuildInfo()
	if !ok {
		return unknown
	}
	var revision string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
		return unknown
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified {
		revision += "-dirty"
	}
	return "git:" + revision
}
