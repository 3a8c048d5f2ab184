package app

import (
	"runtime"
	"runtime/debug"
)

// Release builds stamp these with
// -ldflags "-X github.com/deicod/ermblog-console/internal/app.version=v1.4.0 -X ...app.commit=abc123".
var version, commit string

// Build identifies the running console binary.
type Build struct {
	Version string `json:"version"          yaml:"version"`
	Commit  string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Go      string `json:"go"               yaml:"go"`
}

// BuildInfo prefers the ldflags values and falls back to what the go tool
// recorded: the module version for `go install` builds and the VCS revision.
func BuildInfo() Build {
	b := Build{Version: version, Commit: commit, Go: runtime.Version()}
	if info, ok := debug.ReadBuildInfo(); ok {
		if b.Version == "" && info.Main.Version != "(devel)" {
			b.Version = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && b.Commit == "" {
				b.Commit = s.Value
			}
		}
	}
	if b.Version == "" {
		b.Version = "dev"
	}
	if len(b.Commit) > 12 {
		b.Commit = b.Commit[:12]
	}
	return b
}

func (b Build) String() string {
	if b.Commit == "" {
		return b.Version
	}
	return b.Version + " (" + b.Commit + ")"
}
