// Package version reports the rosterview build version.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/rshade/rosterview/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Overridden by the linker.
var (
	version = ""
	commit  = ""
)

// GetVersion returns the linker-provided version, the module version when
// installed with go install, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetCommit returns the linker-provided commit, or the VCS revision
// recorded by the Go toolchain.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
