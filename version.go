package rawksd

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the rawksd library.
const Version = "0.1.0"

// BuildInfo describes the binary a library build is linked into.
type BuildInfo struct {
	Version   string
	Revision  string // VCS revision, "unknown" outside a VCS build
	Modified  bool   // working tree had local changes
	GoVersion string
}

// String formats the build as "rawksd 0.1.0 (abc1234, go1.26.0)".
func (b BuildInfo) String() string {
	rev := b.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if b.Modified {
		rev += "-dirty"
	}
	return fmt.Sprintf("rawksd %s (%s, %s)", b.Version, rev, b.GoVersion)
}

// GetBuildInfo reports the library version and the VCS stamp recorded by
// the Go toolchain.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{Version: Version, Revision: "unknown", GoVersion: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
