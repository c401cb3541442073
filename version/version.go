package version

import (
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X github.com/kbukum/collectkit/version.Version=v1.2.3".
var (
	Version   = ""
	GitCommit = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Get returns the build information. Linker-set values win over the
// module and VCS data embedded by the Go toolchain; "dev" is used when
// neither is known.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(&info, bi)
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	info.GoVersion = bi.GoVersion
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value[:min(7, len(s.Value))]
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
}

// String renders the version as "v1.2.3-abc1234[-dirty]".
func (i Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}
