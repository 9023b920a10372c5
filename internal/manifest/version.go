package manifest

import "runtime/debug"

var (
	// Set at build time with -ldflags "-X 'github.com/umkm-jabar/umkmdash-cli/internal/manifest.Version=...'"
	Version = ""
	Commit  = ""
)

var readBuildInfo = debug.ReadBuildInfo

// ToolVersion reports the running umkmdash version: ldflags first, then
// module build info, then the commit, then "devel".
func ToolVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	if Commit != "" {
		return "commit-" + Commit
	}
	return "devel"
}
