package buildinfo

import (
	"runtime/debug"
)

var version string

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if info.Main.Path == "github.com/sitebay/sitebay-mcp" && info.Main.Version != "" {
		version = info.Main.Version
		return
	}

	for _, dep := range info.Deps {
		if dep.Path == "github.com/sitebay/sitebay-mcp" {
			version = dep.Version
		}
	}
}

// Version reports the module version embedded at build time, or "unknown"
// when built outside module-aware mode (e.g. go test in the repo).
func Version() string {
	if version == "" {
		return "unknown"
	}
	return version
}
