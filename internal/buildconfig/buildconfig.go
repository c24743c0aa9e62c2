package buildconfig

import "runtime"

// Build-time variables injected via ldflags:
//
//	-X github.com/Harshitk-cp/facturador/internal/buildconfig.version=...
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// Info is reported by /metrics and logged at startup.
func Info() map[string]string {
	info := map[string]string{
		"version":    version,
		"commit":     commit,
		"go_version": runtime.Version(),
	}
	if buildDate != "" {
		info["build_date"] = buildDate
	}
	return info
}
