package featureflags

import (
	"os"
	"strings"
)

// Known flags.
const (
	// LatestOnly forces the latest-per-employee reduction on department and
	// job history views regardless of the configured default policy.
	LatestOnly = "latest_only"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
