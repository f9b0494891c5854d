package buildinfo

import "time"

// Injected via -ldflags; empty for plain `go build` runs.
var (
	Version    string // release tag
	CommitHash string // short git commit hash
	BuildTime  string // when the binary was compiled
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// Describe returns the version string shown on /health
func Describe() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if CommitHash != "" {
		v += "+" + CommitHash
	}
	return v
}
