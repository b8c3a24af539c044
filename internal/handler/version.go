package handler

import (
	"net/http"
	"runtime"
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version         string `json:"version"`
	GoVersion       string `json:"go_version"`
	BuildTime       string `json:"build_time,omitempty"`
	GitCommit       string `json:"git_commit,omitempty"`
	MaterialPackSum string `json:"material_pack_checksum,omitempty"`
}

// Build-time variables (injected via ldflags)
var (
	BuildTime = "unknown"
	GitCommit = "unset"
)

// HandleVersion returns the running version and the checksum of the loaded
// material pack, so a deployment can be matched to its material data.
func HandleVersion(version, packChecksum string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionInfo{
			Version:         version,
			GoVersion:       runtime.Version(),
			BuildTime:       BuildTime,
			GitCommit:       GitCommit,
			MaterialPackSum: packChecksum,
		})
	}
}
