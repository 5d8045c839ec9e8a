// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the API binary
func Info() BuildInfo { return For(APIService) }

// For returns the build information stamped with a binary name.
// version, commit and date are set at build time:
// -ldflags "-X 'roaming/internal/core/version.version=v0.1.0' -X 'roaming/internal/core/version.commit=abcd'"
func For(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// Binary names
const (
	APIService       = "roaming-api"
	RetentionService = "roaming-retention"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
