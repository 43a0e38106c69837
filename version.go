package uvdocs

import "context"

// VersionSource reports the latest upstream uv version from one place.
type VersionSource interface {
	// Name identifies the source in logs and reports.
	Name() string

	// LatestVersion returns the version string or an error if the source is
	// unreachable or its payload is malformed.
	LatestVersion(ctx context.Context) (string, error)
}

// VersionOracle determines the current upstream version.
type VersionOracle interface {
	// CurrentVersion never fails: when no source answers it returns a record
	// holding Unknown.
	CurrentVersion(ctx context.Context) VersionRecord
}
