package mock

import (
	"context"

	"github.com/fwojciec/uvdocs"
)

var _ uvdocs.VersionSource = (*VersionSource)(nil)

// VersionSource is a mock implementation of uvdocs.VersionSource.
type VersionSource struct {
	NameFn          func() string
	LatestVersionFn func(ctx context.Context) (string, error)
}

func (s *VersionSource) Name() string {
	return s.NameFn()
}

func (s *VersionSource) LatestVersion(ctx context.Context) (string, error) {
	return s.LatestVersionFn(ctx)
}

var _ uvdocs.VersionOracle = (*VersionOracle)(nil)

// VersionOracle is a mock implementation of uvdocs.VersionOracle.
type VersionOracle struct {
	CurrentVersionFn func(ctx context.Context) uvdocs.VersionRecord
}

func (o *VersionOracle) CurrentVersion(ctx context.Context) uvdocs.VersionRecord {
	return o.CurrentVersionFn(ctx)
}
