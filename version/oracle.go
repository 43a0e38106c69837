// Package version determines the current upstream uv version from an
// ordered chain of sources.
package version

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/uvdocs"
)

// DefaultTimeout bounds each source lookup.
const DefaultTimeout = 10 * time.Second

// Ensure Oracle implements uvdocs.VersionOracle at compile time.
var _ uvdocs.VersionOracle = (*Oracle)(nil)

// Oracle asks each source in turn and returns the first non-empty answer.
type Oracle struct {
	Sources []uvdocs.VersionSource

	// Timeout bounds each source individually. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewOracle creates an Oracle over sources, tried in order.
func NewOracle(sources ...uvdocs.VersionSource) *Oracle {
	return &Oracle{Sources: sources, Timeout: DefaultTimeout}
}

// CurrentVersion returns the first version any source reports, or a record
// holding uvdocs.Unknown when every source fails. It never fails.
func (o *Oracle) CurrentVersion(ctx context.Context) uvdocs.VersionRecord {
	for _, src := range o.Sources {
		if ctx.Err() != nil {
			break
		}
		if v, ok := o.try(ctx, src); ok {
			return uvdocs.VersionRecord{Version: v}
		}
	}
	return uvdocs.VersionRecord{Version: uvdocs.Unknown}
}

func (o *Oracle) try(ctx context.Context, src uvdocs.VersionSource) (string, bool) {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := src.LatestVersion(ctx)
	if err != nil {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
