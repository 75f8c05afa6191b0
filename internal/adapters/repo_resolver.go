package adapters

import (
	"context"
	"strings"

	"chartdeps/internal/ports"
	"chartdeps/internal/types"
)

// RepoResolverAdapter dispatches external coordinate resolution by
// repository scheme: http(s) repositories go through the HTTP adapter,
// anything else is treated as a local directory.  Both yield the same
// opaque archive path, so the orchestrator never learns the origin.
type RepoResolverAdapter struct {
	HTTP  HTTPRepoAdapter
	Local LocalRepoAdapter
}

func NewRepoResolverAdapter(cacheDir string, timeoutSec int, retries int, retryDelayMs int) RepoResolverAdapter {
	return RepoResolverAdapter{
		HTTP:  NewHTTPRepoAdapter(cacheDir, timeoutSec, retries, retryDelayMs),
		Local: NewLocalRepoAdapter(),
	}
}

func (a RepoResolverAdapter) Resolve(ctx context.Context, coords types.ExternalCoordinates) (string, error) {
	if strings.HasPrefix(coords.Repository, "http://") || strings.HasPrefix(coords.Repository, "https://") {
		return a.HTTP.Resolve(ctx, coords)
	}
	return a.Local.Resolve(ctx, coords)
}

var _ ports.ExternalResolverPort = RepoResolverAdapter{}
