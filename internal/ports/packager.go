package ports

import (
	"context"

	"chartdeps/internal/types"
)

// PackagerPort turns a chart's working tree into a single compressed
// archive.  The archive is produced only after every dependency of the
// chart has been extracted into its working tree, so whatever reads the
// archive later sees the dependencies in place.
type PackagerPort interface {
	Package(ctx context.Context, chart types.Chart, outputDir string) (string, error)
}

// ExtractorPort unpacks a dependency archive into a reserved
// subdirectory of the target chart's working tree.  A prior extraction
// at the same location is fully replaced, never merged.
type ExtractorPort interface {
	Extract(archivePath string, targetDir string, subdir string) error
}

// ExternalResolverPort resolves exact repository coordinates to a
// single local archive file.  More than one matching archive is an
// error, not a choice.
type ExternalResolverPort interface {
	Resolve(ctx context.Context, coords types.ExternalCoordinates) (string, error)
}
