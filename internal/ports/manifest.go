package ports

import "chartdeps/internal/types"

// ManifestPort loads build-unit manifests from disk.
type ManifestPort interface {
	LoadUnit(path string) (types.UnitManifest, error)
}

// WorkspacePort discovers unit manifest files within workspace roots.
type WorkspacePort interface {
	FindUnitManifests(root string) ([]string, error)
}
