package types

type ReferenceKind string

const (
	// ReferenceKindName points at a chart in the same build unit by name.
	// A reference declared by direct chart object collapses to this kind
	// after an identity check against the owning registry.
	ReferenceKindName ReferenceKind = "name"
	// ReferenceKindUnit points at a chart in another build unit.
	ReferenceKindUnit ReferenceKind = "unit"
	// ReferenceKindExternal points at an archive resolved from a chart
	// repository by exact coordinates.
	ReferenceKindExternal ReferenceKind = "external"
)

type OperationKind string

const (
	OperationKindFetch   OperationKind = "fetch"
	OperationKindExtract OperationKind = "extract"
	OperationKindPackage OperationKind = "package"
)

type ChartStatus string

const (
	ChartStatusSucceeded       ChartStatus = "succeeded"
	ChartStatusPackagingFailed ChartStatus = "packaging-failed"
	ChartStatusFetchFailed     ChartStatus = "fetch-failed"
	ChartStatusBlocked         ChartStatus = "blocked"
)

type ManifestKind string

const (
	ManifestKindUnit ManifestKind = "unit"
)
