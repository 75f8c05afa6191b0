package types

import "fmt"

// DefaultChartName is the chart name assumed by a cross-unit reference
// that names only the unit.  It lets a dependent declare "the other
// unit's primary chart" without spelling out its name.
const DefaultChartName = "main"

// ChartKey identifies a chart within a multi-unit build.
type ChartKey struct {
	Unit string
	Name string
}

func (k ChartKey) String() string {
	return k.Unit + "/" + k.Name
}

// ExternalCoordinates locate a single prepackaged archive in a chart
// repository.  Coordinates are exact; no version-range solving happens
// anywhere in chartdeps.
type ExternalCoordinates struct {
	Repository string
	Name       string
	Version    string
}

func (c ExternalCoordinates) String() string {
	return fmt.Sprintf("%s::%s-%s", c.Repository, c.Name, c.Version)
}

// DependencyReference is a declared, not yet resolved dependency of a
// chart.  Exactly one variant is populated, selected by Kind.
type DependencyReference struct {
	Kind ReferenceKind

	// ChartName is the producer chart name for same-unit references.
	ChartName string

	// UnitID and UnitChartName select a producer in another build unit.
	// UnitChartName falls back to DefaultChartName when empty.
	UnitID        string
	UnitChartName string

	// External holds repository coordinates for external references.
	External ExternalCoordinates
}

// Chart is a packageable artifact owned by one build unit.  Declarations
// are immutable once resolution starts; ArchivePath is the only field
// populated later, after the chart has been packaged.
type Chart struct {
	Key          ChartKey
	Version      string
	Source       string
	Dependencies []DependencyReference

	ArchivePath string
}
