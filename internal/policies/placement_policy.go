// Package policies holds the pure decision rules that the core engine
// consults: where a dependency archive is placed inside its dependent
// chart's working tree.
package policies

import "path/filepath"

// ReservedDir is the subdirectory of a chart's working tree that
// chartdeps owns.  Only the extractor writes under it, and only as part
// of a scheduled edge for that chart.
const ReservedDir = "charts"

// PlacementSource describes one producer feeding a target chart.  Unit
// is empty for external archives; Version is used only to disambiguate
// external name collisions.
type PlacementSource struct {
	Unit    string
	Name    string
	Version string
}

// PlacementPolicy assigns each incoming dependency of a target chart a
// distinct subdirectory under ReservedDir, named after the source.
type PlacementPolicy struct{}

func NewPlacementPolicy() PlacementPolicy {
	return PlacementPolicy{}
}

// Subdirs returns one relative path per source, in input order.  The
// plain source name is used unless two sources of the same target share
// a name; colliding chart sources are then qualified by their unit id
// and colliding external sources by their version, so different origins
// never write to the same subdirectory.
func (p PlacementPolicy) Subdirs(sources []PlacementSource) []string {
	counts := map[string]int{}
	for _, source := range sources {
		counts[source.Name]++
	}
	paths := make([]string, 0, len(sources))
	for _, source := range sources {
		name := source.Name
		if counts[source.Name] > 1 {
			if source.Unit != "" {
				name = source.Unit + "_" + source.Name
			} else {
				name = source.Name + "-" + source.Version
			}
		}
		paths = append(paths, filepath.Join(ReservedDir, name))
	}
	return paths
}
