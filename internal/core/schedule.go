package core

import "chartdeps/internal/types"

// BuildSchedule linearizes the graph into a total order of operations.
// For every node in topological order: an external node contributes one
// fetch, a chart node contributes the extraction of each incoming edge
// followed by exactly one package operation.  Every edge's source is
// therefore packaged (or fetched) strictly before the extraction into
// its target, and the extraction strictly before the target's own
// packaging.  Each chart is packaged at most once regardless of how
// many dependents reference it.
func BuildSchedule(graph *Graph) types.Schedule {
	var schedule types.Schedule
	for _, node := range graph.TopoOrder() {
		if node.IsExternal() {
			schedule = append(schedule, types.Operation{
				Kind: types.OperationKindFetch,
				Node: node.ID,
			})
			continue
		}
		for _, edge := range node.Incoming() {
			schedule = append(schedule, types.Operation{
				Kind:   types.OperationKindExtract,
				Node:   edge.Source.ID,
				Target: node.Chart.Key,
				Subdir: edge.Subdir,
			})
		}
		schedule = append(schedule, types.Operation{
			Kind:   types.OperationKindPackage,
			Node:   node.ID,
			Target: node.Chart.Key,
		})
	}
	return schedule
}
