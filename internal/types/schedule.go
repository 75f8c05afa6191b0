package types

// NodeID identifies a node in the dependency graph: "unit/name" for
// chart nodes, the coordinate string for synthetic external nodes.
type NodeID string

// Operation is one step of a computed schedule.  Fetch and package
// operations carry the producing node; extract operations additionally
// carry the consuming chart and the reserved subdirectory the archive
// lands in.
type Operation struct {
	Kind   OperationKind
	Node   NodeID
	Target ChartKey
	Subdir string
}

// Schedule is a total order of operations consistent with every edge of
// the dependency graph.  Recomputing it over unchanged declarations
// yields an identical sequence.
type Schedule []Operation
