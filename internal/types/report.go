package types

// NodeReport records the outcome of one graph node in a build run.
// BlockedBy names the root-cause node for blocked entries so a single
// upstream failure can be told apart from the set it cascaded into.
type NodeReport struct {
	Node      NodeID      `yaml:"node"`
	Status    ChartStatus `yaml:"status"`
	Archive   string      `yaml:"archive,omitempty"`
	Error     string      `yaml:"error,omitempty"`
	BlockedBy NodeID      `yaml:"blocked_by,omitempty"`
}

// BuildReport aggregates per-node outcomes for one build invocation.
// Entries follow the schedule order of the run that produced them.
type BuildReport struct {
	Nodes  []NodeReport `yaml:"nodes"`
	Failed bool         `yaml:"failed"`
}

// FailedNodes returns the ids of root-cause failures, excluding nodes
// that were merely blocked by an upstream failure.
func (r BuildReport) FailedNodes() []NodeID {
	var failed []NodeID
	for _, node := range r.Nodes {
		if node.Status == ChartStatusPackagingFailed || node.Status == ChartStatusFetchFailed {
			failed = append(failed, node.Node)
		}
	}
	return failed
}

// BlockedNodes returns the ids of nodes skipped because of a transitive
// dependency failure.
func (r BuildReport) BlockedNodes() []NodeID {
	var blocked []NodeID
	for _, node := range r.Nodes {
		if node.Status == ChartStatusBlocked {
			blocked = append(blocked, node.Node)
		}
	}
	return blocked
}
