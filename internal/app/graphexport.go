package app

import (
	"context"
	"fmt"
	"strings"

	"chartdeps/internal/core"
)

// Graph renders the resolved dependency graph in DOT format for
// inspection with standard graphviz tooling.
func (s Service) Graph(ctx context.Context, req GraphRequest) (GraphResult, error) {
	dir, err := s.loadDirectory(ctx, req.Manifests, req.Workspace)
	if err != nil {
		return GraphResult{}, err
	}
	graph, err := core.NewGraphBuilder(dir).Build(ctx)
	if err != nil {
		return GraphResult{}, err
	}

	var builder strings.Builder
	builder.WriteString("digraph chartdeps {\n")
	for _, node := range graph.Nodes() {
		shape := "box"
		if node.IsExternal() {
			shape = "ellipse"
		}
		builder.WriteString(fmt.Sprintf("  %q [shape=%s];\n", string(node.ID), shape))
	}
	for _, edge := range graph.Edges() {
		builder.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n",
			string(edge.Source.ID), string(edge.Target.ID), edge.Subdir))
	}
	builder.WriteString("}\n")
	return GraphResult{DOT: builder.String()}, nil
}
