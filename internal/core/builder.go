package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"chartdeps/internal/policies"
	"chartdeps/internal/types"
)

// GraphBuilder assembles resolved edges into the dependency graph for a
// whole multi-unit build: create every chart node in declaration order,
// resolve every reference, materialize external nodes, assign
// extraction placements, then reject cycles before any scheduling.
type GraphBuilder struct {
	dir       *Directory
	resolver  Resolver
	placement policies.PlacementPolicy
}

func NewGraphBuilder(dir *Directory) GraphBuilder {
	return GraphBuilder{
		dir:       dir,
		resolver:  NewResolver(dir),
		placement: policies.NewPlacementPolicy(),
	}
}

func (b GraphBuilder) Build(ctx context.Context) (*Graph, error) {
	graph := newGraph()

	for _, registry := range b.dir.Registries() {
		for _, chart := range registry.Charts() {
			graph.addNode(&Node{
				ID:    types.NodeID(chart.Key.String()),
				Chart: chart,
			})
		}
	}

	for _, registry := range b.dir.Registries() {
		for _, chart := range registry.Charts() {
			edges, err := b.resolver.Resolve(chart)
			if err != nil {
				return nil, err
			}
			target, _ := graph.Node(types.NodeID(chart.Key.String()))
			b.addResolvedEdges(graph, target, edges)
		}
	}
	log.Ctx(ctx).Debug().
		Int("nodes", len(graph.Nodes())).
		Int("edges", len(graph.Edges())).
		Msg("dependency graph assembled")

	if err := graph.detectCycles(); err != nil {
		return nil, err
	}
	return graph, nil
}

func (b GraphBuilder) addResolvedEdges(graph *Graph, target *Node, edges []ResolvedEdge) {
	sources := make([]policies.PlacementSource, 0, len(edges))
	nodes := make([]*Node, 0, len(edges))
	for _, edge := range edges {
		source, ok := graph.Node(edge.Source.ID())
		if !ok {
			// First reference to these external coordinates in the build.
			source = &Node{ID: edge.Source.ID(), External: edge.Source.External}
			graph.addNode(source)
		}
		nodes = append(nodes, source)
		placement := policies.PlacementSource{Name: edge.Source.Name()}
		if edge.Source.IsExternal() {
			placement.Version = edge.Source.External.Version
		} else {
			placement.Unit = edge.Source.Chart.Key.Unit
		}
		sources = append(sources, placement)
	}
	subdirs := b.placement.Subdirs(sources)
	for i, source := range nodes {
		graph.addEdge(&Edge{Source: source, Target: target, Subdir: subdirs[i]})
	}
}
