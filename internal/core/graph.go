package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"chartdeps/internal/types"
)

// Node is one producer in the dependency graph: a chart owned by the
// build, or a synthetic node for an externally resolved archive.
// External nodes are never packaged; they only feed extractions.
type Node struct {
	ID       types.NodeID
	Chart    *types.Chart
	External *types.ExternalCoordinates

	deps       []*Edge // incoming, in reference declaration order
	dependents []*Node
}

func (n *Node) IsExternal() bool {
	return n.External != nil
}

// Incoming returns the edges feeding this node, in the declaration
// order of the references that produced them.
func (n *Node) Incoming() []*Edge {
	return n.deps
}

// Dependents returns the nodes that consume this node's archive.
func (n *Node) Dependents() []*Node {
	return n.dependents
}

// Edge is a resolved producer -> consumer relationship.  Subdir is the
// reserved subdirectory (relative to the target's working tree) the
// source archive is extracted into.
type Edge struct {
	Source *Node
	Target *Node
	Subdir string
}

// Graph is the dependency graph for one build invocation.  Nodes are
// kept in declaration order: units in registration order, charts in
// manifest order, external nodes in first-reference order.  The graph
// spans build-unit boundaries; it is rebuilt from current declarations
// on every run and never persisted.
type Graph struct {
	nodes []*Node
	byID  map[types.NodeID]*Node
	edges []*Edge
}

func newGraph() *Graph {
	return &Graph{byID: map[types.NodeID]*Node{}}
}

func (g *Graph) addNode(node *Node) {
	if _, exists := g.byID[node.ID]; exists {
		return
	}
	g.nodes = append(g.nodes, node)
	g.byID[node.ID] = node
}

func (g *Graph) addEdge(edge *Edge) {
	g.edges = append(g.edges, edge)
	edge.Target.deps = append(edge.Target.deps, edge)
	edge.Source.dependents = append(edge.Source.dependents, edge.Target)
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

func (g *Graph) Node(id types.NodeID) (*Node, bool) {
	node, ok := g.byID[id]
	return node, ok
}

// Edges returns all resolved edges in declaration order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// detectCycles runs a depth-first traversal with an explicit recursion
// stack.  A back-edge to a node on the stack yields an error naming the
// full cycle path for diagnostics.  A self-reference is a cycle of
// length one; cross-unit cycles are detected exactly like within-unit
// ones.
func (g *Graph) detectCycles() error {
	const (
		unvisited = iota
		inStack
		done
	)
	state := map[types.NodeID]int{}
	var stack []*Node

	var visit func(node *Node) error
	visit = func(node *Node) error {
		switch state[node.ID] {
		case done:
			return nil
		case inStack:
			return cycleError(stack, node)
		}
		state[node.ID] = inStack
		stack = append(stack, node)
		for _, dependent := range node.dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[node.ID] = done
		return nil
	}

	for _, node := range g.nodes {
		if state[node.ID] == unvisited {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}

func cycleError(stack []*Node, repeated *Node) error {
	start := 0
	for i, node := range stack {
		if node.ID == repeated.ID {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(stack)-start+1)
	for _, node := range stack[start:] {
		parts = append(parts, string(node.ID))
	}
	parts = append(parts, string(repeated.ID))
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("cycle detected: %s", strings.Join(parts, " -> ")))
}

// TopoOrder returns a total order consistent with every edge.  Ties are
// broken by declaration order, never by map iteration, so repeated runs
// over unchanged declarations produce an identical schedule.
func (g *Graph) TopoOrder() []*Node {
	indegree := map[types.NodeID]int{}
	for _, node := range g.nodes {
		indegree[node.ID] = len(node.deps)
	}
	order := make([]*Node, 0, len(g.nodes))
	scheduled := map[types.NodeID]bool{}
	for len(order) < len(g.nodes) {
		progressed := false
		for _, node := range g.nodes {
			if scheduled[node.ID] || indegree[node.ID] != 0 {
				continue
			}
			scheduled[node.ID] = true
			order = append(order, node)
			for _, dependent := range node.dependents {
				indegree[dependent.ID]--
			}
			progressed = true
			break
		}
		if !progressed {
			// Unreachable once detectCycles has passed.
			break
		}
	}
	return order
}
