package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"chartdeps/internal/types"
)

func buildTestGraph(t *testing.T) *Graph {
	t.Helper()
	dir, charts := twoUnitDirectory(t)
	dependsOnName(charts["platform/main"], "common")
	dependsOnUnit(charts["platform/main"], "infra", "")
	charts["infra/main"].Dependencies = []types.DependencyReference{
		{Kind: types.ReferenceKindExternal, External: types.ExternalCoordinates{
			Repository: "https://charts.example.com", Name: "postgresql", Version: "12.1.2",
		}},
	}
	graph, err := NewGraphBuilder(dir).Build(t.Context())
	require.NoError(t, err)
	return graph
}

func TestSchedulePackagesEachChartExactlyOnce(t *testing.T) {
	dir, charts := twoUnitDirectory(t)
	// common has three dependents.
	dependsOnName(charts["platform/main"], "common")
	dependsOnUnit(charts["infra/main"], "platform", "common")
	dependsOnUnit(charts["infra/ingress"], "platform", "common")
	graph, err := NewGraphBuilder(dir).Build(t.Context())
	require.NoError(t, err)

	schedule := BuildSchedule(graph)
	packages := map[types.NodeID]int{}
	for _, op := range schedule {
		if op.Kind == types.OperationKindPackage {
			packages[op.Node]++
		}
	}
	require.Equal(t, 1, packages["platform/common"])
	for node, count := range packages {
		require.Equal(t, 1, count, "node %s packaged more than once", node)
	}
}

func TestScheduleExtractionSitsBetweenSourceAndTargetPackaging(t *testing.T) {
	graph := buildTestGraph(t)
	schedule := BuildSchedule(graph)

	produced := map[types.NodeID]int{}
	packaged := map[types.NodeID]int{}
	for i, op := range schedule {
		switch op.Kind {
		case types.OperationKindFetch:
			produced[op.Node] = i
		case types.OperationKindPackage:
			produced[op.Node] = i
			packaged[op.Node] = i
		}
	}
	for i, op := range schedule {
		if op.Kind != types.OperationKindExtract {
			continue
		}
		sourceDone, ok := produced[op.Node]
		require.True(t, ok, "extract before its source op: %s", op.Node)
		require.Less(t, sourceDone, i)
		targetID := types.NodeID(op.Target.String())
		require.Less(t, i, packaged[targetID],
			"extraction for %s must precede packaging of %s", op.Node, targetID)
	}
}

func TestScheduleExternalFetchIsLeafOperation(t *testing.T) {
	graph := buildTestGraph(t)
	schedule := BuildSchedule(graph)

	var kinds []types.OperationKind
	for _, op := range schedule {
		kinds = append(kinds, op.Kind)
		if op.Kind == types.OperationKindFetch {
			require.Equal(t, types.NodeID("https://charts.example.com::postgresql-12.1.2"), op.Node)
		}
	}
	require.Contains(t, kinds, types.OperationKindFetch)
}

func TestScheduleIsIdempotent(t *testing.T) {
	first := BuildSchedule(buildTestGraph(t))
	second := BuildSchedule(buildTestGraph(t))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("schedule differs between identical runs (-first +second):\n%s", diff)
	}
}
