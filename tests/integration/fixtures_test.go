package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chartdeps/internal/app"
	"chartdeps/internal/types"
	"chartdeps/tests/testutil"
)

// TestFixtureWorkspaceBuild builds the committed sample workspace end to
// end with the real adapters and checks archives, extraction placement,
// and the build report.
func TestFixtureWorkspaceBuild(t *testing.T) {
	root := testutil.RepoRoot(t)
	workspace := t.TempDir()
	testutil.CopyTree(t, filepath.Join(root, "fixtures", "workspace"), workspace)
	outputDir := filepath.Join(t.TempDir(), "out")

	service := app.NewService()
	result, err := service.Build(t.Context(), app.BuildRequest{
		Workspace: []string{workspace},
		OutputDir: outputDir,
	})
	require.NoError(t, err)
	require.False(t, result.Report.Failed)

	require.FileExists(t, filepath.Join(outputDir, "common-0.3.0.tgz"))
	require.FileExists(t, filepath.Join(outputDir, "main-1.2.0.tgz"))
	require.FileExists(t, filepath.Join(outputDir, "main-2.0.0.tgz"))
	require.FileExists(t, result.ReportPath)

	// infra/main's tree carries platform/main, which carries common.
	infraCharts := filepath.Join(workspace, "infra", "charts-src", "main", "charts")
	require.FileExists(t, filepath.Join(infraCharts, "main", "Chart.yaml"))
	require.FileExists(t, filepath.Join(infraCharts, "main", "charts", "common", "templates", "configmap.yaml"))
}

func TestFixtureWorkspaceValidateAndPlan(t *testing.T) {
	root := testutil.RepoRoot(t)
	workspace := filepath.Join(root, "fixtures", "workspace")

	service := app.NewService()
	validated, err := service.Validate(t.Context(), app.ValidateRequest{Workspace: []string{workspace}})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"platform", "infra"}, validated.Units)
	require.Equal(t, 3, validated.Charts)

	plan, err := service.Plan(t.Context(), app.PlanRequest{Workspace: []string{workspace}})
	require.NoError(t, err)

	var kinds []types.OperationKind
	packaged := map[types.NodeID]bool{}
	for _, op := range plan.Schedule {
		kinds = append(kinds, op.Kind)
		if op.Kind == types.OperationKindPackage {
			require.False(t, packaged[op.Node], "chart %s packaged twice", op.Node)
			packaged[op.Node] = true
		}
	}
	// Two charts have one dependency each: two extracts, three packages.
	require.Len(t, kinds, 5)
	require.Len(t, packaged, 3)
}
