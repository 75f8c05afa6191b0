package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"chartdeps/internal/types"
)

func TestWriteBuildReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "build.report")
	report := types.BuildReport{
		Failed: true,
		Nodes: []types.NodeReport{
			{Node: "platform/common", Status: types.ChartStatusSucceeded, Archive: "/out/common-0.3.0.tgz"},
			{Node: "platform/main", Status: types.ChartStatusPackagingFailed, Error: "packaging failed for platform/main: boom"},
			{Node: "infra/main", Status: types.ChartStatusBlocked, BlockedBy: "platform/main"},
		},
	}

	require.NoError(t, NewReportFileAdapter().WriteBuildReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded types.BuildReport
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	require.Equal(t, report, loaded)
}

func TestWriteBuildReportUnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "taken")
	writeFile(t, blocker, "a file, not a directory")

	err := NewReportFileAdapter().WriteBuildReport(filepath.Join(blocker, "build.report"), types.BuildReport{})
	require.Error(t, err)
}
