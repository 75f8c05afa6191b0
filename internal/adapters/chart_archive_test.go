package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chartdeps/internal/types"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sampleChart(t *testing.T) types.Chart {
	t.Helper()
	source := filepath.Join(t.TempDir(), "common")
	writeFile(t, filepath.Join(source, "Chart.yaml"), "name: common\nversion: 0.3.0\n")
	writeFile(t, filepath.Join(source, "templates", "service.yaml"), "kind: Service\n")
	return types.Chart{
		Key:     types.ChartKey{Unit: "platform", Name: "common"},
		Version: "0.3.0",
		Source:  source,
	}
}

func TestPackageThenExtractRoundTrip(t *testing.T) {
	adapter := NewChartArchiveAdapter()
	chart := sampleChart(t)
	outputDir := t.TempDir()

	archive, err := adapter.Package(t.Context(), chart, outputDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outputDir, "common-0.3.0.tgz"), archive)
	require.FileExists(t, archive)

	target := t.TempDir()
	require.NoError(t, adapter.Extract(archive, target, "charts/common"))
	require.FileExists(t, filepath.Join(target, "charts", "common", "Chart.yaml"))
	require.FileExists(t, filepath.Join(target, "charts", "common", "templates", "service.yaml"))

	content, err := os.ReadFile(filepath.Join(target, "charts", "common", "Chart.yaml"))
	require.NoError(t, err)
	require.Equal(t, "name: common\nversion: 0.3.0\n", string(content))
}

func TestExtractReplacesPriorExtraction(t *testing.T) {
	adapter := NewChartArchiveAdapter()
	chart := sampleChart(t)
	outputDir := t.TempDir()
	archive, err := adapter.Package(t.Context(), chart, outputDir)
	require.NoError(t, err)

	target := t.TempDir()
	require.NoError(t, adapter.Extract(archive, target, "charts/common"))

	// Simulate a file left behind by a previous version of the dependency.
	stale := filepath.Join(target, "charts", "common", "templates", "removed.yaml")
	writeFile(t, stale, "kind: ConfigMap\n")

	require.NoError(t, adapter.Extract(archive, target, "charts/common"))
	require.NoFileExists(t, stale)
	require.FileExists(t, filepath.Join(target, "charts", "common", "Chart.yaml"))
}

func TestExtractTwoSourcesDoNotCollide(t *testing.T) {
	adapter := NewChartArchiveAdapter()
	outputDir := t.TempDir()

	first := sampleChart(t)
	second := sampleChart(t)
	second.Key.Name = "tooling"
	writeFile(t, filepath.Join(second.Source, "Chart.yaml"), "name: tooling\nversion: 0.3.0\n")

	firstArchive, err := adapter.Package(t.Context(), first, outputDir)
	require.NoError(t, err)
	secondArchive, err := adapter.Package(t.Context(), second, outputDir)
	require.NoError(t, err)

	target := t.TempDir()
	require.NoError(t, adapter.Extract(firstArchive, target, "charts/common"))
	require.NoError(t, adapter.Extract(secondArchive, target, "charts/tooling"))

	common, err := os.ReadFile(filepath.Join(target, "charts", "common", "Chart.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(common), "name: common")
	tooling, err := os.ReadFile(filepath.Join(target, "charts", "tooling", "Chart.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(tooling), "name: tooling")
}

func TestPackageIncludesExtractedDependencies(t *testing.T) {
	adapter := NewChartArchiveAdapter()
	chart := sampleChart(t)
	outputDir := t.TempDir()

	dep := sampleChart(t)
	dep.Key.Name = "base"
	depArchive, err := adapter.Package(t.Context(), dep, outputDir)
	require.NoError(t, err)
	require.NoError(t, adapter.Extract(depArchive, chart.Source, "charts/base"))

	archive, err := adapter.Package(t.Context(), chart, outputDir)
	require.NoError(t, err)

	unpacked := t.TempDir()
	require.NoError(t, adapter.Extract(archive, unpacked, "charts/common"))
	require.FileExists(t, filepath.Join(unpacked, "charts", "common", "charts", "base", "Chart.yaml"))
}

func TestPackageMissingSourceFails(t *testing.T) {
	adapter := NewChartArchiveAdapter()
	chart := types.Chart{
		Key:     types.ChartKey{Unit: "platform", Name: "ghost"},
		Version: "1.0.0",
		Source:  filepath.Join(t.TempDir(), "does-not-exist"),
	}
	_, err := adapter.Package(t.Context(), chart, t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "packaging failed")
}

func TestExtractMissingArchiveFails(t *testing.T) {
	adapter := NewChartArchiveAdapter()
	err := adapter.Extract(filepath.Join(t.TempDir(), "missing.tgz"), t.TempDir(), "charts/x")
	require.Error(t, err)
}
