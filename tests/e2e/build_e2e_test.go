package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chartdeps/tests/testutil"
)

func TestBuildCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	workspace := t.TempDir()
	testutil.CopyTree(t, filepath.Join(root, "fixtures", "workspace"), workspace)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/chartdeps", "build",
		"--workspace", workspace,
		"--output", outDir,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "common-0.3.0.tgz"))
	require.FileExists(t, filepath.Join(outDir, "main-1.2.0.tgz"))
	require.FileExists(t, filepath.Join(outDir, "main-2.0.0.tgz"))
	require.FileExists(t, filepath.Join(outDir, "build.report"))
	require.Contains(t, string(out), "succeeded")
}

func TestValidateCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", "./cmd/chartdeps", "validate",
		"--workspace", filepath.Join(root, "fixtures", "workspace"),
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	require.Contains(t, string(out), "validated: 3 charts")
}

func TestBuildCommandReportsCycleE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	workspace := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "charts-src", "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "charts-src", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "chartdeps.yaml"), []byte(`api_version: v1
kind: unit
unit: app
charts:
  - name: a
    version: 1.0.0
    source: charts-src/a
    dependencies:
      - chart: b
  - name: b
    version: 1.0.0
    source: charts-src/b
    dependencies:
      - chart: a
`), 0o644))

	cmd := exec.Command("go", "run", "./cmd/chartdeps", "build",
		"--workspace", workspace,
		"--output", t.TempDir(),
	)
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.Error(t, err)
	require.Contains(t, string(out), "cycle detected: app/a -> app/b -> app/a")
}
