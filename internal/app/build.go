package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"chartdeps/internal/adapters"
	"chartdeps/internal/core"
	"chartdeps/internal/shared"
)

const buildReportName = "build.report"

// Build resolves the dependency graph and executes it: each chart is
// packaged exactly once into the output directory, with every
// dependency's archive extracted into the dependent's working tree
// first.  Configuration errors abort before any side effect; packaging
// failures block only their dependents and the rest of the graph still
// completes.  The returned result carries the full per-node report even
// when the aggregate error is non-nil.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	dir, err := s.loadDirectory(ctx, req.Manifests, req.Workspace)
	if err != nil {
		return BuildResult{}, err
	}
	graph, err := core.NewGraphBuilder(dir).Build(ctx)
	if err != nil {
		return BuildResult{}, err
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}

	external := s.External
	if external == nil {
		external = adapters.NewRepoResolverAdapter(
			filepath.Join(outputDir, "external"),
			req.HTTPTimeoutSec,
			req.HTTPRetries,
			req.HTTPRetryDelayMs,
		)
	}
	executor := core.NewExecutor(s.Packager, s.Extractor, external, outputDir, req.Workers)
	report := executor.Run(ctx, graph)

	reportPath := filepath.Join(outputDir, buildReportName)
	if err := s.Reports.WriteBuildReport(reportPath, report); err != nil {
		return BuildResult{}, err
	}

	result := BuildResult{
		Report:     report,
		ReportPath: reportPath,
		OutputDir:  outputDir,
	}
	if report.Failed {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("build failed: failed=[%s] blocked=[%s]",
				shared.JoinNodeIDs(report.FailedNodes()),
				shared.JoinNodeIDs(report.BlockedNodes())))
	}
	return result, nil
}
