package app

import "chartdeps/internal/types"

type ValidateRequest struct {
	Manifests []string
	Workspace []string
}

type ValidateResult struct {
	Units  []string
	Charts int
}

type PlanRequest struct {
	Manifests []string
	Workspace []string
}

type PlanResult struct {
	Schedule types.Schedule
}

type BuildRequest struct {
	Manifests        []string
	Workspace        []string
	OutputDir        string
	Workers          int
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

type BuildResult struct {
	Report     types.BuildReport
	ReportPath string
	OutputDir  string
}

type GraphRequest struct {
	Manifests []string
	Workspace []string
}

type GraphResult struct {
	DOT string
}
