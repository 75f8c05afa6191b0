package ports

import "chartdeps/internal/types"

type ReportPort interface {
	WriteBuildReport(path string, report types.BuildReport) error
}
