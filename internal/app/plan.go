package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"chartdeps/internal/core"
)

// Plan computes the deterministic operation schedule without executing
// anything.  Running Plan twice over unchanged declarations yields an
// identical schedule.
func (s Service) Plan(ctx context.Context, req PlanRequest) (PlanResult, error) {
	dir, err := s.loadDirectory(ctx, req.Manifests, req.Workspace)
	if err != nil {
		return PlanResult{}, err
	}
	graph, err := core.NewGraphBuilder(dir).Build(ctx)
	if err != nil {
		return PlanResult{}, err
	}
	schedule := core.BuildSchedule(graph)
	log.Ctx(ctx).Debug().Int("operations", len(schedule)).Msg("schedule computed")
	return PlanResult{Schedule: schedule}, nil
}
