package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"chartdeps/internal/core"
)

// Validate loads the requested unit manifests, resolves every declared
// dependency reference, and rejects cycles.  It performs the entire
// configuration phase without any side effect, so every configuration
// error surfaces before a single archive is produced.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	dir, err := s.loadDirectory(ctx, req.Manifests, req.Workspace)
	if err != nil {
		return ValidateResult{}, err
	}
	graph, err := core.NewGraphBuilder(dir).Build(ctx)
	if err != nil {
		return ValidateResult{}, err
	}

	result := ValidateResult{}
	for _, registry := range dir.Registries() {
		result.Units = append(result.Units, registry.Unit())
		result.Charts += len(registry.Charts())
	}
	log.Ctx(ctx).Debug().
		Int("units", len(result.Units)).
		Int("charts", result.Charts).
		Int("nodes", len(graph.Nodes())).
		Msg("declarations validated")
	return result, nil
}

func errNoManifests() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("no unit manifests: provide --manifest paths or --workspace roots")
}
