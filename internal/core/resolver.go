package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"chartdeps/internal/types"
)

// Producer is anything that yields a single packaged archive: a chart
// packaged by this build, or an external archive resolved from a
// repository.  Exactly one field is set.
type Producer struct {
	Chart    *types.Chart
	External *types.ExternalCoordinates
}

func (p Producer) IsExternal() bool {
	return p.External != nil
}

// ID returns the graph node identity of the producer.
func (p Producer) ID() types.NodeID {
	if p.External != nil {
		return types.NodeID(p.External.String())
	}
	return types.NodeID(p.Chart.Key.String())
}

// Name returns the producer name used for extraction placement.
func (p Producer) Name() string {
	if p.External != nil {
		return p.External.Name
	}
	return p.Chart.Key.Name
}

// ResolvedEdge is a concrete producer -> consumer dependency.
type ResolvedEdge struct {
	Source Producer
	Target *types.Chart
}

// Resolver turns declared dependency references into resolved edges.
// It reads the registry directory and nothing else; resolution has no
// side effects.
type Resolver struct {
	dir *Directory
}

func NewResolver(dir *Directory) Resolver {
	return Resolver{dir: dir}
}

// Resolve resolves every declared reference of one chart, in
// declaration order.  An unresolvable reference is a configuration
// error reported before any packaging starts.
func (r Resolver) Resolve(chart *types.Chart) ([]ResolvedEdge, error) {
	edges := make([]ResolvedEdge, 0, len(chart.Dependencies))
	for _, ref := range chart.Dependencies {
		producer, err := r.resolveReference(chart, ref)
		if err != nil {
			return nil, err
		}
		edges = append(edges, ResolvedEdge{Source: producer, Target: chart})
	}
	return edges, nil
}

func (r Resolver) resolveReference(chart *types.Chart, ref types.DependencyReference) (Producer, error) {
	switch ref.Kind {
	case types.ReferenceKindName:
		registry, ok := r.dir.Unit(chart.Key.Unit)
		if !ok {
			return Producer{}, unknownUnit(chart.Key, chart.Key.Unit)
		}
		source, ok := registry.Chart(ref.ChartName)
		if !ok {
			return Producer{}, unknownChart(chart.Key, types.ChartKey{Unit: chart.Key.Unit, Name: ref.ChartName})
		}
		return Producer{Chart: source}, nil
	case types.ReferenceKindUnit:
		registry, ok := r.dir.Unit(ref.UnitID)
		if !ok {
			return Producer{}, unknownUnit(chart.Key, ref.UnitID)
		}
		name := ref.UnitChartName
		if name == "" {
			name = types.DefaultChartName
		}
		source, ok := registry.Chart(name)
		if !ok {
			return Producer{}, unknownChart(chart.Key, types.ChartKey{Unit: ref.UnitID, Name: name})
		}
		return Producer{Chart: source}, nil
	case types.ReferenceKindExternal:
		coords := ref.External
		return Producer{External: &coords}, nil
	default:
		return Producer{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("chart %s has a reference of unknown kind %q", chart.Key, ref.Kind))
	}
}

// DirectReference collapses a dependency declared by direct chart
// object into the equivalent by-name or cross-unit reference, after
// checking that the object is the chart registered under its key.  Both
// access paths express the same relation; only one internal variant
// reaches graph construction.
func (r Resolver) DirectReference(from *types.Chart, target *types.Chart) (types.DependencyReference, error) {
	if !r.dir.Contains(target) {
		return types.DependencyReference{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown chart %s: direct reference from %s does not match any registry", target.Key, from.Key))
	}
	if target.Key.Unit == from.Key.Unit {
		return types.DependencyReference{
			Kind:      types.ReferenceKindName,
			ChartName: target.Key.Name,
		}, nil
	}
	return types.DependencyReference{
		Kind:          types.ReferenceKindUnit,
		UnitID:        target.Key.Unit,
		UnitChartName: target.Key.Name,
	}, nil
}

func unknownChart(from types.ChartKey, missing types.ChartKey) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("unknown chart %s referenced by %s", missing, from))
}

func unknownUnit(from types.ChartKey, missing string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("unknown build unit %s referenced by %s", missing, from))
}
