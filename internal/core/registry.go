package core

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"chartdeps/internal/types"
)

// Registry holds the charts declared by one build unit, in declaration
// order.  It is populated during configuration and read-only once
// resolution begins.
type Registry struct {
	unit   string
	charts []*types.Chart
	byName map[string]*types.Chart
}

func NewRegistry(unit string) *Registry {
	return &Registry{
		unit:   unit,
		byName: map[string]*types.Chart{},
	}
}

func (r *Registry) Unit() string {
	return r.unit
}

func (r *Registry) Add(chart *types.Chart) error {
	if chart.Key.Unit != r.unit {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("chart %s does not belong to unit %s", chart.Key, r.unit))
	}
	if _, exists := r.byName[chart.Key.Name]; exists {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("duplicate chart %s", chart.Key))
	}
	r.charts = append(r.charts, chart)
	r.byName[chart.Key.Name] = chart
	return nil
}

func (r *Registry) Chart(name string) (*types.Chart, bool) {
	chart, ok := r.byName[name]
	return chart, ok
}

// Charts returns the registered charts in declaration order.
func (r *Registry) Charts() []*types.Chart {
	return r.charts
}

// Directory is the read-only view over all build units' registries that
// the resolver consults for cross-unit references.  It is passed in
// explicitly rather than living in package state so resolution stays a
// pure function of its inputs.
type Directory struct {
	order []string
	units map[string]*Registry
}

func NewDirectory() *Directory {
	return &Directory{units: map[string]*Registry{}}
}

func (d *Directory) Register(registry *Registry) error {
	if _, exists := d.units[registry.Unit()]; exists {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("duplicate build unit %s", registry.Unit()))
	}
	d.order = append(d.order, registry.Unit())
	d.units[registry.Unit()] = registry
	return nil
}

func (d *Directory) Unit(id string) (*Registry, bool) {
	registry, ok := d.units[id]
	return registry, ok
}

// Registries returns the registered units in registration order.
func (d *Directory) Registries() []*Registry {
	registries := make([]*Registry, 0, len(d.order))
	for _, id := range d.order {
		registries = append(registries, d.units[id])
	}
	return registries
}

// Contains reports whether the given chart object is the registered
// chart for its key.  Used to validate by-direct-object references.
func (d *Directory) Contains(chart *types.Chart) bool {
	registry, ok := d.units[chart.Key.Unit]
	if !ok {
		return false
	}
	registered, ok := registry.Chart(chart.Key.Name)
	return ok && registered == chart
}
