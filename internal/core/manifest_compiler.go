package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"chartdeps/internal/types"
)

// ManifestCompiler validates unit manifests and compiles them into
// chart declarations with normalized dependency references.
type ManifestCompiler struct{}

func NewManifestCompiler() ManifestCompiler {
	return ManifestCompiler{}
}

func (c ManifestCompiler) ValidateManifest(ctx context.Context, manifest types.UnitManifest) error {
	assert.NotEmpty(ctx, manifest.APIVersion, "api_version must be set")
	assert.NotEmpty(ctx, string(manifest.Kind), "kind must be set")
	assert.NotEmpty(ctx, manifest.Unit, "unit must be set")
	if manifest.Kind != types.ManifestKindUnit {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("manifest kind must be unit, got %s", manifest.Kind))
	}
	if len(manifest.Charts) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unit %s declares no charts", manifest.Unit))
	}
	for _, decl := range manifest.Charts {
		if strings.TrimSpace(decl.Name) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unit %s has a chart without a name", manifest.Unit))
		}
		if strings.TrimSpace(decl.Version) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("chart %s/%s has no version", manifest.Unit, decl.Name))
		}
		if strings.TrimSpace(decl.Source) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("chart %s/%s has no source directory", manifest.Unit, decl.Name))
		}
		for _, dep := range decl.Dependencies {
			if _, err := compileReference(manifest.Unit, decl.Name, dep); err != nil {
				return err
			}
		}
	}
	return nil
}

// Compile turns a validated manifest into chart declarations.  Relative
// chart source paths are resolved against baseDir, the directory the
// manifest was loaded from.
func (c ManifestCompiler) Compile(ctx context.Context, manifest types.UnitManifest, baseDir string) ([]*types.Chart, error) {
	if err := c.ValidateManifest(ctx, manifest); err != nil {
		return nil, err
	}
	charts := make([]*types.Chart, 0, len(manifest.Charts))
	for _, decl := range manifest.Charts {
		source := decl.Source
		if !filepath.IsAbs(source) {
			source = filepath.Join(baseDir, source)
		}
		refs := make([]types.DependencyReference, 0, len(decl.Dependencies))
		for _, dep := range decl.Dependencies {
			ref, err := compileReference(manifest.Unit, decl.Name, dep)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		charts = append(charts, &types.Chart{
			Key:          types.ChartKey{Unit: manifest.Unit, Name: decl.Name},
			Version:      decl.Version,
			Source:       source,
			Dependencies: refs,
		})
	}
	log.Ctx(ctx).Debug().Str("unit", manifest.Unit).Int("charts", len(charts)).Msg("manifest compiled")
	return charts, nil
}

// compileReference normalizes one YAML dependency declaration into its
// single internal reference variant.  The addressing styles are
// mutually exclusive: external coordinates, cross-unit, same-unit name.
func compileReference(unit string, chart string, decl types.DependencyDecl) (types.DependencyReference, error) {
	switch {
	case strings.TrimSpace(decl.Repository) != "":
		if strings.TrimSpace(decl.Name) == "" || strings.TrimSpace(decl.Version) == "" {
			return types.DependencyReference{}, invalidReference(unit, chart, "external dependency needs name and version")
		}
		if strings.TrimSpace(decl.Unit) != "" || strings.TrimSpace(decl.Chart) != "" {
			return types.DependencyReference{}, invalidReference(unit, chart, "external dependency must not name a unit or chart")
		}
		return types.DependencyReference{
			Kind: types.ReferenceKindExternal,
			External: types.ExternalCoordinates{
				Repository: strings.TrimSpace(decl.Repository),
				Name:       strings.TrimSpace(decl.Name),
				Version:    strings.TrimSpace(decl.Version),
			},
		}, nil
	case strings.TrimSpace(decl.Unit) != "":
		if strings.TrimSpace(decl.Name) != "" || strings.TrimSpace(decl.Version) != "" {
			return types.DependencyReference{}, invalidReference(unit, chart, "cross-unit dependency carries only unit and chart")
		}
		return types.DependencyReference{
			Kind:          types.ReferenceKindUnit,
			UnitID:        strings.TrimSpace(decl.Unit),
			UnitChartName: strings.TrimSpace(decl.Chart),
		}, nil
	case strings.TrimSpace(decl.Chart) != "":
		if strings.TrimSpace(decl.Name) != "" || strings.TrimSpace(decl.Version) != "" {
			return types.DependencyReference{}, invalidReference(unit, chart, "same-unit dependency carries only chart")
		}
		return types.DependencyReference{
			Kind:      types.ReferenceKindName,
			ChartName: strings.TrimSpace(decl.Chart),
		}, nil
	default:
		return types.DependencyReference{}, invalidReference(unit, chart, "dependency declares no target")
	}
}

func invalidReference(unit string, chart string, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid dependency on chart %s/%s: %s", unit, chart, reason))
}
