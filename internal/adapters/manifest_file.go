package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"chartdeps/internal/ports"
	"chartdeps/internal/types"
)

type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

func (a ManifestFileAdapter) LoadUnit(path string) (types.UnitManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.UnitManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("unit manifest not found").
			WithCause(err)
	}
	var manifest types.UnitManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return types.UnitManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse unit manifest yaml").
			WithCause(err)
	}
	if manifest.Kind != types.ManifestKindUnit {
		return types.UnitManifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest kind is not unit")
	}
	return manifest, nil
}

var _ ports.ManifestPort = ManifestFileAdapter{}
