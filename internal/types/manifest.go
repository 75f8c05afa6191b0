package types

type Metadata struct {
	Owners      []string `yaml:"owners,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// ManifestDefaults provides unit-level defaults that the CLI and
// application layer use when a value is not explicitly provided via
// flags or environment variables.
type ManifestDefaults struct {
	Output     string `yaml:"output,omitempty"`
	Repository string `yaml:"repository,omitempty"`
}

// DependencyDecl is the YAML form of a dependency reference.  Exactly
// one addressing style must be used per entry:
//
//	- chart: common                          same-unit, by name
//	- unit: infra                            cross-unit primary chart
//	- unit: infra
//	  chart: ingress                         cross-unit, named chart
//	- repository: https://charts.example.com
//	  name: postgresql
//	  version: 12.1.2                        external coordinates
type DependencyDecl struct {
	Chart      string `yaml:"chart,omitempty"`
	Unit       string `yaml:"unit,omitempty"`
	Repository string `yaml:"repository,omitempty"`
	Name       string `yaml:"name,omitempty"`
	Version    string `yaml:"version,omitempty"`
}

type ChartDecl struct {
	Name         string           `yaml:"name"`
	Version      string           `yaml:"version"`
	Source       string           `yaml:"source"`
	Dependencies []DependencyDecl `yaml:"dependencies,omitempty"`
}

// UnitManifest is the declaration surface for one build unit: its
// identity plus the ordered set of charts it owns.  Chart order in the
// manifest is the declaration order used for deterministic scheduling.
type UnitManifest struct {
	APIVersion string           `yaml:"api_version"`
	Kind       ManifestKind     `yaml:"kind"`
	Unit       string           `yaml:"unit"`
	Metadata   Metadata         `yaml:"metadata,omitempty"`
	Defaults   ManifestDefaults `yaml:"defaults,omitempty"`
	Charts     []ChartDecl      `yaml:"charts"`
}
