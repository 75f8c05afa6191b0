package app

import (
	"context"
	"path/filepath"

	"chartdeps/internal/adapters"
	"chartdeps/internal/core"
	"chartdeps/internal/ports"
)

type Service struct {
	Manifests ports.ManifestPort
	Workspace ports.WorkspacePort
	Packager  ports.PackagerPort
	Extractor ports.ExtractorPort
	Reports   ports.ReportPort

	// External overrides the default per-build repository resolver when
	// set; tests inject fakes through it.
	External ports.ExternalResolverPort
}

func NewService() Service {
	archive := adapters.NewChartArchiveAdapter()
	return Service{
		Manifests: adapters.NewManifestFileAdapter(),
		Workspace: adapters.NewWorkspaceAdapter(),
		Packager:  archive,
		Extractor: archive,
		Reports:   adapters.NewReportFileAdapter(),
	}
}

// loadDirectory loads and compiles every requested unit manifest into a
// populated registry directory.  Explicit manifest paths come first,
// then workspace discovery, preserving order and dropping duplicates so
// repeated runs see the same declaration order.
func (s Service) loadDirectory(ctx context.Context, manifests []string, workspace []string) (*core.Directory, error) {
	paths, err := s.collectManifestPaths(manifests, workspace)
	if err != nil {
		return nil, err
	}
	compiler := core.NewManifestCompiler()
	dir := core.NewDirectory()
	for _, path := range paths {
		manifest, err := s.Manifests.LoadUnit(path)
		if err != nil {
			return nil, err
		}
		charts, err := compiler.Compile(ctx, manifest, filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		registry := core.NewRegistry(manifest.Unit)
		for _, chart := range charts {
			if err := registry.Add(chart); err != nil {
				return nil, err
			}
		}
		if err := dir.Register(registry); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

func (s Service) collectManifestPaths(manifests []string, workspace []string) ([]string, error) {
	seen := map[string]struct{}{}
	var paths []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		paths = append(paths, clean)
	}
	for _, path := range manifests {
		add(path)
	}
	for _, root := range workspace {
		found, err := s.Workspace.FindUnitManifests(root)
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			add(path)
		}
	}
	if len(paths) == 0 {
		return nil, errNoManifests()
	}
	return paths, nil
}
