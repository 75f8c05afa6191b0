package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"chartdeps/internal/ports"
	"chartdeps/internal/types"
)

// LocalRepoAdapter resolves external coordinates against a filesystem
// chart repository: a flat directory of <name>-<version>.tgz archives.
type LocalRepoAdapter struct{}

func NewLocalRepoAdapter() LocalRepoAdapter {
	return LocalRepoAdapter{}
}

func (a LocalRepoAdapter) Resolve(_ context.Context, coords types.ExternalCoordinates) (string, error) {
	dir := coords.Repository
	if strings.TrimSpace(dir) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository path is empty")
	}
	if _, err := os.Stat(dir); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("chart archive not found for %s: repository missing", coords)).
			WithCause(err)
	}

	stem := fmt.Sprintf("%s-%s", coords.Name, coords.Version)
	var matches []string
	for _, ext := range []string{".tgz", ".tar.gz"} {
		candidate := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(candidate); err == nil {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("chart archive not found for %s", coords))
	case 1:
		return matches[0], nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("ambiguous chart archive for %s: %s", coords, strings.Join(matches, ", ")))
	}
}

var _ ports.ExternalResolverPort = LocalRepoAdapter{}
