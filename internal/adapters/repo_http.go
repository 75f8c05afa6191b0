package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"chartdeps/internal/ports"
	"chartdeps/internal/shared"
	"chartdeps/internal/types"
)

const defaultRepoTimeout = 30 * time.Second
const defaultRepoRetries = 3
const defaultRepoRetryDelay = 200 * time.Millisecond

// HTTPRepoAdapter resolves external coordinates against an HTTP chart
// repository: it fetches the repository's index.yaml, locates the exact
// (name, version) entry, and downloads the referenced archive into a
// local cache directory.
type HTTPRepoAdapter struct {
	CacheDir   string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewHTTPRepoAdapter(cacheDir string, timeoutSec int, retries int, retryDelayMs int) HTTPRepoAdapter {
	timeout := defaultRepoTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	if retries <= 0 {
		retries = defaultRepoRetries
	}
	retryDelay := defaultRepoRetryDelay
	if retryDelayMs > 0 {
		retryDelay = time.Duration(retryDelayMs) * time.Millisecond
	}
	return HTTPRepoAdapter{
		CacheDir:   cacheDir,
		Timeout:    timeout,
		Retries:    retries,
		RetryDelay: retryDelay,
	}
}

type repoIndexEntry struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	URLs    []string `yaml:"urls"`
}

type repoIndex struct {
	APIVersion string                      `yaml:"apiVersion"`
	Entries    map[string][]repoIndexEntry `yaml:"entries"`
}

func (a HTTPRepoAdapter) Resolve(ctx context.Context, coords types.ExternalCoordinates) (string, error) {
	base := strings.TrimRight(coords.Repository, "/")
	index, err := a.fetchIndex(ctx, base)
	if err != nil {
		return "", err
	}

	var matches []repoIndexEntry
	for _, entry := range index.Entries[coords.Name] {
		if entry.Version == coords.Version {
			matches = append(matches, entry)
		}
	}
	switch {
	case len(matches) == 0:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("chart archive not found for %s", coords))
	case len(matches) > 1:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("ambiguous chart archive for %s: %d index entries match", coords, len(matches)))
	}
	if len(matches[0].URLs) != 1 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("ambiguous chart archive for %s: index entry lists %d urls", coords, len(matches[0].URLs)))
	}

	archiveURL, err := resolveArchiveURL(base, matches[0].URLs[0])
	if err != nil {
		return "", err
	}
	return a.download(ctx, archiveURL, coords)
}

func (a HTTPRepoAdapter) fetchIndex(ctx context.Context, base string) (repoIndex, error) {
	body, err := a.get(ctx, base+"/index.yaml")
	if err != nil {
		return repoIndex{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to fetch repository index").
			WithCause(err)
	}
	var index repoIndex
	if err := yaml.Unmarshal(body, &index); err != nil {
		return repoIndex{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository index is not valid yaml").
			WithCause(err)
	}
	return index, nil
}

func (a HTTPRepoAdapter) download(ctx context.Context, archiveURL string, coords types.ExternalCoordinates) (string, error) {
	if err := os.MkdirAll(a.CacheDir, 0o750); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create archive cache directory").
			WithCause(err)
	}
	body, err := a.get(ctx, archiveURL)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("chart archive not found for %s: download failed", coords)).
			WithCause(err)
	}
	path := filepath.Join(a.CacheDir, fmt.Sprintf("%s-%s.tgz", coords.Name, coords.Version))
	if err := os.WriteFile(path, body, 0o640); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write cached archive").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("url", archiveURL).Str("path", path).Msg("external archive cached")
	return path, nil
}

// get fetches a URL with the adapter's timeout and retry budget.
func (a HTTPRepoAdapter) get(ctx context.Context, rawURL string) ([]byte, error) {
	client := &http.Client{Timeout: a.Timeout}
	var lastErr error
	for attempt := 0; attempt < a.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.RetryDelay):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = shared.HTTPStatusError(resp.StatusCode, rawURL)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				// Client errors will not heal on retry.
				return nil, lastErr
			}
			continue
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

func resolveArchiveURL(base string, raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository index entry has an invalid url").
			WithCause(err)
	}
	if parsed.IsAbs() {
		return raw, nil
	}
	return base + "/" + strings.TrimLeft(raw, "/"), nil
}

var _ ports.ExternalResolverPort = HTTPRepoAdapter{}
