package adapters

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"chartdeps/internal/types"
)

const indexTemplate = `apiVersion: v1
entries:
  postgresql:
    - name: postgresql
      version: 12.1.2
      urls:
        - %s
    - name: postgresql
      version: 12.2.0
      urls:
        - charts/postgresql-12.2.0.tgz
`

func newChartRepoServer(t *testing.T, archiveURL string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/index.yaml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, indexTemplate, archiveURL)
	})
	mux.HandleFunc("/charts/postgresql-12.1.2.tgz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("archive payload"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func httpCoords(server *httptest.Server) types.ExternalCoordinates {
	return types.ExternalCoordinates{Repository: server.URL, Name: "postgresql", Version: "12.1.2"}
}

func TestHTTPRepoResolveRelativeURL(t *testing.T) {
	server := newChartRepoServer(t, "charts/postgresql-12.1.2.tgz")
	cache := t.TempDir()

	path, err := NewHTTPRepoAdapter(cache, 5, 1, 10).Resolve(t.Context(), httpCoords(server))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cache, "postgresql-12.1.2.tgz"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "archive payload", string(content))
}

func TestHTTPRepoResolveAbsoluteURL(t *testing.T) {
	// The index is configured after the server exists, so serve the
	// archive from the same server under an absolute URL.
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	mux.HandleFunc("/index.yaml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, indexTemplate, server.URL+"/charts/postgresql-12.1.2.tgz")
	})
	mux.HandleFunc("/charts/postgresql-12.1.2.tgz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("archive payload"))
	})

	path, err := NewHTTPRepoAdapter(t.TempDir(), 5, 1, 10).Resolve(t.Context(), httpCoords(server))
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestHTTPRepoResolveVersionNotInIndex(t *testing.T) {
	server := newChartRepoServer(t, "charts/postgresql-12.1.2.tgz")
	coords := httpCoords(server)
	coords.Version = "99.0.0"

	_, err := NewHTTPRepoAdapter(t.TempDir(), 5, 1, 10).Resolve(t.Context(), coords)
	require.Error(t, err)
	require.Contains(t, err.Error(), "chart archive not found")
}

func TestHTTPRepoResolveDuplicateIndexEntries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`entries:
  postgresql:
    - name: postgresql
      version: 12.1.2
      urls: [a.tgz]
    - name: postgresql
      version: 12.1.2
      urls: [b.tgz]
`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, err := NewHTTPRepoAdapter(t.TempDir(), 5, 1, 10).Resolve(t.Context(), httpCoords(server))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ambiguous chart archive")
}

func TestHTTPRepoResolveEntryWithMultipleURLs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`entries:
  postgresql:
    - name: postgresql
      version: 12.1.2
      urls: [a.tgz, b.tgz]
`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, err := NewHTTPRepoAdapter(t.TempDir(), 5, 1, 10).Resolve(t.Context(), httpCoords(server))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ambiguous chart archive")
}

func TestHTTPRepoResolveMissingIndex(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	_, err := NewHTTPRepoAdapter(t.TempDir(), 5, 1, 10).Resolve(t.Context(), httpCoords(server))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to fetch repository index")
}

func TestHTTPRepoRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/index.yaml", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, indexTemplate, "charts/postgresql-12.1.2.tgz")
	})
	mux.HandleFunc("/charts/postgresql-12.1.2.tgz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("archive payload"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, err := NewHTTPRepoAdapter(t.TempDir(), 5, 3, 1).Resolve(t.Context(), httpCoords(server))
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestHTTPRepoDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/index.yaml", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, err := NewHTTPRepoAdapter(t.TempDir(), 5, 3, 1).Resolve(t.Context(), httpCoords(server))
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}
