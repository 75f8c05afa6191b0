package adapters

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"chartdeps/internal/ports"
	"chartdeps/internal/types"
)

// ChartArchiveAdapter packages a chart's working tree into a gzipped
// tar archive and extracts dependency archives back into working
// trees.  Archive entries are relative to the chart root; no top-level
// wrapper directory is added.
type ChartArchiveAdapter struct{}

func NewChartArchiveAdapter() ChartArchiveAdapter {
	return ChartArchiveAdapter{}
}

// Package writes <name>-<version>.tgz into outputDir from the chart's
// source tree.  It runs only after the chart's dependencies have been
// extracted, so the archive carries them.
func (a ChartArchiveAdapter) Package(ctx context.Context, chart types.Chart, outputDir string) (string, error) {
	if strings.TrimSpace(chart.Source) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("packaging failed for %s: source directory is empty", chart.Key))
	}
	if _, err := os.Stat(chart.Source); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("packaging failed for %s: source directory missing", chart.Key)).
			WithCause(err)
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("packaging failed for %s: cannot create output directory", chart.Key)).
			WithCause(err)
	}

	archivePath := filepath.Join(outputDir, fmt.Sprintf("%s-%s.tgz", chart.Key.Name, chart.Version))
	file, err := os.Create(archivePath)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("packaging failed for %s: cannot create archive", chart.Key)).
			WithCause(err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	tarWriter := tar.NewWriter(gzWriter)
	if err := tarDirectory(tarWriter, chart.Source); err != nil {
		tarWriter.Close()
		gzWriter.Close()
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("packaging failed for %s", chart.Key)).
			WithCause(err)
	}
	if err := tarWriter.Close(); err != nil {
		gzWriter.Close()
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("packaging failed for %s: cannot finalize archive", chart.Key)).
			WithCause(err)
	}
	if err := gzWriter.Close(); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("packaging failed for %s: cannot finalize archive", chart.Key)).
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("chart", chart.Key.String()).Str("archive", archivePath).Msg("chart packaged")
	return archivePath, nil
}

// Extract unpacks an archive into targetDir/subdir.  Any prior
// extraction at that location is removed first, never merged, so no
// stale files survive a dependency's version bump.
func (a ChartArchiveAdapter) Extract(archivePath string, targetDir string, subdir string) error {
	if strings.TrimSpace(archivePath) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("archive path is empty")
	}
	dest := filepath.Join(targetDir, subdir)
	if err := os.RemoveAll(dest); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to clear prior extraction").
			WithCause(err)
	}
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create extraction directory").
			WithCause(err)
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("dependency archive not found").
			WithCause(err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency archive is not a gzip stream").
			WithCause(err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("dependency archive is corrupt").
				WithCause(err)
		}
		if err := extractEntry(tarReader, header, dest); err != nil {
			return err
		}
	}
}

func tarDirectory(tarWriter *tar.Writer, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			header.Name += "/"
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(tarWriter, file)
		return err
	})
}

func extractEntry(tarReader *tar.Reader, header *tar.Header, dest string) error {
	name := filepath.FromSlash(header.Name)
	if filepath.IsAbs(name) || strings.Contains(name, "..") {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("dependency archive entry escapes target: %s", header.Name))
	}
	path := filepath.Join(dest, name)
	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(path, 0o750); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create extracted directory").
				WithCause(err)
		}
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create extracted directory").
				WithCause(err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode)&0o777)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create extracted file").
				WithCause(err)
		}
		if _, err := io.Copy(file, tarReader); err != nil {
			file.Close()
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write extracted file").
				WithCause(err)
		}
		if err := file.Close(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to close extracted file").
				WithCause(err)
		}
	default:
		// Symlinks and special files are not expected in chart archives.
	}
	return nil
}

var _ ports.PackagerPort = ChartArchiveAdapter{}
var _ ports.ExtractorPort = ChartArchiveAdapter{}
