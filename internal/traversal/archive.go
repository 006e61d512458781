package traversal

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/typelocator/internal/manifest"
)

// maxManifestSize bounds how much of an archive manifest is read.
const maxManifestSize = 1 << 20

// traverseArchive reports every unit entry of the zip at path, then follows
// the search-path field of the archive manifest, if any.
func (s *SearchPath) traverseArchive(path string, st *walkState) {
	s.log.Info().Str("path", path).Msg("analyzing archive")

	zr, err := zip.OpenReader(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("failed to inspect archive")
		return
	}
	defer zr.Close()

	var manifestFile *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.Name == manifest.ArchiveManifestName {
			manifestFile = f
			continue
		}
		if !strings.HasSuffix(f.Name, s.suffix) || s.excluder.ExcludeFile(f.Name) {
			continue
		}
		s.emit(CleanUp(f.Name, s.suffix), path, st)
	}

	if manifestFile == nil {
		return
	}
	m, err := readArchiveManifest(manifestFile)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("ignoring archive manifest")
		return
	}
	base := filepath.Dir(path)
	for _, ref := range m.SearchPath {
		s.log.Debug().Str("archive", path).Str("ref", ref).Msg("following archive search path")
		s.traversePart(ref, base, st)
	}
}

func readArchiveManifest(f *zip.File) (*manifest.ArchiveManifest, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return manifest.ParseArchive(data)
}
