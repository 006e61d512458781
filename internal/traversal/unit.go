package traversal

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoOrigin is returned by ReadUnit for names that came from a synthetic
// source and have no container to read from.
var ErrNoOrigin = errors.New("unit has no origin")

// maxUnitSize bounds how much of a single unit is read.
const maxUnitSize = 1 << 20

// ReadUnit returns the contents of the unit for name inside origin, which is
// a directory root or a zip archive as reported to a Listener.
func ReadUnit(origin, name, suffix string) ([]byte, error) {
	if origin == "" {
		return nil, ErrNoOrigin
	}
	if suffix == "" {
		suffix = DefaultSuffix
	}

	info, err := os.Stat(origin)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", name, err)
	}
	if info.IsDir() {
		return readDirUnit(origin, name, suffix)
	}
	return readArchiveUnit(origin, name, suffix)
}

// readDirUnit tries the path spelled by name first. Names are NFC and dots
// stand for separators as well as dots in file stems, so on a miss the tree
// is searched for the file whose cleaned path equals name, descending only
// into directories that prefix it.
func readDirUnit(root, name, suffix string) ([]byte, error) {
	direct := filepath.Join(root, strings.ReplaceAll(name, ".", string(filepath.Separator))+suffix)
	if data, err := os.ReadFile(direct); err == nil {
		return data, nil
	}

	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !strings.HasPrefix(name, CleanUp(rel, "")+".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), suffix) && CleanUp(rel, suffix) == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if found == "" {
		return nil, fmt.Errorf("reading unit %s: %w", name, os.ErrNotExist)
	}
	data, err := os.ReadFile(found)
	if err != nil {
		return nil, fmt.Errorf("reading unit %s: %w", name, err)
	}
	return data, nil
}

func readArchiveUnit(path, name, suffix string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, suffix) || CleanUp(f.Name, suffix) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in %s: %w", f.Name, path, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxUnitSize))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s in %s: %w", f.Name, path, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unit %s not found in %s: %w", name, path, os.ErrNotExist)
}
