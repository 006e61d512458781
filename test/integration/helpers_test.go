//go:build integration

package integration_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // TYPELOCATOR home, holds config.yaml and the cache
	CatalogDir string // a plain directory on the search path
	ArchiveDir string // zip archives on the search path
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so nothing touches the real user configuration.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		CatalogDir: t.TempDir(),
		ArchiveDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("TYPELOCATOR_LOG_LEVEL", "off")
	return env
}

// setupCatalog writes a small plugin hierarchy as unit files under dir.
func setupCatalog(t *testing.T, dir string) {
	t.Helper()

	units := map[string]string{
		"pkgA/SomeInterface.type.yaml":    "kind: capability\ndescription: Plugin contract\n",
		"pkgA/ConcreteClassA.type.yaml":   "implements: [pkgA.SomeInterface]\nversion: \"1.0.0\"\n",
		"pkgA/ConcreteClassB.type.yaml":   "implements: [pkgA.SomeInterface]\n",
		"pkgA/AbstractAncestor.type.yaml": "abstract: true\n",
		"pkgA/ConcreteChildA.type.yaml":   "extends: pkgA.AbstractAncestor\n",
		"pkgA/AbstractChild.type.yaml":    "extends: pkgA.AbstractAncestor\nabstract: true\n",
		"pkgA/Outer$Inner.type.yaml":      "implements: [pkgA.SomeInterface]\n",
		"pkgA/Broken.type.yaml":           "extends: pkgA.DoesNotExist\n",
		"pkgA/NeedsGPU.type.yaml":         "implements: [pkgA.SomeInterface]\nrequires: [gpu]\n",
		"pkgA/notes.txt":                  "not a unit",
	}
	for rel, body := range units {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(rel)), body)
	}
}

// setupArchives writes main.zip, which pulls in lib/extra.zip through its
// manifest. extra.zip points back at main.zip.
func setupArchives(t *testing.T, dir string) string {
	t.Helper()

	main := filepath.Join(dir, "main.zip")
	writeZip(t, main, map[string]string{
		"manifest.yaml":                 "name: main\nsearch-path:\n  - lib/extra.zip\n",
		"pkgB/ConcreteClassC.type.yaml": "implements: [pkgA.SomeInterface]\n",
		"pkgA/ConcreteClassA.type.yaml": "implements: [pkgA.SomeInterface]\nversion: \"2.1.0\"\n",
		"pkgB/ConcreteChildB.type.yaml": "extends: pkgA.AbstractAncestor\n",
	})
	writeZip(t, filepath.Join(dir, "lib", "extra.zip"), map[string]string{
		"manifest.yaml":        "search-path: [../main.zip]\n",
		"pkgC/Extra.type.yaml": "implements: [pkgA.SomeInterface]\n",
	})
	return main
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeZip creates a zip archive at path holding files.
func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("adding %s to %s: %v", name, path, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("writing %s in %s: %v", name, path, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}
