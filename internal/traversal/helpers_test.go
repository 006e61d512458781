package traversal

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
)

// recorder collects visited units.
type recorder struct {
	names   []string
	origins map[string]string
}

func newRecorder() *recorder {
	return &recorder{origins: make(map[string]string)}
}

func (r *recorder) Visit(name, origin string) {
	r.names = append(r.names, name)
	r.origins[name] = origin
}

func (r *recorder) sorted() []string {
	out := append([]string(nil), r.names...)
	sort.Strings(out)
	return out
}

// quiet keeps test output free of expected warnings.
func quiet() Option {
	return WithLogger(zerolog.Nop())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeZip creates a zip archive at path with the given entries, in the
// order given.
func writeZip(t *testing.T, path string, entries ...[2]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		if err != nil {
			t.Fatalf("adding %s: %v", e[0], err)
		}
		if _, err := w.Write([]byte(e[1])); err != nil {
			t.Fatalf("writing %s: %v", e[0], err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}
