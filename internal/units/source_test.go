package units

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/typelocator/internal/index"
	"github.com/agentx-labs/typelocator/internal/manifest"
	"github.com/agentx-labs/typelocator/internal/traversal"
	"github.com/agentx-labs/typelocator/internal/typesys"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestSourceDescribe(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "classes")
	writeFile(t, filepath.Join(root, "pkgA", "SomeInterface.type.yaml"), "kind: capability\n")
	writeFile(t, filepath.Join(root, "pkgA", "ConcreteClassA.type.yaml"),
		"implements: [pkgA.SomeInterface]\nversion: 1.0.0\n")
	writeFile(t, filepath.Join(root, "pkgA", "Broken.type.yaml"), "kind: [\n")
	writeZip(t, filepath.Join(dir, "newer.zip"), map[string]string{
		"pkgA/ConcreteClassA.type.yaml": "implements: [pkgA.SomeInterface]\nconstructor: false\nversion: v1.2.0\n",
	})
	writeZip(t, filepath.Join(dir, "older.zip"), map[string]string{
		"pkgA/ConcreteClassA.type.yaml": "version: 0.9.0\n",
	})

	idx := index.Build(traversal.NewSearchPath([]string{
		root,
		filepath.Join(dir, "older.zip"),
		filepath.Join(dir, "newer.zip"),
	}))
	idx.Visit("pkgA.FromList", "")
	src := NewSource(idx, "")

	d, err := src.Describe("pkgA.ConcreteClassA")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if d.Version != "v1.2.0" || d.Origin != filepath.Join(dir, "newer.zip") {
		t.Errorf("kept %s from %s, want v1.2.0 from newer.zip", d.Version, d.Origin)
	}
	if d.DefaultConstructor {
		t.Error("constructor: false should be honoured")
	}

	capDesc, err := src.Describe("pkgA.SomeInterface")
	if err != nil || capDesc.Kind != typesys.Capability {
		t.Fatalf("Describe(SomeInterface) = %+v, %v", capDesc, err)
	}

	if _, err := src.Describe("pkgA.FromList"); !errors.Is(err, typesys.ErrUnknownType) {
		t.Errorf("name without origin: err = %v, want ErrUnknownType", err)
	}
	if _, err := src.Describe("pkgA.Nope"); !errors.Is(err, typesys.ErrUnknownType) {
		t.Errorf("unknown name: err = %v, want ErrUnknownType", err)
	}

	_, err = src.Describe("pkgA.Broken")
	if err == nil || errors.Is(err, typesys.ErrUnknownType) {
		t.Errorf("broken unit: err = %v, want a parse failure", err)
	}
}

func TestSourceFeedsUniverse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkgA", "AbstractAncestor.type.yaml"), "abstract: true\n")
	writeFile(t, filepath.Join(root, "pkgA", "ConcreteClassA.type.yaml"), "extends: pkgA.AbstractAncestor\n")
	writeFile(t, filepath.Join(root, "gui", "Window.type.yaml"), "requires: [display]\n")

	idx := index.Build(traversal.NewSearchPath([]string{root}))
	u := typesys.NewUniverse(typesys.Features{}, NewSource(idx, traversal.DefaultSuffix))

	a, err := u.Load("pkgA.ConcreteClassA")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Super().Name() != "pkgA.AbstractAncestor" || !a.Super().IsAbstract() {
		t.Errorf("parent = %v", a.Super())
	}
	if a.Origin() != root || !a.HasDefaultConstructor() {
		t.Errorf("origin %q ctor %v", a.Origin(), a.HasDefaultConstructor())
	}

	if _, err := u.Load("gui.Window"); !typesys.IsEnvironmentRestriction(err) {
		t.Errorf("Load(gui.Window) = %v, want environment restriction", err)
	}

	var invalid *manifest.InvalidError
	writeFile(t, filepath.Join(root, "pkgA", "Odd.type.yaml"), "kind: capability\nextends: pkgA.ConcreteClassA\n")
	idx.Visit("pkgA.Odd", root)
	if _, err := u.Load("pkgA.Odd"); !errors.As(err, &invalid) {
		t.Errorf("Load(pkgA.Odd) = %v, want schema violation", err)
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		candidate, current string
		want               bool
	}{
		{"1.2.0", "1.10.0", false},
		{"1.10.0", "1.2.0", true},
		{"v2.0.0", "1.9.9", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0", "1.0.0-rc1", true},
		{"1.0.0", "", true},
		{"", "1.0.0", false},
		{"garbage", "", false},
		{"0.1.0", "garbage", true},
	}
	for _, tc := range tests {
		if got := newer(tc.candidate, tc.current); got != tc.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tc.candidate, tc.current, got, tc.want)
		}
	}
}
