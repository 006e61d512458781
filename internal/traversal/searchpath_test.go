package traversal

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearchPathDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkgA", "ConcreteClassA.type.yaml"), "")
	writeFile(t, filepath.Join(root, "pkgA", "sub", "Nested.type.yaml"), "")
	writeFile(t, filepath.Join(root, "pkgA", "README.md"), "not a unit")
	writeFile(t, filepath.Join(root, "Top.type.yaml"), "")

	rec := newRecorder()
	NewSearchPath([]string{root}, quiet()).Traverse(rec)

	want := []string{"Top", "pkgA.ConcreteClassA", "pkgA.sub.Nested"}
	if diff := cmp.Diff(want, rec.sorted()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if rec.origins[name] != root {
			t.Errorf("origin of %s = %q, want %q", name, rec.origins[name], root)
		}
	}
}

func TestSearchPathCustomSuffix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "A.unit"), "")
	writeFile(t, filepath.Join(root, "pkg", "B.type.yaml"), "")

	rec := newRecorder()
	NewSearchPath([]string{root}, WithSuffix(".unit"), quiet()).Traverse(rec)

	if diff := cmp.Diff([]string{"pkg.A"}, rec.sorted()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchPathArchiveWithCrossReferences(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.zip")
	extra := filepath.Join(dir, "lib", "extra.zip")

	writeZip(t, main,
		[2]string{"pkgB/ConcreteClassC.type.yaml", ""},
		[2]string{"pkgB/notes.txt", "ignored"},
		[2]string{"manifest.yaml", "name: main\nsearch-path:\n  - lib/extra.zip\n  - missing.zip\n"},
	)
	// extra.zip points back at main.zip; the cycle must not loop.
	writeZip(t, extra,
		[2]string{"pkgC/Other.type.yaml", ""},
		[2]string{"manifest.yaml", "search-path: [../main.zip]\n"},
	)

	rec := newRecorder()
	NewSearchPath([]string{main}, quiet()).Traverse(rec)

	want := []string{"pkgB.ConcreteClassC", "pkgC.Other"}
	if diff := cmp.Diff(want, rec.sorted()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if rec.origins["pkgB.ConcreteClassC"] != main {
		t.Errorf("origin = %q, want %q", rec.origins["pkgB.ConcreteClassC"], main)
	}
	if rec.origins["pkgC.Other"] != extra {
		t.Errorf("origin = %q, want %q", rec.origins["pkgC.Other"], extra)
	}
}

func TestSearchPathInvalidArchiveManifestIsIgnored(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "a.zip")
	writeZip(t, archive,
		[2]string{"pkg/A.type.yaml", ""},
		[2]string{"manifest.yaml", "search-path: not-a-list\n"},
	)

	rec := newRecorder()
	NewSearchPath([]string{archive}, quiet()).Traverse(rec)

	if diff := cmp.Diff([]string{"pkg.A"}, rec.sorted()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchPathFailuresAreContained(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.zip")
	writeFile(t, corrupt, "this is not a zip archive")
	good := filepath.Join(dir, "good")
	writeFile(t, filepath.Join(good, "pkg", "Ok.type.yaml"), "")

	rec := newRecorder()
	NewSearchPath([]string{
		filepath.Join(dir, "does-not-exist"),
		corrupt,
		"",
		good,
	}, quiet()).Traverse(rec)

	if diff := cmp.Diff([]string{"pkg.Ok"}, rec.sorted()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchPathVisitsContainerOnce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "A.type.yaml"), "")

	rec := newRecorder()
	NewSearchPath([]string{root, root + string(filepath.Separator)}, quiet()).Traverse(rec)

	if len(rec.names) != 1 {
		t.Fatalf("visited %d units, want 1: %v", len(rec.names), rec.names)
	}
}

func TestSearchPathWildcard(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "b.zip"), [2]string{"pkg/B.type.yaml", ""})
	writeZip(t, filepath.Join(dir, "a.ZIP"), [2]string{"pkg/A.type.yaml", ""})
	writeFile(t, filepath.Join(dir, "c.txt"), "")

	rec := newRecorder()
	NewSearchPath([]string{filepath.Join(dir, "*")}, quiet()).Traverse(rec)

	if diff := cmp.Diff([]string{"pkg.A", "pkg.B"}, rec.names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchPathFileURI(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "A.type.yaml"), "")

	rec := newRecorder()
	NewSearchPath([]string{"file://" + filepath.ToSlash(root)}, quiet()).Traverse(rec)

	if diff := cmp.Diff([]string{"pkg.A"}, rec.names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchPathExcluder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "Keep.type.yaml"), "")
	writeFile(t, filepath.Join(root, "pkg", "DropMe.type.yaml"), "")
	writeFile(t, filepath.Join(root, "pkg", "TestHelper.type.yaml"), "")
	writeFile(t, filepath.Join(root, "internal", "Hidden.type.yaml"), "")

	ex := NewSimpleExcluder()
	ex.Dir(filepath.Join(root, "internal"))
	ex.File("DropMe.type.yaml")
	if err := ex.FilePattern(`Test.*`); err != nil {
		t.Fatalf("FilePattern: %v", err)
	}

	rec := newRecorder()
	NewSearchPath([]string{root}, WithExcluder(ex), quiet()).Traverse(rec)

	if diff := cmp.Diff([]string{"pkg.Keep"}, rec.sorted()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSimpleExcluderPatternIsFullMatch(t *testing.T) {
	ex := NewSimpleExcluder()
	if err := ex.FilePattern(`Test`); err != nil {
		t.Fatal(err)
	}
	if ex.ExcludeFile("pkg/MyTest.type.yaml") {
		t.Error("partial match should not exclude")
	}
	if err := ex.FilePattern(`[`); err == nil {
		t.Error("expected compile error")
	}
}

func TestSplitList(t *testing.T) {
	sep := string(os.PathListSeparator)
	got := SplitList("a" + sep + " " + sep + "b/c.zip" + sep)
	if diff := cmp.Diff([]string{"a", "b/c.zip"}, got); diff != "" {
		t.Fatalf("SplitList mismatch (-want +got):\n%s", diff)
	}
}

func TestReadUnit(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "classes")
	writeFile(t, filepath.Join(root, "pkg", "A.type.yaml"), "abstract: true\n")
	archive := filepath.Join(dir, "lib.zip")
	writeZip(t, archive, [2]string{"pkg/B.type.yaml", "kind: capability\n"})

	data, err := ReadUnit(root, "pkg.A", DefaultSuffix)
	if err != nil || string(data) != "abstract: true\n" {
		t.Fatalf("ReadUnit(dir) = %q, %v", data, err)
	}
	data, err = ReadUnit(archive, "pkg.B", DefaultSuffix)
	if err != nil || string(data) != "kind: capability\n" {
		t.Fatalf("ReadUnit(zip) = %q, %v", data, err)
	}
	if _, err := ReadUnit(archive, "pkg.Missing", DefaultSuffix); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadUnit(missing) error = %v, want not-exist", err)
	}
	if _, err := ReadUnit("", "pkg.A", DefaultSuffix); err != ErrNoOrigin {
		t.Errorf("ReadUnit(no origin) error = %v, want ErrNoOrigin", err)
	}
}


func TestReadUnitFindsEveryScannedName(t *testing.T) {
	root := t.TempDir()
	bodies := map[string]string{
		"pkgA/Cafe\u0301.type.yaml": "description: decomposed\n",
		"pkgA/Foo.Bar.type.yaml":     "description: dotted stem\n",
		"pkgA/sub/Plain.type.yaml":   "description: plain\n",
	}
	for rel, body := range bodies {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), body)
	}

	rec := newRecorder()
	NewSearchPath([]string{root}, quiet()).Traverse(rec)

	want := []string{"pkgA.Caf\u00e9", "pkgA.Foo.Bar", "pkgA.sub.Plain"}
	if diff := cmp.Diff(want, rec.sorted()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	wantBody := map[string]string{
		"pkgA.Caf\u00e9": "description: decomposed\n",
		"pkgA.Foo.Bar":   "description: dotted stem\n",
		"pkgA.sub.Plain": "description: plain\n",
	}
	for _, name := range rec.names {
		data, err := ReadUnit(rec.origins[name], name, DefaultSuffix)
		if err != nil {
			t.Errorf("ReadUnit(%q): %v", name, err)
			continue
		}
		if string(data) != wantBody[name] {
			t.Errorf("ReadUnit(%q) = %q, want %q", name, data, wantBody[name])
		}
	}
	if _, err := ReadUnit(root, "pkgA.Nope", DefaultSuffix); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadUnit(missing dir unit) error = %v, want not-exist", err)
	}
}
