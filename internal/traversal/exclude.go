package traversal

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Excluder is consulted before descending into a directory (or opening an
// archive) and before emitting a unit file.
type Excluder interface {
	ExcludeDir(path string) bool
	ExcludeFile(path string) bool
}

// AllowAll excludes nothing.
type AllowAll struct{}

// ExcludeDir implements Excluder.
func (AllowAll) ExcludeDir(string) bool { return false }

// ExcludeFile implements Excluder.
func (AllowAll) ExcludeFile(string) bool { return false }

// String implements fmt.Stringer. AllowAll has no rules.
func (AllowAll) String() string { return "" }

// Fingerprint identifies the rules of e. Cached scans compare it to notice
// changed exclusions. An excluder that is not a fmt.Stringer is identified
// by its type alone.
func Fingerprint(e Excluder) string {
	if e == nil {
		return ""
	}
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", e)
}

// SimpleExcluder excludes directories by absolute path, and files by exact
// base name or by a regular expression that must match the whole base name.
type SimpleExcluder struct {
	mu       sync.RWMutex
	dirs     map[string]bool
	files    map[string]bool
	patterns []*regexp.Regexp
}

// NewSimpleExcluder returns an excluder with no rules.
func NewSimpleExcluder() *SimpleExcluder {
	return &SimpleExcluder{
		dirs:  make(map[string]bool),
		files: make(map[string]bool),
	}
}

// Dir excludes the directory or archive at path.
func (e *SimpleExcluder) Dir(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirs[absPath(path)] = true
}

// File excludes every unit whose base name equals name.
func (e *SimpleExcluder) File(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files[name] = true
}

// FilePattern excludes every unit whose base name fully matches pattern.
func (e *SimpleExcluder) FilePattern(pattern string) error {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return fmt.Errorf("compiling file pattern %q: %w", pattern, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patterns = append(e.patterns, re)
	return nil
}

// ExcludeDir implements Excluder.
func (e *SimpleExcluder) ExcludeDir(path string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dirs[absPath(path)]
}

// ExcludeFile implements Excluder.
func (e *SimpleExcluder) ExcludeFile(path string) bool {
	name := filepath.Base(filepath.FromSlash(path))
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.files[name] {
		return true
	}
	for _, re := range e.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// String lists the rules in a stable order, e.g.
// "dir:/abs/lib;file:Skip.type.yaml;pattern:^(?:.*Test.*)$".
func (e *SimpleExcluder) String() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var rules []string
	for d := range e.dirs {
		rules = append(rules, "dir:"+d)
	}
	for f := range e.files {
		rules = append(rules, "file:"+f)
	}
	for _, re := range e.patterns {
		rules = append(rules, "pattern:"+re.String())
	}
	sort.Strings(rules)
	return strings.Join(rules, ";")
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
