package traversal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Snapshot is the persisted result of a SearchPath run along with the
// modification times used to decide whether it is still valid.
type Snapshot struct {
	Entries    []string         `json:"entries"`
	Suffix     string           `json:"suffix"`
	Exclusions string           `json:"exclusions,omitempty"`
	Mods       map[string]int64 `json:"mods"`
	Units      []UnitRecord     `json:"units"`
	CachedAt   time.Time        `json:"cached_at"`
}

// UnitRecord is one (name, origin) pair.
type UnitRecord struct {
	Name   string `json:"name"`
	Origin string `json:"origin,omitempty"`
}

// Cached wraps a SearchPath and replays a snapshot file while the search
// path is unchanged. It reports the wrapped strategy.
type Cached struct {
	inner *SearchPath
	path  string
	log   zerolog.Logger
}

// NewCached returns a caching traversal storing its snapshot at cachePath.
func NewCached(inner *SearchPath, cachePath string) *Cached {
	return &Cached{inner: inner, path: cachePath, log: inner.log}
}

// Strategy implements Traversal.
func (c *Cached) Strategy() string { return c.inner.Strategy() }

// Traverse implements Traversal.
func (c *Cached) Traverse(l Listener) {
	snap, err := LoadSnapshot(c.path)
	if err == nil && snap.ValidFor(c.inner) {
		c.log.Debug().Str("cache", c.path).Int("units", len(snap.Units)).Msg("replaying traversal snapshot")
		for _, u := range snap.Units {
			l.Visit(u.Name, u.Origin)
		}
		return
	}

	var units []UnitRecord
	c.inner.Traverse(ListenerFunc(func(name, origin string) {
		units = append(units, UnitRecord{Name: name, Origin: origin})
		l.Visit(name, origin)
	}))

	// Best effort: discovery works without the snapshot.
	if err := writeSnapshot(c.path, c.inner, units); err != nil {
		c.log.Warn().Err(err).Str("cache", c.path).Msg("cannot write traversal snapshot")
	}
}

// LoadSnapshot reads and parses a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ValidFor reports whether the snapshot was taken for the same entries,
// suffix and exclusion rules and no container has changed since.
func (snap *Snapshot) ValidFor(s *SearchPath) bool {
	if snap == nil || len(snap.Mods) == 0 {
		return false
	}
	if snap.Suffix != s.suffix || !slices.Equal(snap.Entries, s.entries) {
		return false
	}
	if snap.Exclusions != Fingerprint(s.excluder) {
		return false
	}
	current := containerMods(s.entries, snap.Units)
	if len(current) != len(snap.Mods) {
		return false
	}
	for path, mtime := range current {
		if cached, ok := snap.Mods[path]; !ok || cached != mtime {
			return false
		}
	}
	return true
}

func writeSnapshot(path string, s *SearchPath, units []UnitRecord) error {
	snap := Snapshot{
		Entries:    s.entries,
		Suffix:     s.suffix,
		Exclusions: Fingerprint(s.excluder),
		Mods:       containerMods(s.entries, units),
		Units:      units,
		CachedAt:   time.Now(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// containerMods collects modification times of the top-level entries and of
// every origin that produced units. Missing paths record 0, so their later
// appearance invalidates the snapshot.
func containerMods(entries []string, units []UnitRecord) map[string]int64 {
	mods := make(map[string]int64)
	for _, e := range entries {
		e = strings.TrimSuffix(e, "*")
		if e == "" {
			e = "."
		}
		mods[e] = latestMtime(e)
	}
	for _, u := range units {
		if u.Origin == "" {
			continue
		}
		if _, ok := mods[u.Origin]; !ok {
			mods[u.Origin] = latestMtime(u.Origin)
		}
	}
	return mods
}

// latestMtime returns the newest modification time (unix nanoseconds) of
// path and, for directories, of every directory below it. Adding or removing
// a unit changes its directory's mtime.
func latestMtime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	latest := info.ModTime().UnixNano()
	if !info.IsDir() {
		return latest
	}
	_ = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			if t := fi.ModTime().UnixNano(); t > latest {
				latest = t
			}
		}
		return nil
	})
	return latest
}

// Suffix returns the unit suffix of the wrapped search path.
func (c *Cached) Suffix() string { return c.inner.Suffix() }
