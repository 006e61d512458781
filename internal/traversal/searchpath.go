package traversal

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentx-labs/typelocator/internal/logging"
	"github.com/rs/zerolog"
)

// archiveExt is the extension matched by "dir/*" wildcard entries.
const archiveExt = ".zip"

// SearchPath traverses directories and zip archives.
type SearchPath struct {
	entries  []string
	suffix   string
	excluder Excluder
	log      zerolog.Logger
}

// Option configures a SearchPath.
type Option func(*SearchPath)

// WithSuffix sets the unit suffix (default DefaultSuffix).
func WithSuffix(suffix string) Option {
	return func(s *SearchPath) {
		if suffix != "" {
			s.suffix = suffix
		}
	}
}

// WithExcluder sets the exclusion hook (default AllowAll).
func WithExcluder(e Excluder) Option {
	return func(s *SearchPath) {
		if e != nil {
			s.excluder = e
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *SearchPath) { s.log = l }
}

// NewSearchPath returns a traversal over entries, in order.
func NewSearchPath(entries []string, opts ...Option) *SearchPath {
	s := &SearchPath{
		entries:  append([]string(nil), entries...),
		suffix:   DefaultSuffix,
		excluder: AllowAll{},
		log:      logging.For("traversal"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SplitList splits a search-path string on the OS list separator, dropping
// empty elements.
func SplitList(list string) []string {
	var entries []string
	for _, e := range filepath.SplitList(list) {
		if e = strings.TrimSpace(e); e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// Entries returns the configured entries.
func (s *SearchPath) Entries() []string { return append([]string(nil), s.entries...) }

// Suffix returns the unit suffix.
func (s *SearchPath) Suffix() string { return s.suffix }

// Strategy implements Traversal.
func (s *SearchPath) Strategy() string { return StrategySearchPath }

// walkState is the per-run state: the listener and the containers already
// traversed, which also breaks archive cross-reference cycles.
type walkState struct {
	listener Listener
	visited  map[string]bool
}

// Traverse implements Traversal.
func (s *SearchPath) Traverse(l Listener) {
	st := &walkState{listener: l, visited: make(map[string]bool)}
	for _, entry := range s.entries {
		s.log.Info().Str("entry", entry).Msg("search path entry")
		s.traversePart(entry, "", st)
	}
}

// traversePart handles one search-path element. Relative elements are
// resolved against base when it is set (archive cross-references).
func (s *SearchPath) traversePart(part, base string, st *walkState) {
	part = strings.TrimSpace(part)
	if part == "" || part == "." && base != "" {
		return
	}

	path, ok := s.localPath(part)
	if !ok {
		return
	}
	if base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}

	if dir, ok := strings.CutSuffix(path, "*"); ok {
		s.traverseWildcard(dir, st)
		return
	}

	path = absPath(path)
	if st.visited[path] {
		s.log.Debug().Str("path", path).Msg("already traversed, skipping")
		return
	}
	st.visited[path] = true

	if s.excluder.ExcludeDir(path) {
		s.log.Debug().Str("path", path).Msg("excluded")
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn().Str("path", path).Msg("search path entry does not exist")
		} else {
			s.log.Warn().Err(err).Str("path", path).Msg("search path entry is not readable")
		}
		return
	}

	if info.IsDir() {
		s.traverseDir(path, st)
	} else {
		s.traverseArchive(path, st)
	}
}

// localPath converts a file: URI into a path; other parts are returned as is.
func (s *SearchPath) localPath(part string) (string, bool) {
	if !strings.HasPrefix(part, "file:") {
		return part, true
	}
	u, err := url.Parse(strings.ReplaceAll(part, " ", "%20"))
	if err != nil {
		s.log.Error().Err(err).Str("uri", part).Msg("failed to parse search path URI")
		return "", false
	}
	if u.Path != "" {
		return filepath.FromSlash(u.Path), true
	}
	if u.Opaque != "" {
		return filepath.FromSlash(u.Opaque), true
	}
	s.log.Info().Str("uri", part).Msg("skipping empty URI")
	return "", false
}

// traverseWildcard expands "dir/*" into every archive directly inside dir.
func (s *SearchPath) traverseWildcard(dir string, st *walkState) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warn().Err(err).Str("path", dir).Msg("cannot expand wildcard entry")
		return
	}
	var archives []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), archiveExt) {
			archives = append(archives, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(archives)
	for _, a := range archives {
		s.traversePart(a, "", st)
	}
}

// traverseDir walks root in lexical order. Every unit file is reported with
// root as its origin.
func (s *SearchPath) traverseDir(root string, st *walkState) {
	s.log.Info().Str("path", root).Msg("analyzing directory")

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("cannot read, skipping")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && s.excluder.ExcludeDir(path) {
				s.log.Debug().Str("path", path).Msg("excluded directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), s.suffix) || s.excluder.ExcludeFile(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		s.emit(CleanUp(rel, s.suffix), root, st)
		return nil
	})
}

func (s *SearchPath) emit(name, origin string, st *walkState) {
	if name == "" {
		return
	}
	s.log.Trace().Str("name", name).Str("origin", origin).Msg("unit")
	st.listener.Visit(name, origin)
}
