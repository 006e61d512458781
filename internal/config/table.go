package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/magiconair/properties"
	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"
)

// Table formats, chosen from the file extension.
const (
	FormatProperties = "properties"
	FormatYAML       = "yaml"
	FormatTOML       = "toml"
)

// Table maps a contract name to a list of values (namespaces or blacklist
// patterns). Keys keep their first-insertion order.
type Table struct {
	keys   []string
	values map[string][]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string][]string)}
}

// Set replaces the values for key.
func (t *Table) Set(key string, values []string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = append([]string(nil), values...)
}

// Get returns the values for key, or nil.
func (t *Table) Get(key string) []string {
	return append([]string(nil), t.values[key]...)
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string { return append([]string(nil), t.keys...) }

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.keys) }

// SplitList splits a comma-separated value, trimming blanks and dropping
// empty items.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// FormatOf returns the table format for path's extension. Unknown
// extensions are read as properties.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatProperties
	}
}

// LoadTable reads the table at path in the format implied by its extension.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}
	t, err := ParseTable(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("parsing table %s: %w", path, err)
	}
	return t, nil
}

// LoadTableOrEmpty is LoadTable for optional configuration: an empty path
// yields an empty table, and any failure is logged and yields an empty
// table.
func LoadTableOrEmpty(path string, log zerolog.Logger) *Table {
	if path == "" {
		return NewTable()
	}
	t, err := LoadTable(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("cannot load table, using an empty one")
		return NewTable()
	}
	return t
}

// ParseTable decodes data in the given format.
func ParseTable(data []byte, format string) (*Table, error) {
	switch format {
	case FormatProperties:
		return parseProperties(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatTOML:
		return parseTOML(data)
	default:
		return nil, fmt.Errorf("unknown table format %q", format)
	}
}

func parseProperties(data []byte) (*Table, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	t := NewTable()
	for _, key := range p.Keys() {
		t.Set(key, SplitList(p.GetString(key, "")))
	}
	return t, nil
}

// parseYAML accepts a mapping whose values are comma-separated strings or
// sequences of strings.
func parseYAML(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	t := NewTable()
	if len(doc.Content) == 0 {
		return t, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: table must be a mapping", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			t.Set(key.Value, SplitList(val.Value))
		case yaml.SequenceNode:
			var items []string
			if err := val.Decode(&items); err != nil {
				return nil, fmt.Errorf("line %d: %w", val.Line, err)
			}
			t.Set(key.Value, SplitList(strings.Join(items, ",")))
		default:
			return nil, fmt.Errorf("line %d: value of %q must be a string or a list", val.Line, key.Value)
		}
	}
	return t, nil
}

// parseTOML accepts top-level keys, quoted when they contain dots, whose
// values are comma-separated strings or arrays of strings.
func parseTOML(data []byte) (*Table, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	t := NewTable()
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		switch v := raw[name].(type) {
		case string:
			t.Set(name, SplitList(v))
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("value of %q must contain only strings", name)
				}
				items = append(items, s)
			}
			t.Set(name, SplitList(strings.Join(items, ",")))
		default:
			return nil, fmt.Errorf("value of %q must be a string or an array", name)
		}
	}
	return t, nil
}

// Properties converts the table into comma-joined properties.
func (t *Table) Properties() *properties.Properties {
	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, key := range t.keys {
		_, _, _ = p.Set(key, strings.Join(t.values[key], ","))
	}
	return p
}

// Write writes the table in properties format, which LoadTable reads back.
func (t *Table) Write(w io.Writer) error {
	if _, err := t.Properties().Write(w, properties.UTF8); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	return nil
}

// String returns the properties rendering of the table.
func (t *Table) String() string {
	var buf bytes.Buffer
	_ = t.Write(&buf)
	return buf.String()
}

// WriteFile writes the table to path in properties format.
func (t *Table) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing table %s: %w", path, err)
	}
	return nil
}
