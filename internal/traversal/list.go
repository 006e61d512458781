package traversal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/magiconair/properties"
)

// Comment starts a comment line in a fixed class list.
const Comment = "#"

// FixedList reports a predetermined list of names with no origin.
type FixedList struct {
	names []string
}

// NewFixedList returns a traversal over names. Blank entries and entries
// starting with Comment (after trimming) are skipped.
func NewFixedList(names []string) *FixedList {
	l := &FixedList{}
	for _, n := range names {
		l.add(n)
	}
	return l
}

// ReadFixedList reads one name per line from r. The caller closes r.
func ReadFixedList(r io.Reader) (*FixedList, error) {
	l := &FixedList{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return l, fmt.Errorf("reading type names: %w", err)
	}
	return l, nil
}

// LoadFixedList reads a fixed list from a file.
func LoadFixedList(path string) (*FixedList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening type list %s: %w", path, err)
	}
	defer f.Close()
	return ReadFixedList(f)
}

func (l *FixedList) add(name string) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, Comment) {
		return
	}
	l.names = append(l.names, name)
}

// Names returns the list in order.
func (l *FixedList) Names() []string { return append([]string(nil), l.names...) }

// Strategy implements Traversal.
func (l *FixedList) Strategy() string { return StrategyFixed }

// Traverse implements Traversal.
func (l *FixedList) Traverse(listener Listener) {
	for _, name := range l.names {
		listener.Visit(name, "")
	}
}

// PropertiesList reports the names listed in the values of a properties
// table, where each value is a comma-separated list of names. Keys are
// ignored.
type PropertiesList struct {
	FixedList
}

// NewPropertiesList collects names from every key of p, in key order.
func NewPropertiesList(p *properties.Properties) *PropertiesList {
	l := &PropertiesList{}
	for _, key := range p.Keys() {
		for _, item := range strings.Split(p.GetString(key, ""), ",") {
			l.add(item)
		}
	}
	return l
}

// LoadPropertiesList reads a properties file and collects its names.
func LoadPropertiesList(path string) (*PropertiesList, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading type properties %s: %w", path, err)
	}
	return NewPropertiesList(p), nil
}

// Strategy implements Traversal.
func (l *PropertiesList) Strategy() string { return StrategyProperties }
