package manifest

import (
	"fmt"

	"github.com/agentx-labs/typelocator/internal/typesys"
	"go.yaml.in/yaml/v3"
)

// ArchiveManifestName is the root entry of a zip archive holding its manifest.
const ArchiveManifestName = "manifest.yaml"

// UnitManifest is the YAML body of a type-unit file. The type name is not
// part of the document; it is derived from the unit's path.
type UnitManifest struct {
	Kind        string   `yaml:"kind,omitempty"`
	Extends     string   `yaml:"extends,omitempty"`
	Implements  []string `yaml:"implements,omitempty"`
	Abstract    bool     `yaml:"abstract,omitempty"`
	Constructor *bool    `yaml:"constructor,omitempty"`
	Requires    []string `yaml:"requires,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// ArchiveManifest describes a zip archive on the search path. SearchPath
// lists further archives or directories, relative to the archive's own
// directory unless absolute.
type ArchiveManifest struct {
	Name        string   `yaml:"name,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	Description string   `yaml:"description,omitempty"`
	SearchPath  []string `yaml:"search-path,omitempty"`
}

// ParseUnit validates data and converts it into a descriptor for name.
// origin is recorded on the descriptor for diagnostics.
func ParseUnit(name, origin string, data []byte) (*typesys.Descriptor, error) {
	result, err := ValidateUnit(data)
	if err != nil {
		return nil, fmt.Errorf("validating unit %s: %w", name, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Document: "unit " + name, Issues: result.Issues}
	}

	var m UnitManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing unit %s: %w", name, err)
	}

	kind, err := typesys.ParseKind(m.Kind)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", name, err)
	}

	// Classes have an implicit no-argument constructor unless told otherwise.
	ctor := kind == typesys.Class
	if m.Constructor != nil {
		ctor = *m.Constructor
	}

	return &typesys.Descriptor{
		Name:               name,
		Kind:               kind,
		Extends:            m.Extends,
		Implements:         m.Implements,
		Abstract:           m.Abstract,
		DefaultConstructor: ctor,
		Requires:           m.Requires,
		Version:            m.Version,
		Origin:             origin,
	}, nil
}

// ParseArchive validates and parses an archive manifest.
func ParseArchive(data []byte) (*ArchiveManifest, error) {
	result, err := ValidateArchive(data)
	if err != nil {
		return nil, fmt.Errorf("validating archive manifest: %w", err)
	}
	if !result.Valid {
		return nil, &InvalidError{Document: "archive manifest", Issues: result.Issues}
	}

	var m ArchiveManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing archive manifest: %w", err)
	}
	return &m, nil
}
