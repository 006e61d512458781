package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/unit.schema.json
var unitSchemaBytes []byte

//go:embed schema/archive.schema.json
var archiveSchemaBytes []byte

var printer = message.NewPrinter(language.English)

// schemaDoc compiles one embedded schema on first use.
type schemaDoc struct {
	file string
	raw  []byte

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

var (
	unitSchema    = &schemaDoc{file: "unit.schema.json", raw: unitSchemaBytes}
	archiveSchema = &schemaDoc{file: "archive.schema.json", raw: archiveSchemaBytes}
)

func (s *schemaDoc) get() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(s.raw))
		if err != nil {
			s.err = fmt.Errorf("unmarshaling schema %s: %w", s.file, err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(s.file, doc); err != nil {
			s.err = fmt.Errorf("adding schema resource %s: %w", s.file, err)
			return
		}
		s.compiled, s.err = c.Compile(s.file)
		if s.err != nil {
			s.err = fmt.Errorf("compiling schema %s: %w", s.file, s.err)
		}
	})
	return s.compiled, s.err
}

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/implements/0")
	Message string
	Keyword string
}

func (i ValidationIssue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// InvalidError is returned by the parsers when a document fails validation.
type InvalidError struct {
	Document string
	Issues   []ValidationIssue
}

func (e *InvalidError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Document, strings.Join(parts, "; "))
}

// ValidateUnit validates raw YAML bytes against the unit descriptor schema.
func ValidateUnit(data []byte) (*ValidationResult, error) {
	return validate(unitSchema, data)
}

// ValidateArchive validates raw YAML bytes against the archive manifest schema.
func ValidateArchive(data []byte) (*ValidationResult, error) {
	return validate(archiveSchema, data)
}

// validate checks data against s. The error return is for YAML or schema
// compilation failures; validation issues are returned in the result.
func validate(s *schemaDoc, data []byte) (*ValidationResult, error) {
	schema, err := s.get()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	// An empty document describes a type with all defaults.
	if raw == nil {
		raw = map[string]interface{}{}
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &ValidationResult{Valid: false, Issues: extractIssues(validationErr)}, nil
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return deduplicateIssues(issues)
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}

		keyword := ""
		msg := ""
		if ve.ErrorKind != nil {
			if kwPath := ve.ErrorKind.KeywordPath(); len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
			msg = ve.ErrorKind.LocalizedString(printer)
		}

		// Container keywords only restate their causes.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}

		*issues = append(*issues, ValidationIssue{Path: path, Message: msg, Keyword: keyword})
		return
	}

	for _, cause := range ve.Causes {
		collectValidationIssues(cause, issues)
	}
}

func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}
