package core

import (
	"errors"
	"fmt"
	"strings"
)

// MaxIndexes is the maximum number of index descriptors a database document
// can carry.
const MaxIndexes = 32

var ErrConfigConflict = errors.New("configuration conflict")

// Schema selects the layout of JSON output.
type Schema int

const (
	// SchemaRows renders every row as an array of strings.
	SchemaRows Schema = iota
	// SchemaObjects renders data rows as objects keyed by header names.
	SchemaObjects
	// SchemaDatabase renders a header object with column and index metadata
	// followed by an array of data rows.
	SchemaDatabase
)

func (s Schema) String() string {
	switch s {
	case SchemaRows:
		return "rows"
	case SchemaObjects:
		return "object"
	case SchemaDatabase:
		return "database"
	default:
		return ""
	}
}

// SchemaFromString parses a schema name. An empty string is the default
// schema.
func SchemaFromString(s string) (Schema, error) {
	switch strings.ToLower(s) {
	case "", "rows", "array", "arrays":
		return SchemaRows, nil
	case "object", "objects":
		return SchemaObjects, nil
	case "database", "db":
		return SchemaDatabase, nil
	default:
		return SchemaRows, fmt.Errorf("unknown output schema %q", s)
	}
}

func (s *Schema) UnmarshalText(text []byte) error {
	parsed, err := SchemaFromString(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IndexDescriptor describes an index of a database document. Clause has the
// form "<name> on <expression>".
type IndexDescriptor struct {
	Clause string `yaml:"clause"`
	Unique bool   `yaml:"unique"`
}

// JSONOptions configure the JSON transcoder.
type JSONOptions struct {
	Schema Schema
	// NoHeader treats the first row as a data row.
	NoHeader bool
	// NoEmpty omits empty cells from row objects.
	NoEmpty bool
	Indexes []IndexDescriptor
}

// Validate reports conflicting options. It must be called before any row is
// processed.
func (o *JSONOptions) Validate() error {
	if len(o.Indexes) > 0 && o.Schema != SchemaDatabase {
		return fmt.Errorf("%w: indexes can only be used with the database schema", ErrConfigConflict)
	}
	if o.NoHeader && o.Schema != SchemaRows {
		return fmt.Errorf("%w: no-header cannot be used together with the %s schema", ErrConfigConflict, o.Schema)
	}
	if o.NoEmpty && o.Schema != SchemaObjects {
		return fmt.Errorf("%w: no-empty can only be used with the object schema", ErrConfigConflict)
	}
	if len(o.Indexes) > MaxIndexes {
		return fmt.Errorf("%w: max index count (%d) exceeded: got %d", ErrConfigConflict, MaxIndexes, len(o.Indexes))
	}
	for _, idx := range o.Indexes {
		if !strings.Contains(idx.Clause, " on ") {
			return fmt.Errorf("%w: index value should be in the form of 'index_name on expr'; got %q", ErrConfigConflict, idx.Clause)
		}
	}

	return nil
}
