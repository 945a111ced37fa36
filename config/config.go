// Package config loads rowconv settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/format"
	"github.com/kndndrj/rowconv/logger"
	"github.com/kndndrj/rowconv/parser"
)

type Config struct {
	JSON     JSON     `yaml:"json"`
	TSV      TSV      `yaml:"tsv"`
	Parser   Parser   `yaml:"parser"`
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
}

type JSON struct {
	Schema   string                 `yaml:"schema"`
	NoHeader bool                   `yaml:"no_header"`
	NoEmpty  bool                   `yaml:"no_empty"`
	Indent   string                 `yaml:"indent"`
	Indexes  []core.IndexDescriptor `yaml:"indexes"`
}

type TSV struct {
	BufferSize         int `yaml:"buffer_size"`
	MaxEscapedCellSize int `yaml:"max_escaped_cell_size"`
}

type Parser struct {
	Delimiter   string `yaml:"delimiter"`
	MaxCellSize int    `yaml:"max_cell_size"`
	MaxColumns  int    `yaml:"max_columns"`
	ChunkSize   int    `yaml:"chunk_size"`
}

type Database struct {
	Type  string `yaml:"type"`
	URL   string `yaml:"url"`
	Table string `yaml:"table"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TSV: TSV{
			BufferSize:         core.DefaultSinkSize,
			MaxEscapedCellSize: format.DefaultMaxEscapedCellSize,
		},
		Parser: Parser{
			Delimiter:   ",",
			MaxCellSize: parser.DefaultMaxCellSize,
			MaxColumns:  parser.DefaultMaxColumns,
			ChunkSize:   parser.DefaultChunkSize,
		},
		Database: Database{
			Type: "sqlite",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the named file on top of the defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of the defaults. Unknown keys are
// rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml.Decode: %w", err)
	}

	return cfg, nil
}

// JSONOptions converts the json section to transcoder options. The result
// is not validated.
func (c *Config) JSONOptions() (*core.JSONOptions, error) {
	schema, err := core.SchemaFromString(c.JSON.Schema)
	if err != nil {
		return nil, err
	}

	return &core.JSONOptions{
		Schema:   schema,
		NoHeader: c.JSON.NoHeader,
		NoEmpty:  c.JSON.NoEmpty,
		Indexes:  c.JSON.Indexes,
	}, nil
}

// ParserOptions converts the parser section to row source options.
func (c *Config) ParserOptions() ([]parser.Option, error) {
	if len(c.Parser.Delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single byte, got %q", c.Parser.Delimiter)
	}

	return []parser.Option{
		parser.WithDelimiter(c.Parser.Delimiter[0]),
		parser.WithMaxCellSize(c.Parser.MaxCellSize),
		parser.WithMaxColumns(c.Parser.MaxColumns),
		parser.WithChunkSize(c.Parser.ChunkSize),
	}, nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (logger.Level, error) {
	return logger.LevelFromString(c.Log.Level)
}
