package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/kndndrj/rowconv/adapters"
	"github.com/kndndrj/rowconv/config"
	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/format"
	"github.com/kndndrj/rowconv/jsonwriter"
	"github.com/kndndrj/rowconv/parser"
)

// indexFlag collects --index and --unique-index values in the order they
// appear on the command line.
type indexFlag struct {
	list   *[]core.IndexDescriptor
	unique bool
}

func (f *indexFlag) String() string {
	return ""
}

func (f *indexFlag) Set(value string) error {
	*f.list = append(*f.list, core.IndexDescriptor{Clause: value, Unique: f.unique})
	return nil
}

type jsonFlags struct {
	object   bool
	database bool
	noEmpty  bool
	noHeader bool
	indent   string
	indexes  []core.IndexDescriptor

	fromDB  string
	dbType  string
	dbTable string
}

func (j *jsonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&j.object, "object", false, "output as array of objects")
	fs.BoolVar(&j.database, "database", false, "output in database schema")
	fs.BoolVar(&j.noEmpty, "no-empty", false, "omit empty properties (only with --object)")
	fs.BoolVar(&j.noHeader, "no-header", false, "treat the header row as a data row")
	fs.StringVar(&j.indent, "indent", "", "pretty print using the given indentation")
	fs.Var(&indexFlag{list: &j.indexes}, "index", "add index to database schema")
	fs.Var(&indexFlag{list: &j.indexes, unique: true}, "unique-index", "add unique index to database schema")
	fs.StringVar(&j.fromDB, "from-db", "", "input is a database file or connection url")
	fs.StringVar(&j.dbType, "db-type", "", "database type of --from-db input (default sqlite)")
	fs.StringVar(&j.dbTable, "db-table", "", "name of table in input database to convert")
}

// apply merges the flags into cfg. Flags take precedence over the file.
func (j *jsonFlags) apply(cfg *config.Config) error {
	if j.object && j.database {
		return fmt.Errorf("%w: output schema specified more than once", core.ErrConfigConflict)
	}
	if j.object {
		cfg.JSON.Schema = core.SchemaObjects.String()
	}
	if j.database {
		cfg.JSON.Schema = core.SchemaDatabase.String()
	}
	if j.noEmpty {
		cfg.JSON.NoEmpty = true
	}
	if j.noHeader {
		cfg.JSON.NoHeader = true
	}
	if j.indent != "" {
		cfg.JSON.Indent = j.indent
	}
	if len(j.indexes) > 0 {
		cfg.JSON.Indexes = j.indexes
	}
	if j.fromDB != "" {
		cfg.Database.URL = j.fromDB
	}
	if j.dbType != "" {
		cfg.Database.Type = j.dbType
	}
	if j.dbTable != "" {
		cfg.Database.Table = j.dbTable
	}
	return nil
}

func run2JSON(ctx context.Context, args []string, e *env) (err error) {
	fs := flag.NewFlagSet("2json", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() { printUsage(e.stderr, "2json") }

	var (
		common commonFlags
		flags  jsonFlags
	)
	common.register(fs)
	flags.register(fs)

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	if err := flags.apply(cfg); err != nil {
		return err
	}

	opts, err := cfg.JSONOptions()
	if err != nil {
		return fmt.Errorf("cfg.JSONOptions: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	parserOpts, err := cfg.ParserOptions()
	if err != nil {
		return fmt.Errorf("cfg.ParserOptions: %w", err)
	}
	fromDB := cfg.Database.URL != ""
	if fromDB && len(positional) > 0 {
		return errors.New("input file specified more than once")
	}

	log, err := newLogger(cfg, e.stderr)
	if err != nil {
		return fmt.Errorf("newLogger: %w", err)
	}
	defer log.Close()

	// open the input before creating the output, so a missing input
	// leaves no empty output file behind
	var (
		src core.TableSource
		in  io.Reader
	)
	if fromDB {
		src, err = adapters.Open(cfg.Database.Type, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer src.Close()
	} else {
		var closeIn func()
		in, closeIn, err = openInput(positional, e.stdin)
		if err != nil {
			return err
		}
		defer closeIn()
	}

	out, closeOut, err := openOutput(common.output, e.stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	var writerOpts []jsonwriter.Option
	if cfg.JSON.Indent != "" {
		writerOpts = append(writerOpts, jsonwriter.WithIndent(cfg.JSON.Indent))
	}
	w := jsonwriter.New(out, writerOpts...)

	if fromDB {
		if opts.Schema != core.SchemaRows {
			log.Warnf("database input is always exported as rows; ignoring the %s schema", opts.Schema)
		}
		table, err := core.ExportTable(ctx, src, cfg.Database.Table, w)
		if err != nil {
			if errors.Is(err, core.ErrNoTable) {
				return fmt.Errorf("%w in %s", err, cfg.Database.URL)
			}
			return fmt.Errorf("core.ExportTable: %w", err)
		}
		log.Debugf("exported table %q", table)
		return nil
	}

	log.Debugf("converting to json using the %s schema", opts.Schema)
	return core.Run(ctx, parser.NewCSV(in, parserOpts...), format.NewJSON(w, opts, log))
}
