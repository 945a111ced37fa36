package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/core/format"
	"github.com/kndndrj/rowconv/parser"
)

func run2TSV(ctx context.Context, args []string, e *env) (err error) {
	fs := flag.NewFlagSet("2tsv", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() { printUsage(e.stderr, "2tsv") }

	var common commonFlags
	common.register(fs)

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	parserOpts, err := cfg.ParserOptions()
	if err != nil {
		return fmt.Errorf("cfg.ParserOptions: %w", err)
	}

	log, err := newLogger(cfg, e.stderr)
	if err != nil {
		return fmt.Errorf("newLogger: %w", err)
	}
	defer log.Close()

	in, closeIn, err := openInput(positional, e.stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(common.output, e.stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	t := format.NewTSV(out,
		format.WithTSVBufferSize(cfg.TSV.BufferSize),
		format.WithMaxEscapedCellSize(cfg.TSV.MaxEscapedCellSize),
		format.WithTSVLogger(log),
	)

	log.Debugf("converting to tsv")
	return core.Run(ctx, parser.NewCSV(in, parserOpts...), t)
}
