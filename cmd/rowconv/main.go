package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/kndndrj/rowconv/config"
	"github.com/kndndrj/rowconv/core"
	"github.com/kndndrj/rowconv/logger"
)

const appName = "rowconv"

// exit status of a run stopped by a signal
const exitInterrupted = 130

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], &env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, e *env) int {
	if len(args) < 1 {
		printUsage(e.stderr, "")
		return 1
	}

	var err error
	switch args[0] {
	case "2tsv":
		err = run2TSV(ctx, args[1:], e)
	case "2json":
		err = run2JSON(ctx, args[1:], e)
	case "help", "-h", "--help":
		topic := ""
		if len(args) > 1 {
			topic = args[1]
		}
		printUsage(e.stdout, topic)
		return 0
	default:
		err = fmt.Errorf("unknown command %q; run '%s help' for usage", args[0], appName)
	}

	return exitCode(err, e.stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, core.ErrInterrupted):
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitInterrupted
	default:
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
}

// commonFlags are accepted by every conversion command.
type commonFlags struct {
	output     string
	configFile string
	logLevel   string
	logFile    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.output, "o", "", "output to specified filename")
	fs.StringVar(&c.output, "output", "", "output to specified filename")
	fs.StringVar(&c.configFile, "config", "", "yaml configuration file")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&c.logFile, "log-file", "", "append logs to file instead of stderr")
}

// load reads the configuration file, if any, and applies the logging flags.
func (c *commonFlags) load() (*config.Config, error) {
	cfg := config.Default()
	if c.configFile != "" {
		var err error
		cfg, err = config.Load(c.configFile)
		if err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}

	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFile != "" {
		cfg.Log.File = c.logFile
	}
	return cfg, nil
}

// newLogger creates the run logger. Every run is tagged with its own id.
func newLogger(cfg *config.Config, stderr io.Writer) (*logger.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%s[%s]", appName, uuid.New().String()[:8])
	if cfg.Log.File != "" {
		return logger.NewFile(cfg.Log.File, level, prefix)
	}
	return logger.New(stderr, level, prefix), nil
}

// parseInterleaved parses flags that may appear before and after positional
// arguments and returns the positional ones.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// openInput opens the single positional input file, or returns stdin.
func openInput(positional []string, stdin io.Reader) (io.Reader, func(), error) {
	switch len(positional) {
	case 0:
		return stdin, func() {}, nil
	case 1:
		f, err := os.Open(positional[0])
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open for reading: %w", err)
		}
		return f, func() { f.Close() }, nil
	default:
		return nil, nil, errors.New("input file specified more than once")
	}
}

// openOutput creates the output file, or returns stdout. The returned close
// function reports errors from closing the file.
func openOutput(name string, stdout io.Writer) (io.Writer, func() error, error) {
	if name == "" {
		return stdout, func() error { return nil }, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open for writing: %w", err)
	}
	return f, f.Close, nil
}
