package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kndndrj/rowconv/adapters"
)

type option struct {
	flags       string
	description string
}

type command struct {
	summary string
	usage   []string
	options []option
	// lists the registered --db-type values
	dbTypes bool
}

var commonOptions = []option{
	{"-h, --help", "show this help"},
	{"-o, --output <filename>", "output to specified filename"},
	{"--config <filename>", "yaml configuration file; flags take precedence"},
	{"--log-level <level>", "debug, info, warn or error"},
	{"--log-file <filename>", "append logs to file instead of stderr"},
}

var commands = map[string]command{
	"2tsv": {
		summary: "streaming CSV to tab-delimited text converter",
		usage: []string{
			appName + " 2tsv [input.csv] [options]",
		},
		options: commonOptions,
	},
	"2json": {
		summary: "streaming CSV to json converter, or database table to json converter",
		usage: []string{
			appName + " 2json [input.csv] [options]",
			appName + " 2json --from-db <filename or url> [options]",
		},
		options: append(append([]option{}, commonOptions...),
			option{"--object", "output as array of objects"},
			option{"--no-empty", "omit empty properties (only with --object)"},
			option{"--database", "output in database schema"},
			option{"--no-header", "treat the header row as a data row"},
			option{"--index <name on expr>", "add index to database schema"},
			option{"--unique-index <name on expr>", "add unique index to database schema"},
			option{"--indent <string>", "pretty print using the given indentation"},
			option{"--from-db <filename or url>", "input is a database"},
			option{"--db-type <type>", "type of the --from-db database (default sqlite)"},
			option{"--db-table <table_name>", "name of table in input database to convert"},
		),
		dbTypes: true,
	},
}

// printUsage writes help for the given command, or the command overview
// when topic is empty or unknown.
func printUsage(w io.Writer, topic string) {
	cmd, ok := commands[topic]
	if !ok {
		fmt.Fprintf(w, "%s: streaming table row converter\n\n", appName)
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintf(w, "  %s <command> [options] [arguments]\n", appName)
		fmt.Fprintf(w, "  %s help [<command>]\n\n", appName)
		fmt.Fprintln(w, "Commands:")
		fmt.Fprintln(w, renderOptions([]option{
			{"2tsv", commands["2tsv"].summary},
			{"2json", commands["2json"].summary},
			{"help", "show help for a command"},
		}))
		return
	}

	fmt.Fprintf(w, "%s %s: %s\n\n", appName, topic, cmd.summary)
	fmt.Fprintln(w, "Usage:")
	for _, u := range cmd.usage {
		fmt.Fprintf(w, "  %s\n", u)
	}
	fmt.Fprintln(w, "\nOptions:")
	fmt.Fprintln(w, renderOptions(cmd.options))

	if cmd.dbTypes {
		fmt.Fprintln(w, "\nDatabase types:")
		fmt.Fprintf(w, "  %s\n", strings.Join(new(adapters.Mux).Aliases(), ", "))
	}
}

func renderOptions(opts []option) string {
	t := table.NewWriter()
	for _, o := range opts {
		t.AppendRow(table.Row{o.flags, o.description})
	}
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.SuppressTrailingSpaces()

	var out strings.Builder
	for _, line := range strings.Split(t.Render(), "\n") {
		out.WriteString("  ")
		out.WriteString(line)
		out.WriteString("\n")
	}
	return strings.TrimRight(out.String(), "\n")
}
