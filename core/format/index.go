package format

import (
	"strings"

	"github.com/kndndrj/rowconv/core"
)

type index struct {
	name   string
	on     string
	unique bool
}

// parseIndex splits a "<name> on <expression>" clause. The name is
// everything before the first space, the expression everything after the
// first " on " with leading spaces removed.
func parseIndex(desc core.IndexDescriptor) (index, bool) {
	clause := desc.Clause

	at := strings.Index(clause, " on ")
	if at < 0 {
		return index{}, false
	}
	on := strings.TrimLeft(clause[at+len(" on "):], " ")
	if on == "" {
		return index{}, false
	}

	name := clause
	if end := strings.IndexByte(clause, ' '); end >= 0 {
		name = clause[:end]
	}
	if name == "" {
		return index{}, false
	}

	return index{
		name:   name,
		on:     on,
		unique: desc.Unique,
	}, true
}

// parseIndexes returns the descriptors that can be rendered, in order.
func parseIndexes(descs []core.IndexDescriptor) []index {
	var out []index
	for _, d := range descs {
		idx, ok := parseIndex(d)
		if !ok {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// writeIndexes writes the "indexes" property of the header object. Nothing
// is written when there are no indexes.
func writeIndexes(w core.DocumentWriter, indexes []index) {
	if len(indexes) == 0 {
		return
	}

	w.Key("indexes")
	w.StartObject()
	for _, idx := range indexes {
		w.Key(idx.name)
		w.StartObject()
		w.Key("on")
		w.String([]byte(idx.on))
		if idx.unique {
			w.Key("unique")
			w.Bool(true)
		}
		w.EndObject()
	}
	w.EndObject()
}
