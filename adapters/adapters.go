package adapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kndndrj/rowconv/core"
)

var (
	errNoValidTypeAliases   = errors.New("no valid type aliases provided")
	ErrUnsupportedTypeAlias = errors.New("no driver registered for provided type alias")
)

// registeredAdapters holds implemented adapters - specific adapters register themselves in their init functions.
// The main reason is to be able to compile the binary without unsupported os/arch of specific drivers.
var registeredAdapters = make(map[string]core.Adapter)

// register registers a new adapter for specific database
func register(adapter core.Adapter, aliases ...string) error {
	if len(aliases) < 1 {
		return errNoValidTypeAliases
	}

	invalidCount := 0
	for _, alias := range aliases {
		if alias == "" {
			invalidCount++
			continue
		}
		registeredAdapters[alias] = adapter
	}

	if invalidCount == len(aliases) {
		return errNoValidTypeAliases
	}

	return nil
}

// Mux is an interface to all internal adapters.
type Mux struct{}

func (*Mux) GetAdapter(typ string) (core.Adapter, error) {
	value, ok := registeredAdapters[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTypeAlias, typ)
	}

	return value, nil
}

// Aliases lists the registered type aliases in alphabetical order.
func (*Mux) Aliases() []string {
	out := make([]string, 0, len(registeredAdapters))
	for alias := range registeredAdapters {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Open connects to a table source of the given type using the internal mux.
func Open(typ, url string) (core.TableSource, error) {
	mux := new(Mux)
	adapter, err := mux.GetAdapter(typ)
	if err != nil {
		return nil, fmt.Errorf("Mux.GetAdapter: %w (supported: %s)", err, strings.Join(mux.Aliases(), ", "))
	}

	src, err := adapter.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("adapter.Connect: %w", err)
	}

	return src, nil
}
