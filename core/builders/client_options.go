package builders

import "strings"

type clientConfig struct {
	typeProcessors map[string]func(any) any
}

type ClientOption func(*clientConfig)

// WithCustomTypeProcessor converts values of the given database type before
// they reach the result stream.
func WithCustomTypeProcessor(typ string, fn func(any) any) ClientOption {
	return func(cc *clientConfig) {
		t := strings.ToLower(typ)
		_, ok := cc.typeProcessors[t]
		if ok {
			// processor already registered for this type
			return
		}

		cc.typeProcessors[t] = fn
	}
}

// QuoteIdent quotes an identifier with the given delimiters, doubling any
// closing delimiter inside the name.
func QuoteIdent(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}
