package builders

import (
	"errors"
	"sync"

	"github.com/kndndrj/rowconv/core"
)

var _ core.ResultStream = (*ResultStream)(nil)

// ResultStream fills core.ResultStream interface for all sql dbs
type ResultStream struct {
	next    func() (core.Record, error)
	hasNext func() bool
	close   func()
	err     func() error
	header  core.Header
	once    sync.Once
}

func (r *ResultStream) Header() core.Header {
	return r.header
}

func (r *ResultStream) HasNext() bool {
	return r.hasNext()
}

func (r *ResultStream) Next() (core.Record, error) {
	rec, err := r.next()
	if err != nil || rec == nil {
		r.Close()
		return nil, err
	}
	return rec, nil
}

// Err returns the error that stopped the underlying iterator. It stays
// available after the stream is closed.
func (r *ResultStream) Err() error {
	return r.err()
}

func (r *ResultStream) Close() {
	r.once.Do(r.close)
	r.hasNext = func() bool {
		return false
	}
}

// ResultStreamBuilder builds the rows
type ResultStreamBuilder struct {
	next    func() (core.Record, error)
	hasNext func() bool
	header  core.Header
	close   func()
	err     func() error
}

func NewResultStreamBuilder() *ResultStreamBuilder {
	return &ResultStreamBuilder{
		next:    func() (core.Record, error) { return nil, errors.New("no next row") },
		hasNext: func() bool { return false },
		header:  core.Header{},
		close:   func() {},
		err:     func() error { return nil },
	}
}

func (b *ResultStreamBuilder) WithNextFunc(fn func() (core.Record, error), has func() bool) *ResultStreamBuilder {
	b.next = fn
	b.hasNext = has
	return b
}

func (b *ResultStreamBuilder) WithHeader(header core.Header) *ResultStreamBuilder {
	b.header = header
	return b
}

func (b *ResultStreamBuilder) WithCloseFunc(fn func()) *ResultStreamBuilder {
	b.close = fn
	return b
}

func (b *ResultStreamBuilder) WithErrFunc(fn func() error) *ResultStreamBuilder {
	b.err = fn
	return b
}

func (b *ResultStreamBuilder) Build() *ResultStream {
	return &ResultStream{
		next:    b.next,
		hasNext: b.hasNext,
		header:  b.header,
		close:   b.close,
		err:     b.err,
	}
}
