// Package jsonwriter is a streaming JSON writer. Structures are opened and
// closed explicitly, so documents of any size can be written without holding
// them in memory.
package jsonwriter

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/kndndrj/rowconv/core"
)

var (
	ErrMissingKey     = errors.New("object value written without a key")
	ErrUnexpectedKey  = errors.New("key written outside of an object")
	ErrUnbalancedEnd  = errors.New("closing a structure that is not open")
	ErrMismatchedEnds = errors.New("closing structure does not match the open one")
)

var _ core.DocumentWriter = (*Writer)(nil)

type frame struct {
	object    bool
	count     int
	wantValue bool
}

// Writer implements core.DocumentWriter on top of a core.Sink.
type Writer struct {
	sink       *core.Sink
	bufferSize int
	indent     string
	stack      []frame
	// number of top level values written
	top int
	err error
}

type Option func(*Writer)

// WithIndent pretty prints the output, using indent once per nesting level.
func WithIndent(indent string) Option {
	return func(w *Writer) {
		w.indent = indent
	}
}

// WithBufferSize sets the size of the output buffer.
func WithBufferSize(size int) Option {
	return func(w *Writer) {
		w.bufferSize = size
	}
}

func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		bufferSize: core.DefaultSinkSize,
		stack:      make([]frame, 0, 8),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.sink = core.NewSink(out, w.bufferSize)

	return w
}

func (w *Writer) StartArray() {
	w.open(false)
}

func (w *Writer) StartObject() {
	w.open(true)
}

func (w *Writer) EndArray() {
	w.close(false)
}

func (w *Writer) EndObject() {
	w.close(true)
}

func (w *Writer) Key(name string) {
	if w.err != nil {
		return
	}
	if len(w.stack) == 0 || !w.stack[len(w.stack)-1].object {
		w.fail(fmt.Errorf("%w: %q", ErrUnexpectedKey, name))
		return
	}

	f := &w.stack[len(w.stack)-1]
	if f.wantValue {
		w.fail(fmt.Errorf("%w: key %q follows another key", ErrMissingKey, name))
		return
	}
	if f.count > 0 {
		w.writeByte(',')
	}
	f.count++
	f.wantValue = true
	w.newline()

	w.writeEncoded(name)
	w.writeByte(':')
	if w.indent != "" {
		w.writeByte(' ')
	}
}

func (w *Writer) String(value []byte) {
	if !w.beforeValue() {
		return
	}
	w.writeEncoded(string(value))
}

func (w *Writer) Bool(value bool) {
	if !w.beforeValue() {
		return
	}
	if value {
		w.writeString("true")
	} else {
		w.writeString("false")
	}
}

func (w *Writer) Null() {
	if !w.beforeValue() {
		return
	}
	w.writeString("null")
}

// EndAll closes every open structure and flushes the output. A key that is
// still waiting for its value gets null.
func (w *Writer) EndAll() error {
	for len(w.stack) > 0 && w.err == nil {
		f := w.stack[len(w.stack)-1]
		if f.wantValue {
			w.Null()
		}
		w.close(f.object)
	}
	if w.top > 0 {
		w.writeByte('\n')
		w.top = 0
	}

	if err := w.sink.Flush(); err != nil && w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) Err() error {
	if w.err != nil {
		return w.err
	}
	return w.sink.Err()
}

// Depth returns the number of open structures.
func (w *Writer) Depth() int {
	return len(w.stack)
}

func (w *Writer) open(object bool) {
	if !w.beforeValue() {
		return
	}
	if object {
		w.writeByte('{')
	} else {
		w.writeByte('[')
	}
	w.stack = append(w.stack, frame{object: object})
}

func (w *Writer) close(object bool) {
	if w.err != nil {
		return
	}
	if len(w.stack) == 0 {
		w.fail(ErrUnbalancedEnd)
		return
	}

	f := w.stack[len(w.stack)-1]
	if f.object != object {
		w.fail(ErrMismatchedEnds)
		return
	}
	if f.wantValue {
		w.fail(ErrMissingKey)
		return
	}
	w.stack = w.stack[:len(w.stack)-1]

	if f.count > 0 {
		w.newline()
	}
	if object {
		w.writeByte('}')
	} else {
		w.writeByte(']')
	}
}

// beforeValue writes the separator needed in front of a new value.
func (w *Writer) beforeValue() bool {
	if w.err != nil {
		return false
	}

	if len(w.stack) == 0 {
		if w.top > 0 {
			w.writeByte('\n')
		}
		w.top++
		return w.err == nil
	}

	f := &w.stack[len(w.stack)-1]
	if f.object {
		if !f.wantValue {
			w.fail(ErrMissingKey)
			return false
		}
		f.wantValue = false
		return w.err == nil
	}

	if f.count > 0 {
		w.writeByte(',')
	}
	f.count++
	w.newline()

	return w.err == nil
}

func (w *Writer) newline() {
	if w.indent == "" {
		return
	}
	w.writeByte('\n')
	for range w.stack {
		w.writeString(w.indent)
	}
}

func (w *Writer) writeEncoded(s string) {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		w.fail(fmt.Errorf("json.MarshalNoEscape: %w", err))
		return
	}
	if _, err := w.sink.Write(b); err != nil {
		w.fail(err)
	}
}

func (w *Writer) writeByte(c byte) {
	if err := w.sink.WriteByte(c); err != nil {
		w.fail(err)
	}
}

func (w *Writer) writeString(s string) {
	if _, err := w.sink.WriteString(s); err != nil {
		w.fail(err)
	}
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}
