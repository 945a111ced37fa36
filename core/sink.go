package core

import (
	"io"
)

// DefaultSinkSize is the capacity of a Sink created with a non-positive size.
const DefaultSinkSize = 65536

// Sink is a fixed capacity write buffer in front of an io.Writer.
//
// A write that does not fit into the remaining capacity first flushes the
// pending bytes. A write larger than the whole capacity then goes straight
// to the underlying writer. Errors are sticky: once a write fails, every
// following call returns the same error.
type Sink struct {
	buf []byte
	w   io.Writer
	err error
}

func NewSink(w io.Writer, size int) *Sink {
	if size <= 0 {
		size = DefaultSinkSize
	}

	return &Sink{
		buf: make([]byte, 0, size),
		w:   w,
	}
}

func (s *Sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	if len(p)+len(s.buf) > cap(s.buf) {
		if err := s.Flush(); err != nil {
			return 0, err
		}
		if len(p) > cap(s.buf) {
			return s.writeDirect(p)
		}
	}

	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *Sink) WriteByte(c byte) error {
	if s.err != nil {
		return s.err
	}
	if len(s.buf) == cap(s.buf) {
		if err := s.Flush(); err != nil {
			return err
		}
	}

	s.buf = append(s.buf, c)
	return nil
}

func (s *Sink) WriteString(str string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(str)+len(s.buf) > cap(s.buf) {
		if err := s.Flush(); err != nil {
			return 0, err
		}
		if len(str) > cap(s.buf) {
			return s.writeDirect([]byte(str))
		}
	}

	s.buf = append(s.buf, str...)
	return len(str), nil
}

// Flush writes all buffered bytes in a single call.
func (s *Sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	if len(s.buf) == 0 {
		return nil
	}

	n, err := s.w.Write(s.buf)
	if err == nil && n < len(s.buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = err
		return err
	}

	s.buf = s.buf[:0]
	return nil
}

// Buffered returns the number of bytes waiting to be flushed.
func (s *Sink) Buffered() int {
	return len(s.buf)
}

// Size returns the capacity of the buffer.
func (s *Sink) Size() int {
	return cap(s.buf)
}

func (s *Sink) Err() error {
	return s.err
}

func (s *Sink) writeDirect(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = err
	}
	return n, err
}
