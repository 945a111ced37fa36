package format

import (
	"fmt"
	"strings"
)

// plainRow is a row without a span.
type plainRow []string

func (r plainRow) ColumnCount() int  { return len(r) }
func (r plainRow) Cell(i int) []byte { return []byte(r[i]) }

// spanRow stores its cells back to back like the csv parser does.
type spanRow struct {
	buf  []byte
	ends []int
}

func newSpanRow(cells ...string) *spanRow {
	r := &spanRow{}
	for _, c := range cells {
		r.buf = append(r.buf, c...)
		r.ends = append(r.ends, len(r.buf))
	}
	return r
}

func (r *spanRow) ColumnCount() int { return len(r.ends) }

func (r *spanRow) Cell(i int) []byte {
	start := 0
	if i > 0 {
		start = r.ends[i-1]
	}
	return r.buf[start:r.ends[i]]
}

func (r *spanRow) Span() []byte {
	if len(r.ends) == 0 {
		return nil
	}
	return r.buf[:r.ends[len(r.ends)-1]]
}

// memoryLogger keeps error level messages.
type memoryLogger struct {
	messages []string
}

func (l *memoryLogger) Debugf(string, ...any) {}
func (l *memoryLogger) Infof(string, ...any)  {}
func (l *memoryLogger) Warnf(string, ...any)  {}

func (l *memoryLogger) Errorf(format string, args ...any) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func (l *memoryLogger) joined() string {
	return strings.Join(l.messages, "\n")
}
