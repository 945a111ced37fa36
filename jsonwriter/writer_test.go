package jsonwriter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Structures(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		write func(w *Writer)
		want  string
	}{
		{
			name: "should write nested arrays",
			write: func(w *Writer) {
				w.StartArray()
				w.StartArray()
				w.String([]byte("a"))
				w.Null()
				w.EndArray()
				w.StartArray()
				w.EndArray()
				w.EndArray()
			},
			want: `[["a",null],[]]` + "\n",
		},
		{
			name: "should write objects",
			write: func(w *Writer) {
				w.StartObject()
				w.Key("k")
				w.Bool(true)
				w.Key("n")
				w.StartObject()
				w.EndObject()
				w.Key("s")
				w.String([]byte(`"quoted"`))
				w.EndObject()
			},
			want: `{"k":true,"n":{},"s":"\"quoted\""}` + "\n",
		},
		{
			name: "should separate top level values",
			write: func(w *Writer) {
				w.StartArray()
				w.EndArray()
				w.Bool(false)
			},
			want: "[]\nfalse\n",
		},
		{
			name: "should close everything that is open",
			write: func(w *Writer) {
				w.StartArray()
				w.StartObject()
				w.Key("dangling")
			},
			want: `[{"dangling":null}]` + "\n",
		},
		{
			name:  "should write nothing for an empty document",
			write: func(*Writer) {},
			want:  "",
		},
		{
			name: "should indent",
			opts: []Option{WithIndent("  ")},
			write: func(w *Writer) {
				w.StartArray()
				w.StartObject()
				w.Key("a")
				w.String([]byte("1"))
				w.EndObject()
				w.StartArray()
				w.EndArray()
				w.EndArray()
			},
			want: "[\n  {\n    \"a\": \"1\"\n  },\n  []\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			var out bytes.Buffer
			w := New(&out, tt.opts...)
			tt.write(w)
			r.NoError(w.EndAll())
			r.Equal(0, w.Depth())
			r.Equal(tt.want, out.String())
		})
	}
}

func TestWriter_Misuse(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w *Writer)
		wantErr error
	}{
		{
			name: "should reject a value without a key",
			write: func(w *Writer) {
				w.StartObject()
				w.String([]byte("x"))
			},
			wantErr: ErrMissingKey,
		},
		{
			name: "should reject a key in an array",
			write: func(w *Writer) {
				w.StartArray()
				w.Key("x")
			},
			wantErr: ErrUnexpectedKey,
		},
		{
			name: "should reject two keys in a row",
			write: func(w *Writer) {
				w.StartObject()
				w.Key("a")
				w.Key("b")
			},
			wantErr: ErrMissingKey,
		},
		{
			name: "should reject closing nothing",
			write: func(w *Writer) {
				w.EndArray()
			},
			wantErr: ErrUnbalancedEnd,
		},
		{
			name: "should reject mismatched ends",
			write: func(w *Writer) {
				w.StartArray()
				w.EndObject()
			},
			wantErr: ErrMismatchedEnds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(&bytes.Buffer{})
			tt.write(w)
			assert.ErrorIs(t, w.Err(), tt.wantErr)
			assert.ErrorIs(t, w.EndAll(), tt.wantErr)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func TestWriter_OutputError(t *testing.T) {
	r := require.New(t)

	w := New(failingWriter{}, WithBufferSize(4))
	w.StartArray()
	w.String([]byte("longer than the buffer"))
	r.Error(w.Err())

	// further calls are no-ops
	w.EndArray()
	r.Error(w.EndAll())
}

func TestWriter_SmallBuffer(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, WithBufferSize(1))

	w.StartArray()
	for _, s := range []string{"a", "bb", "ccc"} {
		w.String([]byte(s))
	}
	w.EndArray()

	require.NoError(t, w.EndAll())
	assert.Equal(t, `["a","bb","ccc"]`+"\n", out.String())
}
