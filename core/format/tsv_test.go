package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kndndrj/rowconv/core"
)

func convertTSV(t *testing.T, rows []core.Row, opts ...TSVOption) (string, error) {
	t.Helper()

	var out bytes.Buffer
	tsv := NewTSV(&out, opts...)
	for _, row := range rows {
		if err := tsv.HandleRow(row); err != nil {
			return out.String(), err
		}
	}
	err := tsv.Finish()
	return out.String(), err
}

func TestTSV_HandleRow(t *testing.T) {
	tests := []struct {
		name string
		give [][]string
		want string
	}{
		{
			name: "should join cells with tabs",
			give: [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
			want: "a\tb\tc\n1\t2\t3\n",
		},
		{
			name: "should escape special characters",
			give: [][]string{{"a\tb", "c"}},
			want: "a\\tb\tc\n",
		},
		{
			name: "should escape single cells",
			give: [][]string{{"multi\nline\r\\"}},
			want: "multi\\nline\\r\\\\\n",
		},
		{
			name: "should keep empty cells",
			give: [][]string{{"", "x", ""}},
			want: "\tx\t\n",
		},
		{
			name: "should emit nothing for rows without columns",
			give: [][]string{{"a"}, {}, {"b"}},
			want: "a\nb\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spanned, plain []core.Row
			for _, cells := range tt.give {
				spanned = append(spanned, newSpanRow(cells...))
				plain = append(plain, plainRow(cells))
			}

			got, err := convertTSV(t, spanned)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// rows without a span take the escaping path for every cell
			got, err = convertTSV(t, plain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTSV_RoundTrip(t *testing.T) {
	r := require.New(t)

	cells := []string{"nul\x00byte", "tab\there", "\\", "", "crlf\r\n"}

	got, err := convertTSV(t, []core.Row{newSpanRow(cells...)})
	r.NoError(err)
	r.True(strings.HasSuffix(got, "\n"))

	fields := strings.Split(strings.TrimSuffix(got, "\n"), "\t")
	r.Len(fields, len(cells))
	for i, f := range fields {
		r.Equal(cells[i], string(UnescapeTSV([]byte(f))))
	}
}

func TestTSV_SmallBuffer(t *testing.T) {
	r := require.New(t)

	rows := []core.Row{
		newSpanRow("a long cell that does not fit", "b"),
		newSpanRow("x\ty", "z"),
	}

	got, err := convertTSV(t, rows, WithTSVBufferSize(4))
	r.NoError(err)
	r.Equal("a long cell that does not fit\tb\nx\\ty\tz\n", got)
}

func TestTSV_EscapeBufferLimit(t *testing.T) {
	rows := []core.Row{newSpanRow("ok", "b"), newSpanRow("\t\t\t\t", "b")}

	got, err := convertTSV(t, rows, WithMaxEscapedCellSize(6), WithTSVBufferSize(2))
	require.ErrorIs(t, err, ErrEscapeBuffer)
	// the failing cell is never written
	assert.NotContains(t, got, `\t\t`)
	assert.True(t, strings.HasPrefix(got, "ok\tb"))
}

func TestTSV_OverflowReportedOnce(t *testing.T) {
	r := require.New(t)

	log := &memoryLogger{}
	tsv := NewTSV(&bytes.Buffer{}, WithTSVLogger(log))

	tsv.HandleOverflow(nil)
	tsv.HandleOverflow([]byte("first"))
	tsv.HandleOverflow([]byte("second"))
	r.NoError(tsv.Finish())

	r.Len(log.messages, 1)
	r.Contains(log.joined(), "overflow! first")
}
