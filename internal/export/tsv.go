// Package export renders samples as text.
package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// FormatFloat renders v with prec significant digits, or the shortest
// representation that parses back to v when prec is negative.
func FormatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}

// AppendRow appends "<time>\t<s>\t<i>\t<r>\n" to buf.
func AppendRow(buf []byte, s dynamo.Sample, prec int) []byte {
	buf = strconv.AppendFloat(buf, s.Time, 'g', prec, 64)
	buf = append(buf, '\t')
	buf = strconv.AppendFloat(buf, s.State.S, 'g', prec, 64)
	buf = append(buf, '\t')
	buf = strconv.AppendFloat(buf, s.State.I, 'g', prec, 64)
	buf = append(buf, '\t')
	buf = strconv.AppendFloat(buf, s.State.R, 'g', prec, 64)
	return append(buf, '\n')
}

// RowWriter streams samples as tab-separated rows. It is buffered; call
// Flush when done.
type RowWriter struct {
	w    *bufio.Writer
	prec int
	buf  []byte
	rows int
}

func NewRowWriter(w io.Writer, prec int) *RowWriter {
	return &RowWriter{w: bufio.NewWriter(w), prec: prec, buf: make([]byte, 0, 96)}
}

func (rw *RowWriter) Write(s dynamo.Sample) error {
	rw.buf = AppendRow(rw.buf[:0], s, rw.prec)
	if _, err := rw.w.Write(rw.buf); err != nil {
		return err
	}
	rw.rows++
	return nil
}

func (rw *RowWriter) Rows() int { return rw.rows }

func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}
