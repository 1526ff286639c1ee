package export

import (
	"encoding/csv"
	"io"

	"github.com/san-kum/sirsim/internal/dynamo"
)

var header = []string{"time", "s", "i", "r"}

// WriteCSV writes a header and one record per sample.
func WriteCSV(w io.Writer, samples []dynamo.Sample, prec int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			FormatFloat(s.Time, prec),
			FormatFloat(s.State.S, prec),
			FormatFloat(s.State.I, prec),
			FormatFloat(s.State.R, prec),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
