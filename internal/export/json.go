package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/models"
)

type ExportData struct {
	ID         string             `json:"id,omitempty"`
	Integrator string             `json:"integrator"`
	Params     models.Params      `json:"params"`
	Step       float64            `json:"step"`
	Every      float64            `json:"every"`
	MaxTime    float64            `json:"max_time"`
	Samples    []dynamo.Sample    `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
}

func WriteJSON(w io.Writer, data ExportData) error {
	if data.Samples == nil {
		data.Samples = []dynamo.Sample{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
