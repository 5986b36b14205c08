package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
)

type ExportData struct {
	Run      RunMetadata      `json:"run"`
	Times    []float64        `json:"times"`
	States   []physics.State  `json:"states"`
	Energies []physics.Energy `json:"energies"`
	Driven   []int            `json:"driven"`
}

func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Run:      meta,
		Times:    result.Times,
		States:   result.States,
		Energies: result.Energies,
		Driven:   result.Driven,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
