package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/carrysim/internal/sim"
)

type ExportSample struct {
	Tick         int        `json:"tick"`
	Time         float64    `json:"time"`
	Mode         string     `json:"mode"`
	Held         uint64     `json:"held"`
	HoldDistance float64    `json:"hold_distance"`
	Target       [3]float64 `json:"target"`
	Position     [3]float64 `json:"position"`
	Velocity     [3]float64 `json:"velocity"`
	Error        float64    `json:"error"`
}

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Steps   int            `json:"steps"`
	Samples []ExportSample `json:"samples"`
}

// ExportJSON writes a run and its trace as a single indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample) error {
	data := ExportData{
		Run:     meta,
		Steps:   len(samples),
		Samples: make([]ExportSample, len(samples)),
	}

	for i, s := range samples {
		data.Samples[i] = ExportSample{
			Tick:         s.Tick,
			Time:         s.Time,
			Mode:         s.Mode.String(),
			Held:         uint64(s.Held),
			HoldDistance: s.HoldDistance,
			Target:       s.Target,
			Position:     s.Position,
			Velocity:     s.Velocity,
			Error:        s.Error,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
