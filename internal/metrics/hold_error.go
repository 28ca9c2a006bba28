package metrics

import (
	"math"

	"github.com/san-kum/carrysim/internal/sim"
)

// HoldError is the RMS distance between the held body and its hold target.
type HoldError struct {
	name    string
	sumSq   float64
	samples int
}

func NewHoldError() *HoldError {
	return &HoldError{name: "hold_error"}
}

func (h *HoldError) Name() string { return h.name }

func (h *HoldError) Observe(s sim.Sample) {
	if !s.Holding() {
		return
	}
	h.sumSq += s.Error * s.Error
	h.samples++
}

func (h *HoldError) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return math.Sqrt(h.sumSq / float64(h.samples))
}

func (h *HoldError) Reset() {
	h.sumSq = 0
	h.samples = 0
}

// HeldFraction is the share of ticks spent holding something.
type HeldFraction struct {
	held  int
	total int
}

func NewHeldFraction() *HeldFraction { return &HeldFraction{} }

func (h *HeldFraction) Name() string { return "held_fraction" }

func (h *HeldFraction) Observe(s sim.Sample) {
	h.total++
	if s.Holding() {
		h.held++
	}
}

func (h *HeldFraction) Value() float64 {
	if h.total == 0 {
		return 0
	}
	return float64(h.held) / float64(h.total)
}

func (h *HeldFraction) Reset() {
	h.held = 0
	h.total = 0
}

// DefaultStabilityThreshold is the tracking error, in world units, that
// Stability counts as a violation.
const DefaultStabilityThreshold = 0.05

// Standard returns the metrics recorded for every run.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewHoldError(),
		NewControlEffort(),
		NewHeldFraction(),
		NewStability(DefaultStabilityThreshold),
	}
}
