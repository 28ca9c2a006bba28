package analysis

import (
	"math"

	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/sim"
)

// settleWindow is how many consecutive ticks the error must stay under the
// threshold to count as settled.
const settleWindow = 10

// Grab is a run of consecutive ticks holding the same entity. End is
// exclusive.
type Grab struct {
	Entity     dynamo.EntityID
	Start, End int
}

type GrabStats struct {
	Grab
	Duration   float64
	Settled    bool
	SettleTime float64
	PeakError  float64
	RMSError   float64
	FinalError float64
	// OscillationHz is the dominant frequency of the hold error.
	OscillationHz float64
}

func Grabs(samples []sim.Sample) []Grab {
	var grabs []Grab
	for i := 0; i < len(samples); {
		if !samples[i].Holding() {
			i++
			continue
		}
		g := Grab{Entity: samples[i].Held, Start: i}
		for i < len(samples) && samples[i].Held == g.Entity {
			i++
		}
		g.End = i
		grabs = append(grabs, g)
	}
	return grabs
}

// Analyze computes per-grab statistics. threshold bounds the hold error of a
// settled grab.
func Analyze(samples []sim.Sample, threshold float64) []GrabStats {
	dt := 0.0
	if len(samples) > 1 {
		dt = samples[1].Time - samples[0].Time
	}

	grabs := Grabs(samples)
	stats := make([]GrabStats, 0, len(grabs))
	for _, g := range grabs {
		held := samples[g.Start:g.End]
		errs := make([]float64, len(held))
		st := GrabStats{Grab: g, Duration: held[len(held)-1].Time - held[0].Time + dt}

		var sumSq float64
		run := 0
		for i, s := range held {
			errs[i] = s.Error
			st.PeakError = math.Max(st.PeakError, s.Error)
			sumSq += s.Error * s.Error

			if s.Error <= threshold {
				run++
			} else {
				run = 0
			}
			if !st.Settled && run >= min(settleWindow, len(held)) {
				st.Settled = true
				st.SettleTime = held[i-run+1].Time - held[0].Time
			}
		}
		st.RMSError = math.Sqrt(sumSq / float64(len(held)))
		st.FinalError = held[len(held)-1].Error
		st.OscillationHz = DominantFrequency(errs, dt)
		stats = append(stats, st)
	}
	return stats
}
