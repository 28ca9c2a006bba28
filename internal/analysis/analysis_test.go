package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/sim"
)

func TestDominantFrequency(t *testing.T) {
	const dt = 0.01
	data := make([]float64, 256)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 5 * float64(i) * dt)
	}

	f := DominantFrequency(data, dt)
	if math.Abs(f-5) > 0.5 {
		t.Errorf("dominant frequency = %.2f, want ~5", f)
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	if f := DominantFrequency([]float64{1, 1, 1, 1, 1}, 0.02); f != 0 {
		t.Errorf("flat series frequency = %v, want 0", f)
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	if ps := PowerSpectrum(make([]float64, 100)); len(ps) != 50 {
		t.Errorf("len = %d, want 50", len(ps))
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("single sample should have no spectrum")
	}
}

func trace(held []dynamo.EntityID, errs []float64) []sim.Sample {
	out := make([]sim.Sample, len(held))
	for i := range held {
		out[i] = sim.Sample{Tick: i + 1, Time: float64(i+1) * 0.02, Held: held[i], Error: errs[i]}
	}
	return out
}

func TestGrabs(t *testing.T) {
	n := dynamo.NoEntity
	samples := trace(
		[]dynamo.EntityID{n, 1, 1, 1, n, n, 2, 2, 1},
		make([]float64, 9),
	)

	grabs := Grabs(samples)
	want := []Grab{{1, 1, 4}, {2, 6, 8}, {1, 8, 9}}
	if len(grabs) != len(want) {
		t.Fatalf("grabs = %v, want %v", grabs, want)
	}
	for i := range want {
		if grabs[i] != want[i] {
			t.Errorf("grab %d = %+v, want %+v", i, grabs[i], want[i])
		}
	}
}

func TestAnalyzeSettles(t *testing.T) {
	const ticks = 100
	held := make([]dynamo.EntityID, ticks)
	errs := make([]float64, ticks)
	for i := range held {
		held[i] = 3
		errs[i] = math.Pow(0.95, float64(i))
	}

	stats := Analyze(trace(held, errs), 0.05)
	if len(stats) != 1 {
		t.Fatalf("got %d grabs, want 1", len(stats))
	}
	st := stats[0]
	if !st.Settled {
		t.Fatal("decaying error should settle")
	}
	// 0.95^59 < 0.05 <= 0.95^58
	if math.Abs(st.SettleTime-59*0.02) > 1e-9 {
		t.Errorf("settle time = %v, want %v", st.SettleTime, 59*0.02)
	}
	if st.PeakError != 1 {
		t.Errorf("peak = %v, want 1", st.PeakError)
	}
	if math.Abs(st.Duration-ticks*0.02) > 1e-9 {
		t.Errorf("duration = %v", st.Duration)
	}
}

func TestAnalyzeNeverSettles(t *testing.T) {
	held := []dynamo.EntityID{1, 1, 1, 1}
	stats := Analyze(trace(held, []float64{1, 0.5, 1, 0.5}), 0.05)
	if stats[0].Settled {
		t.Error("grab should not settle")
	}
	if stats[0].FinalError != 0.5 {
		t.Errorf("final error = %v", stats[0].FinalError)
	}
}
