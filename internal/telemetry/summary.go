package telemetry

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the energy drift over a run.
type Summary struct {
	Samples     int
	MeanDrift   float64
	StdDevDrift float64
	MaxAbsDrift float64
	FinalDrift  float64
}

// Summary computes drift statistics over the collected samples.
func (r *Recorder) Summary() Summary {
	drift := r.Drift()
	s := Summary{Samples: len(drift)}
	if len(drift) == 0 {
		return s
	}

	s.MeanDrift, s.StdDevDrift = stat.MeanStdDev(drift, nil)
	if len(drift) == 1 {
		s.StdDevDrift = 0
	}
	abs := make([]float64, len(drift))
	for i, d := range drift {
		abs[i] = math.Abs(d)
	}
	s.MaxAbsDrift = floats.Max(abs)
	s.FinalDrift = drift[len(drift)-1]
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("samples=%d mean drift=%.3e stddev=%.3e max |drift|=%.3e final=%.3e",
		s.Samples, s.MeanDrift, s.StdDevDrift, s.MaxAbsDrift, s.FinalDrift)
}

// Plot renders the drift series as an ASCII chart. It returns an empty
// string when nothing was sampled.
func (r *Recorder) Plot(width, height int) string {
	drift := r.Drift()
	if len(drift) == 0 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Caption("relative energy drift")}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	if height > 0 {
		opts = append(opts, asciigraph.Height(height))
	}
	return asciigraph.Plot(drift, opts...)
}
