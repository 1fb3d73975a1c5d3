// Package telemetry samples simulation diagnostics into CSV files and
// summarizes integration error over a run.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
	"solar-system-sim/internal/simulation"
)

// Sample is one row of energy.csv.
type Sample struct {
	Step            uint64  `csv:"step"`
	Day             float64 `csv:"day"`
	KineticEnergy   float64 `csv:"kinetic_energy"`
	PotentialEnergy float64 `csv:"potential_energy"`
	TotalEnergy     float64 `csv:"total_energy"`
	Drift           float64 `csv:"drift"`
	MomentumX       float64 `csv:"momentum_x"`
	MomentumY       float64 `csv:"momentum_y"`
	AngularMomentum float64 `csv:"angular_momentum"`
}

// BodySample is one row of bodies.csv.
type BodySample struct {
	Step       uint64  `csv:"step"`
	Day        float64 `csv:"day"`
	ID         string  `csv:"id"`
	Name       string  `csv:"name"`
	X          float64 `csv:"x_au"`
	Y          float64 `csv:"y_au"`
	SpeedKMS   float64 `csv:"speed_kms"`
	DistanceKM float64 `csv:"distance_to_anchor_km"`
}

// Recorder collects a Sample every N steps. With an output directory it
// also appends rows to energy.csv and bodies.csv.
type Recorder struct {
	dir        string
	every      uint64
	energyFile *os.File
	bodiesFile *os.File

	energyHeaderWritten bool
	bodiesHeaderWritten bool

	initialEnergy float64
	started       bool
	samples       []Sample
}

// NewRecorder creates a recorder sampling every `every` steps. An empty dir
// keeps samples in memory only.
func NewRecorder(dir string, every int) (*Recorder, error) {
	if every < 1 {
		return nil, fmt.Errorf("sampling interval must be at least 1, got %d", every)
	}
	r := &Recorder{dir: dir, every: uint64(every)}
	if dir == "" {
		return r, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "energy.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating energy.csv: %w", err)
	}
	r.energyFile = f

	f, err = os.Create(filepath.Join(dir, "bodies.csv"))
	if err != nil {
		r.energyFile.Close()
		return nil, fmt.Errorf("creating bodies.csv: %w", err)
	}
	r.bodiesFile = f
	return r, nil
}

// Dir returns the output directory, empty when writing is disabled.
func (r *Recorder) Dir() string {
	return r.dir
}

// Observe samples the simulator if its step count is a multiple of the
// sampling interval. The first observed sample fixes the reference energy.
// Its signature matches the observer accepted by Simulator.Run.
func (r *Recorder) Observe(sim *simulation.Simulator) error {
	if sim.Steps()%r.every != 0 {
		return nil
	}

	d := sim.Diagnostics()
	if !r.started {
		r.initialEnergy = d.TotalEnergy
		r.started = true
	}
	day := d.Elapsed / common.SecondsPerDay
	sample := Sample{
		Step:            d.Step,
		Day:             day,
		KineticEnergy:   d.KineticEnergy,
		PotentialEnergy: d.PotentialEnergy,
		TotalEnergy:     d.TotalEnergy,
		Drift:           simulation.EnergyDrift(r.initialEnergy, d.TotalEnergy),
		MomentumX:       d.Momentum.X,
		MomentumY:       d.Momentum.Y,
		AngularMomentum: d.AngularMomentum,
	}
	r.samples = append(r.samples, sample)

	if r.energyFile == nil {
		return nil
	}
	if err := writeRows(r.energyFile, []Sample{sample}, &r.energyHeaderWritten); err != nil {
		return fmt.Errorf("writing energy sample: %w", err)
	}

	bodies := sim.Bodies()
	rows := make([]BodySample, 0, len(bodies))
	for _, b := range bodies {
		pos := b.GetPosition()
		rows = append(rows, BodySample{
			Step:       d.Step,
			Day:        day,
			ID:         b.GetID(),
			Name:       b.GetName(),
			X:          pos.X / common.AstronomicalUnit,
			Y:          pos.Y / common.AstronomicalUnit,
			SpeedKMS:   r2.Norm(b.GetVelocity()) / common.MetersPerKilometer,
			DistanceKM: b.DistanceToAnchor() / common.MetersPerKilometer,
		})
	}
	if err := writeRows(r.bodiesFile, rows, &r.bodiesHeaderWritten); err != nil {
		return fmt.Errorf("writing body samples: %w", err)
	}
	return nil
}

// writeRows writes the CSV header with the first batch only.
func writeRows[T any](f *os.File, rows []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

// Samples returns the collected energy samples.
func (r *Recorder) Samples() []Sample {
	return r.samples
}

// Drift returns the relative energy drift of every sample.
func (r *Recorder) Drift() []float64 {
	drift := make([]float64, len(r.samples))
	for i, s := range r.samples {
		drift[i] = s.Drift
	}
	return drift
}

// Close flushes and closes the output files.
func (r *Recorder) Close() error {
	var firstErr error
	for _, f := range []*os.File{r.energyFile, r.bodiesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.energyFile, r.bodiesFile = nil, nil
	return firstErr
}
