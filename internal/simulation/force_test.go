package simulation

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"solar-system-sim/internal/common"
)

func TestPairwiseForceThirdLaw(t *testing.T) {
	tests := []struct {
		name string
		a, b BodyState
	}{
		{"horizontal", BodyState{ID: "a", Mass: 1}, BodyState{ID: "b", Position: r2.Vec{X: 2}, Mass: 3}},
		{"diagonal", BodyState{ID: "a", Position: r2.Vec{X: -1, Y: -1}, Mass: 5}, BodyState{ID: "b", Position: r2.Vec{X: 3, Y: 2}, Mass: 7}},
		{"sun earth", BodyState{ID: "sun", Mass: 1.98892e30}, BodyState{ID: "earth", Position: r2.Vec{X: -common.AstronomicalUnit}, Mass: 5.9742e24}},
		{"tiny separation", BodyState{ID: "a", Position: r2.Vec{X: 1e-3}, Mass: 1}, BodyState{ID: "b", Position: r2.Vec{X: 1e-3, Y: 2e-3}, Mass: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fab, dab, err := PairwiseForce(common.GravitationalConstant, tt.a, tt.b)
			if err != nil {
				t.Fatalf("force on a: %v", err)
			}
			fba, dba, err := PairwiseForce(common.GravitationalConstant, tt.b, tt.a)
			if err != nil {
				t.Fatalf("force on b: %v", err)
			}

			if dab != dba {
				t.Errorf("distances differ: %v vs %v", dab, dba)
			}
			mag := r2.Norm(fab)
			if mag == 0 {
				t.Fatal("zero force between distinct bodies")
			}
			if math.Abs(r2.Norm(fba)-mag) > 1e-12*mag {
				t.Errorf("magnitudes differ: |F_ab| = %v, |F_ba| = %v", mag, r2.Norm(fba))
			}
			if sum := r2.Norm(r2.Add(fab, fba)); sum > 1e-12*mag {
				t.Errorf("F_ab + F_ba = %v, want ~0 (|F| = %v)", r2.Add(fab, fba), mag)
			}

			// The force on a points towards b.
			if r2.Dot(fab, r2.Sub(tt.b.Position, tt.a.Position)) <= 0 {
				t.Errorf("force %v does not point from a to b", fab)
			}
		})
	}
}

func TestPairwiseForceMagnitude(t *testing.T) {
	a := BodyState{ID: "a", Mass: 2}
	b := BodyState{ID: "b", Position: r2.Vec{X: 3, Y: 4}, Mass: 10}

	f, d, err := PairwiseForce(1, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if d != 5 {
		t.Errorf("distance = %v, want 5", d)
	}
	// |F| = 1·2·10/25 = 0.8, along (0.6, 0.8).
	if math.Abs(f.X-0.48) > 1e-12 || math.Abs(f.Y-0.64) > 1e-12 {
		t.Errorf("force = %v, want (0.48, 0.64)", f)
	}
}

func TestPairwiseForceCoincident(t *testing.T) {
	a := BodyState{ID: "a", Position: r2.Vec{X: 1, Y: 1}, Mass: 1}
	b := BodyState{ID: "b", Position: r2.Vec{X: 1, Y: 1}, Mass: 1}

	f, _, err := PairwiseForce(1, a, b)
	var coincident *CoincidentBodiesError
	if !errors.As(err, &coincident) {
		t.Fatalf("error = %v, want CoincidentBodiesError", err)
	}
	if coincident.First != "a" || coincident.Second != "b" {
		t.Errorf("error names %s/%s, want a/b", coincident.First, coincident.Second)
	}
	if math.IsNaN(f.X) || math.IsInf(f.X, 0) {
		t.Errorf("force = %v, want zero value", f)
	}
}

func randomSnapshot(n int, seed int64) []BodyState {
	rnd := rand.New(rand.NewSource(seed))
	snapshot := make([]BodyState, n)
	for i := range snapshot {
		snapshot[i] = BodyState{
			ID:       string(rune('A' + i%26)),
			Position: r2.Vec{X: 100 * rnd.Float64(), Y: 100 * rnd.Float64()},
			Mass:     1 + 9*rnd.Float64(),
		}
	}
	return snapshot
}

func TestPairwiseSolverParallelMatchesSerial(t *testing.T) {
	snapshot := randomSnapshot(150, 1)
	n := len(snapshot)

	serialF := make([]r2.Vec, n)
	serialD := make([]float64, n)
	if err := (PairwiseSolver{}).Forces(1, snapshot, 0, serialF, serialD); err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{2, 3, 8} {
		parF := make([]r2.Vec, n)
		parD := make([]float64, n)
		if err := (PairwiseSolver{Workers: workers}).Forces(1, snapshot, 0, parF, parD); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i := range serialF {
			if parF[i] != serialF[i] || parD[i] != serialD[i] {
				t.Fatalf("workers=%d: body %d differs: %v/%v vs %v/%v", workers, i, parF[i], parD[i], serialF[i], serialD[i])
			}
		}
	}
}

func TestPairwiseSolverParallelReportsCoincident(t *testing.T) {
	snapshot := randomSnapshot(100, 2)
	snapshot[70].Position = snapshot[10].Position

	forces := make([]r2.Vec, len(snapshot))
	distances := make([]float64, len(snapshot))
	err := (PairwiseSolver{Workers: 4}).Forces(1, snapshot, -1, forces, distances)

	var coincident *CoincidentBodiesError
	if !errors.As(err, &coincident) {
		t.Fatalf("error = %v, want CoincidentBodiesError", err)
	}
}

func TestBarnesHutApproximatesPairwise(t *testing.T) {
	snapshot := randomSnapshot(200, 3)
	n := len(snapshot)

	exactF := make([]r2.Vec, n)
	exactD := make([]float64, n)
	if err := (PairwiseSolver{}).Forces(1, snapshot, 5, exactF, exactD); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		theta  float64
		maxErr float64
	}{
		{0, 1e-9},
		{0.5, 0.1},
	}

	for _, tt := range tests {
		bh := &BarnesHutSolver{Theta: tt.theta}
		// Run twice to cover both plane construction and Reset.
		for round := 0; round < 2; round++ {
			approxF := make([]r2.Vec, n)
			approxD := make([]float64, n)
			if err := bh.Forces(1, snapshot, 5, approxF, approxD); err != nil {
				t.Fatalf("theta=%v round %d: %v", tt.theta, round, err)
			}

			var diff, total float64
			for i := range exactF {
				diff += r2.Norm(r2.Sub(approxF[i], exactF[i]))
				total += r2.Norm(exactF[i])
				if approxD[i] != exactD[i] {
					t.Fatalf("theta=%v: anchor distance %d = %v, want %v", tt.theta, i, approxD[i], exactD[i])
				}
			}
			if rel := diff / total; rel > tt.maxErr {
				t.Errorf("theta=%v round %d: relative force error %v > %v", tt.theta, round, rel, tt.maxErr)
			}
		}
	}
}

func TestBarnesHutRejectsCoincident(t *testing.T) {
	snapshot := randomSnapshot(10, 4)
	snapshot[3].Position = snapshot[7].Position

	err := (&BarnesHutSolver{Theta: 0.5}).Forces(1, snapshot, -1, make([]r2.Vec, 10), make([]float64, 10))
	var coincident *CoincidentBodiesError
	if !errors.As(err, &coincident) {
		t.Fatalf("error = %v, want CoincidentBodiesError", err)
	}
}

func TestBarnesHutSimulatorTracksPairwise(t *testing.T) {
	type planet struct {
		name  string
		au    float64
		speed float64
		mass  float64
	}
	planets := []planet{
		{"sun", 0, 0, sunMass},
		{"mercury", 0.387, -47400, 3.3011e23},
		{"venus", 0.723, 35020, 4.8685e24},
		{"earth", -1, 29783, earthMass},
		{"mars", -1.524, -24077, 6.4171e23},
		{"jupiter", 5.2, -13060, 1.898e27},
		{"saturn", -9.54, 9680, 5.683e26},
	}
	build := func(solver ForceSolver) *Simulator {
		var bodies []*Body
		for _, p := range planets {
			bodies = append(bodies, mustBody(t, p.name,
				r2.Vec{X: p.au * common.AstronomicalUnit}, r2.Vec{Y: p.speed}, p.mass))
		}
		return mustSimulator(t, bodies, WithForceSolver(solver))
	}

	exact := build(PairwiseSolver{})
	approx := build(&BarnesHutSolver{Theta: 0.5})
	for step := 0; step < 30; step++ {
		if err := exact.Step(); err != nil {
			t.Fatal(err)
		}
		if err := approx.Step(); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range exact.Bodies() {
		got := approx.Bodies()[i]
		if d := r2.Norm(r2.Sub(got.GetPosition(), want.GetPosition())); d > 1e-6*common.AstronomicalUnit {
			t.Errorf("%s position off by %v m", want.GetName(), d)
		}
		dv := r2.Norm(r2.Sub(got.GetVelocity(), want.GetVelocity()))
		if speed := r2.Norm(want.GetVelocity()); dv > 0.05*speed {
			t.Errorf("%s velocity = %v, want %v", want.GetName(), got.GetVelocity(), want.GetVelocity())
		}
	}
}
