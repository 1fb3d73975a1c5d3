package simulation

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// parallelThreshold is the minimum body count for the parallel force pass.
// Below this the goroutine overhead outweighs the pairwise work.
const parallelThreshold = 64

// BodyState is the frozen view of a body used during a force pass.
type BodyState struct {
	ID       string
	Position r2.Vec
	Mass     float64
}

// ForceSolver computes the net force on every body of a frozen snapshot.
//
// Implementations write forces[i] and, when anchor >= 0, distances[i] (the
// distance from body i to the anchor) for every index. They must not retain
// the slices after returning.
type ForceSolver interface {
	Forces(g float64, snapshot []BodyState, anchor int, forces []r2.Vec, distances []float64) error
	Name() string
}

// PairwiseForce returns the gravitational force exerted on `on` by `from`
// and the distance between them.
func PairwiseForce(g float64, on, from BodyState) (r2.Vec, float64, error) {
	dx := from.Position.X - on.Position.X
	dy := from.Position.Y - on.Position.Y
	distance := math.Sqrt(dx*dx + dy*dy)
	if distance == 0 {
		return r2.Vec{}, 0, &CoincidentBodiesError{First: on.ID, Second: from.ID, Position: on.Position}
	}

	force := g * on.Mass * from.Mass / (distance * distance)
	theta := math.Atan2(dy, dx)
	return r2.Vec{X: math.Cos(theta) * force, Y: math.Sin(theta) * force}, distance, nil
}

// PairwiseSolver sums every pairwise attraction exactly. With more than one
// worker the bodies are split into disjoint ranges that are computed
// concurrently; the result does not depend on the worker count.
type PairwiseSolver struct {
	Workers int
}

func (p PairwiseSolver) Name() string { return "pairwise" }

// Forces implements ForceSolver.
func (p PairwiseSolver) Forces(g float64, snapshot []BodyState, anchor int, forces []r2.Vec, distances []float64) error {
	n := len(snapshot)
	if p.Workers <= 1 || n < parallelThreshold {
		return netForces(g, snapshot, anchor, 0, n, forces, distances)
	}

	chunk := (n + p.Workers - 1) / p.Workers
	var eg errgroup.Group
	eg.SetLimit(p.Workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		eg.Go(func() error {
			return netForces(g, snapshot, anchor, start, end, forces, distances)
		})
	}
	return eg.Wait()
}

// netForces computes the net force for bodies [start, end) against the whole
// snapshot. It only reads the snapshot and writes its own index range.
func netForces(g float64, snapshot []BodyState, anchor, start, end int, forces []r2.Vec, distances []float64) error {
	for i := start; i < end; i++ {
		var total r2.Vec
		for j := range snapshot {
			if i == j {
				continue
			}
			f, distance, err := PairwiseForce(g, snapshot[i], snapshot[j])
			if err != nil {
				return err
			}
			total.X += f.X
			total.Y += f.Y
			if j == anchor {
				distances[i] = distance
			}
		}
		forces[i] = total
	}
	return nil
}

// BarnesHutSolver approximates the net forces with a Barnes-Hut quadtree.
// Theta is the opening angle; zero degenerates to the exact sum.
type BarnesHutSolver struct {
	Theta float64

	tree quadTree
}

func (b *BarnesHutSolver) Name() string { return "barnes-hut" }

// Forces implements ForceSolver.
func (b *BarnesHutSolver) Forces(g float64, snapshot []BodyState, anchor int, forces []r2.Vec, distances []float64) error {
	// Coincident bodies would share a leaf and fail deep inside the walk,
	// so they are rejected up front.
	if err := checkCoincident(snapshot); err != nil {
		return err
	}

	b.tree.build(snapshot)
	for i := range snapshot {
		f, err := b.tree.forceOn(g, snapshot, i, b.Theta)
		if err != nil {
			return err
		}
		forces[i] = f
		if anchor >= 0 && i != anchor {
			_, distance, err := PairwiseForce(g, snapshot[i], snapshot[anchor])
			if err != nil {
				return err
			}
			distances[i] = distance
		}
	}
	return nil
}

// checkCoincident reports the first pair of bodies sharing an exact position.
func checkCoincident(snapshot []BodyState) error {
	seen := make(map[r2.Vec]int, len(snapshot))
	for i, s := range snapshot {
		if j, ok := seen[s.Position]; ok {
			return &CoincidentBodiesError{First: snapshot[j].ID, Second: s.ID, Position: s.Position}
		}
		seen[s.Position] = i
	}
	return nil
}
