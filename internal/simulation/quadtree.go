package simulation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// maxQuadDepth bounds subdivision. Bodies closer than the smallest cell
// share a leaf and interact exactly.
const maxQuadDepth = 48

// quadNode is a square cell of the tree. Children are stored contiguously
// starting at first; leaves have first < 0.
type quadNode struct {
	center r2.Vec
	half   float64 // half the side length
	mass   float64
	com    r2.Vec // mass-weighted position sum until build finishes
	first  int32
	bodies []int
}

// contains reports whether p lies inside the cell.
func (n *quadNode) contains(p r2.Vec) bool {
	return math.Abs(p.X-n.center.X) <= n.half && math.Abs(p.Y-n.center.Y) <= n.half
}

// quadTree is rebuilt from every snapshot. Its node storage is reused
// between steps.
type quadTree struct {
	nodes []quadNode
	stack []int32
}

func quadrant(center, p r2.Vec) int32 {
	var q int32
	if p.X >= center.X {
		q |= 1
	}
	if p.Y >= center.Y {
		q |= 2
	}
	return q
}

// build inserts every body of the snapshot and finalizes the centers of mass.
func (t *quadTree) build(snapshot []BodyState) {
	t.nodes = t.nodes[:0]
	if len(snapshot) == 0 {
		return
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, s := range snapshot {
		minX = math.Min(minX, s.Position.X)
		maxX = math.Max(maxX, s.Position.X)
		minY = math.Min(minY, s.Position.Y)
		maxY = math.Max(maxY, s.Position.Y)
	}
	half := math.Max(maxX-minX, maxY-minY) / 2
	if half == 0 {
		half = 1
	}
	t.nodes = append(t.nodes, quadNode{
		center: r2.Vec{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		half:   half,
		first:  -1,
	})

	for i := range snapshot {
		t.insert(0, i, snapshot, 0)
	}
	for k := range t.nodes {
		if n := &t.nodes[k]; n.mass > 0 {
			n.com = r2.Scale(1/n.mass, n.com)
		}
	}
}

// insert adds body i below node n, splitting occupied leaves on the way.
func (t *quadTree) insert(n int32, i int, snapshot []BodyState, depth int) {
	p, m := snapshot[i].Position, snapshot[i].Mass
	for {
		node := &t.nodes[n]
		node.mass += m
		node.com = r2.Add(node.com, r2.Scale(m, p))
		if node.first < 0 {
			if len(node.bodies) == 0 || depth >= maxQuadDepth {
				node.bodies = append(node.bodies, i)
				return
			}
			t.split(n, snapshot, depth)
			node = &t.nodes[n]
		}
		n = node.first + quadrant(node.center, p)
		depth++
	}
}

// split turns leaf n into an inner node and pushes its bodies down.
func (t *quadTree) split(n int32, snapshot []BodyState, depth int) {
	center, quarter := t.nodes[n].center, t.nodes[n].half/2
	first := int32(len(t.nodes))
	for q := 0; q < 4; q++ {
		c := r2.Vec{X: center.X - quarter, Y: center.Y - quarter}
		if q&1 != 0 {
			c.X = center.X + quarter
		}
		if q&2 != 0 {
			c.Y = center.Y + quarter
		}
		t.nodes = append(t.nodes, quadNode{center: c, half: quarter, first: -1})
	}

	moved := t.nodes[n].bodies
	t.nodes[n].bodies = nil
	t.nodes[n].first = first
	for _, j := range moved {
		t.insert(first+quadrant(center, snapshot[j].Position), j, snapshot, depth+1)
	}
}

// forceOn walks the tree for body i. A cell that does not contain the body
// and whose side is below theta times its distance acts as a single body at
// its center of mass; leaves are always summed exactly.
func (t *quadTree) forceOn(g float64, snapshot []BodyState, i int, theta float64) (r2.Vec, error) {
	var total r2.Vec
	if len(t.nodes) == 0 {
		return total, nil
	}
	on := snapshot[i]

	t.stack = append(t.stack[:0], 0)
	for len(t.stack) > 0 {
		n := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		node := &t.nodes[n]

		if node.first < 0 {
			for _, j := range node.bodies {
				if j == i {
					continue
				}
				f, _, err := PairwiseForce(g, on, snapshot[j])
				if err != nil {
					return r2.Vec{}, err
				}
				total = r2.Add(total, f)
			}
			continue
		}

		d := r2.Norm(r2.Sub(node.com, on.Position))
		if 2*node.half < theta*d && !node.contains(on.Position) {
			f, _, err := PairwiseForce(g, on, BodyState{Position: node.com, Mass: node.mass})
			if err != nil {
				return r2.Vec{}, err
			}
			total = r2.Add(total, f)
			continue
		}

		for q := int32(0); q < 4; q++ {
			if t.nodes[node.first+q].mass > 0 {
				t.stack = append(t.stack, node.first+q)
			}
		}
	}
	return total, nil
}
