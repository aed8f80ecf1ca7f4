package rivers

import "math"

// sampleRef addresses one sample inside a network under construction.
type sampleRef struct {
	ch, idx int
}

// gridIndex buckets channel samples into square cells so merge checks and
// point queries only scan a 3x3 neighborhood. Lookup order is fixed so
// nearest-sample ties resolve deterministically.
type gridIndex struct {
	cell  float64
	cells map[[2]int][]sampleRef
}

func newGridIndex(cell float64) gridIndex {
	return gridIndex{cell: cell, cells: make(map[[2]int][]sampleRef)}
}

func (g *gridIndex) cellOf(x, z float64) [2]int {
	return [2]int{int(math.Floor(x / g.cell)), int(math.Floor(z / g.cell))}
}

func (g *gridIndex) add(x, z float64, ref sampleRef) {
	c := g.cellOf(x, z)
	g.cells[c] = append(g.cells[c], ref)
}

// nearest returns the closest indexed sample within radius of (x, z).
// Distance ties break toward the earlier channel, then the earlier sample,
// which is stable because cells are scanned in fixed order and refs are
// appended in insertion order.
func (g *gridIndex) nearest(channels []Channel, x, z, radius float64) (sampleRef, float64, bool) {
	c := g.cellOf(x, z)
	best := sampleRef{ch: -1}
	bestDist := radius

	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			for _, ref := range g.cells[[2]int{c[0] + dx, c[1] + dz}] {
				s := channels[ref.ch].Samples[ref.idx]
				d := math.Hypot(s.X-x, s.Z-z)
				if d < bestDist || (d == bestDist && better(ref, best)) {
					best = ref
					bestDist = d
				}
			}
		}
	}
	return best, bestDist, best.ch >= 0
}

func better(a, b sampleRef) bool {
	if b.ch < 0 {
		return true
	}
	if a.ch != b.ch {
		return a.ch < b.ch
	}
	return a.idx < b.idx
}
