package rivers

import "math"

// Query interpolates the river state at (x, z) from the nearest channel
// segment within the lateral query radius. It consults the containing
// region's network, plus any adjacent network whose area lies within the
// query radius of the point, so channels hugging a boundary are found from
// both sides.
func (m *Manager) Query(x, z float64) QueryResult {
	p := m.p
	home := p.RegionOf(x, z)

	best := QueryResult{}
	bestDist := p.QueryRadius

	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			k := Key{X: home.X + dx, Z: home.Z + dz}
			if k != home && p.boxDist(k, x, z) > p.QueryRadius {
				continue
			}
			net := m.Network(k)
			if r, d, ok := net.nearestOnChannel(x, z, p.QueryRadius); ok && d < bestDist {
				best = r
				bestDist = d
			}
		}
	}
	return best
}

// boxDist is the distance from (x, z) to region k's bounding box, zero
// inside it.
func (p Params) boxDist(k Key, x, z float64) float64 {
	x0 := float64(k.X) * p.RegionSize
	z0 := float64(k.Z) * p.RegionSize
	dx := math.Max(math.Max(x0-x, 0), x-(x0+p.RegionSize))
	dz := math.Max(math.Max(z0-z, 0), z-(z0+p.RegionSize))
	return math.Hypot(dx, dz)
}

// nearestOnChannel finds the closest point on any channel to (x, z) by
// locating the nearest sample and projecting onto its adjacent segments,
// then linearly interpolating flow, width and depth along the winning
// segment.
func (n *Network) nearestOnChannel(x, z, radius float64) (QueryResult, float64, bool) {
	ref, _, ok := n.index.nearest(n.Channels, x, z, radius)
	if !ok {
		return QueryResult{}, 0, false
	}

	samples := n.Channels[ref.ch].Samples
	bestDist := math.Inf(1)
	var a, b Sample
	var t float64

	for _, seg := range [2][2]int{{ref.idx - 1, ref.idx}, {ref.idx, ref.idx + 1}} {
		i, j := seg[0], seg[1]
		if i < 0 || j >= len(samples) {
			continue
		}
		d, u := segmentDist(samples[i], samples[j], x, z)
		if d < bestDist {
			bestDist = d
			a, b = samples[i], samples[j]
			t = u
		}
	}
	if math.IsInf(bestDist, 1) {
		// single-sample channel
		s := samples[ref.idx]
		bestDist = math.Hypot(s.X-x, s.Z-z)
		a, b, t = s, s, 0
	}
	if bestDist > radius {
		return QueryResult{}, 0, false
	}

	flow := a.Flow + (b.Flow-a.Flow)*t
	return QueryResult{
		HasRiver: true,
		Width:    a.Width + (b.Width-a.Width)*t,
		Depth:    a.Depth + (b.Depth-a.Depth)*t,
		Flow:     flow,
		Velocity: a.Velocity + (b.Velocity-a.Velocity)*t,
		Order:    streamOrder(flow),
	}, bestDist, true
}

// segmentDist is the distance from (x, z) to segment ab and the clamped
// projection parameter along it.
func segmentDist(a, b Sample, x, z float64) (float64, float64) {
	abx := b.X - a.X
	abz := b.Z - a.Z
	lenSq := abx*abx + abz*abz
	t := 0.0
	if lenSq > 0 {
		t = ((x-a.X)*abx + (z-a.Z)*abz) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	px := a.X + abx*t
	pz := a.Z + abz*t
	return math.Hypot(px-x, pz-z), t
}
