package rivers

import "math"

const diag = 0.7071067811865476 // 1/sqrt(2), unit diagonal step

// Descent directions, fixed order. Ties during steepest-descent selection
// resolve to the earliest direction.
var directions = [8][2]float64{
	{0, -1}, {diag, -diag}, {1, 0}, {diag, diag},
	{0, 1}, {-diag, diag}, {-1, 0}, {-diag, -diag},
}

// resumeDepth bounds the cross-region flow horizon. A region's published
// network resumes channels out of neighbor networks built at depth-1, so a
// channel carries its accumulated flow across up to resumeDepth boundaries
// before a fresh resume would fall back to the neighbor's local sources.
const resumeDepth = 3

func (p Params) sampleAt(x, z, elev, slope, flow float64) Sample {
	return Sample{
		X: x, Z: z, Elev: elev,
		Slope:    slope,
		Flow:     flow,
		Width:    p.width(flow),
		Depth:    p.depth(flow),
		Velocity: p.velocity(flow, slope),
	}
}

// traceChannel walks downhill from (x, z) with starting flow, recording a
// sample per step. Termination: ocean reached, local minimum, step budget
// exhausted, or first step outside the owning region. The sample that lands
// outside is kept so the downstream region can resume from it.
func (m *Manager) traceChannel(owner Key, x, z, flow float64) []Sample {
	p := m.p
	var samples []Sample

	elev := m.s.Elevation(x, z)
	slope := 0.0
	for step := 0; step < p.MaxSteps; step++ {
		samples = append(samples, p.sampleAt(x, z, elev, slope, flow))

		if elev <= p.OceanLevel {
			return samples // reached the sea
		}

		nx, nz, nelev, ok := m.descend(x, z, elev)
		if !ok {
			return samples // local minimum
		}

		slope = (elev - nelev) / p.StepLength
		x, z, elev = nx, nz, nelev
		flow += p.FlowGain * m.s.Precipitation(x, z, elev) / p.PrecipNorm

		if !p.contains(owner, x, z) {
			samples = append(samples, p.sampleAt(x, z, elev, slope, flow))
			return samples
		}
	}
	return samples
}

// descend picks the steepest-descent neighbor one step away, or reports a
// local minimum.
func (m *Manager) descend(x, z, elev float64) (nx, nz, nelev float64, ok bool) {
	p := m.p
	bestElev := elev
	for _, d := range directions {
		cx := x + d[0]*p.StepLength
		cz := z + d[1]*p.StepLength
		ce := m.s.Elevation(cx, cz)
		if ce < bestElev {
			nx, nz, nelev = cx, cz, ce
			bestElev = ce
			ok = true
		}
	}
	return nx, nz, nelev, ok
}

// localTraces walks every admitted source of one region, with no knowledge
// of inflows from neighbors. Sources are sampled on a fixed grid inside the
// region; a candidate is admitted when its elevation sits in the plausibility
// band and its precipitation clears the threshold.
func (m *Manager) localTraces(k Key) [][]Sample {
	p := m.p
	x0 := float64(k.X) * p.RegionSize
	z0 := float64(k.Z) * p.RegionSize
	n := int(p.RegionSize / p.SourceSpacing)

	var traces [][]Sample
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			x := x0 + float64(i)*p.SourceSpacing
			z := z0 + float64(j)*p.SourceSpacing

			elev := m.s.Elevation(x, z)
			if elev < p.SourceMinElev || elev > p.SourceMaxElev {
				continue
			}
			if m.s.Precipitation(x, z, elev) < p.SourceMinPrecip {
				continue
			}
			traces = append(traces, m.traceChannel(k, x, z, p.SourceFlow))
		}
	}
	return traces
}

// buildNetwork assembles a region's network at the given horizon depth: its
// own local traces, plus resumed continuations of channels that exit into it
// from neighbor networks one depth level down. Resuming from the neighbor's
// integrated network, not its raw local traces, carries the flow the neighbor
// gained from merges and from its own upstream inflow. Channel integration
// order is fixed, so merges are reproducible.
func (m *Manager) buildNetwork(k Key, depth int) *Network {
	p := m.p
	net := &Network{
		Key:   k,
		index: newGridIndex(math.Max(p.MergeRadius, p.QueryRadius)),
	}

	for _, t := range m.cachedLocalTraces(k) {
		m.integrate(net, t)
	}
	if depth == 0 {
		return net
	}

	// Neighbors in fixed scan order. A neighbor channel whose final sample
	// landed inside this region exited here; everything else terminated at
	// home or merged into another channel.
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			nk := Key{X: k.X + dx, Z: k.Z + dz}
			for _, ch := range m.networkAt(nk, depth-1).Channels {
				last := ch.Samples[len(ch.Samples)-1]
				if p.contains(nk, last.X, last.Z) || !p.contains(k, last.X, last.Z) {
					continue
				}
				resumed := m.traceChannel(k, last.X, last.Z, last.Flow)
				m.integrate(net, resumed)
			}
		}
	}
	return net
}

// integrate appends a candidate channel to the network, merging into an
// existing channel if the path comes within the merge radius of one. The
// merged-into channel gains the tributary's flow from the junction sample
// downstream, with the flow-derived fields recomputed.
func (m *Manager) integrate(net *Network, samples []Sample) {
	p := m.p

	for i, s := range samples {
		ref, _, ok := net.index.nearest(net.Channels, s.X, s.Z, p.MergeRadius)
		if !ok {
			continue
		}
		// Junction: keep the path up to the merge point, then feed the
		// accumulated flow into the receiving channel.
		if i > 0 {
			m.appendChannel(net, samples[:i])
		}
		target := &net.Channels[ref.ch]
		for j := ref.idx; j < len(target.Samples); j++ {
			t := &target.Samples[j]
			t.Flow += s.Flow
			t.Width = p.width(t.Flow)
			t.Depth = p.depth(t.Flow)
			t.Velocity = p.velocity(t.Flow, t.Slope)
		}
		return
	}
	m.appendChannel(net, samples)
}

func (m *Manager) appendChannel(net *Network, samples []Sample) {
	if len(samples) == 0 {
		return
	}
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	ch := len(net.Channels)
	net.Channels = append(net.Channels, Channel{Samples: cp})
	for idx, s := range cp {
		net.index.add(s.X, s.Z, sampleRef{ch: ch, idx: idx})
	}
}
