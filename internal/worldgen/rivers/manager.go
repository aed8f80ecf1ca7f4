package rivers

import "sync"

// Manager owns the lazily-populated region caches. Networks are built at
// most once per (key, depth) even under concurrent callers, and are
// immutable once published.
type Manager struct {
	p Params
	s Sampler

	localsMu sync.Mutex
	locals   map[Key]*localEntry

	netsMu sync.Mutex
	nets   map[netKey]*netEntry
}

type localEntry struct {
	once   sync.Once
	traces [][]Sample
}

// netKey addresses one network build. The published network of a region is
// the one at resumeDepth; lower depths feed neighbor resumption only.
type netKey struct {
	key   Key
	depth int
}

type netEntry struct {
	once sync.Once
	net  *Network
}

func NewManager(p Params, s Sampler) *Manager {
	return &Manager{
		p:      p,
		s:      s,
		locals: make(map[Key]*localEntry),
		nets:   make(map[netKey]*netEntry),
	}
}

func (m *Manager) Params() Params {
	return m.p
}

// CachedRegions reports how many published region networks have been built
// so far. Partial builds backing neighbor resumption are not counted.
func (m *Manager) CachedRegions() int {
	m.netsMu.Lock()
	defer m.netsMu.Unlock()
	n := 0
	for k := range m.nets {
		if k.depth == resumeDepth {
			n++
		}
	}
	return n
}

// Network returns the region's traced network, building and caching it on
// first use.
func (m *Manager) Network(k Key) *Network {
	return m.networkAt(k, resumeDepth)
}

// networkAt builds the region network at one horizon depth. Recursion only
// ever descends in depth, so neighbor cycles cannot deadlock the per-entry
// once guards.
func (m *Manager) networkAt(k Key, depth int) *Network {
	nk := netKey{key: k, depth: depth}
	m.netsMu.Lock()
	e, ok := m.nets[nk]
	if !ok {
		e = &netEntry{}
		m.nets[nk] = e
	}
	m.netsMu.Unlock()

	e.once.Do(func() {
		e.net = m.buildNetwork(k, depth)
	})
	return e.net
}

// cachedLocalTraces returns the region's own-source traces, independent of
// any inflow from neighbors. Cached separately from networks so every depth
// level shares one tracing pass per region.
func (m *Manager) cachedLocalTraces(k Key) [][]Sample {
	m.localsMu.Lock()
	e, ok := m.locals[k]
	if !ok {
		e = &localEntry{}
		m.locals[k] = e
	}
	m.localsMu.Unlock()

	e.once.Do(func() {
		e.traces = m.localTraces(k)
	})
	return e.traces
}
