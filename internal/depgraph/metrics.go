package depgraph

import "sort"

// GodModuleFanIn is the fan-in above which a file is flagged as a god module.
const GodModuleFanIn = 15

// couplingNormalFanIn is the average fan-in treated as full coupling (score 1.0).
const couplingNormalFanIn = 5.0

// Hub pairs a file with its fan-in.
type Hub struct {
	File  string `json:"file"`
	FanIn int    `json:"fan_in"`
}

// HubDetail carries per-hub context for reporting.
type HubDetail struct {
	FanIn          int     `json:"fan_in"`
	FanOut         int     `json:"fan_out"`
	BlastRadiusPct float64 `json:"blast_radius_pct"`
}

// Metrics is a derived, read-only snapshot over a Graph.
type Metrics struct {
	FanIn  map[string]int `json:"fan_in"`
	FanOut map[string]int `json:"fan_out"`

	// Hubs lists every file with fan-in > 0, by descending fan-in; ties break
	// by file path lexical order for determinism.
	Hubs []Hub `json:"hubs"`

	// Leaves are files with fan-in 0, isolated files included.
	Leaves []string `json:"leaves"`

	TotalNodes int     `json:"total_nodes"`
	TotalEdges int     `json:"total_edges"`
	AvgFanIn   float64 `json:"avg_fan_in"`
	AvgFanOut  float64 `json:"avg_fan_out"`

	MaxFanIn     int    `json:"max_fan_in"`
	MaxFanInFile string `json:"max_fan_in_file,omitempty"`

	// CouplingScore scales average fan-in into [0,1]: min(avgFanIn/5, 1).
	CouplingScore float64 `json:"coupling_score"`

	// GodModules are files whose fan-in exceeds GodModuleFanIn, sorted by
	// descending fan-in.
	GodModules []string `json:"god_modules,omitempty"`

	HubDetails map[string]HubDetail `json:"hub_details,omitempty"`
}

// hubDetailLimit caps how many hubs get detail records.
const hubDetailLimit = 20

// ComputeMetrics derives fan-in, fan-out, hubs, and leaves from a graph in
// O(nodes + edges). The graph is not modified.
func ComputeMetrics(g *Graph) *Metrics {
	m := &Metrics{
		FanIn:      make(map[string]int, len(g.Nodes)),
		FanOut:     make(map[string]int, len(g.Nodes)),
		Hubs:       []Hub{},
		Leaves:     []string{},
		TotalNodes: len(g.Nodes),
		TotalEdges: len(g.Edges),
		HubDetails: make(map[string]HubDetail),
	}

	for _, n := range g.Nodes {
		m.FanIn[n] = 0
		m.FanOut[n] = 0
	}
	for _, e := range g.Edges {
		m.FanOut[e.From]++
		m.FanIn[e.To]++
	}

	for _, n := range g.Nodes {
		if fanIn := m.FanIn[n]; fanIn > 0 {
			m.Hubs = append(m.Hubs, Hub{File: n, FanIn: fanIn})
		} else {
			m.Leaves = append(m.Leaves, n)
		}
	}
	sort.Slice(m.Hubs, func(i, j int) bool {
		if m.Hubs[i].FanIn != m.Hubs[j].FanIn {
			return m.Hubs[i].FanIn > m.Hubs[j].FanIn
		}
		return m.Hubs[i].File < m.Hubs[j].File
	})
	sort.Strings(m.Leaves)

	if m.TotalNodes > 0 {
		sum := 0
		for _, v := range m.FanIn {
			sum += v
		}
		m.AvgFanIn = float64(sum) / float64(m.TotalNodes)
		sum = 0
		for _, v := range m.FanOut {
			sum += v
		}
		m.AvgFanOut = float64(sum) / float64(m.TotalNodes)
	}

	if len(m.Hubs) > 0 {
		m.MaxFanInFile = m.Hubs[0].File
		m.MaxFanIn = m.Hubs[0].FanIn
	}

	if m.AvgFanIn > 0 {
		m.CouplingScore = m.AvgFanIn / couplingNormalFanIn
		if m.CouplingScore > 1 {
			m.CouplingScore = 1
		}
	}

	for _, h := range m.Hubs {
		if h.FanIn > GodModuleFanIn {
			m.GodModules = append(m.GodModules, h.File)
		}
	}

	for i, h := range m.Hubs {
		if i >= hubDetailLimit {
			break
		}
		pct := 0.0
		if m.TotalNodes > 0 {
			pct = float64(h.FanIn) / float64(m.TotalNodes) * 100
		}
		m.HubDetails[h.File] = HubDetail{
			FanIn:          h.FanIn,
			FanOut:         m.FanOut[h.File],
			BlastRadiusPct: pct,
		}
	}

	return m
}

// TopHubs returns the k highest fan-in files.
func (m *Metrics) TopHubs(k int) []Hub {
	if k > len(m.Hubs) {
		k = len(m.Hubs)
	}
	return m.Hubs[:k]
}
