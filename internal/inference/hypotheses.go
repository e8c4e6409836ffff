package inference

import (
	"fmt"
	"sort"
	"strings"

	"repolens/internal/classify"
	"repolens/internal/depgraph"
	"repolens/internal/extract"
)

// Hypothesis is a ranked, evidenced statement about the repository's
// architecture pattern. Confidence is a relative strength signal in [0,1]
// scoped to this hypothesis's own evidence, not a calibrated probability.
type Hypothesis struct {
	Statement  string   `json:"statement"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// Input bundles everything the detectors may consult. Detectors never mutate it.
type Input struct {
	Records   map[string][]extract.Record
	Graph     *depgraph.Graph
	Metrics   *depgraph.Metrics
	Archetype classify.ArchetypeResult
	Layers    classify.Layers
}

// Detector thresholds. Exported so tests can probe both sides of each boundary.
const (
	// ComponentLayerMin is the ui-layer file count at which the
	// component-centric detector fires (count >= min).
	ComponentLayerMin = 5

	// ComponentLayerScale saturates the component-centric confidence formula.
	ComponentLayerScale = 20.0

	// HubFanInThreshold: files with fan-in strictly above this count as hubs
	// for the hub-and-spoke detector.
	HubFanInThreshold = 8

	// GodModuleFanOut: a god module needs fan-in and fan-out both strictly
	// above this.
	GodModuleFanOut = 10
)

// detector is one independent rule: it either fires, returning a hypothesis
// with a confidence derived from its supporting metric, or returns nil.
// Detectors run independently; several may fire at once.
type detector struct {
	name   string
	detect func(in Input) *Hypothesis
}

// detectors is the fixed rule table. Confidence formulas are documented on
// each rule; the shared convention is base + weight*min(1, signal/scale),
// clamped to [0,1].
var detectors = []detector{
	{name: "component_centric", detect: detectComponentCentric},
	{name: "hooks_based", detect: detectHooksBased},
	{name: "feature_sliced", detect: detectFeatureSliced},
	{name: "layered_backend", detect: detectLayeredBackend},
	{name: "mvc", detect: detectMVC},
	{name: "repository_pattern", detect: detectRepositoryPattern},
	{name: "separated_fullstack", detect: detectSeparatedFullstack},
	{name: "hub_and_spoke", detect: detectHubAndSpoke},
	{name: "god_module", detect: detectGodModule},
	{name: "circular_dependency", detect: detectCircularDependency},
}

// GenerateHypotheses runs every detector and returns the fired hypotheses
// ordered by descending confidence, ties broken by statement lexical order.
// No mutual exclusion is attempted.
func GenerateHypotheses(in Input) []Hypothesis {
	hypotheses := []Hypothesis{}
	for _, d := range detectors {
		if h := d.detect(in); h != nil {
			hypotheses = append(hypotheses, *h)
		}
	}

	sort.Slice(hypotheses, func(i, j int) bool {
		if hypotheses[i].Confidence != hypotheses[j].Confidence {
			return hypotheses[i].Confidence > hypotheses[j].Confidence
		}
		return hypotheses[i].Statement < hypotheses[j].Statement
	})
	return hypotheses
}

// detectComponentCentric fires when the ui layer holds at least
// ComponentLayerMin files. Confidence: 0.5 + 0.45*min(1, uiCount/20).
func detectComponentCentric(in Input) *Hypothesis {
	if in.Archetype.Archetype != classify.ArchetypeFrontend && in.Archetype.Archetype != classify.ArchetypeFullstack {
		return nil
	}
	uiCount := in.Layers.Count("ui")
	if uiCount < ComponentLayerMin {
		return nil
	}
	return &Hypothesis{
		Statement:  "Component-centric frontend with a dominant ui layer",
		Confidence: clamp01(0.5 + 0.45*saturate(float64(uiCount), ComponentLayerScale)),
		Evidence: []string{
			fmt.Sprintf("%d files in the ui layer", uiCount),
			topHubEvidence(in.Metrics, 3),
		},
	}
}

// detectHooksBased fires when a frontend repo has any hooks-layer files.
// Confidence: 0.6 + 0.25*min(1, hooks/8).
func detectHooksBased(in Input) *Hypothesis {
	if in.Archetype.Archetype != classify.ArchetypeFrontend && in.Archetype.Archetype != classify.ArchetypeFullstack {
		return nil
	}
	hooks := in.Layers.Count("hooks")
	if hooks == 0 {
		return nil
	}
	return &Hypothesis{
		Statement:  "Hooks-based frontend logic reuse",
		Confidence: clamp01(0.6 + 0.25*saturate(float64(hooks), 8)),
		Evidence: []string{
			fmt.Sprintf("%d files in a hooks directory", hooks),
		},
	}
}

// detectFeatureSliced fires when file paths show a features/ directory.
// Confidence: fixed 0.75 (structural presence carries no magnitude).
func detectFeatureSliced(in Input) *Hypothesis {
	count := 0
	for _, n := range in.Graph.Nodes {
		p := strings.ToLower(n)
		if strings.Contains(p, "features/") || strings.Contains(p, "feature/") {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return &Hypothesis{
		Statement:  "Feature-sliced (vertical) code organization",
		Confidence: 0.75,
		Evidence: []string{
			fmt.Sprintf("%d files under feature directories", count),
		},
	}
}

// detectLayeredBackend fires when both api and services layers are populated.
// Confidence: 0.5 + 0.1*coverage where coverage counts the populated layers
// among {api, services, models, db} (max 0.9).
func detectLayeredBackend(in Input) *Hypothesis {
	if in.Archetype.Archetype != classify.ArchetypeBackend && in.Archetype.Archetype != classify.ArchetypeFullstack {
		return nil
	}
	api := in.Layers.Count("api")
	services := in.Layers.Count("services")
	if api == 0 || services == 0 {
		return nil
	}

	coverage := 0
	evidence := []string{}
	for _, layer := range []string{"api", "services", "models", "db"} {
		if n := in.Layers.Count(layer); n > 0 {
			coverage++
			evidence = append(evidence, fmt.Sprintf("%d files in %s layer", n, layer))
		}
	}
	return &Hypothesis{
		Statement:  "Layered backend service (api -> services -> data)",
		Confidence: clamp01(0.5 + 0.1*float64(coverage)),
		Evidence:   evidence,
	}
}

// detectMVC fires when paths show both model and controller segments.
// Confidence: fixed 0.7.
func detectMVC(in Input) *Hypothesis {
	models, controllers := 0, 0
	for _, n := range in.Graph.Nodes {
		p := strings.ToLower(n)
		if strings.Contains(p, "model") {
			models++
		}
		if strings.Contains(p, "controller") {
			controllers++
		}
	}
	if models == 0 || controllers == 0 {
		return nil
	}
	return &Hypothesis{
		Statement:  "Model-View-Controller structure",
		Confidence: 0.7,
		Evidence: []string{
			fmt.Sprintf("%d model files, %d controller files", models, controllers),
		},
	}
}

// detectRepositoryPattern fires on repository/repositories path segments.
// Confidence: fixed 0.7.
func detectRepositoryPattern(in Input) *Hypothesis {
	count := 0
	for _, n := range in.Graph.Nodes {
		p := strings.ToLower(n)
		if strings.Contains(p, "repository") || strings.Contains(p, "repositories/") {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return &Hypothesis{
		Statement:  "Repository pattern for data access",
		Confidence: 0.7,
		Evidence: []string{
			fmt.Sprintf("%d files named after repositories", count),
		},
	}
}

// detectSeparatedFullstack fires for fullstack repositories. Confidence:
// 0.6 + 0.2*min(1, min(frontendFiles, backendFiles)/5), stronger when both
// sides have real presence.
func detectSeparatedFullstack(in Input) *Hypothesis {
	if in.Archetype.Archetype != classify.ArchetypeFullstack {
		return nil
	}
	smaller := in.Archetype.FrontendFiles
	if in.Archetype.BackendFiles < smaller {
		smaller = in.Archetype.BackendFiles
	}
	return &Hypothesis{
		Statement:  "Fullstack system with distinct frontend and backend code",
		Confidence: clamp01(0.6 + 0.2*saturate(float64(smaller), 5)),
		Evidence: []string{
			fmt.Sprintf("%d frontend-framework files, %d backend-framework files",
				in.Archetype.FrontendFiles, in.Archetype.BackendFiles),
		},
	}
}

// detectHubAndSpoke fires when any file's fan-in exceeds HubFanInThreshold.
// Confidence: 0.6 + 0.1*min(1, hubCount/3).
func detectHubAndSpoke(in Input) *Hypothesis {
	hubs := []string{}
	for _, h := range in.Metrics.Hubs {
		if h.FanIn > HubFanInThreshold {
			hubs = append(hubs, fmt.Sprintf("%s (fan-in %d)", h.File, h.FanIn))
		}
	}
	if len(hubs) == 0 {
		return nil
	}
	shown := hubs
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return &Hypothesis{
		Statement:  "Hub-and-spoke dependency structure around shared modules",
		Confidence: clamp01(0.6 + 0.1*saturate(float64(len(hubs)), 3)),
		Evidence: []string{
			fmt.Sprintf("%d files with fan-in above %d", len(hubs), HubFanInThreshold),
			"central files: " + strings.Join(shown, ", "),
		},
	}
}

// detectGodModule fires when a file has both fan-in and fan-out above
// GodModuleFanOut. Confidence: 0.7 + 0.15*min(1, count/3).
func detectGodModule(in Input) *Hypothesis {
	god := []string{}
	for _, n := range in.Graph.Nodes {
		if in.Metrics.FanIn[n] > GodModuleFanOut && in.Metrics.FanOut[n] > GodModuleFanOut {
			god = append(god, n)
		}
	}
	if len(god) == 0 {
		return nil
	}
	shown := god
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return &Hypothesis{
		Statement:  "God-module anti-pattern: files both heavily imported and heavily importing",
		Confidence: clamp01(0.7 + 0.15*saturate(float64(len(god)), 3)),
		Evidence: []string{
			fmt.Sprintf("%d god modules", len(god)),
			strings.Join(shown, ", "),
		},
	}
}

// detectCircularDependency fires when the graph contains an import cycle.
// Confidence: fixed 0.75; presence of any cycle is binary evidence.
func detectCircularDependency(in Input) *Hypothesis {
	cycle := depgraph.FindCycle(in.Graph)
	if cycle == nil {
		return nil
	}
	return &Hypothesis{
		Statement:  "Circular dependencies between modules",
		Confidence: 0.75,
		Evidence: []string{
			"cycle: " + strings.Join(cycle, " -> "),
		},
	}
}

func topHubEvidence(m *depgraph.Metrics, k int) string {
	hubs := m.TopHubs(k)
	if len(hubs) == 0 {
		return "no dependency hubs"
	}
	names := make([]string, 0, len(hubs))
	for _, h := range hubs {
		names = append(names, h.File)
	}
	return "top hubs: " + strings.Join(names, ", ")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func saturate(v, scale float64) float64 {
	if scale <= 0 {
		return 1
	}
	s := v / scale
	if s > 1 {
		return 1
	}
	return s
}
