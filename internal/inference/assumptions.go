package inference

import (
	"fmt"
	"strings"

	"repolens/internal/classify"
)

// Assumption is an implicit, possibly unverified premise the hypotheses rely
// on, with the impact if it turns out to be false.
type Assumption struct {
	Statement string `json:"statement"`
	Impact    string `json:"impact"`
}

// UnresolvedRatioThreshold: when more than this share of imports resolved to
// nothing inside the repository, the external-dependency assumption fires.
const UnresolvedRatioThreshold = 0.25

// assumptionRule is one fixed rule keyed on patterns over the hypothesis
// text and graph shape. Rules perform no new parsing or fetching.
type assumptionRule struct {
	name  string
	apply func(in Input, hypotheses []Hypothesis) *Assumption
}

var assumptionRules = []assumptionRule{
	{name: "representative_sample", apply: assumeRepresentativeSample},
	{name: "external_dependencies", apply: assumeExternalDependencies},
	{name: "external_backend", apply: assumeExternalBackend},
	{name: "stable_hubs", apply: assumeStableHubs},
	{name: "sparse_resolution", apply: assumeSparseResolution},
	{name: "convention_layering", apply: assumeConventionLayering},
}

// InferAssumptions derives second-order assumptions from the hypothesis
// sequence and the graph. The rule table is fixed; rules fire independently
// and in table order.
func InferAssumptions(in Input, hypotheses []Hypothesis) []Assumption {
	assumptions := []Assumption{}
	for _, r := range assumptionRules {
		if a := r.apply(in, hypotheses); a != nil {
			assumptions = append(assumptions, *a)
		}
	}
	return assumptions
}

// assumeRepresentativeSample fires whenever anything was analyzed at all:
// every conclusion presumes the fetched files stand in for the repository.
func assumeRepresentativeSample(in Input, _ []Hypothesis) *Assumption {
	if len(in.Graph.Nodes) == 0 {
		return nil
	}
	return &Assumption{
		Statement: fmt.Sprintf("The %d analyzed files are a complete and representative sample of the repository", len(in.Graph.Nodes)),
		Impact:    "If large parts of the codebase were filtered out or unfetchable, the archetype, layers, and every hypothesis may describe only a fragment of the system",
	}
}

// assumeExternalDependencies fires when the unresolved share of imports
// exceeds UnresolvedRatioThreshold.
func assumeExternalDependencies(in Input, _ []Hypothesis) *Assumption {
	resolved := len(in.Graph.Edges)
	unresolved := len(in.Graph.Unresolved)
	total := resolved + unresolved
	if total == 0 {
		return nil
	}
	ratio := float64(unresolved) / float64(total)
	if ratio <= UnresolvedRatioThreshold {
		return nil
	}
	return &Assumption{
		Statement: fmt.Sprintf("Unresolved imports (%.0f%% of all imports) point to external or omitted code, not missing repository structure", ratio*100),
		Impact:    "If unresolved imports actually name repository files the matcher missed, fan-in counts and hub rankings understate real coupling",
	}
}

// assumeExternalBackend fires for frontend-only repositories.
func assumeExternalBackend(in Input, _ []Hypothesis) *Assumption {
	if in.Archetype.Archetype != classify.ArchetypeFrontend {
		return nil
	}
	return &Assumption{
		Statement: "Backend logic lives outside this repository, behind an API contract",
		Impact:    "The frontend is coupled to API shapes this analysis cannot see; contract changes break it without any visible structural signal here",
	}
}

// assumeStableHubs fires when a hub-related hypothesis fired.
func assumeStableHubs(in Input, hypotheses []Hypothesis) *Assumption {
	for _, h := range hypotheses {
		if strings.Contains(h.Statement, "Hub-and-spoke") || strings.Contains(h.Statement, "God-module") {
			return &Assumption{
				Statement: "High fan-in files are intentionally shared, stable interfaces rather than accidental coupling",
				Impact:    "If the hubs are unstable, every change to them ripples through their dependents and the hub ranking marks the riskiest files in the repository",
			}
		}
	}
	return nil
}

// assumeSparseResolution fires when multiple files produced zero edges.
func assumeSparseResolution(in Input, _ []Hypothesis) *Assumption {
	if len(in.Graph.Nodes) < 2 || len(in.Graph.Edges) > 0 {
		return nil
	}
	return &Assumption{
		Statement: "Analyzed files are genuinely independent of each other, not victims of failed import resolution",
		Impact:    "If resolution failed (unusual layout, aliased import roots), the empty graph hides real structure and the leaf/hub metrics are meaningless",
	}
}

// assumeConventionLayering fires when the layered-backend hypothesis fired.
func assumeConventionLayering(in Input, hypotheses []Hypothesis) *Assumption {
	for _, h := range hypotheses {
		if strings.Contains(h.Statement, "Layered backend") {
			return &Assumption{
				Statement: "Layer boundaries are enforced only by directory convention, not by the language or build system",
				Impact:    "Nothing prevents an api file from importing the db layer directly; the inferred layering may be aspirational rather than actual",
			}
		}
	}
	return nil
}
