package classify

import (
	"sort"
	"strings"
)

// LayerUnclassified labels files no rule matches. It is not an error.
const LayerUnclassified = "unclassified"

// layerRule maps path-segment patterns to a layer for one archetype. Rules
// are checked in table order so more specific patterns must come first.
type layerRule struct {
	archetype Archetype
	patterns  []string
	layer     string
}

// layerRules is the fixed, ordered rule table. Patterns are matched by
// containment against the slash-bounded, lowercased file path. Fullstack
// repositories consult the backend rows first, then the frontend rows.
var layerRules = []layerRule{
	// Backend layers.
	{ArchetypeBackend, []string{"/api/routes/", "/api/", "/routes/", "/controllers/", "/handlers/", "/endpoints/"}, "api"},
	{ArchetypeBackend, []string{"/service/", "/services/"}, "services"},
	{ArchetypeBackend, []string{"/model/", "/models/", "/schema/", "/schemas/"}, "models"},
	{ArchetypeBackend, []string{"/db/", "/database/", "/repository/", "/repositories/"}, "db"},
	{ArchetypeBackend, []string{"/utils/", "/util/", "/core/", "/common/"}, "utils"},

	// Frontend layers.
	{ArchetypeFrontend, []string{"/ui/", "/components/"}, "ui"},
	{ArchetypeFrontend, []string{"/hooks/"}, "hooks"},
	{ArchetypeFrontend, []string{"/pages/", "/views/", "/screens/"}, "pages"},
	{ArchetypeFrontend, []string{"/lib/", "/utils/", "/util/"}, "utils"},
}

// InferLayer labels one file with an architectural layer for the given
// archetype. The first matching rule wins; a file matching no rule is
// LayerUnclassified.
func InferLayer(filePath string, archetype Archetype) string {
	haystack := "/" + strings.ToLower(filePath)

	for _, rule := range layerRules {
		if !ruleApplies(rule.archetype, archetype) {
			continue
		}
		for _, pattern := range rule.patterns {
			if strings.Contains(haystack, pattern) {
				return rule.layer
			}
		}
	}
	return LayerUnclassified
}

func ruleApplies(ruleArchetype, archetype Archetype) bool {
	if archetype == ArchetypeFullstack {
		return true
	}
	return ruleArchetype == archetype
}

// Layers is the per-file layer assignment plus the reverse grouping.
type Layers struct {
	ByFile map[string]string   `json:"by_file"`
	Files  map[string][]string `json:"files"` // layer -> sorted file paths
}

// InferLayers labels every file. Unknown-archetype repositories get every
// file as unclassified, which is a valid (if unhelpful) result.
func InferLayers(paths []string, archetype Archetype) Layers {
	l := Layers{
		ByFile: make(map[string]string, len(paths)),
		Files:  make(map[string][]string),
	}
	for _, p := range paths {
		layer := InferLayer(p, archetype)
		l.ByFile[p] = layer
		l.Files[layer] = append(l.Files[layer], p)
	}
	for _, files := range l.Files {
		sort.Strings(files)
	}
	return l
}

// Count returns how many files sit in the given layer.
func (l Layers) Count(layer string) int {
	return len(l.Files[layer])
}
