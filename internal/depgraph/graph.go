package depgraph

import (
	"path"
	"sort"
	"strings"

	"repolens/internal/extract"
)

// UnresolvedReason explains why an import produced no edge.
type UnresolvedReason string

const (
	// ReasonExternal means the import matched nothing the analysis knows
	// about; it most likely names a third-party or standard-library module.
	ReasonExternal UnresolvedReason = "external"

	// ReasonFiltered means the import matched a known repository path whose
	// content was never fetched, so the target is not a graph node.
	ReasonFiltered UnresolvedReason = "filtered"
)

// UnresolvedImport is an import retained for downstream consumers even though
// it contributes no edge.
type UnresolvedImport struct {
	Source string           `json:"source"`
	Name   string           `json:"name"`
	Reason UnresolvedReason `json:"reason"`
}

// Edge is a resolved file-to-file dependency. At most one edge exists per
// (From, To) pair; duplicate imports of the same module collapse.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a directed dependency graph over analyzed file paths. Cycles are
// valid; no completeness is assumed.
type Graph struct {
	Nodes      []string           `json:"nodes"` // sorted
	Edges      []Edge             `json:"edges"`
	Unresolved []UnresolvedImport `json:"unresolved,omitempty"`

	nodeSet map[string]struct{}
	out     map[string][]string
	in      map[string][]string
}

// HasNode reports whether file is a node of the graph.
func (g *Graph) HasNode(file string) bool {
	_, ok := g.nodeSet[file]
	return ok
}

// Dependencies returns the files that file imports, sorted.
func (g *Graph) Dependencies(file string) []string { return g.out[file] }

// Dependents returns the files that import file, sorted.
func (g *Graph) Dependents(file string) []string { return g.in[file] }

// UnresolvedByReason counts unresolved imports per reason.
func (g *Graph) UnresolvedByReason() map[UnresolvedReason]int {
	counts := make(map[UnresolvedReason]int)
	for _, u := range g.Unresolved {
		counts[u.Reason]++
	}
	return counts
}

// Build constructs the dependency graph from per-file symbol records.
// Every extracted file becomes a node, imports or not. knownPaths lists all
// repository paths, including files whose content was never fetched; it lets
// resolution distinguish "external" from "filtered" for unresolved imports.
//
// Resolution tries, in order: (a) exact relative-path match normalized
// against the importing file's directory, (b) suffix match ignoring
// extension, (c) package-root-relative match for absolute-style imports.
// First success wins; self-imports are dropped.
func Build(records map[string][]extract.Record, knownPaths []string) *Graph {
	g := &Graph{
		Nodes:   make([]string, 0, len(records)),
		Edges:   []Edge{},
		nodeSet: make(map[string]struct{}, len(records)),
		out:     make(map[string][]string),
		in:      make(map[string][]string),
	}
	for file := range records {
		g.Nodes = append(g.Nodes, file)
		g.nodeSet[file] = struct{}{}
	}
	sort.Strings(g.Nodes)

	res := newResolver(g.nodeSet, knownPaths)

	edgeSeen := make(map[Edge]struct{})
	unresolvedSeen := make(map[UnresolvedImport]struct{})

	for _, source := range g.Nodes {
		for _, rec := range records[source] {
			if rec.Kind != extract.KindImport {
				continue
			}

			target, ok := res.resolve(source, rec.Name)
			if !ok {
				u := UnresolvedImport{Source: source, Name: rec.Name, Reason: ReasonExternal}
				if _, dup := unresolvedSeen[u]; !dup {
					unresolvedSeen[u] = struct{}{}
					g.Unresolved = append(g.Unresolved, u)
				}
				continue
			}
			if target == source {
				continue
			}
			if !g.HasNode(target) {
				u := UnresolvedImport{Source: source, Name: rec.Name, Reason: ReasonFiltered}
				if _, dup := unresolvedSeen[u]; !dup {
					unresolvedSeen[u] = struct{}{}
					g.Unresolved = append(g.Unresolved, u)
				}
				continue
			}

			e := Edge{From: source, To: target}
			if _, dup := edgeSeen[e]; dup {
				continue
			}
			edgeSeen[e] = struct{}{}
			g.Edges = append(g.Edges, e)
			g.out[source] = append(g.out[source], target)
			g.in[target] = append(g.in[target], source)
		}
	}

	for _, adj := range []map[string][]string{g.out, g.in} {
		for _, targets := range adj {
			sort.Strings(targets)
		}
	}
	return g
}

// tryExtensions is the fixed order in which extensions are appended to
// extension-less import candidates.
var tryExtensions = []string{".py", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// indexSuffixes cover directory imports: './components' -> components/index.ts.
var indexSuffixes = []string{"/index.ts", "/index.tsx", "/index.js", "/index.jsx", "/__init__.py"}

// resolver matches written import names against the known path set. Known
// paths are indexed by extension-stripped basename up front so resolution is
// proportional to the number of imports, not quadratic in repository size.
type resolver struct {
	nodes map[string]struct{}
	known map[string]struct{}
	stems map[string][]string
}

func newResolver(nodes map[string]struct{}, knownPaths []string) *resolver {
	r := &resolver{
		nodes: nodes,
		known: make(map[string]struct{}, len(knownPaths)),
		stems: make(map[string][]string),
	}
	for _, p := range knownPaths {
		r.known[p] = struct{}{}
	}
	for p := range nodes {
		r.known[p] = struct{}{}
	}

	paths := make([]string, 0, len(r.known))
	for p := range r.known {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		stem := stripExtension(path.Base(p))
		r.stems[stem] = append(r.stems[stem], p)
	}
	return r
}

func (r *resolver) resolve(source, name string) (string, bool) {
	if name == "" {
		return "", false
	}

	// (a) relative-path match against the importing file's directory.
	if candidate, isRel := relativeCandidate(source, name); isRel {
		if target, ok := r.lookup(candidate); ok {
			return target, true
		}
		return "", false // relative imports never match by suffix
	}

	slashed := slashForm(name)

	// (b) suffix match against known paths, ignoring extension.
	if target, ok := r.suffixMatch(slashed); ok {
		return target, true
	}

	// (c) package-root-relative match for absolute-style imports.
	return r.lookup(slashed)
}

// lookup probes the known set for a candidate path, with and without the
// well-known extensions and directory index forms.
func (r *resolver) lookup(candidate string) (string, bool) {
	if candidate == "" {
		return "", false
	}
	if _, ok := r.known[candidate]; ok {
		return candidate, true
	}
	for _, ext := range tryExtensions {
		if _, ok := r.known[candidate+ext]; ok {
			return candidate + ext, true
		}
	}
	for _, suffix := range indexSuffixes {
		if _, ok := r.known[candidate+suffix]; ok {
			return candidate + suffix, true
		}
	}
	return "", false
}

func (r *resolver) suffixMatch(slashed string) (string, bool) {
	base := slashed
	if i := strings.LastIndex(slashed, "/"); i >= 0 {
		base = slashed[i+1:]
	}
	for _, p := range r.stems[base] {
		stripped := stripExtension(p)
		if stripped == slashed || strings.HasSuffix(stripped, "/"+slashed) {
			return p, true
		}
	}
	return "", false
}

// relativeCandidate normalizes a relative import against the source file's
// directory. JS-style imports start with "./" or "../"; Python-style relative
// imports start with dots (".utils" is a sibling, "..models" one level up).
func relativeCandidate(source, name string) (string, bool) {
	dir := path.Dir(source)
	if dir == "." {
		dir = ""
	}

	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return path.Join(dir, name), true
	}

	if strings.HasPrefix(name, ".") {
		dots := 0
		for dots < len(name) && name[dots] == '.' {
			dots++
		}
		rest := strings.ReplaceAll(name[dots:], ".", "/")
		base := dir
		for i := 1; i < dots; i++ {
			base = path.Dir(base)
			if base == "." {
				base = ""
			}
		}
		return path.Join(base, rest), true
	}

	return "", false
}

// slashForm converts a written import name to a slash-separated path
// fragment: Python dotted modules become paths, JS paths pass through.
func slashForm(name string) string {
	if strings.Contains(name, "/") {
		return strings.TrimSuffix(name, "/")
	}
	return strings.ReplaceAll(name, ".", "/")
}

func stripExtension(p string) string {
	if i := strings.LastIndex(p, "."); i > strings.LastIndex(p, "/") {
		return p[:i]
	}
	return p
}
