package classify

import (
	"fmt"
	"sort"
	"strings"

	"repolens/internal/extract"
)

// Archetype is the coarse project classification.
type Archetype string

const (
	ArchetypeFrontend  Archetype = "frontend"
	ArchetypeBackend   Archetype = "backend"
	ArchetypeFullstack Archetype = "fullstack"
	ArchetypeUnknown   Archetype = "unknown"
)

// Signature sets are matched against import names as written in source, not
// against resolved targets. A name matches a signature when it equals it, is
// a subpath of it ("react-dom/client"), or a dotted submodule ("django.urls").
var frontendSignatures = []string{
	"react",
	"react-dom",
	"next",
	"vue",
	"nuxt",
	"@angular/core",
	"svelte",
	"preact",
	"solid-js",
}

var backendSignatures = []string{
	"express",
	"fastify",
	"koa",
	"@nestjs/core",
	"@nestjs/common",
	"hono",
	"django",
	"flask",
	"fastapi",
	"sanic",
	"tornado",
	"aiohttp",
}

// ArchetypeResult is the classification outcome with the evidence used.
type ArchetypeResult struct {
	Archetype Archetype `json:"archetype"`

	// FrontendFiles and BackendFiles count distinct files exhibiting each
	// signature; a file counts once no matter how many matching imports it
	// contains.
	FrontendFiles int      `json:"frontend_files"`
	BackendFiles  int      `json:"backend_files"`
	Evidence      []string `json:"evidence"`
}

// DetectArchetype classifies the repository from import names. The decision
// rule checks presence only: both signature sets seen in at least one file
// each means fullstack, exactly one means that side, neither means unknown.
// The function is pure; identical input always yields identical output.
func DetectArchetype(records map[string][]extract.Record) ArchetypeResult {
	frontendFiles := map[string]string{} // file -> first matching signature
	backendFiles := map[string]string{}

	paths := make([]string, 0, len(records))
	for p := range records {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		for _, rec := range records[p] {
			if rec.Kind != extract.KindImport {
				continue
			}
			name := strings.ToLower(rec.Name)
			if _, seen := frontendFiles[p]; !seen {
				if sig, ok := matchSignature(name, frontendSignatures); ok {
					frontendFiles[p] = sig
				}
			}
			if _, seen := backendFiles[p]; !seen {
				if sig, ok := matchSignature(name, backendSignatures); ok {
					backendFiles[p] = sig
				}
			}
		}
	}

	result := ArchetypeResult{
		FrontendFiles: len(frontendFiles),
		BackendFiles:  len(backendFiles),
	}

	switch {
	case result.FrontendFiles > 0 && result.BackendFiles > 0:
		result.Archetype = ArchetypeFullstack
	case result.FrontendFiles > 0:
		result.Archetype = ArchetypeFrontend
	case result.BackendFiles > 0:
		result.Archetype = ArchetypeBackend
	default:
		result.Archetype = ArchetypeUnknown
	}

	result.Evidence = archetypeEvidence(frontendFiles, backendFiles)
	return result
}

func matchSignature(name string, signatures []string) (string, bool) {
	for _, sig := range signatures {
		if name == sig ||
			strings.HasPrefix(name, sig+"/") ||
			strings.HasPrefix(name, sig+".") {
			return sig, true
		}
	}
	return "", false
}

func archetypeEvidence(frontend, backend map[string]string) []string {
	evidence := []string{}

	appendSide := func(label string, files map[string]string) {
		if len(files) == 0 {
			return
		}
		paths := make([]string, 0, len(files))
		for p := range files {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		shown := paths
		if len(shown) > 3 {
			shown = shown[:3]
		}
		samples := make([]string, 0, len(shown))
		for _, p := range shown {
			samples = append(samples, fmt.Sprintf("%s (%s)", p, files[p]))
		}
		evidence = append(evidence, fmt.Sprintf("%d file(s) with %s framework imports: %s",
			len(files), label, strings.Join(samples, ", ")))
	}
	appendSide("frontend", frontend)
	appendSide("backend", backend)

	if len(evidence) == 0 {
		evidence = append(evidence, "no framework signature imports found")
	}
	return evidence
}
