// Package report renders pipeline results for terminals and machines.
//
// Text output uses color when the destination is a TTY; the fatih/color
// library honors NO_COLOR and non-TTY pipes on its own. JSON output is the
// full result bundle, stable across runs with identical input except for the
// run id and timings.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"repolens/internal/pipeline"
)

var (
	bold   = color.New(color.Bold)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	dim    = color.New(color.Faint)
)

// Renderer writes result reports.
type Renderer struct {
	out     io.Writer
	hubTop  int
	verbose bool
}

// NewRenderer creates a Renderer writing to out. hubTop caps the hub listing.
func NewRenderer(out io.Writer, hubTop int, verbose bool) *Renderer {
	if hubTop <= 0 {
		hubTop = 10
	}
	return &Renderer{out: out, hubTop: hubTop, verbose: verbose}
}

// JSON writes the full result bundle as indented JSON.
func (r *Renderer) JSON(result *pipeline.Result) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// Text writes the human-readable report.
func (r *Renderer) Text(result *pipeline.Result) error {
	r.header(fmt.Sprintf("Structure analysis  %s", dim.Sprintf("(run %s)", result.RunID)))

	r.section("Overview")
	fmt.Fprintf(r.out, "  Files analyzed:  %s", cyan.Sprint(result.Stats.FilesAnalyzed))
	if result.Stats.FilesFailed > 0 {
		fmt.Fprintf(r.out, "  %s", yellow.Sprintf("(%d failed)", result.Stats.FilesFailed))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Symbols:         %s\n", cyan.Sprint(result.Stats.SymbolsExtracted))
	fmt.Fprintf(r.out, "  Edges:           %s", cyan.Sprint(result.Stats.Edges))
	if result.Stats.UnresolvedTotal > 0 {
		fmt.Fprintf(r.out, "  %s", dim.Sprintf("(%d imports unresolved)", result.Stats.UnresolvedTotal))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Archetype:       %s\n", bold.Sprint(result.Archetype.Archetype))
	fmt.Fprintf(r.out, "  Duration:        %s\n", dim.Sprint(result.Duration.Round(time.Millisecond)))

	if len(result.Archetype.Evidence) > 0 && r.verbose {
		for _, ev := range result.Archetype.Evidence {
			fmt.Fprintf(r.out, "    %s\n", dim.Sprint(ev))
		}
	}

	r.renderLayers(result)
	r.renderHubs(result)
	r.renderHypotheses(result)
	r.renderAssumptions(result)
	r.renderFailures(result)

	return nil
}

func (r *Renderer) renderLayers(result *pipeline.Result) {
	if len(result.Layers.Files) == 0 {
		return
	}
	r.section("Layers")
	for _, layer := range layerOrder(result) {
		files := result.Layers.Files[layer]
		fmt.Fprintf(r.out, "  %-14s %s\n", layer, cyan.Sprintf("%d file(s)", len(files)))
		if r.verbose {
			for _, f := range files {
				fmt.Fprintf(r.out, "    %s\n", dim.Sprint(f))
			}
		}
	}
}

// layerOrder sorts layers by descending file count, unclassified last.
func layerOrder(result *pipeline.Result) []string {
	layers := make([]string, 0, len(result.Layers.Files))
	for layer := range result.Layers.Files {
		if layer != "unclassified" {
			layers = append(layers, layer)
		}
	}
	sort.Slice(layers, func(i, j int) bool {
		ci, cj := result.Layers.Count(layers[i]), result.Layers.Count(layers[j])
		if ci != cj {
			return ci > cj
		}
		return layers[i] < layers[j]
	})
	if result.Layers.Count("unclassified") > 0 {
		layers = append(layers, "unclassified")
	}
	return layers
}

func (r *Renderer) renderHubs(result *pipeline.Result) {
	hubs := result.Metrics.TopHubs(r.hubTop)
	if len(hubs) == 0 {
		return
	}
	r.section("Top hubs")
	for _, h := range hubs {
		line := fmt.Sprintf("  %-50s fan-in %s", h.File, cyan.Sprint(h.FanIn))
		if detail, ok := result.Metrics.HubDetails[h.File]; ok {
			line += dim.Sprintf("  fan-out %d, reaches %.0f%% directly", detail.FanOut, detail.BlastRadiusPct)
		}
		fmt.Fprintln(r.out, line)
	}
	if len(result.Metrics.GodModules) > 0 {
		fmt.Fprintf(r.out, "  %s\n", yellow.Sprintf("⚠ god modules: %s", strings.Join(result.Metrics.GodModules, ", ")))
	}
}

func (r *Renderer) renderHypotheses(result *pipeline.Result) {
	r.section("Hypotheses")
	if len(result.Hypotheses) == 0 {
		fmt.Fprintf(r.out, "  %s\n", dim.Sprint("none; not enough structural signal"))
		return
	}
	for _, h := range result.Hypotheses {
		fmt.Fprintf(r.out, "  %s %s\n", confidenceBadge(h.Confidence), h.Statement)
		if r.verbose {
			for _, ev := range h.Evidence {
				fmt.Fprintf(r.out, "      %s\n", dim.Sprint(ev))
			}
		}
	}
}

func (r *Renderer) renderAssumptions(result *pipeline.Result) {
	if len(result.Assumptions) == 0 {
		return
	}
	r.section("Assumptions")
	for _, a := range result.Assumptions {
		fmt.Fprintf(r.out, "  • %s\n", a.Statement)
		fmt.Fprintf(r.out, "    %s\n", dim.Sprintf("if false: %s", a.Impact))
	}
}

func (r *Renderer) renderFailures(result *pipeline.Result) {
	if len(result.Failed) == 0 {
		return
	}
	r.section("Extraction failures")
	paths := make([]string, 0, len(result.Failed))
	for p := range result.Failed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(r.out, "  %s %s\n", red.Sprint("✗"), p)
		fmt.Fprintf(r.out, "    %s\n", dim.Sprint(result.Failed[p]))
	}
}

func (r *Renderer) header(text string) {
	bold.Fprintln(r.out, text)
	fmt.Fprintln(r.out, strings.Repeat("=", 40))
}

func (r *Renderer) section(text string) {
	fmt.Fprintln(r.out)
	bold.Fprintln(r.out, text)
}

// confidenceBadge colors a confidence value: green-ish territory is cyan
// here since confidence is not a success signal, just a strength one.
func confidenceBadge(c float64) string {
	s := fmt.Sprintf("[%.2f]", c)
	switch {
	case c >= 0.75:
		return cyan.Sprint(s)
	case c >= 0.5:
		return bold.Sprint(s)
	default:
		return dim.Sprint(s)
	}
}
