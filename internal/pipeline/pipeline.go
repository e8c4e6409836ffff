// Package pipeline orchestrates the structure-inference stages: symbol
// extraction, dependency graph construction, graph metrics, archetype and
// layer classification, hypothesis generation, and assumption inference.
// Stages run sequentially; each is a pure function of the previous stage's
// complete output, and the run as a whole is request-scoped with no shared
// mutable state between runs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"repolens/internal/classify"
	"repolens/internal/config"
	"repolens/internal/depgraph"
	"repolens/internal/extract"
	"repolens/internal/inference"
	"repolens/internal/snapshot"
)

// Stats summarizes a run for logging and reporting.
type Stats struct {
	FilesKnown       int `json:"files_known"`
	FilesFetched     int `json:"files_fetched"`
	FilesAnalyzed    int `json:"files_analyzed"`
	FilesFailed      int `json:"files_failed"`
	SymbolsExtracted int `json:"symbols_extracted"`
	Edges            int `json:"edges"`
	UnresolvedTotal  int `json:"unresolved_total"`

	UnresolvedByReason map[depgraph.UnresolvedReason]int `json:"unresolved_by_reason"`
}

// Result is the read-only bundle handed to downstream consumers
// (documentation and chat generation). The pipeline never depends back on them.
type Result struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Records   map[string][]extract.Record `json:"records"`
	Failed    map[string]string           `json:"failed,omitempty"`
	Graph     *depgraph.Graph             `json:"graph"`
	Metrics   *depgraph.Metrics           `json:"metrics"`
	Archetype classify.ArchetypeResult    `json:"archetype"`
	Layers    classify.Layers             `json:"layers"`

	Hypotheses  []inference.Hypothesis `json:"hypotheses"`
	Assumptions []inference.Assumption `json:"assumptions"`

	Stats Stats `json:"stats"`
}

// Analyzer runs the inference pipeline over snapshots.
type Analyzer struct {
	registry *extract.Registry
	logger   *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerSettings)

type analyzerSettings struct {
	logger   *slog.Logger
	progress func(path string)
}

// WithLogger sets the analyzer logger.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(s *analyzerSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress installs a per-file extraction progress callback.
func WithProgress(fn func(path string)) AnalyzerOption {
	return func(s *analyzerSettings) { s.progress = fn }
}

// NewAnalyzer builds an Analyzer from configuration.
func NewAnalyzer(cfg *config.Config, opts ...AnalyzerOption) *Analyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	settings := &analyzerSettings{logger: slog.Default()}
	for _, opt := range opts {
		opt(settings)
	}

	regOpts := []extract.Option{
		extract.WithLogger(settings.logger),
		extract.WithWorkers(cfg.Analysis.Workers),
	}
	if cfg.Analysis.CacheSize > 0 {
		regOpts = append(regOpts, extract.WithCache(cfg.Analysis.CacheSize))
	}
	if settings.progress != nil {
		regOpts = append(regOpts, extract.WithProgress(settings.progress))
	}

	return &Analyzer{
		registry: extract.NewRegistry(regOpts...),
		logger:   settings.logger,
	}
}

// Run executes the full pipeline on a snapshot. An empty snapshot is not an
// error here: the result is an empty but well-formed bundle, and the caller
// decides whether that is worth surfacing. Cancellation during extraction
// abandons the run.
func (a *Analyzer) Run(ctx context.Context, snap *snapshot.Snapshot) (*Result, error) {
	pipeMetrics.init()
	start := time.Now()

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: start,
	}

	// Stage 1: extraction.
	extractStart := time.Now()
	batch, err := a.registry.ExtractAll(ctx, snap.Files)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	pipeMetrics.extractDuration.Observe(time.Since(extractStart).Seconds())

	result.Records = batch.Records
	result.Failed = batch.Failed

	symbolCount := 0
	for _, records := range batch.Records {
		symbolCount += len(records)
	}
	pipeMetrics.filesExtracted.Add(float64(len(batch.Records)))
	pipeMetrics.filesFailed.Add(float64(len(batch.Failed)))
	pipeMetrics.filesSkipped.Add(float64(len(snap.Files) - len(batch.Records) - len(batch.Failed)))
	pipeMetrics.symbolsExtracted.Add(float64(symbolCount))

	// Stage 2: dependency graph and metrics.
	graphStart := time.Now()
	result.Graph = depgraph.Build(batch.Records, snap.KnownPaths)
	result.Metrics = depgraph.ComputeMetrics(result.Graph)
	pipeMetrics.graphDuration.Observe(time.Since(graphStart).Seconds())

	pipeMetrics.edgesResolved.Add(float64(len(result.Graph.Edges)))
	for reason, count := range result.Graph.UnresolvedByReason() {
		pipeMetrics.importsUnresolved.WithLabelValues(string(reason)).Add(float64(count))
	}

	// Stage 3: classification and inference.
	inferStart := time.Now()
	result.Archetype = classify.DetectArchetype(batch.Records)
	result.Layers = classify.InferLayers(result.Graph.Nodes, result.Archetype.Archetype)

	in := inference.Input{
		Records:   batch.Records,
		Graph:     result.Graph,
		Metrics:   result.Metrics,
		Archetype: result.Archetype,
		Layers:    result.Layers,
	}
	result.Hypotheses = inference.GenerateHypotheses(in)
	result.Assumptions = inference.InferAssumptions(in, result.Hypotheses)
	pipeMetrics.inferDuration.Observe(time.Since(inferStart).Seconds())

	pipeMetrics.hypothesesEmitted.Add(float64(len(result.Hypotheses)))
	pipeMetrics.assumptionsEmitted.Add(float64(len(result.Assumptions)))

	result.Stats = Stats{
		FilesKnown:         len(snap.KnownPaths),
		FilesFetched:       len(snap.Files),
		FilesAnalyzed:      len(batch.Records),
		FilesFailed:        len(batch.Failed),
		SymbolsExtracted:   symbolCount,
		Edges:              len(result.Graph.Edges),
		UnresolvedTotal:    len(result.Graph.Unresolved),
		UnresolvedByReason: result.Graph.UnresolvedByReason(),
	}

	result.Duration = time.Since(start)
	pipeMetrics.totalDuration.Observe(result.Duration.Seconds())

	a.logger.Info("pipeline.run_complete",
		"run_id", result.RunID,
		"files", result.Stats.FilesAnalyzed,
		"failed", result.Stats.FilesFailed,
		"symbols", result.Stats.SymbolsExtracted,
		"edges", result.Stats.Edges,
		"archetype", result.Archetype.Archetype,
		"hypotheses", len(result.Hypotheses),
		"duration", result.Duration,
	)
	return result, nil
}
