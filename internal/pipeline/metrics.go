package pipeline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsPipeline holds Prometheus metrics for the analysis pipeline.
type metricsPipeline struct {
	once sync.Once

	// Extraction
	filesExtracted   prometheus.Counter
	filesFailed      prometheus.Counter
	filesSkipped     prometheus.Counter
	symbolsExtracted prometheus.Counter

	// Graph
	edgesResolved     prometheus.Counter
	importsUnresolved *prometheus.CounterVec

	// Outcomes
	hypothesesEmitted  prometheus.Counter
	assumptionsEmitted prometheus.Counter

	// Durations
	extractDuration prometheus.Histogram
	graphDuration   prometheus.Histogram
	inferDuration   prometheus.Histogram
	totalDuration   prometheus.Histogram
}

var pipeMetrics metricsPipeline

func (m *metricsPipeline) init() {
	m.once.Do(func() {
		m.filesExtracted = prometheus.NewCounter(prometheus.CounterOpts{Name: "repolens_files_extracted_total", Help: "Files successfully extracted"})
		m.filesFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "repolens_files_failed_total", Help: "Files whose extraction failed"})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "repolens_files_skipped_total", Help: "Files with no registered extractor"})
		m.symbolsExtracted = prometheus.NewCounter(prometheus.CounterOpts{Name: "repolens_symbols_extracted_total", Help: "Symbol records extracted"})

		m.edgesResolved = prometheus.NewCounter(prometheus.CounterOpts{Name: "repolens_edges_resolved_total", Help: "Imports resolved to graph edges"})
		m.importsUnresolved = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "repolens_imports_unresolved_total", Help: "Imports left unresolved"}, []string{"reason"})

		m.hypothesesEmitted = prometheus.NewCounter(prometheus.CounterOpts{Name: "repolens_hypotheses_emitted_total", Help: "Architecture hypotheses emitted"})
		m.assumptionsEmitted = prometheus.NewCounter(prometheus.CounterOpts{Name: "repolens_assumptions_emitted_total", Help: "Assumptions emitted"})

		m.extractDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "repolens_extract_duration_seconds", Help: "Symbol extraction stage duration", Buckets: prometheus.DefBuckets})
		m.graphDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "repolens_graph_duration_seconds", Help: "Graph build and metrics stage duration", Buckets: prometheus.DefBuckets})
		m.inferDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "repolens_infer_duration_seconds", Help: "Classification and inference stage duration", Buckets: prometheus.DefBuckets})
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "repolens_run_duration_seconds", Help: "Whole pipeline run duration", Buckets: prometheus.DefBuckets})
	})
}

// RegisterMetrics registers the pipeline metrics on reg. Safe to call once
// per registry; a nil reg uses the default registerer.
func RegisterMetrics(reg prometheus.Registerer) error {
	pipeMetrics.init()
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		pipeMetrics.filesExtracted,
		pipeMetrics.filesFailed,
		pipeMetrics.filesSkipped,
		pipeMetrics.symbolsExtracted,
		pipeMetrics.edgesResolved,
		pipeMetrics.importsUnresolved,
		pipeMetrics.hypothesesEmitted,
		pipeMetrics.assumptionsEmitted,
		pipeMetrics.extractDuration,
		pipeMetrics.graphDuration,
		pipeMetrics.inferDuration,
		pipeMetrics.totalDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
