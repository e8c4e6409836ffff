package extract

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Result is the output of a batch extraction: one record sequence per
// successfully extracted file, plus the files that failed with a reason.
// Files whose extension has no registered extractor appear in neither map.
type Result struct {
	Records map[string][]Record
	Failed  map[string]string
}

// Registry routes files to language extractors by extension and runs batch
// extraction. A parse failure in one file never aborts the batch.
type Registry struct {
	byExt    map[string]LanguageExtractor
	cache    *recordCache
	logger   *slog.Logger
	workers  int
	progress func(path string)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkers sets the number of concurrent extraction workers.
func WithWorkers(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithCache enables an LRU cache of extraction results keyed by content hash,
// so re-analyzing an unchanged file skips the parse entirely.
func WithCache(size int) Option {
	return func(r *Registry) {
		if c, err := newRecordCache(size); err == nil {
			r.cache = c
		}
	}
}

// WithProgress installs a callback invoked after each file completes,
// successful or not. Callbacks may arrive from multiple goroutines.
func WithProgress(fn func(path string)) Option {
	return func(r *Registry) { r.progress = fn }
}

// NewRegistry creates a Registry with the default language table:
// Python (.py) and the JavaScript/TypeScript family (.js, .jsx, .mjs, .cjs,
// .ts, .tsx). Adding a language means registering one more entry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byExt:   make(map[string]LanguageExtractor),
		logger:  slog.Default(),
		workers: 4,
	}

	py := NewPythonExtractor()
	js := NewJavaScriptExtractor()
	r.Register(".py", py)
	r.Register(".js", js)
	r.Register(".jsx", js)
	r.Register(".mjs", js)
	r.Register(".cjs", js)
	r.Register(".ts", NewTypeScriptExtractor())
	r.Register(".tsx", NewTSXExtractor())

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register maps a file extension (with leading dot) to an extractor.
func (r *Registry) Register(ext string, e LanguageExtractor) {
	r.byExt[ext] = e
}

// Supported reports whether files with the given path would be extracted.
func (r *Registry) Supported(path string) bool {
	return r.extractorFor(path) != nil
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtractAll extracts symbols from every supported file in the batch.
// Per-file extraction runs on a bounded worker pool; records within one file
// keep source order, and the output maps are keyed by path so cross-file
// ordering is irrelevant. A cancelled context abandons the batch and returns
// the context error instead of a partially filled result.
func (r *Registry) ExtractAll(ctx context.Context, files map[string]string) (*Result, error) {
	res := &Result{
		Records: make(map[string][]Record),
		Failed:  make(map[string]string),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for path, content := range files {
		path, content := path, content
		ext := r.extractorFor(path)
		if ext == nil {
			continue // outside the symbol model, not an error
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			records, err := r.extractOne(ext, path, content)
			if r.progress != nil {
				r.progress(path)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("extract.file_failed", "path", path, "error", err)
				res.Failed[path] = err.Error()
				return nil
			}
			res.Records[path] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// extractOne isolates a single file: extractor panics are recovered and
// reported as failures so one malformed file cannot take down the batch.
func (r *Registry) extractOne(ext LanguageExtractor, path, content string) (records []Record, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			records = nil
			err = fmt.Errorf("extractor panic: %v", rec)
		}
	}()

	if r.cache != nil {
		if cached, ok := r.cache.get(path, content); ok {
			return cached, nil
		}
	}

	records, err = ext.Extract(path, []byte(content))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}

	if r.cache != nil {
		r.cache.put(path, content, records)
	}
	return records, nil
}

func (r *Registry) extractorFor(path string) LanguageExtractor {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return nil
		}
		if path[i] == '.' {
			return r.byExt[path[i:]]
		}
	}
	return nil
}
