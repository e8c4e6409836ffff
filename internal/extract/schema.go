package extract

// Kind classifies an extracted symbol.
type Kind string

const (
	KindImport   Kind = "import"
	KindClass    Kind = "class"
	KindFunction Kind = "function"
)

// Record is the universal container for one extracted fact about a file.
// For imports, Name is the module path exactly as written in source; no
// normalization of relative vs. absolute form happens at this stage.
type Record struct {
	FilePath string `json:"file_path"`
	Kind     Kind   `json:"kind"`
	Name     string `json:"name"`
	Line     int    `json:"line"` // 1-based, 0 when unknown
	Language string `json:"language"`
}

// LanguageExtractor defines the interface that each language parser must implement.
// Implementations must be deterministic for identical input and must not
// mutate shared state, so a single instance can serve concurrent callers.
type LanguageExtractor interface {
	// Language returns the canonical language name (e.g. "python").
	Language() string

	// Extract parses content and returns records in source appearance order.
	// An empty file yields an empty slice, not an error.
	Extract(path string, content []byte) ([]Record, error)
}
