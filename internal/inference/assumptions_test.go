package inference

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolens/internal/extract"
)

func findAssumption(as []Assumption, fragment string) *Assumption {
	for i := range as {
		if strings.Contains(as[i].Statement, fragment) {
			return &as[i]
		}
	}
	return nil
}

func TestInferAssumptions_RepresentativeSample(t *testing.T) {
	t.Run("Fires for any non-empty analysis", func(t *testing.T) {
		in := buildInput(t, map[string][]extract.Record{"a.py": {}})
		as := InferAssumptions(in, nil)

		a := findAssumption(as, "representative sample")
		require.NotNil(t, a)
		assert.NotEmpty(t, a.Impact)
	})

	t.Run("Silent for an empty graph", func(t *testing.T) {
		in := buildInput(t, map[string][]extract.Record{})
		assert.Empty(t, InferAssumptions(in, nil))
	})
}

func TestInferAssumptions_ExternalDependencies(t *testing.T) {
	t.Run("High unresolved ratio fires", func(t *testing.T) {
		// 1 resolved edge, 3 unresolved imports: ratio 0.75.
		records := map[string][]extract.Record{
			"a.py": {imp("a.py", "b"), imp("a.py", "numpy"), imp("a.py", "pandas"), imp("a.py", "requests")},
			"b.py": {},
		}
		in := buildInput(t, records)
		as := InferAssumptions(in, nil)

		a := findAssumption(as, "Unresolved imports")
		require.NotNil(t, a)
		assert.Contains(t, a.Statement, "75%")
	})

	t.Run("Low ratio stays silent", func(t *testing.T) {
		// 4 resolved, 1 unresolved: ratio 0.2 <= threshold.
		records := map[string][]extract.Record{
			"a.py": {imp("a.py", "b"), imp("a.py", "c"), imp("a.py", "d"), imp("a.py", "e"), imp("a.py", "numpy")},
			"b.py": {}, "c.py": {}, "d.py": {}, "e.py": {},
		}
		in := buildInput(t, records)
		assert.Nil(t, findAssumption(InferAssumptions(in, nil), "Unresolved imports"))
	})
}

func TestInferAssumptions_ExternalBackend(t *testing.T) {
	t.Run("Frontend-only repos assume a remote backend", func(t *testing.T) {
		in := buildInput(t, frontendRecords(2))
		a := findAssumption(InferAssumptions(in, nil), "Backend logic lives outside")
		require.NotNil(t, a)
		assert.Contains(t, a.Impact, "API")
	})

	t.Run("Backend repos do not", func(t *testing.T) {
		in := buildInput(t, map[string][]extract.Record{
			"app/main.py": {imp("app/main.py", "flask")},
		})
		assert.Nil(t, findAssumption(InferAssumptions(in, nil), "Backend logic lives outside"))
	})
}

func TestInferAssumptions_HypothesisCoupling(t *testing.T) {
	in := buildInput(t, map[string][]extract.Record{"a.py": {}})

	t.Run("Hub hypotheses imply stable hubs", func(t *testing.T) {
		hs := []Hypothesis{{Statement: "Hub-and-spoke dependency structure around shared modules"}}
		a := findAssumption(InferAssumptions(in, hs), "stable interfaces")
		assert.NotNil(t, a)
	})

	t.Run("Layered hypotheses imply convention-only boundaries", func(t *testing.T) {
		hs := []Hypothesis{{Statement: "Layered backend service (api -> services -> data)"}}
		a := findAssumption(InferAssumptions(in, hs), "directory convention")
		assert.NotNil(t, a)
	})

	t.Run("Unrelated hypotheses trigger neither", func(t *testing.T) {
		hs := []Hypothesis{{Statement: "Model-View-Controller structure"}}
		as := InferAssumptions(in, hs)
		assert.Nil(t, findAssumption(as, "stable interfaces"))
		assert.Nil(t, findAssumption(as, "directory convention"))
	})
}

func TestInferAssumptions_SparseResolution(t *testing.T) {
	t.Run("Multiple files with zero edges fire", func(t *testing.T) {
		in := buildInput(t, map[string][]extract.Record{"a.py": {}, "b.py": {}})
		assert.NotNil(t, findAssumption(InferAssumptions(in, nil), "genuinely independent"))
	})

	t.Run("A single file cannot be sparse", func(t *testing.T) {
		in := buildInput(t, map[string][]extract.Record{"a.py": {}})
		assert.Nil(t, findAssumption(InferAssumptions(in, nil), "genuinely independent"))
	})

	t.Run("Any edge silences the rule", func(t *testing.T) {
		in := buildInput(t, map[string][]extract.Record{
			"a.py": {imp("a.py", "b")},
			"b.py": {},
		})
		assert.Nil(t, findAssumption(InferAssumptions(in, nil), "genuinely independent"))
	})
}

func TestInferAssumptions_Order(t *testing.T) {
	// Rules fire in table order, so the sample assumption always leads.
	records := map[string][]extract.Record{}
	for i := 0; i < 3; i++ {
		p := fmt.Sprintf("f%d.py", i)
		records[p] = []extract.Record{imp(p, "numpy")}
	}
	in := buildInput(t, records)
	as := InferAssumptions(in, nil)

	require.NotEmpty(t, as)
	assert.Contains(t, as[0].Statement, "representative sample")
}
