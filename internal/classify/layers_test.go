package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferLayer_Backend(t *testing.T) {
	cases := []struct {
		path  string
		layer string
	}{
		{"app/api/routes/users.py", "api"},
		{"app/api/deps.py", "api"},
		{"app/controllers/user_controller.py", "api"},
		{"app/services/billing.py", "services"},
		{"app/models/user.py", "models"},
		{"app/schemas/user.py", "models"},
		{"app/db/session.py", "db"},
		{"app/repositories/users.py", "db"},
		{"app/core/config.py", "utils"},
		{"app/main.py", LayerUnclassified},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.layer, InferLayer(tc.path, ArchetypeBackend))
		})
	}
}

func TestInferLayer_Frontend(t *testing.T) {
	cases := []struct {
		path  string
		layer string
	}{
		{"src/components/Button.tsx", "ui"},
		{"src/hooks/useAuth.ts", "hooks"},
		{"src/pages/Home.tsx", "pages"},
		{"src/lib/fetcher.ts", "utils"},
		{"src/App.tsx", LayerUnclassified},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.layer, InferLayer(tc.path, ArchetypeFrontend))
		})
	}
}

func TestInferLayer_ArchetypeScoping(t *testing.T) {
	t.Run("Backend rules ignore frontend paths", func(t *testing.T) {
		assert.Equal(t, LayerUnclassified, InferLayer("src/components/Button.tsx", ArchetypeBackend))
	})

	t.Run("Fullstack consults backend rules before frontend rules", func(t *testing.T) {
		// /utils/ appears in both tables; the backend row is ordered first.
		assert.Equal(t, "utils", InferLayer("shared/utils/date.ts", ArchetypeFullstack))
		assert.Equal(t, "ui", InferLayer("web/components/Nav.tsx", ArchetypeFullstack))
		assert.Equal(t, "api", InferLayer("server/routes/users.py", ArchetypeFullstack))
	})

	t.Run("Unknown archetype classifies nothing", func(t *testing.T) {
		assert.Equal(t, LayerUnclassified, InferLayer("app/services/billing.py", ArchetypeUnknown))
	})

	t.Run("Matching is case-insensitive and slash-bounded", func(t *testing.T) {
		assert.Equal(t, "ui", InferLayer("src/Components/Nav.tsx", ArchetypeFrontend))
		// "myapi" contains "api" but not as a path segment.
		assert.Equal(t, LayerUnclassified, InferLayer("myapi_client.py", ArchetypeBackend))
	})
}

func TestInferLayers(t *testing.T) {
	paths := []string{
		"app/api/routes.py",
		"app/services/users.py",
		"app/services/billing.py",
		"app/main.py",
	}
	l := InferLayers(paths, ArchetypeBackend)

	assert.Equal(t, "api", l.ByFile["app/api/routes.py"])
	assert.Equal(t, 2, l.Count("services"))
	assert.Equal(t, 1, l.Count(LayerUnclassified))
	assert.Zero(t, l.Count("db"))

	// Reverse grouping is sorted for stable reports.
	assert.Equal(t, []string{"app/services/billing.py", "app/services/users.py"}, l.Files["services"])
}
