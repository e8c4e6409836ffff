package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repolens/internal/config"
	"repolens/internal/pipeline"
	"repolens/internal/snapshot"
)

func analyzed(t *testing.T) *pipeline.Result {
	t.Helper()
	snap := &snapshot.Snapshot{
		Files: map[string]string{
			"app/api/users.py":      "from fastapi import APIRouter\nfrom app.services.users import list_users\n",
			"app/services/users.py": "def list_users():\n    return []\n",
		},
		KnownPaths: []string{"app/api/users.py", "app/services/users.py"},
	}
	result, err := pipeline.NewAnalyzer(config.Default()).Run(context.Background(), snap)
	require.NoError(t, err)
	return result
}

func TestRenderer_Text(t *testing.T) {
	color.NoColor = true
	result := analyzed(t)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, 5, false).Text(result))
	out := buf.String()

	assert.Contains(t, out, "Structure analysis")
	assert.Contains(t, out, "Files analyzed:")
	assert.Contains(t, out, "backend")
	assert.Contains(t, out, "Hypotheses")
	assert.Contains(t, out, "Assumptions")
	assert.Contains(t, out, "app/services/users.py")
}

func TestRenderer_TextVerboseShowsEvidence(t *testing.T) {
	color.NoColor = true
	result := analyzed(t)

	var quiet, verbose bytes.Buffer
	require.NoError(t, NewRenderer(&quiet, 5, false).Text(result))
	require.NoError(t, NewRenderer(&verbose, 5, true).Text(result))

	assert.Greater(t, verbose.Len(), quiet.Len())
}

func TestRenderer_JSON(t *testing.T) {
	result := analyzed(t)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, 5, false).JSON(result))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, result.RunID, decoded["run_id"])
	assert.Contains(t, decoded, "graph")
	assert.Contains(t, decoded, "hypotheses")
	assert.Contains(t, decoded, "stats")
}
