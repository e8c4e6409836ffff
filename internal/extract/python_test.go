package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonSample = `import os
import numpy as np
from .utils import helper
from app.models import User

class Greeter:
    def greet(self):
        return "hi"

def main():
    pass
`

func TestPythonExtractor_Extract(t *testing.T) {
	e := NewPythonExtractor()

	records, err := e.Extract("app/main.py", []byte(pythonSample))
	require.NoError(t, err)

	t.Run("Imports recorded as written", func(t *testing.T) {
		imports := names(records, KindImport)
		assert.Equal(t, []string{"os", "numpy", ".utils", "app.models"}, imports)
	})

	t.Run("Classes and functions", func(t *testing.T) {
		assert.Equal(t, []string{"Greeter"}, names(records, KindClass))
		// Methods count as functions, attributed to the file.
		assert.Equal(t, []string{"greet", "main"}, names(records, KindFunction))
	})

	t.Run("Line numbers are 1-based", func(t *testing.T) {
		rec := find(records, KindImport, "os")
		require.NotNil(t, rec)
		assert.Equal(t, 1, rec.Line)

		rec = find(records, KindClass, "Greeter")
		require.NotNil(t, rec)
		assert.Equal(t, 6, rec.Line)
	})

	t.Run("Records carry path and language", func(t *testing.T) {
		for _, r := range records {
			assert.Equal(t, "app/main.py", r.FilePath)
			assert.Equal(t, "python", r.Language)
		}
	})
}

func TestPythonExtractor_EdgeCases(t *testing.T) {
	e := NewPythonExtractor()

	t.Run("Empty file yields empty records, no error", func(t *testing.T) {
		records, err := e.Extract("empty.py", []byte(""))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("File without symbols yields empty records", func(t *testing.T) {
		records, err := e.Extract("flat.py", []byte("x = 1\ny = x + 2\n"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Nested imports still attributed to the file", func(t *testing.T) {
		src := "def load():\n    import json\n    return json\n"
		records, err := e.Extract("lazy.py", []byte(src))
		require.NoError(t, err)
		assert.Equal(t, []string{"json"}, names(records, KindImport))
	})

	t.Run("Multi-module import yields one record per module", func(t *testing.T) {
		records, err := e.Extract("multi.py", []byte("import os, sys\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"os", "sys"}, names(records, KindImport))
	})

	t.Run("Bare relative import keeps its dots", func(t *testing.T) {
		records, err := e.Extract("pkg/mod.py", []byte("from . import siblings\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"."}, names(records, KindImport))
	})
}

// names collects record names of one kind in source order.
func names(records []Record, kind Kind) []string {
	out := []string{}
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r.Name)
		}
	}
	return out
}

func find(records []Record, kind Kind, name string) *Record {
	for i := range records {
		if records[i].Kind == kind && records[i].Name == name {
			return &records[i]
		}
	}
	return nil
}
