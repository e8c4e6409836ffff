package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/main.py", "import os\n")
	writeFile(t, root, "web/src/App.tsx", "import React from 'react';\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "node_modules/react/index.js", "module.exports = {};\n")
	writeFile(t, root, ".git/config", "[core]\n")

	snap, err := NewLoader().LoadDir(root)
	require.NoError(t, err)

	t.Run("Supported files are fetched", func(t *testing.T) {
		assert.Equal(t, "import os\n", snap.Files["app/main.py"])
		assert.Contains(t, snap.Files, "web/src/App.tsx")
	})

	t.Run("Unsupported files are known but not fetched", func(t *testing.T) {
		assert.NotContains(t, snap.Files, "README.md")
		assert.Contains(t, snap.KnownPaths, "README.md")
	})

	t.Run("Ignored directories are skipped entirely", func(t *testing.T) {
		for _, p := range snap.KnownPaths {
			assert.False(t, strings.HasPrefix(p, "node_modules/"), "found %s", p)
			assert.False(t, strings.HasPrefix(p, ".git/"), "found %s", p)
		}
	})

	t.Run("Known paths are sorted and slash-separated", func(t *testing.T) {
		assert.IsIncreasing(t, snap.KnownPaths)
		for _, p := range snap.KnownPaths {
			assert.NotContains(t, p, "\\")
		}
	})

	assert.False(t, snap.Empty())
}

func TestLoadDir_SizeCap(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.py", strings.Repeat("# x\n", 100))
	writeFile(t, root, "small.py", "import os\n")

	snap, err := NewLoader(WithMaxFileSize(64)).LoadDir(root)
	require.NoError(t, err)

	assert.NotContains(t, snap.Files, "big.py", "oversized files are not fetched")
	assert.Contains(t, snap.KnownPaths, "big.py", "but they stay known")
	assert.Contains(t, snap.Files, "small.py")
}

func TestLoadDir_NonUTF8Skipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bin.py", string([]byte{0xff, 0xfe, 0x00, 0x80}))

	snap, err := NewLoader().LoadDir(root)
	require.NoError(t, err)

	assert.NotContains(t, snap.Files, "bin.py")
	assert.Contains(t, snap.KnownPaths, "bin.py")
}

func TestLoadDir_CustomRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "gen/out.py", "x = 1\n")
	writeFile(t, root, "src/a.py", "x = 1\n")

	snap, err := NewLoader(WithIgnoreDirs([]string{"gen"})).LoadDir(root)
	require.NoError(t, err)

	assert.NotContains(t, snap.Files, "gen/out.py")
	assert.Contains(t, snap.Files, "src/a.py")
}

func TestLoadDir_EmptyDir(t *testing.T) {
	snap, err := NewLoader().LoadDir(t.TempDir())
	require.NoError(t, err)

	assert.True(t, snap.Empty())
	assert.Empty(t, snap.KnownPaths)
}

func TestLoadDir_MissingRoot(t *testing.T) {
	_, err := NewLoader().LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
