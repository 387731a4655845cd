package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectOverlay(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	overlay := filepath.Join(root, "a", ProjectOverlayName)
	require.NoError(t, os.WriteFile(overlay, []byte("output:\n  precision: 3\n"), 0o600))

	found, err := FindProjectOverlay(nested)
	require.NoError(t, err)
	assert.Equal(t, overlay, found)
}

func TestFindProjectOverlay_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ProjectOverlayName), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(root), ProjectOverlayName), nil, 0o600))
	t.Cleanup(func() { _ = os.Remove(filepath.Join(filepath.Dir(root), ProjectOverlayName)) })

	found, err := FindProjectOverlay(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(root), ProjectOverlayName), found)
}

func TestNew_OverlayFromParent(t *testing.T) {
	isolate(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, ProjectOverlayName),
		[]byte("output:\n  precision: 5\n"), 0o600))
	child := filepath.Join(wd, "sub")
	require.NoError(t, os.Mkdir(child, 0o750))
	t.Chdir(child)

	cfg := New()

	require.NoError(t, cfg.LoadError())
	assert.Equal(t, 5, cfg.Output.Precision)
}
