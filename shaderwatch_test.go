package arbor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pollUntil polls w until a reload happens or the deadline passes.
func pollUntil(w *ShaderWatcher, timeout time.Duration) int {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if n := w.Poll(); n > 0 {
			return n
		}
		time.Sleep(10 * time.Millisecond)
	}
	return 0
}

func TestShaderWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surface.kage")
	require.NoError(t, os.WriteFile(path, []byte(colorShaderSrc), 0o644))

	s := LoadShaderFile(path)
	require.True(t, s.Enabled())
	defer s.Dispose()

	w, err := NewShaderWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(s, path))

	assert.Zero(t, w.Poll(), "nothing changed yet")

	require.NoError(t, os.WriteFile(path, []byte(lambertShaderSrc), 0o644))
	assert.Equal(t, 1, pollUntil(w, 2*time.Second))
	assert.True(t, s.HasUniform(ParamLight))
}

func TestShaderWatcherKeepsProgramOnBadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surface.kage")
	require.NoError(t, os.WriteFile(path, []byte(colorShaderSrc), 0o644))

	s := LoadShaderFile(path)
	require.True(t, s.Enabled())
	defer s.Dispose()

	w, err := NewShaderWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(s, path))

	require.NoError(t, os.WriteFile(path, []byte(brokenShaderSrc), 0o644))
	assert.Zero(t, pollUntil(w, 300*time.Millisecond))
	assert.True(t, s.Enabled())
	assert.True(t, s.HasUniform(ParamColor))
}

func TestShaderWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "surface.kage")
	require.NoError(t, os.WriteFile(path, []byte(colorShaderSrc), 0o644))
	s := LoadShaderFile(path)
	defer s.Dispose()

	w, err := NewShaderWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(s, path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	assert.Zero(t, pollUntil(w, 200*time.Millisecond))
	assert.Empty(t, w.dirty)
}
