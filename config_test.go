package arbor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultRunConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultRunConfig().Validate())
}

func TestLoadRunConfigYAML(t *testing.T) {
	path := writeConfig(t, "arbor.yaml", `
title: pyramids
width: 800
show_fps: true
clear_color: {r: 0.2, g: 0.3, b: 0.4}
camera:
  distance: 8
  target: [0, 1, 0]
`)
	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pyramids", cfg.Title)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 480, cfg.Height, "unset fields keep defaults")
	assert.True(t, cfg.ShowFPS)
	assert.Equal(t, Color{0.2, 0.3, 0.4}, cfg.ClearColor)
	assert.Equal(t, float32(8), cfg.Camera.Distance)
	assert.Equal(t, [3]float32{0, 1, 0}, cfg.Camera.Target)
	assert.Equal(t, float32(45), cfg.Camera.Fov)
}

func TestLoadRunConfigTOML(t *testing.T) {
	path := writeConfig(t, "arbor.toml", `
title = "robot arm"
tps = 30
debug = true
screenshot_dir = "shots"

[camera]
distance = 12.5
pitch = 35.0
`)
	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "robot arm", cfg.Title)
	assert.Equal(t, 30, cfg.TPS)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "shots", cfg.ScreenshotDir)
	assert.Equal(t, float32(12.5), cfg.Camera.Distance)
	assert.Equal(t, float32(35), cfg.Camera.Pitch)
	assert.Equal(t, float32(30), cfg.Camera.Yaw, "default kept")
}

func TestLoadRunConfigErrors(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = LoadRunConfig(writeConfig(t, "arbor.json", "{}"))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = LoadRunConfig(writeConfig(t, "bad.yaml", "width: [1, 2"))
	assert.ErrorContains(t, err, "parse config")

	_, err = LoadRunConfig(writeConfig(t, "bad.toml", "width = -1"))
	assert.ErrorContains(t, err, "window size")
}

func TestRunConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RunConfig)
		wantErr string
	}{
		{"height", func(c *RunConfig) { c.Height = 0 }, "window size"},
		{"tps", func(c *RunConfig) { c.TPS = 0 }, "tps"},
		{"fov", func(c *RunConfig) { c.Camera.Fov = 180 }, "fov"},
		{"near", func(c *RunConfig) { c.Camera.Near = 0 }, "near"},
		{"far", func(c *RunConfig) { c.Camera.Far = c.Camera.Near }, "far"},
		{"distance", func(c *RunConfig) { c.Camera.Distance = -1 }, "distance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestCameraConfigTrackball(t *testing.T) {
	c := DefaultRunConfig().Camera
	c.Target = [3]float32{1, 2, 3}
	c.Fov = 60

	tb := c.Trackball()
	assert.Equal(t, float32(5), tb.Distance)
	assert.Equal(t, float32(60), tb.Fov)
	assert.Equal(t, float32(1), tb.Target.X())
}
