package arbor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CameraConfig sets the initial trackball pose and projection.
type CameraConfig struct {
	Target   [3]float32 `yaml:"target" toml:"target"`
	Distance float32    `yaml:"distance" toml:"distance"`
	Pitch    float32    `yaml:"pitch" toml:"pitch"`
	Yaw      float32    `yaml:"yaw" toml:"yaw"`
	Fov      float32    `yaml:"fov" toml:"fov"`
	Near     float32    `yaml:"near" toml:"near"`
	Far      float32    `yaml:"far" toml:"far"`
}

// Trackball builds a camera from the config, recording it as the home view.
func (c CameraConfig) Trackball() *Trackball {
	tb := NewTrackball(mgl32.Vec3(c.Target), c.Distance, c.Pitch, c.Yaw)
	tb.Fov, tb.Near, tb.Far = c.Fov, c.Near, c.Far
	return tb
}

// RunConfig configures the window and the viewer created by Run.
type RunConfig struct {
	// Title sets the window title.
	Title string `yaml:"title" toml:"title"`
	// Width and Height set the window size in device-independent pixels.
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
	// TPS is the number of updates per second; the animation clock advances
	// by 1/TPS every update.
	TPS int `yaml:"tps" toml:"tps"`
	// ShowFPS enables the HUD overlay.
	ShowFPS bool `yaml:"show_fps" toml:"show_fps"`
	// ClearColor fills the screen before the scene is drawn.
	ClearColor Color `yaml:"clear_color" toml:"clear_color"`
	// Debug enables tree checks and per-frame stats at debug level.
	Debug bool `yaml:"debug" toml:"debug"`
	// ScreenshotDir receives F12 and scripted screenshots.
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
	// TestScript, when set, is a JSON script driving scripted input.
	TestScript string `yaml:"test_script" toml:"test_script"`
	// WatchShaders reloads shaders loaded from files when they change.
	WatchShaders bool `yaml:"watch_shaders" toml:"watch_shaders"`

	Camera CameraConfig `yaml:"camera" toml:"camera"`
}

// DefaultRunConfig returns the settings used when no config file is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:         "arbor",
		Width:         640,
		Height:        480,
		TPS:           60,
		ClearColor:    Color{0.1, 0.1, 0.1},
		ScreenshotDir: "screenshots",
		Camera: CameraConfig{
			Distance: 5,
			Pitch:    20,
			Yaw:      30,
			Fov:      45,
			Near:     0.1,
			Far:      100,
		},
	}
}

// LoadRunConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over the
// defaults and validates the result.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, errors.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	logger.Debug("config loaded", "path", path, "config", debugDump(cfg))
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c RunConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	case c.TPS <= 0:
		return errors.Errorf("tps %d must be positive", c.TPS)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return errors.Errorf("camera fov %g must be in (0, 180)", c.Camera.Fov)
	case c.Camera.Near <= 0:
		return errors.Errorf("camera near %g must be positive", c.Camera.Near)
	case c.Camera.Far <= c.Camera.Near:
		return errors.Errorf("camera far %g must exceed near %g", c.Camera.Far, c.Camera.Near)
	case c.Camera.Distance <= 0:
		return errors.Errorf("camera distance %g must be positive", c.Camera.Distance)
	}
	return nil
}
