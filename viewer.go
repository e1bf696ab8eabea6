package arbor

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"github.com/tanema/gween/ease"
)

// resetViewDuration is how long the R key takes to bring the camera home.
const resetViewDuration = 0.6

// disposer is a GPU resource the viewer releases on Close.
type disposer interface {
	Dispose()
}

// Viewer is the render loop. It implements ebiten.Game: Update handles the
// viewer keys, the camera and the animation clock, and Draw traverses the
// scene once per frame.
//
// Keys: Escape or Q quits, W toggles wireframe, R resets the camera, F2
// resets the animation time and F12 takes a screenshot.
type Viewer struct {
	// Root is the top of the scene graph.
	Root *Node
	// Camera provides the view and projection matrices.
	Camera *Trackball
	// Shader is handed to the root; nodes may override it per subtree. Nil
	// uses ColorShader.
	Shader *Shader
	// Params are frame-level parameters (e.g. Light) inherited by the whole
	// scene. Frame context keys set by the viewer take precedence.
	Params ParameterSet
	// HUD, when set and ShowFPS is on, is drawn over the scene.
	HUD *HUD

	config RunConfig
	input  Input
	script *KeyState
	runner *TestRunner

	watcher    *ShaderWatcher
	updateFunc func(dt float64) error
	owned      []disposer

	time      float64
	dt        float64
	tick      int
	drawnTime float64
	frame     int
	wireframe bool

	screenshotQueue []string
	closed          bool
}

// NewViewer creates a viewer with an empty root node and a camera built from
// cfg.Camera.
func NewViewer(cfg RunConfig) *Viewer {
	if cfg.TPS <= 0 {
		cfg.TPS = DefaultRunConfig().TPS
	}
	SetDebug(cfg.Debug)
	return &Viewer{
		Root:   NewNode("root"),
		Camera: cfg.Camera.Trackball(),
		config: cfg,
		input:  EbitenInput(),
		dt:     1 / float64(cfg.TPS),
	}
}

// Config returns the configuration the viewer was created with.
func (v *Viewer) Config() RunConfig {
	return v.config
}

// Add appends drawables to the root node.
func (v *Viewer) Add(children ...Drawable) {
	v.Root.Add(children...)
}

// SetInput replaces the input source, e.g. with a KeyState.
func (v *Viewer) SetInput(in Input) {
	v.input = in
	if ks, ok := in.(*KeyState); ok {
		v.script = ks
	} else {
		v.script = nil
	}
}

// Input returns the input source read by the viewer and the scene.
func (v *Viewer) Input() Input {
	return v.input
}

// scriptInput returns the scripted input, switching to one if needed.
func (v *Viewer) scriptInput() *KeyState {
	if v.script == nil {
		v.SetInput(NewKeyState())
	}
	return v.script
}

// SetTestRunner attaches a script. Input switches to scripted input and the
// viewer exits once the script is done and its screenshots are written.
func (v *Viewer) SetTestRunner(r *TestRunner) {
	v.runner = r
	v.scriptInput()
}

// SetUpdateFunc registers a callback run every Update with the frame delta.
// A non-nil error ends the loop.
func (v *Viewer) SetUpdateFunc(fn func(dt float64) error) {
	v.updateFunc = fn
}

// Own registers a shader or texture to be disposed by Close.
func (v *Viewer) Own(resources ...disposer) {
	v.owned = append(v.owned, resources...)
}

// WatchShader reloads s from path whenever the file changes. The watcher is
// started on first use.
func (v *Viewer) WatchShader(s *Shader, path string) error {
	if v.watcher == nil {
		w, err := NewShaderWatcher()
		if err != nil {
			return err
		}
		v.watcher = w
	}
	return v.watcher.Watch(s, path)
}

// Time returns the animation clock in seconds.
func (v *Viewer) Time() float64 {
	return v.time
}

// ResetTime restarts the animation clock at zero.
func (v *Viewer) ResetTime() {
	v.time = 0
	v.drawnTime = 0
	logger.Debug("animation time reset")
}

// Wireframe reports whether meshes are drawn as edges.
func (v *Viewer) Wireframe() bool {
	return v.wireframe
}

// SetWireframe switches between filled and edge rendering.
func (v *Viewer) SetWireframe(on bool) {
	v.wireframe = on
}

// Frame returns the number of frames drawn.
func (v *Viewer) Frame() int {
	return v.frame
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	if v.script != nil {
		v.script.Advance()
	}
	if v.runner != nil {
		if v.runner.Done() && len(v.screenshotQueue) == 0 {
			logger.Info("test script done", "frames", v.frame)
			return ebiten.Termination
		}
		v.runner.step(v)
	}

	in := v.input
	if in.IsKeyJustPressed(ebiten.KeyEscape) || in.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if in.IsKeyJustPressed(ebiten.KeyW) {
		v.wireframe = !v.wireframe
	}
	if in.IsKeyJustPressed(ebiten.KeyR) {
		v.Camera.ResetView(resetViewDuration, ease.InOutQuad)
	}
	if in.IsKeyJustPressed(ebiten.KeyF2) {
		v.ResetTime()
	}
	if in.IsKeyJustPressed(ebiten.KeyF12) {
		v.Screenshot("manual")
	}

	v.Camera.Update(in, float32(v.dt))
	if v.watcher != nil {
		v.watcher.Poll()
	}
	if v.updateFunc != nil {
		if err := v.updateFunc(v.dt); err != nil {
			return err
		}
	}
	v.time += v.dt
	v.tick++
	return nil
}

// frameParams builds the parameters handed to the root for one frame. The
// delta is the animation time since the previous draw, so a frame drawn
// again without an Update in between gets 0.
func (v *Viewer) frameParams(screen *ebiten.Image) ParameterSet {
	dt := max(v.time-v.drawnTime, 0)
	return MergeParams(v.Params, ParameterSet{
		ParamTarget:    screen,
		ParamInput:     v.input,
		ParamTime:      v.time,
		ParamDelta:     dt,
		ParamTick:      v.tick,
		ParamWireframe: v.wireframe,
	})
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if globalDebug {
		frameStats.reset()
		t0 = time.Now()
	}

	screen.Fill(v.config.ClearColor.RGBA())
	b := screen.Bounds()
	projection := v.Camera.ProjectionMatrix(b.Dx(), b.Dy())
	view := v.Camera.ViewMatrix()
	params := v.frameParams(screen)
	v.drawnTime = v.time

	shader := v.Shader
	if shader == nil {
		shader = ColorShader()
	}
	v.Root.Draw(projection, view, mgl32.Ident4(), shader, params)

	if v.HUD != nil && v.config.ShowFPS {
		v.HUD.Draw(projection, view, mgl32.Ident4(), shader, params)
	}
	v.flushScreenshots(screen)

	if globalDebug {
		frameStats.drawTime = time.Since(t0)
		debugLog(v.frame, frameStats)
	}
	v.frame++
}

// Layout implements ebiten.Game. The scene follows the window size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Close releases owned resources and stops the shader watcher. Closing twice
// is a no-op.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	for _, r := range v.owned {
		r.Dispose()
	}
	v.owned = nil
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			logger.Warn("close shader watcher", "err", err)
		}
	}
}

// Run opens the window and runs the viewer until it quits. The viewer is
// closed on every exit path.
func Run(v *Viewer) error {
	defer v.Close()
	cfg := v.config
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "run")
	}
	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			return errors.Wrap(err, "read test script")
		}
		runner, err := LoadTestScript(data)
		if err != nil {
			return err
		}
		v.SetTestRunner(runner)
	}
	if cfg.ShowFPS && v.HUD == nil {
		hud, err := NewHUD(14)
		if err != nil {
			return err
		}
		hud.Lines = v.statusLines
		v.HUD = hud
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	logger.Info("viewer starting", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height, "tps", cfg.TPS)
	if globalDebug {
		LogTree(v.Root)
	}
	if err := ebiten.RunGame(v); err != nil {
		return errors.Wrap(err, "run game")
	}
	return nil
}

// statusLines feeds the HUD with the viewer state.
func (v *Viewer) statusLines() []string {
	mode := "fill"
	if v.wireframe {
		mode = "wireframe"
	}
	return []string{
		"mode: " + mode,
		fmt.Sprintf("camera: dist %.1f pitch %.0f yaw %.0f", v.Camera.Distance, v.Camera.Pitch, v.Camera.Yaw),
	}
}
