package arbor

import (
	"encoding/json"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// testStep is one scripted action. key and button are resolved at load time.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Key    string  `json:"key,omitempty"`
	Button string  `json:"button,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  int     `json:"fromX,omitempty"`
	FromY  int     `json:"fromY,omitempty"`
	ToX    int     `json:"toX,omitempty"`
	ToY    int     `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	key    ebiten.Key
	button ebiten.MouseButton
}

type testScript struct {
	Steps []testStep `json:"steps"`
}

// scriptTarget is what a TestRunner drives; the Viewer implements it.
type scriptTarget interface {
	scriptInput() *KeyState
	Screenshot(label string)
	ResetTime()
}

// TestRunner sequences scripted key presses, mouse drags and screenshots
// across frames for automated runs. Attach to a Viewer via SetTestRunner.
//
// Actions: press, release, hold (key, frames), drag (button, fromX, fromY,
// toX, toY, frames), scroll (x, y), wait (frames), screenshot (label) and
// resettime.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Viewer via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, errors.Wrap(err, "parse test script")
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i := range script.Steps {
		if err := script.Steps[i].resolve(); err != nil {
			return nil, errors.Wrapf(err, "parse test script: step %d", i)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// resolve validates the action and parses key and button names.
func (st *testStep) resolve() error {
	switch st.Action {
	case "press", "release", "hold":
		if err := st.key.UnmarshalText([]byte(st.Key)); err != nil {
			return errors.Errorf("%s: unknown key %q", st.Action, st.Key)
		}
	case "drag":
		switch strings.ToLower(st.Button) {
		case "", "left":
			st.button = ebiten.MouseButtonLeft
		case "right":
			st.button = ebiten.MouseButtonRight
		case "middle":
			st.button = ebiten.MouseButtonMiddle
		default:
			return errors.Errorf("drag: unknown button %q", st.Button)
		}
	case "scroll", "wait", "screenshot", "resettime":
	default:
		return errors.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Done reports whether the script has run to completion.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Viewer.Update
// before the scripted input is read.
func (r *TestRunner) step(v scriptTarget) {
	if r.done {
		return
	}
	in := v.scriptInput()
	// Wait for pending holds and drags to drain before advancing.
	if in.Pending() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		in.Press(st.key)
	case "release":
		in.Release(st.key)
	case "hold":
		in.Hold(st.key, st.Frames)
	case "drag":
		in.Drag(st.button, st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "scroll":
		in.Scroll(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		v.Screenshot(st.Label)
	case "resettime":
		v.ResetTime()
	}

	// Finish on the same frame as the last step when nothing is left to drain.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && !in.Pending() {
		r.done = true
	}
}
