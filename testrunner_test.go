package arbor

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// fakeTarget records what a runner asks of the viewer.
type fakeTarget struct {
	in          *KeyState
	screenshots []string
	resets      int
}

func newFakeTarget() *fakeTarget { return &fakeTarget{in: NewKeyState()} }
func (f *fakeTarget) scriptInput() *KeyState { return f.in }
func (f *fakeTarget) Screenshot(label string) {
	f.screenshots = append(f.screenshots, label)
}
func (f *fakeTarget) ResetTime() { f.resets++ }

// frame mirrors the order used by Viewer.Update.
func (f *fakeTarget) frame(r *TestRunner) {
	f.in.Advance()
	r.step(f)
}

func mustScript(t *testing.T, data string) *TestRunner {
	t.Helper()
	r, err := LoadTestScript([]byte(data))
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	return r
}

func TestLoadTestScript(t *testing.T) {
	r := mustScript(t, `{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "hold", "key": "ArrowRight", "frames": 30},
			{"action": "drag", "button": "right", "fromX": 10, "fromY": 20, "toX": 30, "toY": 40, "frames": 5},
			{"action": "scroll", "y": -2},
			{"action": "wait", "frames": 3},
			{"action": "resettime"}
		]
	}`)
	if len(r.steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(r.steps))
	}
	if r.steps[1].key != ebiten.KeyArrowRight || r.steps[1].Frames != 30 {
		t.Errorf("hold step = %+v", r.steps[1])
	}
	if r.steps[2].button != ebiten.MouseButtonRight || r.steps[2].ToY != 40 {
		t.Errorf("drag step = %+v", r.steps[2])
	}
	if r.steps[3].Y != -2 {
		t.Errorf("scroll step = %+v", r.steps[3])
	}
	if r.Done() {
		t.Error("fresh runner should not be done")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"json", `not json`, "parse test script"},
		{"empty", `{"steps": []}`, "no steps"},
		{"action", `{"steps": [{"action": "click"}]}`, `unknown action "click"`},
		{"key", `{"steps": [{"action": "press", "key": "Banana"}]}`, `unknown key "Banana"`},
		{"button", `{"steps": [{"action": "drag", "button": "back"}]}`, `unknown button "back"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRunnerStep_PressWaitRelease(t *testing.T) {
	r := mustScript(t, `{"steps": [
		{"action": "press", "key": "ArrowRight"},
		{"action": "wait", "frames": 3},
		{"action": "release", "key": "ArrowRight"},
		{"action": "screenshot", "label": "done"}
	]}`)
	f := newFakeTarget()

	pressedFrames := 0
	for i := 0; i < 6; i++ {
		f.frame(r)
		if f.in.IsKeyPressed(ebiten.KeyArrowRight) {
			pressedFrames++
		}
	}
	if pressedFrames != 4 {
		t.Errorf("key held for %d frames, want 4", pressedFrames)
	}
	if !r.Done() {
		t.Error("runner should be done")
	}
	if len(f.screenshots) != 1 || f.screenshots[0] != "done" {
		t.Errorf("screenshots = %v", f.screenshots)
	}
}

func TestRunnerStep_HoldBlocksNextStep(t *testing.T) {
	r := mustScript(t, `{"steps": [
		{"action": "hold", "key": "Space", "frames": 2},
		{"action": "resettime"}
	]}`)
	f := newFakeTarget()

	f.frame(r)
	if !f.in.IsKeyPressed(ebiten.KeySpace) {
		t.Fatal("hold should press the key")
	}
	f.frame(r)
	if f.resets != 0 {
		t.Fatal("next step ran while the hold was pending")
	}
	f.frame(r)
	if f.resets != 1 {
		t.Errorf("resets = %d, want 1", f.resets)
	}
	if !r.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerStep_DragDrainsFirst(t *testing.T) {
	r := mustScript(t, `{"steps": [
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 10, "toY": 0, "frames": 3},
		{"action": "screenshot", "label": "dragged"}
	]}`)
	f := newFakeTarget()

	for i := 0; i < 10 && !r.Done(); i++ {
		f.frame(r)
	}
	if !r.Done() {
		t.Fatal("runner did not finish")
	}
	x, _ := f.in.CursorPosition()
	if x != 10 {
		t.Errorf("cursor x = %d, want 10", x)
	}
	if f.in.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		t.Error("drag should end released")
	}
	if len(f.screenshots) != 1 {
		t.Errorf("screenshots = %v", f.screenshots)
	}
}

func TestRunnerStep_DoneIsSticky(t *testing.T) {
	r := mustScript(t, `{"steps": [{"action": "screenshot"}]}`)
	f := newFakeTarget()
	for i := 0; i < 5; i++ {
		f.frame(r)
	}
	if len(f.screenshots) != 1 {
		t.Errorf("screenshot taken %d times, want 1", len(f.screenshots))
	}
}
