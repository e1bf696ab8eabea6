package arbor

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input answers the per-frame input queries made by control nodes, the
// camera and the viewer.
type Input interface {
	IsKeyPressed(key ebiten.Key) bool
	// IsKeyJustPressed reports a key that is down this frame but was not
	// down the frame before.
	IsKeyJustPressed(key ebiten.Key) bool
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	CursorPosition() (x, y int)
	// Wheel returns the scroll amount since the previous frame.
	Wheel() (dx, dy float64)
}

// --- Live input ---

// ebitenInput reads the real keyboard and mouse through ebiten.
type ebitenInput struct{}

// EbitenInput returns an Input backed by ebiten's live device state.
func EbitenInput() Input {
	return ebitenInput{}
}

func (ebitenInput) IsKeyPressed(key ebiten.Key) bool { return ebiten.IsKeyPressed(key) }

func (ebitenInput) IsKeyJustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }

func (ebitenInput) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}

func (ebitenInput) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (ebitenInput) Wheel() (float64, float64) { return ebiten.Wheel() }

// --- Scripted input ---

// syntheticPointer is one queued pointer state, applied on Advance.
type syntheticPointer struct {
	x, y    int
	button  ebiten.MouseButton
	pressed bool
}

// KeyState is an Input driven by code instead of devices. Tests and the
// TestRunner press keys and queue pointer moves; Advance moves to the next
// frame.
type KeyState struct {
	down  map[ebiten.Key]bool
	prev  map[ebiten.Key]bool
	holds map[ebiten.Key]int

	buttons          map[ebiten.MouseButton]bool
	cursorX, cursorY int
	wheelX, wheelY   float64

	pointerQueue []syntheticPointer
}

// NewKeyState returns a KeyState with nothing pressed.
func NewKeyState() *KeyState {
	return &KeyState{
		down:    make(map[ebiten.Key]bool),
		prev:    make(map[ebiten.Key]bool),
		holds:   make(map[ebiten.Key]int),
		buttons: make(map[ebiten.MouseButton]bool),
	}
}

// Press holds key down until Release.
func (k *KeyState) Press(key ebiten.Key) {
	k.down[key] = true
	delete(k.holds, key)
}

// Release lets key go.
func (k *KeyState) Release(key ebiten.Key) {
	delete(k.down, key)
	delete(k.holds, key)
}

// Hold presses key for the given number of frames, counting the current one.
func (k *KeyState) Hold(key ebiten.Key, frames int) {
	if frames < 1 {
		frames = 1
	}
	k.down[key] = true
	k.holds[key] = frames
}

// Scroll adds to the wheel delta reported for the current frame.
func (k *KeyState) Scroll(dx, dy float64) {
	k.wheelX += dx
	k.wheelY += dy
}

// MoveCursor sets the cursor position immediately.
func (k *KeyState) MoveCursor(x, y int) {
	k.cursorX, k.cursorY = x, y
}

// Drag queues a full drag with button: press at (fromX, fromY), linearly
// interpolated moves, and release at (toX, toY). The sequence is applied
// one step per Advance over frames frames (minimum 2).
func (k *KeyState) Drag(button ebiten.MouseButton, fromX, fromY, toX, toY int, frames int) {
	if frames < 2 {
		frames = 2
	}
	k.pointerQueue = append(k.pointerQueue, syntheticPointer{x: fromX, y: fromY, button: button, pressed: true})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + int(float64(toX-fromX)*t)
		y := fromY + int(float64(toY-fromY)*t)
		k.pointerQueue = append(k.pointerQueue, syntheticPointer{x: x, y: y, button: button, pressed: true})
	}
	k.pointerQueue = append(k.pointerQueue, syntheticPointer{x: toX, y: toY, button: button, pressed: false})
}

// Pending reports whether queued pointer steps or timed holds remain.
func (k *KeyState) Pending() bool {
	return len(k.pointerQueue) > 0 || len(k.holds) > 0
}

// Advance moves to the next frame: the current key state becomes the
// previous one, timed holds count down, one queued pointer step is applied
// and the wheel delta is cleared.
func (k *KeyState) Advance() {
	clear(k.prev)
	for key, d := range k.down {
		k.prev[key] = d
	}
	for key, n := range k.holds {
		n--
		if n <= 0 {
			delete(k.holds, key)
			delete(k.down, key)
			continue
		}
		k.holds[key] = n
	}
	k.wheelX, k.wheelY = 0, 0

	if len(k.pointerQueue) > 0 {
		evt := k.pointerQueue[0]
		copy(k.pointerQueue, k.pointerQueue[1:])
		k.pointerQueue = k.pointerQueue[:len(k.pointerQueue)-1]
		k.cursorX, k.cursorY = evt.x, evt.y
		k.buttons[evt.button] = evt.pressed
	}
}

func (k *KeyState) IsKeyPressed(key ebiten.Key) bool { return k.down[key] }

func (k *KeyState) IsKeyJustPressed(key ebiten.Key) bool { return k.down[key] && !k.prev[key] }

func (k *KeyState) IsMouseButtonPressed(b ebiten.MouseButton) bool { return k.buttons[b] }

func (k *KeyState) CursorPosition() (int, int) { return k.cursorX, k.cursorY }

func (k *KeyState) Wheel() (float64, float64) { return k.wheelX, k.wheelY }
