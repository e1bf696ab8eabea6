package arbor

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

// hudRefresh is how often the HUD text is rebuilt, in seconds.
const hudRefresh = 0.5

// HUD is a text overlay showing FPS, TPS, the animation time and any extra
// lines. It draws in screen space and ignores the matrices it is given, so
// it can sit anywhere in the tree; the viewer draws it after the scene.
type HUD struct {
	// Lines, when set, supplies extra lines below the built-in ones.
	Lines func() []string
	Color Color

	face *text.GoTextFace
	lh   float64

	content string
	since   float64
}

// NewHUD loads the Go Regular font at the given size.
func NewHUD(size float64) (*HUD, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, errors.Wrap(err, "load HUD font")
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &HUD{
		Color: ColorWhite,
		face:  face,
		lh:    m.HAscent + m.HDescent + m.HLineGap,
		since: hudRefresh,
	}, nil
}

// Text returns the text shown since the last refresh.
func (h *HUD) Text() string {
	return h.content
}

func (h *HUD) refresh(params ParameterSet) {
	lines := []string{
		fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
	}
	if t, ok := params.Float(ParamTime); ok {
		lines = append(lines, fmt.Sprintf("time: %.2fs", t))
	}
	if h.Lines != nil {
		lines = append(lines, h.Lines()...)
	}
	h.content = strings.Join(lines, "\n")
}

// Draw refreshes the text every half second and draws it in the top-left
// corner of the target.
func (h *HUD) Draw(_, _, _ mgl32.Mat4, _ *Shader, params ParameterSet) {
	target := params.Target()
	h.since += params.Delta()
	if h.since >= hudRefresh || h.content == "" {
		h.since = 0
		h.refresh(params)
	}

	w, ht := text.Measure(h.content, h.face, h.lh)
	bg := &ebiten.DrawImageOptions{}
	bg.GeoM.Scale(w+8, ht+8)
	bg.GeoM.Translate(4, 4)
	bg.ColorScale.ScaleWithColor(color.RGBA{0, 0, 0, 128})
	target.DrawImage(ensureWhitePixel(), bg)

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(h.Color.RGBA())
	op.LineSpacing = h.lh
	text.Draw(target, h.content, h.face, op)
}
