package arbor

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// Screenshot asks for the next drawn frame to be saved as a PNG under
// RunConfig.ScreenshotDir. The label ends up in the file name.
func (v *Viewer) Screenshot(label string) {
	v.screenshotQueue = append(v.screenshotQueue, label)
}

// flushScreenshots saves one file per queued label from the finished frame.
func (v *Viewer) flushScreenshots(screen *ebiten.Image) {
	if len(v.screenshotQueue) == 0 {
		return
	}
	defer func() { v.screenshotQueue = v.screenshotQueue[:0] }()

	dir := v.config.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("screenshot skipped", "err", errors.Wrapf(err, "mkdir %s", dir))
		return
	}

	img := readFrame(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range v.screenshotQueue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%05d_%s.png", stamp, v.frame, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			logger.Warn("screenshot failed", "err", err)
			continue
		}
		logger.Info("screenshot saved", "path", path)
	}
}

// readFrame copies the screen into a straight-alpha image.
func readFrame(screen *ebiten.Image) *image.NRGBA {
	size := screen.Bounds().Size()
	img := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	screen.ReadPixels(img.Pix)
	unpremultiply(img.Pix)
	return img
}

// unpremultiply divides color channels by alpha in place. Opaque and fully
// transparent pixels are left alone.
func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0 || a == 0xff {
			continue
		}
		for c := i; c < i+3; c++ {
			pix[c] = uint8(min(uint32(pix[c])*0xff/a, 0xff))
		}
	}
}

// writePNG creates path and encodes img into it.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replaces everything
// else with underscores, and falls back to "frame" for empty labels.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "frame"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
