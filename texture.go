package arbor

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/h2non/filetype"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture is an image bound to meshes together with its sampling modes.
// A Texture that failed to load is disabled and samples as plain white.
type Texture struct {
	Name   string
	Wrap   WrapMode
	Filter FilterMode

	image *ebiten.Image
	err   error
}

// DecodeImage checks that data looks like an image and decodes it. PNG, JPEG,
// GIF, BMP, TIFF and WebP are supported. The format name is returned.
func DecodeImage(data []byte) (image.Image, string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, "", errors.Wrap(err, "sniff image type")
	}
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		return nil, "", errors.Errorf("not an image (detected %q)", kind.MIME.Value)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrapf(err, "decode %s", kind.Extension)
	}
	return img, format, nil
}

// OpenTexture loads an image file and returns the error on failure.
func OpenTexture(path string, wrap WrapMode, filter FilterMode) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read texture")
	}
	img, format, err := DecodeImage(data)
	if err != nil {
		return nil, errors.Wrapf(err, "texture %q", path)
	}
	t := NewTextureFromImage(path, img, wrap, filter)
	logger.Info("texture loaded", "texture", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return t, nil
}

// LoadTexture loads an image file. On failure the error is logged and a
// disabled texture is returned.
func LoadTexture(path string, wrap WrapMode, filter FilterMode) *Texture {
	t, err := OpenTexture(path, wrap, filter)
	if err != nil {
		logger.Warn("texture disabled", "texture", path, "err", err)
		return &Texture{Name: path, Wrap: wrap, Filter: filter, err: err}
	}
	return t
}

// NewTextureFromImage uploads img as a texture.
func NewTextureFromImage(name string, img image.Image, wrap WrapMode, filter FilterMode) *Texture {
	return &Texture{Name: name, Wrap: wrap, Filter: filter, image: ebiten.NewImageFromImage(img)}
}

// Enabled reports whether the texture holds an image.
func (t *Texture) Enabled() bool {
	return t != nil && t.image != nil
}

// Err returns the load error of a disabled texture.
func (t *Texture) Err() error {
	return t.err
}

// Image returns the GPU image, or nil when disabled.
func (t *Texture) Image() *ebiten.Image {
	return t.image
}

// source returns the image to bind: the texture, or a white pixel.
func (t *Texture) source() *ebiten.Image {
	if t.Enabled() {
		return t.image
	}
	return ensureWhitePixel()
}

// CycleWrap switches to the next wrap mode.
func (t *Texture) CycleWrap() WrapMode {
	t.Wrap = (t.Wrap + 1) % wrapModeCount
	return t.Wrap
}

// CycleFilter toggles between nearest and linear filtering.
func (t *Texture) CycleFilter() FilterMode {
	t.Filter = (t.Filter + 1) % filterModeCount
	return t.Filter
}

// Dispose releases the image. Disposing twice is a no-op.
func (t *Texture) Dispose() {
	if t == nil || t.image == nil {
		return
	}
	t.image.Deallocate()
	t.image = nil
}
