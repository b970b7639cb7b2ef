// Package texture holds GPU texture resources. Decoding of image file
// formats is the asset loader's job; this package only uploads already
// decoded RGBA pixels and tracks readiness.
package texture

import (
	"image"
	"image/draw"

	"github.com/Faultbox/lumen/internal/engine/gfx"
)

// Texture is a device texture resource. A texture created as a placeholder
// starts with Loaded == false; draws bind "no texture" for it until the
// asynchronous load completes and Upload swaps the real pixels in place,
// preserving the Texture's identity for everyone holding a reference.
type Texture struct {
	Name string

	// Original dimensions of the source image.
	OriginalWidth  int32
	OriginalHeight int32

	// Device dimensions after upload (may differ if the uploader scaled).
	Width  int32
	Height int32

	handle gfx.TextureID
	loaded bool
}

// NewPlaceholder returns a not-yet-loaded texture that can be referenced by
// materials immediately.
func NewPlaceholder(name string) *Texture {
	return &Texture{Name: name}
}

// Loaded reports whether the texture has device pixels.
func (t *Texture) Loaded() bool {
	return t != nil && t.loaded
}

// Handle returns the device handle, zero when not loaded.
func (t *Texture) Handle() gfx.TextureID {
	if t == nil || !t.loaded {
		return 0
	}
	return t.handle
}

// Upload pushes RGBA pixels to the device and marks the texture loaded. An
// existing device texture is released first, so placeholders (streaming
// video frames included) swap in place without changing identity.
func (t *Texture) Upload(dev gfx.Device, width, height int32, pixels []byte, clamp bool) {
	if t.handle != 0 {
		dev.DeleteTexture(t.handle)
		t.handle = 0
		t.loaded = false
	}
	handle := dev.CreateTextureRGBA(width, height, pixels, clamp)
	if handle == 0 {
		return
	}
	t.handle = handle
	t.Width = width
	t.Height = height
	if t.OriginalWidth == 0 {
		t.OriginalWidth = width
		t.OriginalHeight = height
	}
	t.loaded = true
}

// UploadImage converts any image.Image to RGBA and uploads it.
func (t *Texture) UploadImage(dev gfx.Device, img image.Image, clamp bool) {
	rgba := ToRGBA(img)
	b := rgba.Bounds()
	t.OriginalWidth = int32(b.Dx())
	t.OriginalHeight = int32(b.Dy())
	t.Upload(dev, int32(b.Dx()), int32(b.Dy()), rgba.Pix, clamp)
}

// Release frees the device texture and resets the loaded flag.
func (t *Texture) Release(dev gfx.Device) {
	if t.handle != 0 {
		dev.DeleteTexture(t.handle)
		t.handle = 0
	}
	t.loaded = false
}

// ToRGBA converts an image to RGBA pixel layout, copying only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
