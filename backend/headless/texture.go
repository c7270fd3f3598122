package headless

import (
	"image"

	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/gputypes"
)

type texture struct {
	img    *image.RGBA
	filter gputypes.FilterMode
	wrapS  backend.WrapMode
	wrapT  backend.WrapMode
}

// Sampler is the sampling state of a texture.
type Sampler struct {
	Filter gputypes.FilterMode
	WrapS  backend.WrapMode
	WrapT  backend.WrapMode
}

// NewTexture creates an empty texture.
func (b *Backend) NewTexture() backend.Texture {
	t := backend.Texture(b.handle())
	b.textures[t] = &texture{filter: gputypes.FilterModeNearest}
	return t
}

// DeleteTexture releases t and unbinds it from every unit.
func (b *Backend) DeleteTexture(t backend.Texture) {
	delete(b.textures, t)
	for i := range b.units {
		if b.units[i] == t {
			b.units[i] = 0
		}
	}
}

// SelectTexture activates unit and binds t to it.
func (b *Backend) SelectTexture(unit int, t backend.Texture) {
	if unit < 0 || unit >= len(b.units) {
		return
	}
	b.activeUnit = unit
	b.units[unit] = t
}

// UploadTexture replaces the image of the texture bound to the active unit.
func (b *Backend) UploadTexture(rgba []byte, width, height int) {
	tex, ok := b.textures[b.units[b.activeUnit]]
	if !ok || width <= 0 || height <= 0 {
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, rgba)
	tex.img = img
}

// SetSamplerParameters sets the sampling state of the texture bound to unit.
func (b *Backend) SetSamplerParameters(unit int, filter gputypes.FilterMode, s, t backend.WrapMode) {
	if unit < 0 || unit >= len(b.units) {
		return
	}
	tex, ok := b.textures[b.units[unit]]
	if !ok {
		return
	}
	tex.filter, tex.wrapS, tex.wrapT = filter, s, t
}

// BoundTexture returns the texture bound to unit.
func (b *Backend) BoundTexture(unit int) backend.Texture {
	if unit < 0 || unit >= len(b.units) {
		return 0
	}
	return b.units[unit]
}

// TextureImage returns the image of t, nil before the first upload.
func (b *Backend) TextureImage(t backend.Texture) *image.RGBA {
	if tex, ok := b.textures[t]; ok {
		return tex.img
	}
	return nil
}

// TextureSampler returns the sampling state of t.
func (b *Backend) TextureSampler(t backend.Texture) (Sampler, bool) {
	tex, ok := b.textures[t]
	if !ok {
		return Sampler{}, false
	}
	return Sampler{Filter: tex.filter, WrapS: tex.wrapS, WrapT: tex.wrapT}, true
}
