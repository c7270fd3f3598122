package fast3d

import (
	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/gputypes"
)

// NewTexture creates a texture.
func (c *Context) NewTexture() backend.Texture { return c.backend.NewTexture() }

// DeleteTexture deletes t.
func (c *Context) DeleteTexture(t backend.Texture) { c.backend.DeleteTexture(t) }

// SelectTexture binds t to the texture unit of tile (0 or 1).
func (c *Context) SelectTexture(tile int, t backend.Texture) { c.backend.SelectTexture(tile, t) }

// UploadTexture replaces the image of the selected texture with tightly
// packed RGBA8 rows.
func (c *Context) UploadTexture(rgba []byte, width, height int) {
	c.backend.UploadTexture(rgba, width, height)
}

// SetSamplerParameters sets filtering and wrapping of the texture of tile.
// Sampler filtering is bilinear only when the tile asks for it and the
// global mode is FilterLinear; the other modes filter in the shader or not
// at all.
func (c *Context) SetSamplerParameters(tile int, linear bool, cms, cmt backend.WrapMode) {
	filter := gputypes.FilterModeNearest
	if linear && c.filter == FilterLinear {
		filter = gputypes.FilterModeLinear
	}
	c.backend.SetSamplerParameters(tile, filter, cms, cmt)
}
