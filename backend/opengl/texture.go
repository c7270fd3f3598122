package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/gputypes"
)

// GL_MIRROR_CLAMP_TO_EDGE is core only from 4.4 but widely exposed through
// ARB_texture_mirror_clamp_to_edge.
const mirrorClampToEdge = 0x8743

// NewTexture creates a texture name.
func (b *Backend) NewTexture() backend.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return backend.Texture(t)
}

// DeleteTexture deletes t.
func (b *Backend) DeleteTexture(t backend.Texture) {
	name := uint32(t)
	gl.DeleteTextures(1, &name)
}

// SelectTexture activates unit and binds t to it.
func (b *Backend) SelectTexture(unit int, t backend.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

// UploadTexture replaces the image of the texture bound to the active unit.
func (b *Backend) UploadTexture(rgba []byte, width, height int) {
	if len(rgba) < width*height*4 || width <= 0 || height <= 0 {
		return
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}

// SetSamplerParameters sets filtering and wrapping of the texture bound to unit.
func (b *Backend) SetSamplerParameters(unit int, filter gputypes.FilterMode, s, t backend.WrapMode) {
	f := int32(gl.NEAREST)
	if filter == gputypes.FilterModeLinear {
		f = gl.LINEAR
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, f)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, f)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode(s))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode(t))
}

func wrapMode(w backend.WrapMode) int32 {
	switch {
	case w.Mirror() && w.Clamp():
		return mirrorClampToEdge
	case w.Clamp():
		return gl.CLAMP_TO_EDGE
	case w.Mirror():
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}
