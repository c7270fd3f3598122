package opengl

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/fast3d/backend"
	"github.com/gogpu/gputypes"
)

// storageFormat returns the sized internal format of an attachment format.
func storageFormat(f gputypes.TextureFormat) uint32 {
	switch f {
	case gputypes.TextureFormatDepth24PlusStencil8:
		return gl.DEPTH24_STENCIL8
	default:
		return gl.RGBA8
	}
}

// target is a framebuffer object with a colour texture, a multisampled
// colour renderbuffer and a depth-stencil renderbuffer. Only one of the two
// colour objects is attached at a time. The default target has all zero
// names and is never resized.
type target struct {
	fbo       uint32
	color     uint32
	colorMSAA uint32
	depth     uint32

	width, height int
	msaa          int
	depthAttached bool
}

func (b *Backend) lookup(rt backend.RenderTarget) (*target, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	t, ok := b.targets[rt]
	if !ok {
		return nil, fmt.Errorf("opengl: unknown render target %d", rt)
	}
	return t, nil
}

// NewRenderTarget creates a framebuffer with 1x1 placeholder storage.
func (b *Backend) NewRenderTarget() (backend.RenderTarget, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}
	t := &target{msaa: 1}

	gl.GenTextures(1, &t.color)
	gl.BindTexture(gl.TEXTURE_2D, t.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(storageFormat(backend.ColorFormat)), 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &t.colorMSAA)

	gl.GenRenderbuffers(1, &t.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, storageFormat(backend.DepthFormat), 1, 1)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &t.fbo)

	b.next++
	rt := b.next
	b.targets[rt] = t
	return rt, nil
}

// ResizeColor reallocates the colour storage and attaches it.
func (b *Backend) ResizeColor(rt backend.RenderTarget, width, height, msaa int) error {
	t, err := b.lookup(rt)
	if err != nil {
		return err
	}
	if rt == backend.DefaultTarget {
		return fmt.Errorf("opengl: the window framebuffer has no resizable storage")
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	if msaa <= 1 {
		gl.BindTexture(gl.TEXTURE_2D, t.color)
		gl.TexImage2D(gl.TEXTURE_2D, 0, int32(storageFormat(backend.ColorFormat)), int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color, 0)
	} else {
		gl.BindRenderbuffer(gl.RENDERBUFFER, t.colorMSAA)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, int32(msaa), storageFormat(backend.ColorFormat), int32(width), int32(height))
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.colorMSAA)
	}
	t.width, t.height, t.msaa = width, height, max(msaa, 1)
	b.rebind()
	return nil
}

// ResizeDepth recreates the depth-stencil renderbuffer. Resizing a
// renderbuffer in place is unreliable on some drivers.
func (b *Backend) ResizeDepth(rt backend.RenderTarget, width, height, msaa int) error {
	t, err := b.lookup(rt)
	if err != nil {
		return err
	}
	if rt == backend.DefaultTarget {
		return fmt.Errorf("opengl: the window framebuffer has no resizable storage")
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.DeleteRenderbuffers(1, &t.depth)
	gl.GenRenderbuffers(1, &t.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	if msaa <= 1 {
		gl.RenderbufferStorage(gl.RENDERBUFFER, storageFormat(backend.DepthFormat), int32(width), int32(height))
	} else {
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, int32(msaa), storageFormat(backend.DepthFormat), int32(width), int32(height))
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	if t.depthAttached {
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, t.depth)
	}
	b.rebind()
	return nil
}

// AttachDepth attaches or detaches the depth-stencil renderbuffer.
func (b *Backend) AttachDepth(rt backend.RenderTarget, attach bool) {
	t, err := b.lookup(rt)
	if err != nil || rt == backend.DefaultTarget {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	rb := uint32(0)
	if attach {
		rb = t.depth
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rb)
	t.depthAttached = attach

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		slogger().Warn("opengl: framebuffer incomplete",
			slog.Int("target", int(rt)), slog.Uint64("status", uint64(status)))
	}
	b.rebind()
}

// ColorTexture returns the colour texture of a single-sampled target.
func (b *Backend) ColorTexture(rt backend.RenderTarget) backend.Texture {
	t, err := b.lookup(rt)
	if err != nil || t.msaa > 1 {
		return 0
	}
	return backend.Texture(t.color)
}

// BindRenderTarget binds rt for drawing and reading.
func (b *Backend) BindRenderTarget(rt backend.RenderTarget) {
	t, err := b.lookup(rt)
	if err != nil {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	b.bound = rt
}

// rebind restores the bound target's framebuffer object.
func (b *Backend) rebind() {
	if t, ok := b.targets[b.bound]; ok {
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	}
}

// Clear clears colour to opaque black and depth to 1, bypassing the
// scissor and the depth mask.
func (b *Backend) Clear() {
	gl.Disable(gl.SCISSOR_TEST)
	gl.DepthMask(true)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.DepthMask(b.depthMask)
	gl.Enable(gl.SCISSOR_TEST)
}

// BlitColor blits colour from src to dst with nearest filtering.
func (b *Backend) BlitColor(dst, src backend.RenderTarget, dstRect, srcRect image.Rectangle) {
	d, err := b.lookup(dst)
	if err != nil {
		return
	}
	s, err := b.lookup(src)
	if err != nil {
		return
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, d.fbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.fbo)
	gl.BlitFramebuffer(
		int32(srcRect.Min.X), int32(srcRect.Min.Y), int32(srcRect.Max.X), int32(srcRect.Max.Y),
		int32(dstRect.Min.X), int32(dstRect.Min.Y), int32(dstRect.Max.X), int32(dstRect.Max.Y),
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
	b.rebind()
}

// ReadDepthStencil reads one packed 24/8 value.
func (b *Backend) ReadDepthStencil(rt backend.RenderTarget, x, y int) (uint32, error) {
	t, err := b.lookup(rt)
	if err != nil {
		return 0, err
	}
	var v uint32
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8, gl.Ptr(&v))
	b.rebind()
	return v, nil
}

// BlitDepthToScratch blits one depth-stencil pixel per point into row 0 of
// scratch. The scissor test is left enabled afterwards.
func (b *Backend) BlitDepthToScratch(scratch, src backend.RenderTarget, points []image.Point) {
	d, err := b.lookup(scratch)
	if err != nil {
		return
	}
	s, err := b.lookup(src)
	if err != nil {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, d.fbo)
	gl.Disable(gl.SCISSOR_TEST)
	for i, p := range points {
		x, y, j := int32(p.X), int32(p.Y), int32(i)
		gl.BlitFramebuffer(x, y, x+1, y+1, j, 0, j+1, 1, gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT, gl.NEAREST)
	}
	gl.Enable(gl.SCISSOR_TEST)
	b.rebind()
}

// ReadScratchDepthStencil reads n packed values from row 0 of scratch.
func (b *Backend) ReadScratchDepthStencil(scratch backend.RenderTarget, n int) ([]uint32, error) {
	t, err := b.lookup(scratch)
	if err != nil {
		return nil, err
	}
	vals := make([]uint32, n)
	if n == 0 {
		return vals, nil
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadPixels(0, 0, int32(n), 1, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8, gl.Ptr(vals))
	b.rebind()
	return vals, nil
}

// DeleteRenderTarget deletes the framebuffer and its storage. The default
// target cannot be deleted.
func (b *Backend) DeleteRenderTarget(rt backend.RenderTarget) {
	t, ok := b.targets[rt]
	if !ok || rt == backend.DefaultTarget {
		return
	}
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.color)
	gl.DeleteRenderbuffers(1, &t.colorMSAA)
	gl.DeleteRenderbuffers(1, &t.depth)
	delete(b.targets, rt)
	if b.bound == rt {
		b.bound = backend.DefaultTarget
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
}
