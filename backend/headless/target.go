package headless

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/fast3d/backend"
)

// clearDepth is depth 1.0 with a zero stencil in 24/8 packing.
const clearDepth = 0xFFFFFF00

type target struct {
	width, height, msaa int
	color               *image.RGBA
	colorTex            backend.Texture

	depth                   []uint32
	depthWidth, depthHeight int
	depthAttached           bool
}

func newDepth(width, height int) []uint32 {
	d := make([]uint32, width*height)
	for i := range d {
		d[i] = clearDepth
	}
	return d
}

func (b *Backend) lookupTarget(rt backend.RenderTarget) (*target, error) {
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	t, ok := b.targets[rt]
	if !ok {
		return nil, fmt.Errorf("headless: unknown render target %d", rt)
	}
	return t, nil
}

// NewRenderTarget creates a framebuffer with a colour texture but no storage.
func (b *Backend) NewRenderTarget() (backend.RenderTarget, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}
	rt := backend.RenderTarget(b.handle())
	b.targets[rt] = &target{msaa: 1, colorTex: b.NewTexture()}
	return rt, nil
}

// ResizeColor allocates a new colour attachment. Single-sampled colour is
// also the image of the target's colour texture.
func (b *Backend) ResizeColor(rt backend.RenderTarget, width, height, msaa int) error {
	t, err := b.lookupTarget(rt)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("headless: invalid colour size %dx%d", width, height)
	}
	b.stats.ColorAllocs++
	t.width, t.height, t.msaa = width, height, max(msaa, 1)
	t.color = image.NewRGBA(image.Rect(0, 0, width, height))
	if tex, ok := b.textures[t.colorTex]; ok {
		if t.msaa > 1 {
			tex.img = nil
		} else {
			tex.img = t.color
		}
	}
	return nil
}

// ResizeDepth allocates new depth-stencil storage cleared to depth 1.
func (b *Backend) ResizeDepth(rt backend.RenderTarget, width, height, msaa int) error {
	t, err := b.lookupTarget(rt)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("headless: invalid depth size %dx%d", width, height)
	}
	b.stats.DepthAllocs++
	t.depth = newDepth(width, height)
	t.depthWidth, t.depthHeight = width, height
	return nil
}

// AttachDepth attaches or detaches the depth storage of rt.
func (b *Backend) AttachDepth(rt backend.RenderTarget, attach bool) {
	if t, err := b.lookupTarget(rt); err == nil {
		t.depthAttached = attach
	}
}

// ColorTexture returns the sampleable colour texture of rt.
func (b *Backend) ColorTexture(rt backend.RenderTarget) backend.Texture {
	t, err := b.lookupTarget(rt)
	if err != nil || rt == backend.DefaultTarget || t.msaa > 1 {
		return 0
	}
	return t.colorTex
}

// BindRenderTarget makes rt the draw target.
func (b *Backend) BindRenderTarget(rt backend.RenderTarget) { b.bound = rt }

// BoundRenderTarget returns the draw target.
func (b *Backend) BoundRenderTarget() backend.RenderTarget { return b.bound }

// Clear fills the bound target with opaque black and, when depth is
// attached, depth 1.
func (b *Backend) Clear() {
	t, err := b.lookupTarget(b.bound)
	if err != nil {
		return
	}
	b.stats.Clears++
	if t.color != nil {
		draw.Draw(t.color, t.color.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
	}
	if t.depthAttached {
		for i := range t.depth {
			t.depth[i] = clearDepth
		}
	}
}

// BlitColor scales srcRect of src into dstRect of dst.
func (b *Backend) BlitColor(dst, src backend.RenderTarget, dstRect, srcRect image.Rectangle) {
	d, err := b.lookupTarget(dst)
	if err != nil || d.color == nil {
		return
	}
	s, err := b.lookupTarget(src)
	if err != nil || s.color == nil {
		return
	}
	b.stats.Blits++
	draw.NearestNeighbor.Scale(d.color, dstRect.Intersect(d.color.Bounds()), s.color, srcRect.Intersect(s.color.Bounds()), draw.Src, nil)
}

func (t *target) depthAt(x, y int) (uint32, bool) {
	if !t.depthAttached || x < 0 || y < 0 || x >= t.depthWidth || y >= t.depthHeight {
		return 0, false
	}
	return t.depth[y*t.depthWidth+x], true
}

// ReadDepthStencil reads one packed depth-stencil value.
func (b *Backend) ReadDepthStencil(rt backend.RenderTarget, x, y int) (uint32, error) {
	t, err := b.lookupTarget(rt)
	if err != nil {
		return 0, err
	}
	v, ok := t.depthAt(x, y)
	if !ok {
		return 0, fmt.Errorf("headless: no depth at (%d, %d) of target %d", x, y, rt)
	}
	return v, nil
}

// BlitDepthToScratch copies the depth of each point of src into row 0 of
// scratch. Points outside src read as zero.
func (b *Backend) BlitDepthToScratch(scratch, src backend.RenderTarget, points []image.Point) {
	dst, err := b.lookupTarget(scratch)
	if err != nil {
		return
	}
	s, err := b.lookupTarget(src)
	if err != nil {
		return
	}
	b.stats.Blits++
	for i, p := range points {
		if i >= dst.depthWidth {
			break
		}
		v, _ := s.depthAt(p.X, p.Y)
		dst.depth[i] = v
	}
}

// ReadScratchDepthStencil reads the first n values of row 0 of scratch.
func (b *Backend) ReadScratchDepthStencil(scratch backend.RenderTarget, n int) ([]uint32, error) {
	t, err := b.lookupTarget(scratch)
	if err != nil {
		return nil, err
	}
	if n > t.depthWidth {
		return nil, fmt.Errorf("headless: read of %d values from a %d wide scratch", n, t.depthWidth)
	}
	return append([]uint32(nil), t.depth[:n]...), nil
}

// DeleteRenderTarget releases rt. The default target cannot be deleted.
func (b *Backend) DeleteRenderTarget(rt backend.RenderTarget) {
	if rt == backend.DefaultTarget {
		return
	}
	if t, ok := b.targets[rt]; ok {
		b.DeleteTexture(t.colorTex)
		delete(b.targets, rt)
	}
	if b.bound == rt {
		b.bound = backend.DefaultTarget
	}
}

// StoreDepthStencil writes one packed depth-stencil value of rt. It stands
// in for rasterization when seeding readback tests.
func (b *Backend) StoreDepthStencil(rt backend.RenderTarget, x, y int, v uint32) error {
	t, err := b.lookupTarget(rt)
	if err != nil {
		return err
	}
	if _, ok := t.depthAt(x, y); !ok {
		return fmt.Errorf("headless: no depth at (%d, %d) of target %d", x, y, rt)
	}
	t.depth[y*t.depthWidth+x] = v
	return nil
}

// ColorImage returns the colour attachment of rt.
func (b *Backend) ColorImage(rt backend.RenderTarget) *image.RGBA {
	if t, err := b.lookupTarget(rt); err == nil {
		return t.color
	}
	return nil
}

// TargetSize returns the colour size, sample count and depth state of rt.
func (b *Backend) TargetSize(rt backend.RenderTarget) (width, height, msaa int, depth bool) {
	t, err := b.lookupTarget(rt)
	if err != nil {
		return 0, 0, 0, false
	}
	return t.width, t.height, t.msaa, t.depthAttached
}
