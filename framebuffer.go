package fast3d

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/fast3d/backend"
)

// FramebufferParams describe the storage of a framebuffer.
type FramebufferParams struct {
	Width, Height int

	// MSAA is the sample count; 0 and 1 both mean single-sampled.
	MSAA int

	// InvertY marks a bottom-up framebuffer. Readback coordinates are
	// flipped and ClipParameters reports it.
	InvertY bool

	// RenderTarget and CanExtractDepth are recorded for the host.
	RenderTarget    bool
	CanExtractDepth bool

	HasDepth bool
}

type framebuffer struct {
	target backend.RenderTarget
	params FramebufferParams
}

// height returns the current height, used by the decal bias.
func (fb *framebuffer) height() int { return fb.params.Height }

func (c *Context) framebuffer(id int) (*framebuffer, error) {
	if id < 0 || id >= len(c.framebuffers) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFramebufferIndex, id, len(c.framebuffers))
	}
	return &c.framebuffers[id], nil
}

// CreateFramebuffer appends a framebuffer without storage and returns its
// index. Indices are stable until Reset.
func (c *Context) CreateFramebuffer() (int, error) {
	rt, err := c.backend.NewRenderTarget()
	if err != nil {
		return 0, fmt.Errorf("fast3d: create framebuffer: %w", err)
	}
	c.framebuffers = append(c.framebuffers, framebuffer{target: rt})
	return len(c.framebuffers) - 1, nil
}

// Framebuffers returns the number of framebuffers, the window framebuffer
// included.
func (c *Context) Framebuffers() int { return len(c.framebuffers) }

// FramebufferParameters returns the parameters last set for id.
func (c *Context) FramebufferParameters(id int) (FramebufferParams, error) {
	fb, err := c.framebuffer(id)
	if err != nil {
		return FramebufferParams{}, err
	}
	return fb.params, nil
}

// UpdateFramebufferParameters records p for id and reallocates storage as
// needed. Colour is reallocated only when the size or sample count changes.
// Depth is reallocated on those changes while p requests depth and when
// depth is first requested. The window framebuffer (index 0) is owned by
// the presentation layer and never reallocated. Sizes are at least 1.
func (c *Context) UpdateFramebufferParameters(id int, p FramebufferParams) error {
	fb, err := c.framebuffer(id)
	if err != nil {
		return err
	}
	p.Width, p.Height = max(p.Width, 1), max(p.Height, 1)

	if id != 0 {
		old := fb.params
		resized := old.Width != p.Width || old.Height != p.Height || old.MSAA != p.MSAA
		if resized {
			Logger().Debug("fast3d: framebuffer resized",
				slog.Int("id", id), slog.Int("width", p.Width), slog.Int("height", p.Height), slog.Int("msaa", p.MSAA))
			if err := c.backend.ResizeColor(fb.target, p.Width, p.Height, p.MSAA); err != nil {
				return fmt.Errorf("fast3d: framebuffer %d colour: %w", id, err)
			}
		}
		if p.HasDepth && (resized || !old.HasDepth) {
			if err := c.backend.ResizeDepth(fb.target, p.Width, p.Height, p.MSAA); err != nil {
				return fmt.Errorf("fast3d: framebuffer %d depth: %w", id, err)
			}
		}
		if p.HasDepth != old.HasDepth {
			c.backend.AttachDepth(fb.target, p.HasDepth)
		}
	}

	fb.params = p
	return nil
}

// StartDrawToFramebuffer makes id the draw target. A non-zero noiseScale
// sets the noise_scale uniform to its reciprocal for later LoadProgram calls.
func (c *Context) StartDrawToFramebuffer(id int, noiseScale float32) error {
	fb, err := c.framebuffer(id)
	if err != nil {
		return err
	}
	if noiseScale != 0 {
		c.noiseScale = 1 / noiseScale
	}
	c.backend.BindRenderTarget(fb.target)
	c.current = id
	return nil
}

// CurrentFramebuffer returns the index of the draw target.
func (c *Context) CurrentFramebuffer() int { return c.current }

// ClearFramebuffer clears the draw target to opaque black and depth 1,
// regardless of the scissor box and depth mask.
func (c *Context) ClearFramebuffer() {
	c.backend.Clear()
}

// ResolveMSAAColorBuffer blits the whole colour buffer of src into the
// whole colour buffer of dst, resolving samples and scaling as needed.
func (c *Context) ResolveMSAAColorBuffer(dst, src int) error {
	d, err := c.framebuffer(dst)
	if err != nil {
		return err
	}
	s, err := c.framebuffer(src)
	if err != nil {
		return err
	}
	c.backend.BlitColor(d.target, s.target,
		image.Rect(0, 0, d.params.Width, d.params.Height),
		image.Rect(0, 0, s.params.Width, s.params.Height))
	return nil
}

// FramebufferTexture returns the colour texture of id, zero for the window
// framebuffer and multisampled framebuffers.
func (c *Context) FramebufferTexture(id int) (backend.Texture, error) {
	fb, err := c.framebuffer(id)
	if err != nil {
		return 0, err
	}
	return c.backend.ColorTexture(fb.target), nil
}

// SelectTextureFramebuffer binds the colour texture of id to unit 0.
func (c *Context) SelectTextureFramebuffer(id int) error {
	tex, err := c.FramebufferTexture(id)
	if err != nil {
		return err
	}
	c.backend.SelectTexture(0, tex)
	return nil
}

// encodeDepth converts a packed 24/8 depth-stencil value to the 16-bit
// depth format of the console's depth buffer.
func encodeDepth(v uint32) uint16 {
	return uint16((v >> 18) << 2)
}

// PixelDepth reads the depth of each coordinate of id. The result is keyed
// by the coordinates as given; duplicates collapse. A single coordinate is
// read directly. Larger sets are gathered into the scratch row first, which
// is grown to the largest set seen and never shrunk.
func (c *Context) PixelDepth(id int, coords []image.Point) (map[image.Point]uint16, error) {
	fb, err := c.framebuffer(id)
	if err != nil {
		return nil, err
	}

	unique := make([]image.Point, 0, len(coords))
	res := make(map[image.Point]uint16, len(coords))
	for _, p := range coords {
		if _, ok := res[p]; !ok {
			res[p] = 0
			unique = append(unique, p)
		}
	}

	switch len(unique) {
	case 0:
		return res, nil
	case 1:
		p := fb.flip(unique[0])
		v, err := c.backend.ReadDepthStencil(fb.target, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("fast3d: read depth of framebuffer %d: %w", id, err)
		}
		res[unique[0]] = encodeDepth(v)
		return res, nil
	}

	if c.scratchWidth < len(unique) {
		if err := c.backend.ResizeDepth(c.scratch, len(unique), 1, 1); err != nil {
			return nil, fmt.Errorf("fast3d: grow depth readback target: %w", err)
		}
		c.scratchWidth = len(unique)
	}

	src := make([]image.Point, len(unique))
	for i, p := range unique {
		src[i] = fb.flip(p)
	}
	c.backend.BlitDepthToScratch(c.scratch, fb.target, src)
	vals, err := c.backend.ReadScratchDepthStencil(c.scratch, len(unique))
	if err != nil {
		return nil, fmt.Errorf("fast3d: read depth of framebuffer %d: %w", id, err)
	}
	for i, p := range unique {
		res[p] = encodeDepth(vals[i])
	}
	return res, nil
}

// flip converts a top-down coordinate to storage order.
func (fb *framebuffer) flip(p image.Point) image.Point {
	if fb.params.InvertY {
		p.Y = fb.params.Height - p.Y
	}
	return p
}
