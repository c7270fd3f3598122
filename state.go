package fast3d

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/fast3d/shadergen"
	"github.com/gogpu/gputypes"
)

// FilterMode is the global texture filtering mode.
type FilterMode = shadergen.Filter

// Filter modes.
const (
	FilterThreePoint = shadergen.FilterThreePoint
	FilterLinear     = shadergen.FilterLinear
	FilterNone       = shadergen.FilterNone
)

// DecalBias selects the slope-scaled depth bias applied to decal geometry.
type DecalBias int

const (
	// DecalBiasDefault uses a fixed slope factor of -2, which matches the
	// console at 240 lines.
	DecalBiasDefault DecalBias = iota

	// DecalBiasScaled scales the factor with the framebuffer height
	// (height/120) to keep the console's amount of z-fighting.
	DecalBiasScaled

	// DecalBiasNoVanish uses a stronger factor (height/100) so decals
	// never sink into the surface below them.
	DecalBiasNoVanish
)

// decalUnits is the constant part of the decal depth bias.
const decalUnits = -2

func (d DecalBias) String() string {
	switch d {
	case DecalBiasDefault:
		return "default"
	case DecalBiasScaled:
		return "scaled"
	case DecalBiasNoVanish:
		return "no-vanish"
	default:
		return fmt.Sprintf("DecalBias(%d)", int(d))
	}
}

// factor returns the slope factor for a framebuffer of the given height.
func (d DecalBias) factor(height int) float32 {
	switch d {
	case DecalBiasScaled:
		return -float32(height) / 120
	case DecalBiasNoVanish:
		return -float32(height) / 100
	default:
		return -2
	}
}

// ClipParameters describe the clip-space conventions of the current
// framebuffer.
type ClipParameters struct {
	// ZIsFrom0To1 reports a [0, 1] clip-space depth range. It is always
	// false for the GL-style backends.
	ZIsFrom0To1 bool

	// InvertY reports that the current framebuffer is stored bottom-up.
	InvertY bool
}

// ClipParameters returns the clip conventions of the current framebuffer.
func (c *Context) ClipParameters() ClipParameters {
	return ClipParameters{InvertY: c.framebuffers[c.current].params.InvertY}
}

// SetDepthTestAndMask configures depth testing for the next draws. Depth
// writes without a test use an always-passing compare.
func (c *Context) SetDepthTestAndMask(test, update bool) {
	if !test && !update {
		c.backend.SetDepthTest(false, gputypes.CompareFunctionAlways)
		return
	}
	compare := gputypes.CompareFunctionAlways
	if test {
		compare = gputypes.CompareFunctionLessEqual
	}
	c.backend.SetDepthTest(true, compare)
	c.backend.SetDepthMask(update)
}

// SetZModeDecal enables or disables the decal depth bias. The slope factor
// depends on the configured DecalBias and the current framebuffer height.
func (c *Context) SetZModeDecal(decal bool) {
	if !decal {
		c.backend.SetPolygonOffset(false, 0, 0)
		return
	}
	c.backend.SetPolygonOffset(true, c.opts.decalBias.factor(c.framebuffers[c.current].height()), decalUnits)
}

// SetViewport sets the viewport in framebuffer pixels.
func (c *Context) SetViewport(x, y, width, height int) {
	c.backend.SetViewport(x, y, width, height)
}

// SetScissor sets the scissor box in framebuffer pixels.
func (c *Context) SetScissor(x, y, width, height int) {
	c.backend.SetScissor(x, y, width, height)
}

// SetUseAlpha enables or disables alpha blending.
func (c *Context) SetUseAlpha(useAlpha bool) {
	c.backend.SetBlend(useAlpha)
}

// SetTextureFilter changes the global filter mode and calls the texture
// cache invalidator. Programs already compiled keep the mode they were
// generated with.
func (c *Context) SetTextureFilter(mode FilterMode) {
	c.filter = mode
	Logger().Debug("fast3d: texture filter changed", slog.String("filter", mode.String()))
	if c.opts.invalidate != nil {
		c.opts.invalidate()
	}
}

// TextureFilter returns the global filter mode.
func (c *Context) TextureFilter() FilterMode {
	return c.filter
}
