package fast3d

import (
	"github.com/gogpu/fast3d/shadergen"
)

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx, err := fast3d.NewContext(b,
//	    fast3d.WithFilterMode(fast3d.FilterLinear),
//	    fast3d.WithDecalBias(fast3d.DecalBiasScaled))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	dialect    shadergen.Dialect
	filter     FilterMode
	decalBias  DecalBias
	invalidate func()
	noiseScale float32
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		dialect:    shadergen.GLSL410,
		filter:     FilterThreePoint,
		decalBias:  DecalBiasDefault,
		noiseScale: 1,
	}
}

// WithDialect selects the shading-language dialect of generated programs.
// The default is shadergen.GLSL410.
func WithDialect(d shadergen.Dialect) ContextOption {
	return func(o *contextOptions) {
		o.dialect = d
	}
}

// WithFilterMode sets the initial texture filter mode. The default is
// FilterThreePoint.
func WithFilterMode(mode FilterMode) ContextOption {
	return func(o *contextOptions) {
		o.filter = mode
	}
}

// WithDecalBias selects how SetZModeDecal offsets decal depth.
func WithDecalBias(bias DecalBias) ContextOption {
	return func(o *contextOptions) {
		o.decalBias = bias
	}
}

// WithTextureCacheInvalidator sets the function SetTextureFilter calls so
// the host can drop textures uploaded under the previous filter mode.
func WithTextureCacheInvalidator(fn func()) ContextOption {
	return func(o *contextOptions) {
		o.invalidate = fn
	}
}

// WithNoiseScale sets the noise_scale uniform used until a framebuffer is
// started with a non-zero scale.
func WithNoiseScale(scale float32) ContextOption {
	return func(o *contextOptions) {
		o.noiseScale = scale
	}
}
