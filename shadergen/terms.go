package shadergen

import (
	"fmt"
	"strings"

	"github.com/gogpu/fast3d/cc"
)

// TermContext describes where a term is rendered.
type TermContext struct {
	// WithAlpha requests a four-component value; otherwise three.
	WithAlpha bool

	// OnlyAlpha renders the scalar alpha component of the term.
	OnlyAlpha bool

	// InputsHaveAlpha is set when the generic inputs are declared vec4.
	InputsHaveAlpha bool

	// Scalar allows alpha-replicated texel terms to be emitted as a bare
	// scalar. It is set for the C slot, which is always a multiplier.
	Scalar bool
}

// TermText returns the expression for t in ctx.
//
// TermReserved has no hardware meaning and renders as zero.
func TermText(t cc.Term, ctx TermContext, d Dialect) string {
	if ctx.OnlyAlpha {
		return alphaTermText(t, d)
	}

	switch t {
	case cc.TermOne:
		return splat(d, "1.0", ctx.WithAlpha)
	case cc.TermTexel0:
		return withRGB("texVal0", ctx.WithAlpha)
	case cc.TermTexel1:
		return withRGB("texVal1", ctx.WithAlpha)
	case cc.TermTexel0Alpha:
		if ctx.Scalar {
			return "texVal0.a"
		}
		return splat(d, "texVal0.a", ctx.WithAlpha)
	case cc.TermTexel1Alpha:
		if ctx.Scalar {
			return "texVal1.a"
		}
		return splat(d, "texVal1.a", ctx.WithAlpha)
	case cc.TermCombined:
		return withRGB("texel", ctx.WithAlpha)
	case cc.TermNoise:
		return splat(d, noiseExpr(d), ctx.WithAlpha)
	}
	if n := t.InputIndex(); n > 0 {
		name := fmt.Sprintf("vInput%d", n)
		if ctx.WithAlpha || !ctx.InputsHaveAlpha {
			return name
		}
		return name + ".rgb"
	}
	return splat(d, "0.0", ctx.WithAlpha)
}

func alphaTermText(t cc.Term, d Dialect) string {
	switch t {
	case cc.TermOne:
		return "1.0"
	case cc.TermTexel0, cc.TermTexel0Alpha:
		return "texVal0.a"
	case cc.TermTexel1, cc.TermTexel1Alpha:
		return "texVal1.a"
	case cc.TermCombined:
		return "texel.a"
	case cc.TermNoise:
		return noiseExpr(d)
	}
	if n := t.InputIndex(); n > 0 {
		return fmt.Sprintf("vInput%d.a", n)
	}
	return "0.0"
}

func withRGB(name string, withAlpha bool) string {
	if withAlpha {
		return name
	}
	return name + ".rgb"
}

// splat replicates a scalar expression into a vec3 or vec4 constructor.
func splat(d Dialect, scalar string, withAlpha bool) string {
	n := 3
	if withAlpha {
		n = 4
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = scalar
	}
	return d.vec(n) + "(" + strings.Join(parts, ", ") + ")"
}

// randomCall is the per-pixel noise sample keyed by screen position and frame.
func randomCall(d Dialect) string {
	return "random(" + d.vec(3) + "(floor(gl_FragCoord.xy * noise_scale), float(frame_count)))"
}

func noiseExpr(d Dialect) string {
	return "((" + randomCall(d) + " + 1.0) / 2.0)"
}
