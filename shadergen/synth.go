package shadergen

import (
	"fmt"
	"strings"

	"github.com/gogpu/fast3d/cc"
)

// Options configure Synthesize.
type Options struct {
	Dialect Dialect

	// Filter selects the texture fetch helper. FilterThreePoint emits the
	// three-sample reconstruction filter, any other mode a direct sample.
	Filter Filter
}

// DefaultOptions returns GLSL 4.10 core with three-point filtering.
func DefaultOptions() Options {
	return Options{Dialect: GLSL410, Filter: FilterThreePoint}
}

// Source is a generated program.
type Source struct {
	Vertex   string
	Fragment string

	// Attributes is the vertex layout both stages were generated for.
	Attributes []Attribute
}

// Stride returns the floats per vertex of s.Attributes.
func (s Source) Stride() int { return Stride(s.Attributes) }

// Uniform names bound by the program cache.
const (
	UniformFrameCount = "frame_count"
	UniformNoiseScale = "noise_scale"
)

// UniformSampler returns the sampler uniform name of a texture unit.
func UniformSampler(unit int) string { return fmt.Sprintf("uTex%d", unit) }

// Synthesize generates the vertex and fragment source for f.
func Synthesize(f cc.Features, opts Options) Source {
	d := opts.Dialect
	if d.Name == "" {
		d = GLSL410
	}
	attrs := Layout(f)
	return Source{
		Vertex:     vertexSource(attrs, d),
		Fragment:   fragmentSource(f, attrs, d, opts.Filter),
		Attributes: attrs,
	}
}

// vertexSource declares every attribute with a matching stage output and
// copies each one through.
func vertexSource(attrs []Attribute, d Dialect) string {
	var b strings.Builder
	b.Grow(256 + 64*len(attrs))

	line(&b, d.VertexVersion)
	for _, a := range attrs {
		fmt.Fprintf(&b, "%s %s %s;\n", d.VertexInput, glslType(d, a.Size), a.Name)
		if a.Name != AttrPosition {
			fmt.Fprintf(&b, "%s %s %s;\n", d.VertexOutput, glslType(d, a.Size), varying(a.Name))
		}
	}
	line(&b, "void main() {")
	for _, a := range attrs {
		if a.Name != AttrPosition {
			fmt.Fprintf(&b, "%s = %s;\n", varying(a.Name), a.Name)
		}
	}
	fmt.Fprintf(&b, "gl_Position = %s;\n", AttrPosition)
	line(&b, "}")
	return b.String()
}

func fragmentSource(f cc.Features, attrs []Attribute, d Dialect, filter Filter) string {
	var b strings.Builder
	b.Grow(2048 + 64*len(attrs))

	line(&b, d.FragmentVersion)
	if d.Precision != "" {
		line(&b, d.Precision)
	}
	for _, a := range attrs {
		if a.Name != AttrPosition {
			fmt.Fprintf(&b, "%s %s %s;\n", d.FragmentInput, glslType(d, a.Size), varying(a.Name))
		}
	}
	for unit := 0; unit < 2; unit++ {
		if f.UsedTextures[unit] {
			fmt.Fprintf(&b, "uniform sampler2D %s;\n", UniformSampler(unit))
		}
	}
	fmt.Fprintf(&b, "uniform int %s;\n", UniformFrameCount)
	fmt.Fprintf(&b, "uniform float %s;\n", UniformNoiseScale)

	if f.Noise || f.UsesTerm(cc.TermNoise) {
		randomFunc(&b, d)
	}
	textureHook(&b, d, filter)
	if d.FragmentOutput != "" {
		line(&b, d.FragmentOutput)
	}

	line(&b, "void main() {")
	// Wrapped value of x in [low, high), as GLideN64 does.
	fmt.Fprintf(&b, "#define WRAP(x, low, high) %s((x)-(low), (high)-(low)) + (low)\n", d.Mod)

	for unit := 0; unit < 2; unit++ {
		if f.UsedTextures[unit] {
			textureFetch(&b, d, unit, f.Clamp[unit])
		}
	}

	fmt.Fprintf(&b, "%s texel;\n", glslType(d, inputSize(f)))
	for c := 0; c < f.Cycles(); c++ {
		cycleAssignment(&b, f, c, d)
		if c == 0 {
			line(&b, "texel = WRAP(texel, -1.01, 1.01);")
		}
	}
	line(&b, "texel = WRAP(texel, -0.51, 1.51);")
	line(&b, "texel = clamp(texel, 0.0, 1.0);")

	if f.Fog {
		if f.Alpha {
			fmt.Fprintf(&b, "texel = %s(%s(texel.rgb, vFog.rgb, vFog.a), texel.a);\n", d.vec(4), d.Lerp)
		} else {
			fmt.Fprintf(&b, "texel = %s(texel, vFog.rgb, vFog.a);\n", d.Lerp)
		}
	}
	if f.Alpha {
		if f.TextureEdge {
			line(&b, "if (texel.a > 0.19) texel.a = 1.0; else discard;")
		}
		if f.AlphaThreshold {
			line(&b, "if (texel.a < 8.0 / 256.0) discard;")
		}
		if f.Invisible {
			line(&b, "texel.a = 0.0;")
		}
		if f.Noise {
			fmt.Fprintf(&b, "texel.a *= floor(clamp(%s + texel.a, 0.0, 1.0));\n", randomCall(d))
		}
	}
	if f.Grayscale {
		line(&b, "float intensity = (texel.r + texel.g + texel.b) / 3.0;")
		fmt.Fprintf(&b, "%s new_texel = vGrayscaleColor.rgb * intensity;\n", d.vec(3))
		fmt.Fprintf(&b, "texel.rgb = %s(texel.rgb, new_texel, vGrayscaleColor.a);\n", d.Lerp)
	}

	if f.Alpha {
		fmt.Fprintf(&b, "%s = texel;\n", d.FragColor)
	} else {
		fmt.Fprintf(&b, "%s = %s(texel, 1.0);\n", d.FragColor, d.vec(4))
	}
	line(&b, "}")
	return b.String()
}

func randomFunc(b *strings.Builder, d Dialect) {
	fmt.Fprintf(b, "float random(in %s value) {\n", d.vec(3))
	fmt.Fprintf(b, "    float r = dot(sin(value), %s(12.9898, 78.233, 37.719));\n", d.vec(3))
	fmt.Fprintf(b, "    return %s(sin(r) * 143758.5453);\n", d.Fract)
	line(b, "}")
}

// textureHook emits hookTexture2D, the single texture fetch entry point.
func textureHook(b *strings.Builder, d Dialect, filter Filter) {
	v2, v4 := d.vec(2), d.vec(4)
	if filter == FilterThreePoint {
		fmt.Fprintf(b, "#define TEX_OFFSET(off) %s(tex, texCoord - (off)/texSize)\n", d.Texture)
		fmt.Fprintf(b, "%s filter3point(in sampler2D tex, in %s texCoord, in %s texSize) {\n", v4, v2, v2)
		fmt.Fprintf(b, "    %s offset = %s(texCoord*texSize - %s(0.5));\n", v2, d.Fract, v2)
		line(b, "    offset -= step(1.0, offset.x + offset.y);")
		fmt.Fprintf(b, "    %s c0 = TEX_OFFSET(offset);\n", v4)
		fmt.Fprintf(b, "    %s c1 = TEX_OFFSET(%s(offset.x - sign(offset.x), offset.y));\n", v4, v2)
		fmt.Fprintf(b, "    %s c2 = TEX_OFFSET(%s(offset.x, offset.y - sign(offset.y)));\n", v4, v2)
		line(b, "    return c0 + abs(offset.x)*(c1-c0) + abs(offset.y)*(c2-c0);")
		line(b, "}")
		fmt.Fprintf(b, "%s hookTexture2D(in sampler2D tex, in %s uv, in %s texSize) {\n", v4, v2, v2)
		line(b, "    return filter3point(tex, uv, texSize);")
		line(b, "}")
		return
	}
	fmt.Fprintf(b, "%s hookTexture2D(in sampler2D tex, in %s uv, in %s texSize) {\n", v4, v2, v2)
	fmt.Fprintf(b, "    return %s(tex, uv);\n", d.Texture)
	line(b, "}")
}

// textureFetch samples one unit, clamping each axis whose clamp flag is set
// to [half a texel, clamp limit].
func textureFetch(b *strings.Builder, d Dialect, unit int, clamp [2]bool) {
	v2, v4 := d.vec(2), d.vec(4)
	i := unit
	fmt.Fprintf(b, "%s texSize%d = %s(textureSize(uTex%d, 0));\n", v2, i, v2, i)

	var coord string
	s, t := clamp[0], clamp[1]
	switch {
	case s && t:
		coord = fmt.Sprintf("clamp(vTexCoord%d, 0.5 / texSize%d, %s(vTexClampS%d, vTexClampT%d))", i, i, v2, i, i)
	case s:
		coord = fmt.Sprintf("%s(clamp(vTexCoord%d.s, 0.5 / texSize%d.s, vTexClampS%d), vTexCoord%d.t)", v2, i, i, i, i)
	case t:
		coord = fmt.Sprintf("%s(vTexCoord%d.s, clamp(vTexCoord%d.t, 0.5 / texSize%d.t, vTexClampT%d))", v2, i, i, i, i)
	default:
		coord = fmt.Sprintf("vTexCoord%d", i)
	}
	fmt.Fprintf(b, "%s texVal%d = hookTexture2D(uTex%d, %s, texSize%d);\n", v4, i, i, coord, i)
}

func glslType(d Dialect, size int) string {
	if size == 1 {
		return "float"
	}
	return d.vec(size)
}

func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}
