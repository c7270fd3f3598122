package shadergen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDialect is returned by DialectByName for unregistered names.
var ErrUnknownDialect = errors.New("shadergen: unknown dialect")

// Dialect is the token table for one shading-language flavour. The
// generator is written once against these tokens.
type Dialect struct {
	// Name identifies the dialect in configuration and logs.
	Name string

	// VertexVersion and FragmentVersion are the first lines of each stage.
	VertexVersion   string
	FragmentVersion string

	// Precision is an optional default-precision statement for the fragment stage.
	Precision string

	// Storage qualifiers for stage inputs and outputs.
	VertexInput   string
	VertexOutput  string
	FragmentInput string

	// FragmentOutput declares the colour output variable. It is empty when
	// FragColor is a builtin.
	FragmentOutput string
	FragColor      string

	// Texture is the 2D sampling intrinsic.
	Texture string

	// Vec is the float vector type prefix ("vec" gives vec2, vec3, vec4).
	Vec string

	Lerp  string
	Mod   string
	Fract string
}

// Predefined dialects.
var (
	// GLSL130 targets legacy desktop contexts: attribute/varying qualifiers
	// and the gl_FragColor builtin.
	GLSL130 = Dialect{
		Name:            "glsl130",
		VertexVersion:   "#version 110",
		FragmentVersion: "#version 130",
		VertexInput:     "attribute",
		VertexOutput:    "varying",
		FragmentInput:   "varying",
		FragColor:       "gl_FragColor",
		Texture:         "texture2D",
		Vec:             "vec",
		Lerp:            "mix",
		Mod:             "mod",
		Fract:           "fract",
	}

	// GLSL410 targets core profile contexts, including macOS.
	GLSL410 = Dialect{
		Name:            "glsl410",
		VertexVersion:   "#version 410 core",
		FragmentVersion: "#version 410 core",
		VertexInput:     "in",
		VertexOutput:    "out",
		FragmentInput:   "in",
		FragmentOutput:  "out vec4 outColor;",
		FragColor:       "outColor",
		Texture:         "texture",
		Vec:             "vec",
		Lerp:            "mix",
		Mod:             "mod",
		Fract:           "fract",
	}

	// GLSLES300 targets OpenGL ES 3.0 and WebGL 2.
	GLSLES300 = Dialect{
		Name:            "glsles300",
		VertexVersion:   "#version 300 es",
		FragmentVersion: "#version 300 es",
		Precision:       "precision highp float;",
		VertexInput:     "in",
		VertexOutput:    "out",
		FragmentInput:   "in",
		FragmentOutput:  "out vec4 outColor;",
		FragColor:       "outColor",
		Texture:         "texture",
		Vec:             "vec",
		Lerp:            "mix",
		Mod:             "mod",
		Fract:           "fract",
	}
)

var dialects = []Dialect{GLSL130, GLSL410, GLSLES300}

// Dialects returns the predefined dialects.
func Dialects() []Dialect {
	out := make([]Dialect, len(dialects))
	copy(out, dialects)
	return out
}

// DialectByName returns the predefined dialect with the given name.
// The comparison is case-insensitive.
func DialectByName(name string) (Dialect, error) {
	for _, d := range dialects {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// vec returns the n-component vector type name.
func (d Dialect) vec(n int) string {
	return fmt.Sprintf("%s%d", d.Vec, n)
}
