// Package shadergen turns decoded combiner features into shader source.
//
// Synthesize emits a vertex stage that forwards every attribute and a
// fragment stage that samples the used textures, evaluates one or two
// combiner cycles and applies the per-draw options (fog, texture-edge alpha
// test, alpha threshold, invisible, noise dithering, grayscale tint).
//
// The generator is written once against a Dialect token table. GLSL130,
// GLSL410 and GLSLES300 are predefined; a backend picks the one its
// context accepts.
//
// Layout returns the attribute order shared by the generator and the
// program cache, so the interleaved vertex buffer a renderer builds always
// matches the declarations in the vertex stage.
package shadergen
