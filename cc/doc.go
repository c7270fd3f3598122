// Package cc decodes packed colour-combiner shader ids.
//
// A combiner cycle evaluates (A - B) * C + D separately for colour and alpha.
// Up to two cycles run per pixel; the second can read the result of the
// first through TermCombined. The display-list interpreter packs the
// selectors of both cycles into a 64-bit word and the per-draw options into
// a 32-bit word, together a ShaderID.
//
// Decode turns a ShaderID into Features, which is everything the shader
// generator needs: the selectors, the option flags, which textures and
// how many vertex inputs are referenced, and the structural Shape of each
// equation so trivial cases can be emitted as shorter expressions.
//
//	id := cc.Combiner{
//		One:     cc.Same(cc.Params{A: cc.TermTexel0, B: cc.TermZero, C: cc.TermInput1, D: cc.TermZero}),
//		Options: cc.OptAlpha,
//	}.Encode()
//	f := cc.Decode(id)
//	// f.Shape[0][cc.ChannelRGB] == cc.ShapeMultiply
package cc
