package shadergen

import (
	"strings"

	"github.com/gogpu/fast3d/cc"
)

// formula renders one combiner equation over slots p with the given shape.
func formula(b *strings.Builder, p [4]cc.Term, shape cc.Shape, ctx TermContext, d Dialect) {
	term := func(slot int) string {
		c := ctx
		c.Scalar = slot == cc.SlotC
		return TermText(p[slot], c, d)
	}

	switch shape {
	case cc.ShapeSingle:
		b.WriteString(term(cc.SlotD))
	case cc.ShapeMultiply:
		b.WriteString(term(cc.SlotA))
		b.WriteString(" * ")
		b.WriteString(term(cc.SlotC))
	case cc.ShapeMix:
		b.WriteString(d.Lerp)
		b.WriteString("(")
		b.WriteString(term(cc.SlotB))
		b.WriteString(", ")
		b.WriteString(term(cc.SlotA))
		b.WriteString(", ")
		b.WriteString(term(cc.SlotC))
		b.WriteString(")")
	default:
		b.WriteString("(")
		b.WriteString(term(cc.SlotA))
		b.WriteString(" - ")
		b.WriteString(term(cc.SlotB))
		b.WriteString(") * ")
		b.WriteString(term(cc.SlotC))
		b.WriteString(" + ")
		b.WriteString(term(cc.SlotD))
	}
}

// Formula returns the expression for one (cycle, channel) equation of f as
// it appears in the fragment stage.
func Formula(f cc.Features, cycle int, ch cc.Channel, ctx TermContext, d Dialect) string {
	var b strings.Builder
	formula(&b, f.C[cycle][ch], f.Shape[cycle][ch], ctx, d)
	return b.String()
}

// cycleAssignment writes "texel = ...;" for one cycle.
func cycleAssignment(b *strings.Builder, f cc.Features, cycle int, d Dialect) {
	b.WriteString("texel = ")
	if !f.ColorAlphaSame[cycle] && f.Alpha {
		b.WriteString(d.vec(4))
		b.WriteString("(")
		formula(b, f.C[cycle][cc.ChannelRGB], f.Shape[cycle][cc.ChannelRGB],
			TermContext{InputsHaveAlpha: true}, d)
		b.WriteString(", ")
		formula(b, f.C[cycle][cc.ChannelAlpha], f.Shape[cycle][cc.ChannelAlpha],
			TermContext{WithAlpha: true, OnlyAlpha: true, InputsHaveAlpha: true}, d)
		b.WriteString(")")
	} else {
		formula(b, f.C[cycle][cc.ChannelRGB], f.Shape[cycle][cc.ChannelRGB],
			TermContext{WithAlpha: f.Alpha, InputsHaveAlpha: f.Alpha}, d)
	}
	b.WriteString(";\n")
}
