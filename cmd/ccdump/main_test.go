package main

import (
	"strings"
	"testing"

	"github.com/gogpu/fast3d/cc"
	"github.com/gogpu/fast3d/shadergen"
)

func TestPrintFeatures(t *testing.T) {
	id := cc.Combiner{
		One:      cc.Same(cc.Params{A: cc.TermTexel0, C: cc.TermInput1}),
		Two:      cc.Same(cc.Params{D: cc.TermCombined}),
		Options:  cc.OptAlpha,
		TwoCycle: true,
	}.Encode()

	var b strings.Builder
	printFeatures(&b, id, cc.Decode(id))
	out := b.String()

	for _, want := range []string{
		"cycles    2",
		"inputs    1",
		"textures  [true false]",
		"cycle 1 same rgb/alpha: true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompileProgram(t *testing.T) {
	id := cc.Combiner{One: cc.Same(cc.Params{D: cc.TermInput1})}.Encode()

	var b strings.Builder
	if err := compileProgram(&b, id, shadergen.GLSL410, shadergen.FilterNone); err != nil {
		t.Fatalf("compileProgram() error = %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "stride 7 floats") {
		t.Errorf("output missing stride:\n%s", out)
	}
	for _, name := range []string{shadergen.AttrPosition, shadergen.AttrInput(1)} {
		if !strings.Contains(out, name) {
			t.Errorf("output missing attribute %s:\n%s", name, out)
		}
	}
}
