package cc

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestDecodeSelectors(t *testing.T) {
	c := Combiner{
		One: Cycle{
			RGB:   Params{A: TermTexel0, B: TermInput1, C: TermInput2, D: TermInput3},
			Alpha: Params{A: TermTexel1, B: TermZero, C: TermOne, D: TermCombined},
		},
		Two: Cycle{
			RGB:   Params{A: TermCombined, B: TermZero, C: TermInput7, D: TermZero},
			Alpha: Params{A: TermZero, B: TermZero, C: TermZero, D: TermCombined},
		},
		TwoCycle: true,
	}
	f := Decode(c.Encode())

	want := [2][2][4]Term{
		{c.One.RGB.Slots(), c.One.Alpha.Slots()},
		{c.Two.RGB.Slots(), c.Two.Alpha.Slots()},
	}
	if f.C != want {
		t.Errorf("C = %v, want %v", f.C, want)
	}
	if !f.TwoCycle || f.Cycles() != 2 {
		t.Errorf("TwoCycle = %v, Cycles() = %d", f.TwoCycle, f.Cycles())
	}
	if f.NumInputs != 7 {
		t.Errorf("NumInputs = %d, want 7", f.NumInputs)
	}
	if f.UsedTextures != [2]bool{true, true} {
		t.Errorf("UsedTextures = %v, want both", f.UsedTextures)
	}
}

func TestDecodeBitLayout(t *testing.T) {
	// Cycle 1 alpha slot D is the top nibble.
	f := Decode(ShaderID{ID0: uint64(TermOne) << 60})
	if got := f.C[1][ChannelAlpha][SlotD]; got != TermOne {
		t.Errorf("C[1][Alpha][D] = %v, want One", got)
	}
	// Cycle 0 RGB slot C is bits 8..11.
	f = Decode(ShaderID{ID0: uint64(TermTexel1Alpha) << 8})
	if got := f.C[0][ChannelRGB][SlotC]; got != TermTexel1Alpha {
		t.Errorf("C[0][RGB][C] = %v, want Texel1Alpha", got)
	}
	if !f.UsedTextures[1] || f.UsedTextures[0] {
		t.Errorf("UsedTextures = %v, want [false true]", f.UsedTextures)
	}
}

func TestDecodeOptions(t *testing.T) {
	tests := []struct {
		name string
		bits uint32
		get  func(Features) bool
	}{
		{"alpha", OptAlpha, func(f Features) bool { return f.Alpha }},
		{"fog", OptFog, func(f Features) bool { return f.Fog }},
		{"texture edge", OptTextureEdge, func(f Features) bool { return f.TextureEdge }},
		{"noise", OptNoise, func(f Features) bool { return f.Noise }},
		{"two cycle", OptTwoCycle, func(f Features) bool { return f.TwoCycle }},
		{"alpha threshold", OptAlphaThreshold, func(f Features) bool { return f.AlphaThreshold }},
		{"invisible", OptInvisible, func(f Features) bool { return f.Invisible }},
		{"grayscale", OptGrayscale, func(f Features) bool { return f.Grayscale }},
		{"clamp 0 s", OptTexel0ClampS, func(f Features) bool { return f.Clamp[0][0] }},
		{"clamp 0 t", OptTexel0ClampT, func(f Features) bool { return f.Clamp[0][1] }},
		{"clamp 1 s", OptTexel1ClampS, func(f Features) bool { return f.Clamp[1][0] }},
		{"clamp 1 t", OptTexel1ClampT, func(f Features) bool { return f.Clamp[1][1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.get(Decode(ShaderID{ID1: 0})) {
				t.Error("flag set with empty id1")
			}
			if !tt.get(Decode(ShaderID{ID1: tt.bits})) {
				t.Error("flag not set")
			}
			if !tt.get(Decode(ShaderID{ID1: 0xffffffff})) {
				t.Error("flag not set with all bits")
			}
		})
	}
}

func TestDecodeIsPure(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		id := ShaderID{ID0: rng.Uint64(), ID1: rng.Uint32()}
		a, b := Decode(id), Decode(id)
		if a != b {
			t.Fatalf("Decode(%v) not deterministic", id)
		}
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want Shape
	}{
		{"c zero", Params{TermTexel0, TermInput1, TermZero, TermInput2}, ShapeSingle},
		{"a equals b", Params{TermInput3, TermInput3, TermTexel0, TermInput2}, ShapeSingle},
		// Single wins over multiply when both match.
		{"all zero", Params{TermZero, TermZero, TermZero, TermZero}, ShapeSingle},
		// (input1 - 0) * texel0 + 0 is a multiply, not the general form:
		// b and d are both zero, so the shorter a * c is emitted.
		{"multiply", Params{TermInput1, TermZero, TermTexel0, TermZero}, ShapeMultiply},
		// Multiply wins over mix: b == d == zero matches both.
		{"multiply over mix", Params{TermTexel0, TermZero, TermTexel1, TermZero}, ShapeMultiply},
		{"mix", Params{TermTexel0, TermInput1, TermTexel0Alpha, TermInput1}, ShapeMix},
		{"general", Params{TermTexel0, TermInput1, TermInput2, TermInput3}, ShapeGeneral},
		{"general d nonzero", Params{TermInput1, TermZero, TermTexel0, TermOne}, ShapeGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.p.Slots()); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestClassifyNeutralSlotsIsSingle(t *testing.T) {
	for _, neutral := range []Term{TermZero, TermOne} {
		for d := TermZero; d < TermReserved; d++ {
			p := [4]Term{neutral, neutral, neutral, d}
			if got := Classify(p); got != ShapeSingle {
				t.Errorf("Classify(%v) = %v, want Single", p, got)
			}
		}
	}
}

func TestDecodeShapeAndSameFlags(t *testing.T) {
	c := Combiner{
		One: Cycle{
			RGB:   Params{A: TermInput1, B: TermZero, C: TermTexel0, D: TermZero},
			Alpha: Params{A: TermZero, B: TermZero, C: TermZero, D: TermInput1},
		},
		Two:     Same(Params{A: TermTexel0, B: TermInput2, C: TermInput3, D: TermInput2}),
		Options: OptAlpha,
	}
	f := Decode(c.Encode())
	if f.Shape[0][ChannelRGB] != ShapeMultiply {
		t.Errorf("Shape[0][RGB] = %v, want Multiply", f.Shape[0][ChannelRGB])
	}
	if f.Shape[0][ChannelAlpha] != ShapeSingle {
		t.Errorf("Shape[0][Alpha] = %v, want Single", f.Shape[0][ChannelAlpha])
	}
	if f.Shape[1][ChannelRGB] != ShapeMix {
		t.Errorf("Shape[1][RGB] = %v, want Mix", f.Shape[1][ChannelRGB])
	}
	if f.ColorAlphaSame[0] {
		t.Error("ColorAlphaSame[0] = true, want false")
	}
	if !f.ColorAlphaSame[1] {
		t.Error("ColorAlphaSame[1] = false, want true")
	}
}

func TestNumInputsIgnoresNonInputs(t *testing.T) {
	c := Combiner{One: Same(Params{A: TermTexel0, B: TermCombined, C: TermOne, D: TermNoise})}
	f := Decode(c.Encode())
	if f.NumInputs != 0 {
		t.Errorf("NumInputs = %d, want 0", f.NumInputs)
	}
	if !f.UsesTerm(TermNoise) {
		t.Error("UsesTerm(Noise) = false")
	}
}

func TestValidate(t *testing.T) {
	ok := Combiner{One: Same(Params{A: TermTexel0, D: TermInput1})}.Encode()
	f := Decode(ok)
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	bad := Combiner{One: Cycle{RGB: Params{C: TermReserved}}}.Encode()
	f = Decode(bad)
	if err := f.Validate(); !errors.Is(err, ErrReservedTerm) {
		t.Errorf("Validate() = %v, want ErrReservedTerm", err)
	}

	// A reserved code in the inactive second cycle is ignored.
	idle := Combiner{Two: Cycle{Alpha: Params{A: TermReserved}}}.Encode()
	f = Decode(idle)
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() with idle cycle = %v, want nil", err)
	}
}

func TestParseShaderID(t *testing.T) {
	id := ShaderID{ID0: 0x0123456789abcdef, ID1: 0x00000f1d}
	got, err := ParseShaderID(id.String())
	if err != nil {
		t.Fatalf("ParseShaderID(%q) error = %v", id.String(), err)
	}
	if got != id {
		t.Errorf("ParseShaderID(%q) = %v, want %v", id.String(), got, id)
	}

	got, err = ParseShaderID("0x1f:0x3")
	if err != nil {
		t.Fatalf("ParseShaderID error = %v", err)
	}
	if got != (ShaderID{ID0: 0x1f, ID1: 3}) {
		t.Errorf("ParseShaderID(0x1f:0x3) = %v", got)
	}

	for _, s := range []string{"", "12", "zz:1", "1:100000000"} {
		if _, err := ParseShaderID(s); !errors.Is(err, ErrInvalidShaderID) {
			t.Errorf("ParseShaderID(%q) error = %v, want ErrInvalidShaderID", s, err)
		}
	}
}

func TestTermHelpers(t *testing.T) {
	if Input(3) != TermInput3 {
		t.Errorf("Input(3) = %v", Input(3))
	}
	if TermInput5.InputIndex() != 5 || TermTexel0.InputIndex() != 0 {
		t.Error("InputIndex mismatch")
	}
	if TermReserved.Valid() || !TermNoise.Valid() {
		t.Error("Valid mismatch")
	}
	if TermTexel1Alpha.String() != "Texel1Alpha" {
		t.Errorf("String() = %q", TermTexel1Alpha.String())
	}
	if Term(20).String() != "Term(20)" {
		t.Errorf("String() = %q", Term(20).String())
	}
}
