package cc

import "fmt"

// Term selects the source of one combiner slot.
//
// The first fourteen values are the selectors produced by the display-list
// interpreter. TermNoise is emitted for the RDP noise input and TermReserved
// is the one 4-bit code that has no meaning.
type Term uint8

const (
	TermZero Term = iota
	TermInput1
	TermInput2
	TermInput3
	TermInput4
	TermInput5
	TermInput6
	TermInput7
	TermTexel0
	TermTexel0Alpha
	TermTexel1
	TermTexel1Alpha
	TermOne
	TermCombined
	TermNoise
	TermReserved
)

// MaxInputs is the number of generic vertex inputs a program can reference.
const MaxInputs = 7

var termNames = [...]string{
	TermZero:        "Zero",
	TermInput1:      "Input1",
	TermInput2:      "Input2",
	TermInput3:      "Input3",
	TermInput4:      "Input4",
	TermInput5:      "Input5",
	TermInput6:      "Input6",
	TermInput7:      "Input7",
	TermTexel0:      "Texel0",
	TermTexel0Alpha: "Texel0Alpha",
	TermTexel1:      "Texel1",
	TermTexel1Alpha: "Texel1Alpha",
	TermOne:         "One",
	TermCombined:    "Combined",
	TermNoise:       "Noise",
	TermReserved:    "Reserved",
}

// String returns the term name.
func (t Term) String() string {
	if int(t) < len(termNames) {
		return termNames[t]
	}
	return fmt.Sprintf("Term(%d)", uint8(t))
}

// Valid reports whether t has a defined meaning.
func (t Term) Valid() bool {
	return t < TermReserved
}

// IsInput reports whether t is one of the generic vertex inputs.
func (t Term) IsInput() bool {
	return t >= TermInput1 && t <= TermInput7
}

// InputIndex returns the 1-based input number of an input term, or 0.
func (t Term) InputIndex() int {
	if !t.IsInput() {
		return 0
	}
	return int(t-TermInput1) + 1
}

// Input returns the term for the 1-based generic input n.
// It panics if n is out of range.
func Input(n int) Term {
	if n < 1 || n > MaxInputs {
		panic(fmt.Sprintf("cc: input %d out of range", n))
	}
	return TermInput1 + Term(n-1)
}

// TextureUnit returns the texture unit sampled by t and true, or -1 and
// false when t does not sample a texture.
func (t Term) TextureUnit() (int, bool) {
	switch t {
	case TermTexel0, TermTexel0Alpha:
		return 0, true
	case TermTexel1, TermTexel1Alpha:
		return 1, true
	default:
		return -1, false
	}
}

// Channel identifies the colour or alpha half of a combiner cycle.
type Channel int

const (
	ChannelRGB Channel = iota
	ChannelAlpha
)

// String returns "RGB" or "Alpha".
func (c Channel) String() string {
	if c == ChannelAlpha {
		return "Alpha"
	}
	return "RGB"
}

// Slots of the combiner equation (A - B) * C + D.
const (
	SlotA = iota
	SlotB
	SlotC
	SlotD
)

// Shape is the structural class of one combiner equation.
type Shape uint8

const (
	// ShapeSingle reduces to the D term.
	ShapeSingle Shape = iota
	// ShapeMultiply reduces to A * C.
	ShapeMultiply
	// ShapeMix reduces to an interpolation from B to A by C.
	ShapeMix
	// ShapeGeneral is the full (A - B) * C + D.
	ShapeGeneral
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "Single"
	case ShapeMultiply:
		return "Multiply"
	case ShapeMix:
		return "Mix"
	case ShapeGeneral:
		return "General"
	default:
		return "Unknown"
	}
}

// Classify returns the shape of the equation over slots p.
//
// The checks run in priority order single, multiply, mix, general and the
// first match wins. An equation with A == B is single because (a-a)*c+d
// is d for every c.
func Classify(p [4]Term) Shape {
	a, b, c, d := p[SlotA], p[SlotB], p[SlotC], p[SlotD]
	switch {
	case c == TermZero || a == b:
		return ShapeSingle
	case b == TermZero && d == TermZero:
		return ShapeMultiply
	case b == d:
		return ShapeMix
	default:
		return ShapeGeneral
	}
}
