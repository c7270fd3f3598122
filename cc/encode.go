package cc

// Params are the four slots of one combiner equation (A - B) * C + D.
type Params struct{ A, B, C, D Term }

// Slots returns the parameters in slot order.
func (p Params) Slots() [4]Term {
	return [4]Term{p.A, p.B, p.C, p.D}
}

// Cycle is one combiner pass with separate colour and alpha equations.
type Cycle struct{ RGB, Alpha Params }

// Combiner describes a full combiner configuration. It is the structured
// counterpart of ShaderID and is mostly used by tools and tests.
type Combiner struct {
	One, Two Cycle

	// Options is a mask of Opt* flags. OptTwoCycle is derived from
	// TwoCycle by Encode.
	Options  uint32
	TwoCycle bool
}

// Encode packs c into a ShaderID.
func (c Combiner) Encode() ShaderID {
	var id ShaderID
	for ci, cycle := range [2]Cycle{c.One, c.Two} {
		for ch, p := range [2]Params{cycle.RGB, cycle.Alpha} {
			for s, t := range p.Slots() {
				id.ID0 |= uint64(t&0xf) << selectorShift(ci, ch, s)
			}
		}
	}
	id.ID1 = c.Options &^ OptTwoCycle
	if c.TwoCycle {
		id.ID1 |= OptTwoCycle
	}
	return id
}

// Same returns Params usable for both channels of a cycle.
func Same(p Params) Cycle {
	return Cycle{RGB: p, Alpha: p}
}
