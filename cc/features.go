package cc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by this package.
var (
	// ErrReservedTerm is returned by Features.Validate when an active
	// combiner slot holds the reserved selector code.
	ErrReservedTerm = errors.New("cc: reserved combiner term")

	// ErrInvalidShaderID is returned when a textual shader id cannot be parsed.
	ErrInvalidShaderID = errors.New("cc: invalid shader id")
)

// Option bits of ShaderID.ID1.
const (
	OptAlpha          uint32 = 1 << 0
	OptFog            uint32 = 1 << 1
	OptTextureEdge    uint32 = 1 << 2
	OptNoise          uint32 = 1 << 3
	OptTwoCycle       uint32 = 1 << 4
	OptAlphaThreshold uint32 = 1 << 5
	OptInvisible      uint32 = 1 << 6
	OptGrayscale      uint32 = 1 << 7
	OptTexel0ClampS   uint32 = 1 << 8
	OptTexel0ClampT   uint32 = 1 << 9
	OptTexel1ClampS   uint32 = 1 << 10
	OptTexel1ClampT   uint32 = 1 << 11
)

// clampBits is indexed by texture unit and axis (S, T).
var clampBits = [2][2]uint32{
	{OptTexel0ClampS, OptTexel0ClampT},
	{OptTexel1ClampS, OptTexel1ClampT},
}

// ShaderID is the packed combiner configuration used as the program cache key.
//
// ID0 holds the 32 selectors: the selector for (cycle, channel, slot) is
// the 4-bit field at bit cycle*32 + channel*16 + slot*4. ID1 holds the
// Opt* flags.
type ShaderID struct {
	ID0 uint64
	ID1 uint32
}

// String formats the id as "<id0>:<id1>" in hex.
func (id ShaderID) String() string {
	return fmt.Sprintf("%016x:%08x", id.ID0, id.ID1)
}

// ParseShaderID parses the format produced by ShaderID.String. A "0x"
// prefix on either half is accepted.
func ParseShaderID(s string) (ShaderID, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ShaderID{}, fmt.Errorf("%w: %q: missing ':'", ErrInvalidShaderID, s)
	}
	id0, err := strconv.ParseUint(trimHex(lo), 16, 64)
	if err != nil {
		return ShaderID{}, fmt.Errorf("%w: id0: %w", ErrInvalidShaderID, err)
	}
	id1, err := strconv.ParseUint(trimHex(hi), 16, 32)
	if err != nil {
		return ShaderID{}, fmt.Errorf("%w: id1: %w", ErrInvalidShaderID, err)
	}
	return ShaderID{ID0: id0, ID1: uint32(id1)}, nil
}

func trimHex(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// Features is the decoded form of a ShaderID.
//
// Features is comparable; two decodes of the same id compare equal.
type Features struct {
	// C holds the selectors indexed by cycle, channel and slot.
	C [2][2][4]Term

	Alpha          bool
	Fog            bool
	TextureEdge    bool
	Noise          bool
	TwoCycle       bool
	AlphaThreshold bool
	Invisible      bool
	Grayscale      bool

	// Clamp is indexed by texture unit and axis (0 = S, 1 = T).
	Clamp [2][2]bool

	UsedTextures [2]bool

	// NumInputs is the highest generic input referenced by any selector.
	NumInputs int

	// Shape is indexed by cycle and channel.
	Shape [2][2]Shape

	// ColorAlphaSame reports, per cycle, that the RGB and alpha selectors
	// are identical so a single four-component formula can be emitted.
	ColorAlphaSame [2]bool
}

// Decode extracts the feature set of id. It is total: every bit pattern
// yields a well-formed record.
func Decode(id ShaderID) Features {
	var f Features

	for c := 0; c < 2; c++ {
		for ch := 0; ch < 2; ch++ {
			for s := 0; s < 4; s++ {
				f.C[c][ch][s] = Term(id.ID0 >> selectorShift(c, ch, s) & 0xf)
			}
		}
	}

	f.Alpha = id.ID1&OptAlpha != 0
	f.Fog = id.ID1&OptFog != 0
	f.TextureEdge = id.ID1&OptTextureEdge != 0
	f.Noise = id.ID1&OptNoise != 0
	f.TwoCycle = id.ID1&OptTwoCycle != 0
	f.AlphaThreshold = id.ID1&OptAlphaThreshold != 0
	f.Invisible = id.ID1&OptInvisible != 0
	f.Grayscale = id.ID1&OptGrayscale != 0
	for unit := 0; unit < 2; unit++ {
		for axis := 0; axis < 2; axis++ {
			f.Clamp[unit][axis] = id.ID1&clampBits[unit][axis] != 0
		}
	}

	for c := 0; c < 2; c++ {
		for ch := 0; ch < 2; ch++ {
			for _, t := range f.C[c][ch] {
				if n := t.InputIndex(); n > f.NumInputs {
					f.NumInputs = n
				}
				if unit, ok := t.TextureUnit(); ok {
					f.UsedTextures[unit] = true
				}
			}
			f.Shape[c][ch] = Classify(f.C[c][ch])
		}
		rgb := id.ID0 >> (c * 32) & 0xffff
		alpha := id.ID0 >> (c*32 + 16) & 0xffff
		f.ColorAlphaSame[c] = rgb == alpha
	}

	return f
}

func selectorShift(cycle, channel, slot int) uint {
	return uint(cycle*32 + channel*16 + slot*4)
}

// Cycles returns the number of active combiner cycles.
func (f *Features) Cycles() int {
	if f.TwoCycle {
		return 2
	}
	return 1
}

// UsesTerm reports whether any selector of an active cycle equals t.
func (f *Features) UsesTerm(t Term) bool {
	for c := 0; c < f.Cycles(); c++ {
		for ch := 0; ch < 2; ch++ {
			for _, s := range f.C[c][ch] {
				if s == t {
					return true
				}
			}
		}
	}
	return false
}

// Validate reports selectors of active cycles that have no defined meaning.
func (f *Features) Validate() error {
	for c := 0; c < f.Cycles(); c++ {
		for ch := 0; ch < 2; ch++ {
			for s, t := range f.C[c][ch] {
				if !t.Valid() {
					return fmt.Errorf("%w: cycle %d %s slot %c", ErrReservedTerm, c, Channel(ch), 'A'+rune(s))
				}
			}
		}
	}
	return nil
}
