package shadergen

import (
	"fmt"

	"github.com/gogpu/fast3d/cc"
)

// Attribute is one vertex input of a generated program. Vertex data is
// interleaved float32 in Layout order.
type Attribute struct {
	Name string
	Size int
}

// Attribute names shared by the generator and the program cache.
const (
	AttrPosition  = "aVtxPos"
	AttrFog       = "aFog"
	AttrGrayscale = "aGrayscaleColor"
)

var axisNames = [2]string{"S", "T"}

// AttrTexCoord returns the texture coordinate attribute of unit.
func AttrTexCoord(unit int) string { return fmt.Sprintf("aTexCoord%d", unit) }

// AttrTexClamp returns the clamp attribute of unit along axis (0 = S, 1 = T).
func AttrTexClamp(unit, axis int) string {
	return fmt.Sprintf("aTexClamp%s%d", axisNames[axis], unit)
}

// AttrInput returns the attribute of the 1-based generic input n.
func AttrInput(n int) string { return fmt.Sprintf("aInput%d", n) }

// Layout returns the vertex attributes required by f in their fixed order:
// position, then per used texture unit its coordinates and clamp scalars,
// then fog, grayscale and the generic inputs.
func Layout(f cc.Features) []Attribute {
	attrs := []Attribute{{Name: AttrPosition, Size: 4}}
	for unit := 0; unit < 2; unit++ {
		if !f.UsedTextures[unit] {
			continue
		}
		attrs = append(attrs, Attribute{Name: AttrTexCoord(unit), Size: 2})
		for axis := 0; axis < 2; axis++ {
			if f.Clamp[unit][axis] {
				attrs = append(attrs, Attribute{Name: AttrTexClamp(unit, axis), Size: 1})
			}
		}
	}
	if f.Fog {
		attrs = append(attrs, Attribute{Name: AttrFog, Size: 4})
	}
	if f.Grayscale {
		attrs = append(attrs, Attribute{Name: AttrGrayscale, Size: 4})
	}
	for i := 1; i <= f.NumInputs; i++ {
		attrs = append(attrs, Attribute{Name: AttrInput(i), Size: inputSize(f)})
	}
	return attrs
}

// Stride returns the number of floats per vertex for attrs.
func Stride(attrs []Attribute) int {
	n := 0
	for _, a := range attrs {
		n += a.Size
	}
	return n
}

func inputSize(f cc.Features) int {
	if f.Alpha {
		return 4
	}
	return 3
}

// varying returns the stage-output name for an attribute name.
func varying(attr string) string {
	return "v" + attr[1:]
}
