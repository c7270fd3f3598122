package shadergen

import (
	"fmt"
	"strings"
)

// Filter is the global texture filtering mode.
type Filter int

const (
	// FilterThreePoint emulates the N64 three-sample bilinear filter in the
	// fragment stage. Samplers are set to nearest so the shader sees texels.
	FilterThreePoint Filter = iota

	// FilterLinear uses the sampler's bilinear filtering.
	FilterLinear

	// FilterNone samples the nearest texel.
	FilterNone
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterThreePoint:
		return "three-point"
	case FilterLinear:
		return "linear"
	case FilterNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseFilter parses the names produced by Filter.String.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "three-point", "threepoint", "3point":
		return FilterThreePoint, nil
	case "linear":
		return FilterLinear, nil
	case "none", "nearest":
		return FilterNone, nil
	default:
		return 0, fmt.Errorf("shadergen: unknown filter %q", s)
	}
}
