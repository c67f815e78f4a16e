package gpu

import "strings"

// State is a render-state bitmask applied per draw.
type State uint64

const (
	StateWriteRGB State = 1 << iota
	StateWriteA
	StateWriteZ
	StateDepthTestLess
	StateCullCW
	StateCullCCW
	StateBlendAlpha
	StateMSAA
)

// StateDefault writes color and depth with a less-than depth test and no culling.
const StateDefault = StateWriteRGB | StateWriteA | StateWriteZ | StateDepthTestLess

// Has reports whether all bits in mask are set.
func (s State) Has(mask State) bool {
	return s&mask == mask
}

// Culls reports whether any face culling is enabled.
func (s State) Culls() bool {
	return s&(StateCullCW|StateCullCCW) != 0
}

func (s State) String() string {
	names := []struct {
		bit  State
		name string
	}{
		{StateWriteRGB, "rgb"},
		{StateWriteA, "a"},
		{StateWriteZ, "z"},
		{StateDepthTestLess, "depth-less"},
		{StateCullCW, "cull-cw"},
		{StateCullCCW, "cull-ccw"},
		{StateBlendAlpha, "blend"},
		{StateMSAA, "msaa"},
	}
	var parts []string
	for _, n := range names {
		if s.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
