package pipeline

import "fmt"

// DrawKey orders draw submissions. Pass occupies the top 8 bits, material
// the next 24 and quantized depth the low 32, so comparing keys as integers
// groups by pass, then material, then front to back.
type DrawKey uint64

const (
	passShift     = 56
	materialShift = 32
	materialMask  = 0xFFFFFF
	depthMask     = 0xFFFFFFFF
)

// MakeDrawKey packs a key. Material ids wider than 24 bits are truncated.
func MakeDrawKey(pass uint8, material uint32, depth uint32) DrawKey {
	return DrawKey(uint64(pass)<<passShift |
		uint64(material&materialMask)<<materialShift |
		uint64(depth))
}

// Pass returns the pass id.
func (k DrawKey) Pass() uint8 {
	return uint8(k >> passShift)
}

// Material returns the 24-bit material id.
func (k DrawKey) Material() uint32 {
	return uint32(k>>materialShift) & materialMask
}

// Depth returns the quantized depth.
func (k DrawKey) Depth() uint32 {
	return uint32(k & depthMask)
}

func (k DrawKey) String() string {
	return fmt.Sprintf("%016x(pass=%d material=%d depth=%d)", uint64(k), k.Pass(), k.Material(), k.Depth())
}
