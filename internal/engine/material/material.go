// Package material turns material descriptions into GPU-bound records.
//
// Materials live in a flat pool; a Handle is the pool index and stays valid
// until Shutdown. Textures come from a resource.Cache and belong to it.
// Placeholders, samplers, uniforms and programs belong to the material.
package material

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

// Slot is a fixed texture unit of the PBR program.
type Slot int

const (
	SlotBaseColor Slot = iota
	SlotMetallicRoughness
	SlotNormal
	SlotOcclusion
	SlotEmissive
	SlotCount
)

var slotNames = [SlotCount]string{"base_color", "metallic_roughness", "normal", "occlusion", "emissive"}

func (s Slot) String() string {
	if s < 0 || s >= SlotCount {
		return "unknown"
	}
	return slotNames[s]
}

// Sampler uniform names per slot.
var samplerNames = [SlotCount]string{"s_baseColor", "s_mr", "s_normal", "s_ao", "s_emissive"}

// SamplerName returns the sampler uniform bound to slot.
func SamplerName(s Slot) string {
	return samplerNames[s]
}

// placeholderColors fill untextured slots: a flat tangent-space normal for
// the normal map, black for emissive, white elsewhere.
var placeholderColors = [SlotCount][4]uint8{
	{255, 255, 255, 255},
	{255, 255, 255, 255},
	{128, 128, 255, 255},
	{255, 255, 255, 255},
	{0, 0, 0, 255},
}

// PlaceholderColor returns the RGBA of the 1x1 texture used when slot is unset.
func PlaceholderColor(s Slot) [4]uint8 {
	return placeholderColors[s]
}

// Flags records which slots hold a real texture.
type Flags uint32

// Has reports whether slot s is textured.
func (f Flags) Has(s Slot) bool {
	return f&(1<<uint(s)) != 0
}

func (f Flags) with(s Slot) Flags {
	return f | 1<<uint(s)
}

// Uniform names uploaded per material.
const (
	UniformBaseColorFactor = "u_baseColorFactor"
	UniformMRFactor        = "u_mrFactor"
	UniformEmissive        = "u_emissive"
	UniformFlags           = "u_matFlags"
)

// Desc describes a material before it is bound to the GPU.
type Desc struct {
	BaseColorFactor mgl32.Vec4
	Metallic        float32
	Roughness       float32
	Emissive        mgl32.Vec3

	BaseColorTexture         string
	MetallicRoughnessTexture string
	NormalTexture            string
	OcclusionTexture         string
	EmissiveTexture          string

	TwoSided bool
}

// DefaultDesc returns an opaque white, fully metallic and rough material.
func DefaultDesc() Desc {
	return Desc{
		BaseColorFactor: mgl32.Vec4{1, 1, 1, 1},
		Metallic:        1,
		Roughness:       1,
	}
}

// TexturePaths returns the texture paths indexed by Slot.
func (d Desc) TexturePaths() [SlotCount]string {
	return [SlotCount]string{
		d.BaseColorTexture,
		d.MetallicRoughnessTexture,
		d.NormalTexture,
		d.OcclusionTexture,
		d.EmissiveTexture,
	}
}

// State returns the render state for the description. Materials always
// draw multisampled; the window decides whether samples exist.
func (d Desc) State() gpu.State {
	s := gpu.StateDefault | gpu.StateMSAA
	if !d.TwoSided {
		s |= gpu.StateCullCW
	}
	return s
}

// Handle identifies a pooled material.
type Handle uint32

// InvalidHandle never names a material.
const InvalidHandle Handle = ^Handle(0)

// Material is a read-only view of a pooled record.
type Material struct {
	Handle   Handle
	Desc     Desc
	Flags    Flags
	State    gpu.State
	Program  gpu.Handle
	Textures [SlotCount]gpu.Handle
	Samplers [SlotCount]gpu.Handle

	uniforms [4]gpu.Handle
}

// HasProgram reports whether a shading program is bound.
func (m Material) HasProgram() bool {
	return m.Program != gpu.InvalidHandle
}

// UniformValues returns the factor and flag uniforms in upload order:
// base color, metallic-roughness, emissive, flags.
func (m Material) UniformValues() [4]mgl32.Vec4 {
	d := m.Desc
	return [4]mgl32.Vec4{
		d.BaseColorFactor,
		{d.Metallic, d.Roughness, 0, 0},
		d.Emissive.Vec4(0),
		{float32(m.Flags), 0, 0, 0},
	}
}

// BindTextures binds every slot to its fixed texture unit.
func (m Material) BindTextures(dev gpu.Device) {
	for s := Slot(0); s < SlotCount; s++ {
		dev.SetTexture(uint8(s), m.Samplers[s], m.Textures[s])
	}
}

// BindUniforms uploads the factor and flag uniforms.
func (m Material) BindUniforms(dev gpu.Device) {
	values := m.UniformValues()
	for i, u := range m.uniforms {
		if u != gpu.InvalidHandle {
			dev.SetUniform(u, values[i])
		}
	}
}
