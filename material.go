package gshapes

import (
	"math/rand/v2"
)

// Shading selects how a material is drawn.
type Shading uint8

const (
	// Phong is lit by the scene lights.
	Phong Shading = iota
	// LineBasic draws unlit line segments.
	LineBasic
	// PointsBasic draws unlit points of a world sized square.
	PointsBasic
)

func (s Shading) String() string {
	switch s {
	case Phong:
		return "phong"
	case LineBasic:
		return "line"
	case PointsBasic:
		return "points"
	}
	return "unknown shading"
}

// Material describes the surface appearance of a node. Materials are values
// so every node owns its copy.
type Material struct {
	Shading Shading
	Color   Color
	// DoubleSided disables back face culling.
	DoubleSided bool
	// Size is the point size in world units.
	Size float32
}

// MaterialFactory creates materials. Random hues are drawn from the
// factory's own source so a seeded factory produces the same colors.
// A MaterialFactory must not be used concurrently.
type MaterialFactory struct {
	rng *rand.Rand
}

// NewMaterialFactory returns a factory drawing hues from rng. A nil rng
// selects a randomly seeded source.
func NewMaterialFactory(rng *rand.Rand) *MaterialFactory {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &MaterialFactory{rng: rng}
}

// NewSeededMaterialFactory returns a factory with a deterministic hue sequence.
func NewSeededMaterialFactory(seed uint64) *MaterialFactory {
	return NewMaterialFactory(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Shaded returns a double sided lit material with a random vivid color:
// uniform hue, full saturation and mid luminance.
func (mf *MaterialFactory) Shaded() Material {
	return Material{
		Shading:     Phong,
		Color:       HSL(mf.rng.Float32(), 1, 0.5),
		DoubleSided: true,
	}
}

// Line returns a black line material.
func (mf *MaterialFactory) Line() Material {
	return Material{Shading: LineBasic, Color: 0x000000}
}

// Fixed returns a single sided lit material of the given color.
func (mf *MaterialFactory) Fixed(c Color) Material {
	return Material{Shading: Phong, Color: c}
}

// Points returns a point material with the given size in world units.
func (mf *MaterialFactory) Points(c Color, size float32) Material {
	return Material{Shading: PointsBasic, Color: c, Size: size}
}
