package textmesh

import (
	"github.com/soypat/gshapes/geom"
)

// TextConfig configures [Font.Extrude].
type TextConfig struct {
	// Size is the height of one em in world units.
	Size float32
	// Depth is the extrusion depth.
	Depth         float32
	CurveSegments int

	BevelEnabled   bool
	BevelThickness float32
	BevelSize      float32
	BevelOffset    float32
	BevelSegments  int
}

// Extrude generates a solid line of text. Parameter errors are reported
// through bld as with any other generator.
func (f *Font) Extrude(bld *geom.Builder, s string, cfg TextConfig) (*geom.Geometry, error) {
	shapes, err := f.TextLine(s, cfg.Size)
	if err != nil {
		return nil, err
	}
	return bld.NewExtrude(shapes, geom.ExtrudeConfig{
		Steps:          1,
		Depth:          cfg.Depth,
		CurveSegments:  cfg.CurveSegments,
		BevelEnabled:   cfg.BevelEnabled,
		BevelThickness: cfg.BevelThickness,
		BevelSize:      cfg.BevelSize,
		BevelOffset:    cfg.BevelOffset,
		BevelSegments:  cfg.BevelSegments,
	}), nil
}
