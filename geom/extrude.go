package geom

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// ExtrudeConfig configures [Builder.NewExtrude].
type ExtrudeConfig struct {
	// Steps is the number of subdivisions along the extrusion depth.
	Steps int
	// Depth of the extrusion along +Z.
	Depth float32
	// CurveSegments is the number of points sampled per curve segment.
	// If zero 12 is used.
	CurveSegments int

	BevelEnabled bool
	// BevelThickness is how far the bevel extends past the front and back faces.
	BevelThickness float32
	// BevelSize is how far the bevel extends outward from the outline.
	BevelSize     float32
	BevelOffset   float32
	BevelSegments int
}

type extrudeLayer struct {
	z, offset float32
}

func (cfg ExtrudeConfig) layers() []extrudeLayer {
	var layers []extrudeLayer
	steps := max(cfg.Steps, 1)
	if !cfg.BevelEnabled {
		for s := 0; s <= steps; s++ {
			layers = append(layers, extrudeLayer{z: cfg.Depth * float32(s) / float32(steps)})
		}
		return layers
	}
	bs := max(cfg.BevelSegments, 1)
	bevel := func(b int) (z, offset float32) {
		t := float32(b) / float32(bs)
		return cfg.BevelThickness * math32.Cos(t*pi/2), cfg.BevelSize*math32.Sin(t*pi/2) + cfg.BevelOffset
	}
	for b := 0; b < bs; b++ {
		z, off := bevel(b)
		layers = append(layers, extrudeLayer{z: -z, offset: off})
	}
	full := cfg.BevelSize + cfg.BevelOffset
	for s := 0; s <= steps; s++ {
		layers = append(layers, extrudeLayer{z: cfg.Depth * float32(s) / float32(steps), offset: full})
	}
	for b := bs - 1; b >= 0; b-- {
		z, off := bevel(b)
		layers = append(layers, extrudeLayer{z: cfg.Depth + z, offset: off})
	}
	return layers
}

// NewExtrude extrudes the shapes along +Z with optional bevelled edges.
// The result is non-indexed with flat normals.
func (bld *Builder) NewExtrude(shapes []Shape, cfg ExtrudeConfig) *Geometry {
	if cfg.Depth < 0 || cfg.Steps < 0 || cfg.BevelSegments < 0 || cfg.CurveSegments < 0 {
		bld.shapeErrorf("negative extrude parameter")
		return &Geometry{}
	}
	if cfg.BevelEnabled && (cfg.BevelThickness < 0 || cfg.BevelSize+cfg.BevelOffset < 0) {
		bld.shapeErrorf("invalid bevel dimensions")
		return &Geometry{}
	}
	divs := cfg.CurveSegments
	if divs == 0 {
		divs = 12
	}
	layers := cfg.layers()
	var pos []ms3.Vec
	var idx []uint32
	for si := range shapes {
		outline, holes := shapes[si].Contours(divs)
		tris, err := Triangulate(outline, holes)
		if err != nil {
			bld.shapeErrorf("extrude shape %d: %s", si, err)
			if len(tris) == 0 {
				continue
			}
		}
		contours := append([][]ms2.Vec{outline}, holes...)
		var flat, miters []ms2.Vec
		for _, c := range contours {
			flat = append(flat, c...)
			miters = appendMiters(miters, c)
		}
		base := len(pos)
		nflat := len(flat)
		for _, l := range layers {
			for i, v := range flat {
				p := ms2.Add(v, ms2.Scale(l.offset, miters[i]))
				pos = append(pos, ms3.Vec{X: p.X, Y: p.Y, Z: l.z})
			}
		}
		last := base + (len(layers)-1)*nflat
		for i := 0; i < len(tris); i += 3 {
			a, b, c := uint32(tris[i]), uint32(tris[i+1]), uint32(tris[i+2])
			// Front face points towards -Z.
			idx = append(idx, uint32(base)+c, uint32(base)+b, uint32(base)+a)
			idx = append(idx, uint32(last)+a, uint32(last)+b, uint32(last)+c)
		}
		start := 0
		for _, c := range contours {
			n := len(c)
			for l := 0; l < len(layers)-1; l++ {
				l0 := base + l*nflat + start
				l1 := l0 + nflat
				for i := 0; i < n; i++ {
					j := (i + 1) % n
					a, b := uint32(l0+i), uint32(l0+j)
					cc, d := uint32(l1+j), uint32(l1+i)
					idx = append(idx, a, b, cc, a, cc, d)
				}
			}
			start += n
		}
	}
	return unindexed(pos, idx)
}

// NewShapeGeometry triangulates the shapes on the XY plane facing +Z.
func (bld *Builder) NewShapeGeometry(shapes []Shape, curveSegments int) *Geometry {
	if curveSegments < 1 {
		bld.shapeErrorf("shape curve segments must be at least 1")
		return &Geometry{}
	}
	var pos []ms3.Vec
	var idx []uint32
	for si := range shapes {
		outline, holes := shapes[si].Contours(curveSegments)
		tris, err := Triangulate(outline, holes)
		if err != nil {
			bld.shapeErrorf("shape %d: %s", si, err)
		}
		base := uint32(len(pos))
		for _, c := range append([][]ms2.Vec{outline}, holes...) {
			for _, v := range c {
				pos = append(pos, ms3.Vec{X: v.X, Y: v.Y})
			}
		}
		for _, t := range tris {
			idx = append(idx, base+uint32(t))
		}
	}
	g := &Geometry{Topology: Triangles, Positions: pos, Indices: idx}
	g.Normals = make([]ms3.Vec, len(pos))
	for i := range g.Normals {
		g.Normals[i] = ms3.Vec{Z: 1}
	}
	return g
}

// appendMiters appends per-vertex offset directions of a closed contour. Moving
// a vertex by s times its miter moves both adjacent edges outward by s, where
// outward is to the right of the direction of travel.
func appendMiters(dst []ms2.Vec, c []ms2.Vec) []ms2.Vec {
	const maxMiter = 4
	n := len(c)
	for i := 0; i < n; i++ {
		prev, cur, next := c[(i+n-1)%n], c[i], c[(i+1)%n]
		n1 := edgeNormal(prev, cur)
		n2 := edgeNormal(cur, next)
		den := 1 + ms2.Dot(n1, n2)
		if den < 1e-3 {
			dst = append(dst, n1)
			continue
		}
		m := ms2.Scale(1/den, ms2.Add(n1, n2))
		if l := ms2.Norm(m); l > maxMiter {
			m = ms2.Scale(maxMiter/l, m)
		}
		dst = append(dst, m)
	}
	return dst
}

func edgeNormal(a, b ms2.Vec) ms2.Vec {
	e := ms2.Sub(b, a)
	l := ms2.Norm(e)
	if l < epstol {
		return ms2.Vec{}
	}
	return ms2.Vec{X: e.Y / l, Y: -e.X / l}
}

// unindexed expands an indexed triangle list so no vertex is shared and
// computes flat normals.
func unindexed(pos []ms3.Vec, idx []uint32) *Geometry {
	out := make([]ms3.Vec, len(idx))
	for i, vi := range idx {
		out[i] = pos[vi]
	}
	g := &Geometry{Topology: Triangles, Positions: out}
	g.ComputeNormals()
	return g
}

func (cfg ExtrudeConfig) String() string {
	return fmt.Sprintf("extrude(depth=%g steps=%d bevel=%t)", cfg.Depth, cfg.Steps, cfg.BevelEnabled)
}
