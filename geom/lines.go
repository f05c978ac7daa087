package geom

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Edges returns a line geometry with the edges of g where adjacent face
// normals differ by more than thresholdDeg degrees. Edges that belong to a
// single face are always included. A box yields its 12 outline edges.
func (bld *Builder) Edges(g *Geometry, thresholdDeg float32) *Geometry {
	if g == nil || g.Topology != Triangles {
		bld.shapeErrorf("edges requires a triangle geometry")
		return &Geometry{Topology: Lines}
	}
	const precision = 1e4
	type vkey [3]int32
	type ekey [2]vkey
	type edge struct {
		a, b   ms3.Vec
		normal ms3.Vec
		face   int
	}
	hash := func(v ms3.Vec) vkey {
		return vkey{
			int32(math32.Round(v.X * precision)),
			int32(math32.Round(v.Y * precision)),
			int32(math32.Round(v.Z * precision)),
		}
	}
	cosThresh := math32.Cos(thresholdDeg * pi / 180)
	pending := make(map[ekey]*edge)
	var order []ekey // Keeps output deterministic.
	var pos []ms3.Vec
	ntri := g.NumPrimitives()
	for i := 0; i < ntri; i++ {
		t := g.Triangle(i)
		keys := [3]vkey{hash(t[0]), hash(t[1]), hash(t[2])}
		if keys[0] == keys[1] || keys[1] == keys[2] || keys[2] == keys[0] {
			continue // Degenerate.
		}
		n := FaceNormal(t)
		for j := 0; j < 3; j++ {
			k := (j + 1) % 3
			fwd := ekey{keys[j], keys[k]}
			rev := ekey{keys[k], keys[j]}
			if e, ok := pending[rev]; ok && e != nil {
				if ms3.Dot(n, e.normal) <= cosThresh {
					pos = append(pos, e.a, e.b)
				}
				pending[rev] = nil
				continue
			}
			if _, ok := pending[fwd]; !ok {
				order = append(order, fwd)
			}
			pending[fwd] = &edge{a: t[j], b: t[k], normal: n, face: i}
		}
	}
	for _, k := range order {
		if e := pending[k]; e != nil {
			pos = append(pos, e.a, e.b)
		}
	}
	return &Geometry{Topology: Lines, Positions: pos}
}

// Wireframe returns a line geometry with every triangle edge of g. Indexed
// geometries emit each shared edge once, non-indexed geometries emit three
// segments per triangle.
func (bld *Builder) Wireframe(g *Geometry) *Geometry {
	if g == nil || g.Topology != Triangles {
		bld.shapeErrorf("wireframe requires a triangle geometry")
		return &Geometry{Topology: Lines}
	}
	pos := append([]ms3.Vec{}, g.Positions...)
	if g.Indices == nil {
		idx := make([]uint32, 0, 2*len(g.Positions))
		for i := 0; i+2 < len(g.Positions); i += 3 {
			a, b, c := uint32(i), uint32(i+1), uint32(i+2)
			idx = append(idx, a, b, b, c, c, a)
		}
		return &Geometry{Topology: Lines, Positions: pos, Indices: idx}
	}
	seen := make(map[[2]uint32]struct{})
	var idx []uint32
	for i := 0; i+2 < len(g.Indices); i += 3 {
		tri := g.Indices[i : i+3]
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			k := [2]uint32{a, b}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			idx = append(idx, a, b)
		}
	}
	return &Geometry{Topology: Lines, Positions: pos, Indices: idx}
}

// AsPoints returns the vertices of g as a point cloud.
func AsPoints(g *Geometry) *Geometry {
	return &Geometry{Topology: Points, Positions: append([]ms3.Vec{}, g.Positions...)}
}
