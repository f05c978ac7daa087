// Package geom generates the vertex and topology data of the shapes shown in a
// gallery scene: tessellated solids, flat shapes, extrusions, parametric
// surfaces, tubes and line/point derivatives of them.
//
// Generators follow the conventions of the three.js geometry classes so that
// parameter tuples written for one produce equivalent meshes in the other.
package geom

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const (
	pi    = math32.Pi
	twoPi = 2 * math32.Pi
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization.
	epstol = 6e-7
)

// Topology is the primitive type vertices are assembled into.
type Topology uint8

const (
	Triangles Topology = iota
	Lines
	Points
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case Points:
		return "points"
	}
	return fmt.Sprintf("Topology(%d)", uint8(t))
}

// Geometry is the realized output of a generator. When Indices is nil the
// geometry is non-indexed and Positions are consumed in order.
type Geometry struct {
	Topology  Topology
	Positions []ms3.Vec
	// Normals is nil or has the same length as Positions.
	Normals []ms3.Vec
	Indices []uint32
}

// NumElements returns the number of vertices the geometry is drawn with.
func (g *Geometry) NumElements() int {
	if g.Indices != nil {
		return len(g.Indices)
	}
	return len(g.Positions)
}

// Vertex returns the position index of the i'th drawn element.
func (g *Geometry) Vertex(i int) int {
	if g.Indices != nil {
		return int(g.Indices[i])
	}
	return i
}

// NumPrimitives returns the amount of triangles, segments or points in g.
func (g *Geometry) NumPrimitives() int {
	n := g.NumElements()
	switch g.Topology {
	case Triangles:
		return n / 3
	case Lines:
		return n / 2
	}
	return n
}

// Triangle returns the i'th triangle of a triangle geometry.
func (g *Geometry) Triangle(i int) ms3.Triangle {
	return ms3.Triangle{
		g.Positions[g.Vertex(3*i)],
		g.Positions[g.Vertex(3*i+1)],
		g.Positions[g.Vertex(3*i+2)],
	}
}

// Bounds returns the axis aligned bounding box of all positions.
// An empty geometry has a zero box.
func (g *Geometry) Bounds() ms3.Box {
	if len(g.Positions) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: g.Positions[0], Max: g.Positions[0]}
	for _, p := range g.Positions[1:] {
		bb.Min = ms3.MinElem(bb.Min, p)
		bb.Max = ms3.MaxElem(bb.Max, p)
	}
	return bb
}

// Translate moves every position of g by d.
func (g *Geometry) Translate(d ms3.Vec) {
	for i := range g.Positions {
		g.Positions[i] = ms3.Add(g.Positions[i], d)
	}
}

// ComputeNormals sets vertex normals of a triangle geometry to the area
// weighted average of the normals of the faces sharing each vertex.
func (g *Geometry) ComputeNormals() {
	if g.Topology != Triangles {
		return
	}
	normals := make([]ms3.Vec, len(g.Positions))
	ntri := g.NumPrimitives()
	for i := 0; i < ntri; i++ {
		ia, ib, ic := g.Vertex(3*i), g.Vertex(3*i+1), g.Vertex(3*i+2)
		a, b, c := g.Positions[ia], g.Positions[ib], g.Positions[ic]
		n := ms3.Cross(ms3.Sub(c, b), ms3.Sub(a, b))
		normals[ia] = ms3.Add(normals[ia], n)
		normals[ib] = ms3.Add(normals[ib], n)
		normals[ic] = ms3.Add(normals[ic], n)
	}
	for i, n := range normals {
		if ms3.Norm(n) > epstol {
			normals[i] = ms3.Unit(n)
		}
	}
	g.Normals = normals
}

// FaceNormal returns the unit normal of triangle t following counter
// clockwise winding. Degenerate triangles return the zero vector.
func FaceNormal(t ms3.Triangle) ms3.Vec {
	n := ms3.Cross(ms3.Sub(t[2], t[1]), ms3.Sub(t[0], t[1]))
	if ms3.Norm(n) < epstol {
		return ms3.Vec{}
	}
	return ms3.Unit(n)
}

// Builder wraps geometry generation. Invalid parameters panic unless
// NoDimensionPanic is set, in which case errors are accumulated and the
// generator returns an empty geometry. Accumulated errors are read with Err.
type Builder struct {
	NoDimensionPanic bool
	accumErrs        []error
}

// Err returns all errors accumulated by the builder joined together.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if !bld.NoDimensionPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// indexed assembles a triangle Geometry and computes its normals.
func indexed(pos []ms3.Vec, idx []uint32) *Geometry {
	g := &Geometry{Topology: Triangles, Positions: pos, Indices: idx}
	g.ComputeNormals()
	return g
}

// gridIndices appends two triangles per cell of a (rows+1)×(cols+1) vertex
// grid starting at vertex offset. Row r, column c is at offset+r*(cols+1)+c.
func gridIndices(idx []uint32, offset, rows, cols int) []uint32 {
	stride := cols + 1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := uint32(offset + r*stride + c)
			b := uint32(offset + (r+1)*stride + c)
			cc := uint32(offset + (r+1)*stride + c + 1)
			d := uint32(offset + r*stride + c + 1)
			idx = append(idx, a, b, d, b, cc, d)
		}
	}
	return idx
}

func lerp3(a, b ms3.Vec, t float32) ms3.Vec {
	return ms3.Add(a, ms3.Scale(t, ms3.Sub(b, a)))
}
