package geom

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// NewPolyhedron creates a polyhedron from a flat vertex table (x,y,z triples)
// and a face table (index triples). Each face is subdivided detail times and
// every resulting vertex is projected onto the sphere of the given radius.
// The result is non-indexed.
func (bld *Builder) NewPolyhedron(vertices []float32, faces []int, radius float32, detail int) *Geometry {
	if len(vertices)%3 != 0 || len(vertices) < 12 || len(faces)%3 != 0 || len(faces) < 12 {
		bld.shapeErrorf("bad polyhedron vertex or face table")
		return &Geometry{}
	}
	if radius <= 0 || detail < 0 {
		bld.shapeErrorf("bad polyhedron radius or detail")
		return &Geometry{}
	}
	nv := len(vertices) / 3
	vert := func(i int) ms3.Vec {
		return ms3.Vec{X: vertices[3*i], Y: vertices[3*i+1], Z: vertices[3*i+2]}
	}
	var pos []ms3.Vec
	for i := 0; i < len(faces); i += 3 {
		ia, ib, ic := faces[i], faces[i+1], faces[i+2]
		if ia < 0 || ib < 0 || ic < 0 || ia >= nv || ib >= nv || ic >= nv {
			bld.shapeErrorf("polyhedron face %d references missing vertex", i/3)
			return &Geometry{}
		}
		pos = subdivideFace(pos, vert(ia), vert(ib), vert(ic), detail)
	}
	for i, p := range pos {
		pos[i] = ms3.Scale(radius, ms3.Unit(p))
	}
	g := &Geometry{Topology: Triangles, Positions: pos}
	if detail == 0 {
		g.ComputeNormals()
	} else {
		g.Normals = make([]ms3.Vec, len(pos))
		for i, p := range pos {
			g.Normals[i] = ms3.Unit(p)
		}
	}
	return g
}

// subdivideFace splits triangle (a,b,c) into (detail+1)² triangles.
func subdivideFace(dst []ms3.Vec, a, b, c ms3.Vec, detail int) []ms3.Vec {
	cols := detail + 1
	v := make([][]ms3.Vec, cols+1)
	for i := 0; i <= cols; i++ {
		aj := lerp3(a, c, float32(i)/float32(cols))
		bj := lerp3(b, c, float32(i)/float32(cols))
		rows := cols - i
		v[i] = make([]ms3.Vec, rows+1)
		for j := 0; j <= rows; j++ {
			if j == 0 && i == cols {
				v[i][j] = aj
			} else {
				v[i][j] = lerp3(aj, bj, float32(j)/float32(rows))
			}
		}
	}
	for i := 0; i < cols; i++ {
		for j := 0; j < 2*(cols-i)-1; j++ {
			k := j / 2
			if j%2 == 0 {
				dst = append(dst, v[i][k+1], v[i+1][k], v[i][k])
			} else {
				dst = append(dst, v[i][k+1], v[i+1][k+1], v[i+1][k])
			}
		}
	}
	return dst
}

// NewTetrahedron creates a regular tetrahedron inscribed in a sphere of radius r.
func (bld *Builder) NewTetrahedron(r float32, detail int) *Geometry {
	vertices := []float32{1, 1, 1, -1, -1, 1, -1, 1, -1, 1, -1, -1}
	faces := []int{2, 1, 0, 0, 3, 2, 1, 3, 0, 2, 3, 1}
	return bld.NewPolyhedron(vertices, faces, r, detail)
}

// NewOctahedron creates a regular octahedron inscribed in a sphere of radius r.
func (bld *Builder) NewOctahedron(r float32, detail int) *Geometry {
	vertices := []float32{1, 0, 0, -1, 0, 0, 0, 1, 0, 0, -1, 0, 0, 0, 1, 0, 0, -1}
	faces := []int{0, 2, 4, 0, 4, 3, 0, 3, 5, 0, 5, 2, 1, 2, 5, 1, 5, 3, 1, 3, 4, 1, 4, 2}
	return bld.NewPolyhedron(vertices, faces, r, detail)
}

// NewIcosahedron creates a regular icosahedron inscribed in a sphere of radius r.
func (bld *Builder) NewIcosahedron(r float32, detail int) *Geometry {
	t := (1 + math32.Sqrt(5)) / 2
	vertices := []float32{
		-1, t, 0, 1, t, 0, -1, -t, 0, 1, -t, 0,
		0, -1, t, 0, 1, t, 0, -1, -t, 0, 1, -t,
		t, 0, -1, t, 0, 1, -t, 0, -1, -t, 0, 1,
	}
	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return bld.NewPolyhedron(vertices, faces, r, detail)
}

// NewDodecahedron creates a regular dodecahedron inscribed in a sphere of radius r.
func (bld *Builder) NewDodecahedron(r float32, detail int) *Geometry {
	t := (1 + math32.Sqrt(5)) / 2
	ti := 1 / t
	vertices := []float32{
		// (±1, ±1, ±1)
		-1, -1, -1, -1, -1, 1, -1, 1, -1, -1, 1, 1,
		1, -1, -1, 1, -1, 1, 1, 1, -1, 1, 1, 1,
		// (0, ±1/φ, ±φ)
		0, -ti, -t, 0, -ti, t, 0, ti, -t, 0, ti, t,
		// (±1/φ, ±φ, 0)
		-ti, -t, 0, -ti, t, 0, ti, -t, 0, ti, t, 0,
		// (±φ, 0, ±1/φ)
		-t, 0, -ti, t, 0, -ti, -t, 0, ti, t, 0, ti,
	}
	faces := []int{
		3, 11, 7, 3, 7, 15, 3, 15, 13,
		7, 19, 17, 7, 17, 6, 7, 6, 15,
		17, 4, 8, 17, 8, 10, 17, 10, 6,
		8, 0, 16, 8, 16, 2, 8, 2, 10,
		0, 12, 1, 0, 1, 18, 0, 18, 16,
		6, 10, 2, 6, 2, 13, 6, 13, 15,
		2, 16, 18, 2, 18, 3, 2, 3, 13,
		18, 1, 9, 18, 9, 11, 18, 11, 3,
		4, 14, 12, 4, 12, 0, 4, 0, 8,
		11, 9, 5, 11, 5, 19, 11, 19, 7,
		19, 5, 14, 19, 14, 4, 19, 4, 17,
		1, 12, 14, 1, 14, 5, 1, 5, 9,
	}
	return bld.NewPolyhedron(vertices, faces, r, detail)
}
