package geom

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// NewParametric samples the surface fn on a slices×stacks grid at uniform
// parameter steps over [0,1]×[0,1]. fn receives (u, v) where u advances
// along a slice row and v advances between stacks.
func (bld *Builder) NewParametric(fn func(u, v float32) ms3.Vec, slices, stacks int) *Geometry {
	if fn == nil {
		bld.shapeErrorf("nil parametric function")
		return &Geometry{}
	}
	if slices < 1 || stacks < 1 {
		bld.shapeErrorf("parametric slices and stacks must be at least 1")
		return &Geometry{}
	}
	pos := make([]ms3.Vec, 0, (slices+1)*(stacks+1))
	for i := 0; i <= stacks; i++ {
		v := float32(i) / float32(stacks)
		for j := 0; j <= slices; j++ {
			u := float32(j) / float32(slices)
			pos = append(pos, fn(u, v))
		}
	}
	count := slices + 1
	idx := make([]uint32, 0, 6*slices*stacks)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i*count + j)
			b := uint32(i*count + j + 1)
			c := uint32((i+1)*count + j + 1)
			d := uint32((i+1)*count + j)
			idx = append(idx, a, b, d, b, c, d)
		}
	}
	return indexed(pos, idx)
}

// Klein is the Klein bottle surface in its figure-8 immersion scaled by 0.75.
// Its first argument sweeps the tube cross-section and the second sweeps the
// body. The surface is piecewise: the branch changes where the scaled body
// angle reaches π.
func Klein(v, u float32) ms3.Vec {
	u *= twoPi
	v *= twoPi
	cu, su := math32.Cos(u), math32.Sin(u)
	r := 2 * (1 - cu/2)
	var x, z float32
	if u < pi {
		x = 3*cu*(1+su) + r*cu*math32.Cos(v)
		z = -8*su - r*su*math32.Cos(v)
	} else {
		x = 3*cu*(1+su) + r*math32.Cos(v+pi)
		z = -8 * su
	}
	y := -r * math32.Sin(v)
	return ms3.Scale(0.75, ms3.Vec{X: x, Y: y, Z: z})
}

// NewLathe revolves the profile points (x is the distance to the Y axis) around
// the Y axis. Angles are in radians.
func (bld *Builder) NewLathe(points []ms2.Vec, segments int, phiStart, phiLength float32) *Geometry {
	if len(points) < 2 || segments < 1 {
		bld.shapeErrorf("lathe needs at least two points and one segment")
		return &Geometry{}
	}
	pos := make([]ms3.Vec, 0, (segments+1)*len(points))
	inv := 1 / float32(segments)
	for i := 0; i <= segments; i++ {
		phi := phiStart + float32(i)*inv*phiLength
		s, c := math32.Sin(phi), math32.Cos(phi)
		for _, p := range points {
			pos = append(pos, ms3.Vec{X: p.X * s, Y: p.Y, Z: p.X * c})
		}
	}
	return indexed(pos, gridIndices(nil, 0, segments, len(points)-1))
}
