package geom

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms1"
	"github.com/soypat/geometry/ms3"
)

// Curve is a 3D path parametrized over t in [0,1].
type Curve interface {
	Point(t float32) ms3.Vec
}

// CurveFunc adapts a function to the Curve interface.
type CurveFunc func(t float32) ms3.Vec

func (fn CurveFunc) Point(t float32) ms3.Vec { return fn(t) }

// SinCurve is one period of a sine wave along X spanning [-1.5, 1.5]·Scale.
type SinCurve struct {
	Scale float32
}

func (c SinCurve) Point(t float32) ms3.Vec {
	return ms3.Scale(c.Scale, ms3.Vec{
		X: t*3 - 1.5,
		Y: math32.Sin(twoPi * t),
	})
}

// NewTube sweeps a circle of the given radius along path.
func (bld *Builder) NewTube(path Curve, tubularSegs int, radius float32, radialSegs int, closed bool) *Geometry {
	if path == nil {
		bld.shapeErrorf("nil tube path")
		return &Geometry{}
	}
	if tubularSegs < 1 || radialSegs < 3 || radius <= 0 {
		bld.shapeErrorf("invalid tube parameters")
		return &Geometry{}
	}
	frames := frenetFrames(path, tubularSegs, closed)
	pos := make([]ms3.Vec, 0, (tubularSegs+1)*(radialSegs+1))
	nrm := make([]ms3.Vec, 0, cap(pos))
	segment := func(i int) {
		p := path.Point(float32(i) / float32(tubularSegs))
		N, B := frames.normals[i], frames.binormals[i]
		for j := 0; j <= radialSegs; j++ {
			v := float32(j) / float32(radialSegs) * twoPi
			sin, cos := math32.Sin(v), -math32.Cos(v)
			n := ms3.Unit(ms3.Add(ms3.Scale(cos, N), ms3.Scale(sin, B)))
			nrm = append(nrm, n)
			pos = append(pos, ms3.Add(p, ms3.Scale(radius, n)))
		}
	}
	for i := 0; i < tubularSegs; i++ {
		segment(i)
	}
	if closed {
		segment(0)
	} else {
		segment(tubularSegs)
	}
	idx := gridIndices(nil, 0, tubularSegs, radialSegs)
	return &Geometry{Topology: Triangles, Positions: pos, Normals: nrm, Indices: idx}
}

type frames struct {
	tangents, normals, binormals []ms3.Vec
}

// frenetFrames computes parallel transport frames along the curve with
// segments+1 samples at uniform parameter steps.
func frenetFrames(c Curve, segments int, closed bool) frames {
	const delta = 1e-4
	n := segments + 1
	f := frames{
		tangents:  make([]ms3.Vec, n),
		normals:   make([]ms3.Vec, n),
		binormals: make([]ms3.Vec, n),
	}
	for i := range f.tangents {
		u := float32(i) / float32(segments)
		t1, t2 := u-delta, u+delta
		if t1 < 0 {
			t1 = 0
		}
		if t2 > 1 {
			t2 = 1
		}
		f.tangents[i] = ms3.Unit(ms3.Sub(c.Point(t2), c.Point(t1)))
	}
	// Initial normal along the smallest tangent component.
	t0 := f.tangents[0]
	smallest := float32(math32.MaxFloat32)
	var normal ms3.Vec
	tx, ty, tz := math32.Abs(t0.X), math32.Abs(t0.Y), math32.Abs(t0.Z)
	if tx <= smallest {
		smallest = tx
		normal = ms3.Vec{X: 1}
	}
	if ty <= smallest {
		smallest = ty
		normal = ms3.Vec{Y: 1}
	}
	if tz <= smallest {
		normal = ms3.Vec{Z: 1}
	}
	vec := ms3.Unit(ms3.Cross(t0, normal))
	f.normals[0] = ms3.Cross(t0, vec)
	f.binormals[0] = ms3.Cross(t0, f.normals[0])

	for i := 1; i < n; i++ {
		f.normals[i] = f.normals[i-1]
		vec := ms3.Cross(f.tangents[i-1], f.tangents[i])
		if ms3.Norm(vec) > epstol {
			vec = ms3.Unit(vec)
			theta := math32.Acos(ms1.Clamp(ms3.Dot(f.tangents[i-1], f.tangents[i]), -1, 1))
			f.normals[i] = ms3.Rotation(theta, vec).Rotate(f.normals[i])
		}
		f.binormals[i] = ms3.Cross(f.tangents[i], f.normals[i])
	}
	if closed {
		theta := math32.Acos(ms1.Clamp(ms3.Dot(f.normals[0], f.normals[segments]), -1, 1)) / float32(segments)
		if ms3.Dot(f.tangents[0], ms3.Cross(f.normals[0], f.normals[segments])) > 0 {
			theta = -theta
		}
		for i := 1; i < n; i++ {
			f.normals[i] = ms3.Rotation(theta*float32(i), f.tangents[i]).Rotate(f.normals[i])
			f.binormals[i] = ms3.Cross(f.tangents[i], f.normals[i])
		}
	}
	return f
}
