package geom

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// NewBox creates a box centered at the origin with the given x, y, z
// dimensions. Each face is subdivided into the given amount of segments along
// the axes it spans.
func (bld *Builder) NewBox(width, height, depth float32, wSegs, hSegs, dSegs int) *Geometry {
	if width <= 0 || height <= 0 || depth <= 0 {
		bld.shapeErrorf("zero or negative box dimension")
		return &Geometry{}
	}
	if wSegs < 1 || hSegs < 1 || dSegs < 1 {
		bld.shapeErrorf("box segments must be at least 1")
		return &Geometry{}
	}
	var pos, nrm []ms3.Vec
	var idx []uint32
	plane := func(u, v, w int, udir, vdir, pw, ph, pd float32, gridX, gridY int) {
		offset := len(pos)
		segW, segH := pw/float32(gridX), ph/float32(gridY)
		var n ms3.Vec
		setAxis(&n, w, math32.Copysign(1, pd))
		for iy := 0; iy <= gridY; iy++ {
			y := float32(iy)*segH - ph/2
			for ix := 0; ix <= gridX; ix++ {
				x := float32(ix)*segW - pw/2
				var p ms3.Vec
				setAxis(&p, u, x*udir)
				setAxis(&p, v, y*vdir)
				setAxis(&p, w, pd/2)
				pos = append(pos, p)
				nrm = append(nrm, n)
			}
		}
		idx = gridIndices(idx, offset, gridY, gridX)
	}
	const x, y, z = 0, 1, 2
	plane(z, y, x, -1, -1, depth, height, width, dSegs, hSegs)
	plane(z, y, x, 1, -1, depth, height, -width, dSegs, hSegs)
	plane(x, z, y, 1, 1, width, depth, height, wSegs, dSegs)
	plane(x, z, y, 1, -1, width, depth, -height, wSegs, dSegs)
	plane(x, y, z, 1, -1, width, height, depth, wSegs, hSegs)
	plane(x, y, z, -1, -1, width, height, -depth, wSegs, hSegs)
	return &Geometry{Topology: Triangles, Positions: pos, Normals: nrm, Indices: idx}
}

// NewPlane creates a plane on the XY plane facing +Z.
func (bld *Builder) NewPlane(width, height float32, wSegs, hSegs int) *Geometry {
	if width <= 0 || height <= 0 || wSegs < 1 || hSegs < 1 {
		bld.shapeErrorf("invalid plane parameters")
		return &Geometry{}
	}
	segW, segH := width/float32(wSegs), height/float32(hSegs)
	pos := make([]ms3.Vec, 0, (wSegs+1)*(hSegs+1))
	for iy := 0; iy <= hSegs; iy++ {
		y := float32(iy)*segH - height/2
		for ix := 0; ix <= wSegs; ix++ {
			x := float32(ix)*segW - width/2
			pos = append(pos, ms3.Vec{X: x, Y: -y})
		}
	}
	return indexed(pos, gridIndices(nil, 0, hSegs, wSegs))
}

// NewCircle creates a flat disc (or sector of one) of radius r on the XY
// plane. Angles are in radians.
func (bld *Builder) NewCircle(r float32, segments int, thetaStart, thetaLength float32) *Geometry {
	if r <= 0 || segments < 3 {
		bld.shapeErrorf("invalid circle parameters")
		return &Geometry{}
	}
	pos := []ms3.Vec{{}}
	for s := 0; s <= segments; s++ {
		theta := thetaStart + float32(s)/float32(segments)*thetaLength
		pos = append(pos, ms3.Vec{X: r * math32.Cos(theta), Y: r * math32.Sin(theta)})
	}
	idx := make([]uint32, 0, 3*segments)
	for i := 1; i <= segments; i++ {
		idx = append(idx, uint32(i), uint32(i+1), 0)
	}
	return indexed(pos, idx)
}

// NewRing creates a flat annulus on the XY plane.
func (bld *Builder) NewRing(inner, outer float32, thetaSegs, phiSegs int) *Geometry {
	if inner < 0 || outer <= inner || thetaSegs < 3 || phiSegs < 1 {
		bld.shapeErrorf("invalid ring parameters")
		return &Geometry{}
	}
	step := (outer - inner) / float32(phiSegs)
	var pos []ms3.Vec
	radius := inner
	for j := 0; j <= phiSegs; j++ {
		for i := 0; i <= thetaSegs; i++ {
			theta := float32(i) / float32(thetaSegs) * twoPi
			pos = append(pos, ms3.Vec{X: radius * math32.Cos(theta), Y: radius * math32.Sin(theta)})
		}
		radius += step
	}
	return indexed(pos, gridIndices(nil, 0, phiSegs, thetaSegs))
}

// NewSphere creates a UV sphere of radius r centered at the origin.
func (bld *Builder) NewSphere(r float32, wSegs, hSegs int) *Geometry {
	return bld.NewSphereSector(r, wSegs, hSegs, 0, twoPi, 0, pi)
}

// NewSphereSector creates a sphere section. Phi sweeps around the Y axis,
// theta sweeps from the +Y pole downwards. Angles are in radians.
func (bld *Builder) NewSphereSector(r float32, wSegs, hSegs int, phiStart, phiLength, thetaStart, thetaLength float32) *Geometry {
	if r <= 0 || wSegs < 3 || hSegs < 2 {
		bld.shapeErrorf("invalid sphere parameters")
		return &Geometry{}
	}
	thetaEnd := math32.Min(thetaStart+thetaLength, pi)
	stride := wSegs + 1
	var pos, nrm []ms3.Vec
	for iy := 0; iy <= hSegs; iy++ {
		v := float32(iy) / float32(hSegs)
		for ix := 0; ix <= wSegs; ix++ {
			u := float32(ix) / float32(wSegs)
			phi := phiStart + u*phiLength
			theta := thetaStart + v*thetaLength
			p := ms3.Vec{
				X: -r * math32.Cos(phi) * math32.Sin(theta),
				Y: r * math32.Cos(theta),
				Z: r * math32.Sin(phi) * math32.Sin(theta),
			}
			pos = append(pos, p)
			nrm = append(nrm, ms3.Scale(1/r, p))
		}
	}
	var idx []uint32
	for iy := 0; iy < hSegs; iy++ {
		for ix := 0; ix < wSegs; ix++ {
			a := uint32(iy*stride + ix + 1)
			b := uint32(iy*stride + ix)
			c := uint32((iy+1)*stride + ix)
			d := uint32((iy+1)*stride + ix + 1)
			if iy != 0 || thetaStart > 0 {
				idx = append(idx, a, b, d)
			}
			if iy != hSegs-1 || thetaEnd < pi {
				idx = append(idx, b, c, d)
			}
		}
	}
	return &Geometry{Topology: Triangles, Positions: pos, Normals: nrm, Indices: idx}
}

// NewCylinder creates a (possibly truncated) cone along the Y axis centered
// at the origin. Caps with zero radius are omitted, as are both caps when
// openEnded is set.
func (bld *Builder) NewCylinder(rTop, rBottom, height float32, radialSegs, heightSegs int, openEnded bool) *Geometry {
	if rTop < 0 || rBottom < 0 || (rTop == 0 && rBottom == 0) || height <= 0 {
		bld.shapeErrorf("bad cylinder dimension")
		return &Geometry{}
	}
	if radialSegs < 3 || heightSegs < 1 {
		bld.shapeErrorf("bad cylinder segments")
		return &Geometry{}
	}
	half := height / 2
	var pos []ms3.Vec
	for y := 0; y <= heightSegs; y++ {
		v := float32(y) / float32(heightSegs)
		radius := v*(rBottom-rTop) + rTop
		for x := 0; x <= radialSegs; x++ {
			theta := float32(x) / float32(radialSegs) * twoPi
			pos = append(pos, ms3.Vec{
				X: radius * math32.Sin(theta),
				Y: -v*height + half,
				Z: radius * math32.Cos(theta),
			})
		}
	}
	idx := gridIndices(nil, 0, heightSegs, radialSegs)
	addCap := func(radius, sign float32, top bool) {
		if openEnded || radius <= 0 {
			return
		}
		centerStart := len(pos)
		for x := 0; x < radialSegs; x++ {
			pos = append(pos, ms3.Vec{Y: half * sign})
		}
		rimStart := len(pos)
		for x := 0; x <= radialSegs; x++ {
			theta := float32(x) / float32(radialSegs) * twoPi
			pos = append(pos, ms3.Vec{
				X: radius * math32.Sin(theta),
				Y: half * sign,
				Z: radius * math32.Cos(theta),
			})
		}
		for x := 0; x < radialSegs; x++ {
			c := uint32(centerStart + x)
			i := uint32(rimStart + x)
			if top {
				idx = append(idx, i, i+1, c)
			} else {
				idx = append(idx, i+1, i, c)
			}
		}
	}
	addCap(rTop, 1, true)
	addCap(rBottom, -1, false)
	return indexed(pos, idx)
}

// NewCone creates a cone of base radius r pointing towards +Y.
func (bld *Builder) NewCone(r, height float32, radialSegs int) *Geometry {
	return bld.NewCylinder(0, r, height, radialSegs, 1, false)
}

// NewTorus creates a torus on the XY plane. radius is the distance from the
// center to the center of the tube. arc is the swept central angle in radians.
func (bld *Builder) NewTorus(radius, tube float32, radialSegs, tubularSegs int, arc float32) *Geometry {
	if radius <= 0 || tube <= 0 || radialSegs < 2 || tubularSegs < 3 || arc <= 0 {
		bld.shapeErrorf("invalid torus parameters")
		return &Geometry{}
	}
	var pos []ms3.Vec
	for j := 0; j <= radialSegs; j++ {
		for i := 0; i <= tubularSegs; i++ {
			u := float32(i) / float32(tubularSegs) * arc
			v := float32(j) / float32(radialSegs) * twoPi
			ring := radius + tube*math32.Cos(v)
			pos = append(pos, ms3.Vec{
				X: ring * math32.Cos(u),
				Y: ring * math32.Sin(u),
				Z: tube * math32.Sin(v),
			})
		}
	}
	stride := tubularSegs + 1
	var idx []uint32
	for j := 1; j <= radialSegs; j++ {
		for i := 1; i <= tubularSegs; i++ {
			a := uint32(stride*j + i - 1)
			b := uint32(stride*(j-1) + i - 1)
			c := uint32(stride*(j-1) + i)
			d := uint32(stride*j + i)
			idx = append(idx, a, b, d, b, c, d)
		}
	}
	return indexed(pos, idx)
}

// NewTorusKnot creates a (p, q) torus knot tube.
func (bld *Builder) NewTorusKnot(radius, tube float32, tubularSegs, radialSegs, p, q int) *Geometry {
	if radius <= 0 || tube <= 0 || tubularSegs < 3 || radialSegs < 3 || p < 1 || q < 1 {
		bld.shapeErrorf("invalid torus knot parameters")
		return &Geometry{}
	}
	fp, fq := float32(p), float32(q)
	onCurve := func(u float32) ms3.Vec {
		quOverP := fq / fp * u
		cs := math32.Cos(quOverP)
		return ms3.Vec{
			X: radius * (2 + cs) * 0.5 * math32.Cos(u),
			Y: radius * (2 + cs) * 0.5 * math32.Sin(u),
			Z: radius * math32.Sin(quOverP) * 0.5,
		}
	}
	var pos []ms3.Vec
	for i := 0; i <= tubularSegs; i++ {
		u := float32(i) / float32(tubularSegs) * fp * twoPi
		p1 := onCurve(u)
		p2 := onCurve(u + 0.01)
		T := ms3.Sub(p2, p1)
		N := ms3.Add(p2, p1)
		B := ms3.Unit(ms3.Cross(T, N))
		N = ms3.Unit(ms3.Cross(B, T))
		for j := 0; j <= radialSegs; j++ {
			v := float32(j) / float32(radialSegs) * twoPi
			cx := -tube * math32.Cos(v)
			cy := tube * math32.Sin(v)
			pos = append(pos, ms3.Add(p1, ms3.Add(ms3.Scale(cx, N), ms3.Scale(cy, B))))
		}
	}
	return indexed(pos, gridIndices(nil, 0, tubularSegs, radialSegs))
}

func setAxis(v *ms3.Vec, axis int, value float32) {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}
