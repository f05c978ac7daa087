package geom

import (
	"github.com/soypat/geometry/ms2"
)

type segKind uint8

const (
	segLine segKind = iota
	segQuad
	segCubic
)

type pathSeg struct {
	kind segKind
	// p[0] is the start point, the last used point is the end point.
	p [4]ms2.Vec
}

// Path is a 2D outline made of straight and Bézier segments. The zero value
// is an empty path starting at the origin.
type Path struct {
	segs []pathSeg
	cur  ms2.Vec
}

// MoveTo sets the current point without drawing.
func (p *Path) MoveTo(x, y float32) {
	p.cur = ms2.Vec{X: x, Y: y}
}

// LineTo adds a straight segment from the current point to (x,y).
func (p *Path) LineTo(x, y float32) {
	end := ms2.Vec{X: x, Y: y}
	p.segs = append(p.segs, pathSeg{kind: segLine, p: [4]ms2.Vec{p.cur, end}})
	p.cur = end
}

// QuadTo adds a quadratic Bézier segment with control point (cx,cy).
func (p *Path) QuadTo(cx, cy, x, y float32) {
	end := ms2.Vec{X: x, Y: y}
	p.segs = append(p.segs, pathSeg{kind: segQuad, p: [4]ms2.Vec{p.cur, {X: cx, Y: cy}, end}})
	p.cur = end
}

// BezierTo adds a cubic Bézier segment with control points (c1x,c1y) and (c2x,c2y).
func (p *Path) BezierTo(c1x, c1y, c2x, c2y, x, y float32) {
	end := ms2.Vec{X: x, Y: y}
	p.segs = append(p.segs, pathSeg{kind: segCubic, p: [4]ms2.Vec{p.cur, {X: c1x, Y: c1y}, {X: c2x, Y: c2y}, end}})
	p.cur = end
}

// Len returns the number of segments in the path.
func (p *Path) Len() int { return len(p.segs) }

// AppendPoints samples the path and appends the result to dst. Straight
// segments contribute their end points only, curves are divided into
// divisions uniform parameter steps. Consecutive duplicate points and a
// closing point equal to the first are dropped.
func (p *Path) AppendPoints(dst []ms2.Vec, divisions int) []ms2.Vec {
	if divisions < 1 {
		divisions = 1
	}
	start := len(dst)
	add := func(v ms2.Vec) {
		if len(dst) > start && dst[len(dst)-1] == v {
			return
		}
		dst = append(dst, v)
	}
	for _, s := range p.segs {
		add(s.p[0])
		switch s.kind {
		case segLine:
			add(s.p[1])
		case segQuad:
			for i := 1; i <= divisions; i++ {
				add(quadBezier(s.p[0], s.p[1], s.p[2], float32(i)/float32(divisions)))
			}
		case segCubic:
			for i := 1; i <= divisions; i++ {
				add(cubicBezier(s.p[0], s.p[1], s.p[2], s.p[3], float32(i)/float32(divisions)))
			}
		}
	}
	if len(dst)-start > 1 && dst[len(dst)-1] == dst[start] {
		dst = dst[:len(dst)-1]
	}
	return dst
}

func quadBezier(p0, p1, p2 ms2.Vec, t float32) ms2.Vec {
	k := 1 - t
	return ms2.Add(ms2.Add(ms2.Scale(k*k, p0), ms2.Scale(2*k*t, p1)), ms2.Scale(t*t, p2))
}

func cubicBezier(p0, p1, p2, p3 ms2.Vec, t float32) ms2.Vec {
	k := 1 - t
	a := ms2.Add(ms2.Scale(k*k*k, p0), ms2.Scale(3*k*k*t, p1))
	b := ms2.Add(ms2.Scale(3*k*t*t, p2), ms2.Scale(t*t*t, p3))
	return ms2.Add(a, b)
}

// Shape is a filled outline with optional holes cut out of it.
type Shape struct {
	Outline Path
	Holes   []Path
}

// Contours samples the shape outline and holes. The outline is returned in
// counter clockwise order and holes in clockwise order.
func (s *Shape) Contours(divisions int) (outline []ms2.Vec, holes [][]ms2.Vec) {
	outline = s.Outline.AppendPoints(nil, divisions)
	if signedArea(outline) < 0 {
		reverse(outline)
	}
	for i := range s.Holes {
		h := s.Holes[i].AppendPoints(nil, divisions)
		if len(h) < 3 {
			continue
		}
		if signedArea(h) > 0 {
			reverse(h)
		}
		holes = append(holes, h)
	}
	return outline, holes
}

// signedArea is positive for counter clockwise polygons.
func signedArea(poly []ms2.Vec) float32 {
	var sum float32
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
