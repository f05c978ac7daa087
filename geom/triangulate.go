package geom

import (
	"errors"
	"sort"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

var errNoEar = errors.New("triangulation found no ear, polygon may self intersect")

// Triangulate splits a polygon with holes into triangles by ear clipping.
// Holes are first bridged into the outline so the result is a single simple
// polygon. The returned indices reference the concatenation of outline
// followed by every hole in order, three per triangle, counter clockwise.
// The outline must be counter clockwise and holes clockwise, see [Shape.Contours].
func Triangulate(outline []ms2.Vec, holes [][]ms2.Vec) ([]int, error) {
	if len(outline) < 3 {
		return nil, errors.New("outline needs at least 3 points")
	}
	verts := append([]ms2.Vec{}, outline...)
	poly := make([]int, len(outline))
	for i := range poly {
		poly[i] = i
	}
	type hole struct {
		idx  []int
		maxX float32
	}
	hs := make([]hole, 0, len(holes))
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		hi := hole{maxX: -math32.MaxFloat32}
		for _, v := range h {
			hi.idx = append(hi.idx, len(verts))
			verts = append(verts, v)
			hi.maxX = math32.Max(hi.maxX, v.X)
		}
		hs = append(hs, hi)
	}
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].maxX > hs[j].maxX })
	for _, h := range hs {
		poly = bridgeHole(verts, poly, h.idx)
	}
	return earClip(verts, poly)
}

// bridgeHole splices hole into poly through a mutually visible vertex pair.
func bridgeHole(verts []ms2.Vec, poly, hole []int) []int {
	// Rightmost hole vertex.
	m := 0
	for i, vi := range hole {
		if verts[vi].X > verts[hole[m]].X {
			m = i
		}
	}
	M := verts[hole[m]]
	// Closest edge hit by a ray from M towards +X.
	best := -1
	bestX := float32(math32.MaxFloat32)
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := verts[poly[i]], verts[poly[(i+1)%n]]
		if (a.Y-M.Y)*(b.Y-M.Y) > 0 || a.Y == b.Y {
			continue
		}
		x := a.X + (M.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < M.X || x >= bestX {
			continue
		}
		bestX = x
		if a.X > b.X {
			best = i
		} else {
			best = (i + 1) % n
		}
	}
	if best < 0 {
		// Degenerate input, fall back to nearest outline vertex.
		bestD := float32(math32.MaxFloat32)
		for i, vi := range poly {
			if d := ms2.Norm(ms2.Sub(verts[vi], M)); d < bestD {
				bestD, best = d, i
			}
		}
	} else {
		// Reflex vertices inside triangle (M, I, P) may block visibility,
		// pick the one with the smallest angle to the ray.
		I := ms2.Vec{X: bestX, Y: M.Y}
		P := verts[poly[best]]
		bestTan := float32(math32.MaxFloat32)
		for i, vi := range poly {
			v := verts[vi]
			if i == best || v == P || !pointInTriangle(M, I, P, v) && !pointInTriangle(M, P, I, v) {
				continue
			}
			if !isReflex(verts, poly, i) {
				continue
			}
			dx := v.X - M.X
			if dx <= 0 {
				continue
			}
			if tan := math32.Abs(v.Y-M.Y) / dx; tan < bestTan {
				bestTan, best = tan, i
			}
		}
	}
	out := make([]int, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:best+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(m+i)%len(hole)])
	}
	out = append(out, poly[best])
	out = append(out, poly[best+1:]...)
	return out
}

func isReflex(verts []ms2.Vec, poly []int, i int) bool {
	n := len(poly)
	a, b, c := verts[poly[(i+n-1)%n]], verts[poly[i]], verts[poly[(i+1)%n]]
	return cross2(ms2.Sub(b, a), ms2.Sub(c, b)) < 0
}

func earClip(verts []ms2.Vec, poly []int) ([]int, error) {
	tris := make([]int, 0, 3*(len(poly)-2))
	poly = append([]int{}, poly...)
	var err error
	for len(poly) > 3 {
		n := len(poly)
		ear, convex := -1, -1
		for i := 0; i < n && ear < 0; i++ {
			a, b, c := verts[poly[(i+n-1)%n]], verts[poly[i]], verts[poly[(i+1)%n]]
			cr := cross2(ms2.Sub(b, a), ms2.Sub(c, b))
			switch {
			case cr == 0:
				// Collinear or duplicate vertex, dropped without a triangle.
				ear = i
			case cr > 0 && convex < 0:
				convex = i
				fallthrough
			case cr > 0:
				if isEar(verts, poly, a, b, c) {
					ear = i
				}
			}
		}
		if ear < 0 {
			if convex < 0 {
				return tris, errNoEar
			}
			// Clip a convex vertex anyway so that input with touching
			// edges still yields a mesh.
			ear, err = convex, errNoEar
		}
		ia, ib, ic := poly[(ear+n-1)%n], poly[ear], poly[(ear+1)%n]
		if cross2(ms2.Sub(verts[ib], verts[ia]), ms2.Sub(verts[ic], verts[ib])) != 0 {
			tris = append(tris, ia, ib, ic)
		}
		poly = append(poly[:ear], poly[ear+1:]...)
	}
	if len(poly) == 3 {
		a, b, c := verts[poly[0]], verts[poly[1]], verts[poly[2]]
		if cross2(ms2.Sub(b, a), ms2.Sub(c, b)) > 0 {
			tris = append(tris, poly[0], poly[1], poly[2])
		}
	}
	return tris, err
}

func isEar(verts []ms2.Vec, poly []int, a, b, c ms2.Vec) bool {
	for _, vi := range poly {
		p := verts[vi]
		if p == a || p == b || p == c {
			continue
		}
		if pointInTriangle(a, b, c, p) {
			return false
		}
	}
	return true
}

// pointInTriangle reports whether p lies inside or on the counter clockwise triangle abc.
func pointInTriangle(a, b, c, p ms2.Vec) bool {
	return cross2(ms2.Sub(b, a), ms2.Sub(p, a)) >= 0 &&
		cross2(ms2.Sub(c, b), ms2.Sub(p, b)) >= 0 &&
		cross2(ms2.Sub(a, c), ms2.Sub(p, c)) >= 0
}

func cross2(a, b ms2.Vec) float32 {
	return a.X*b.Y - a.Y*b.X
}
