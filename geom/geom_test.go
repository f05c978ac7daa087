package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

func TestBoxTopology(t *testing.T) {
	var bld Builder
	box := bld.NewBox(1, 2, 3, 1, 1, 1)
	if len(box.Positions) != 24 {
		t.Errorf("want 24 box vertices, got %d", len(box.Positions))
	}
	if box.NumPrimitives() != 12 {
		t.Errorf("want 12 box triangles, got %d", box.NumPrimitives())
	}
	bb := box.Bounds()
	want := ms3.Vec{X: 1, Y: 2, Z: 3}
	if ms3.Norm(ms3.Sub(bb.Size(), want)) > 1e-5 {
		t.Errorf("want box size %v, got %v", want, bb.Size())
	}
	checkWinding(t, box)
}

func TestPrimitiveWinding(t *testing.T) {
	var bld Builder
	for _, test := range []struct {
		name string
		g    *Geometry
	}{
		{"box", bld.NewBox(1, 1, 1, 2, 3, 4)},
		{"sphere", bld.NewSphere(2, 12, 8)},
		{"cylinder", bld.NewCylinder(1, 2, 3, 12, 2, false)},
		{"cone", bld.NewCone(1, 2, 16)},
		{"tetrahedron", bld.NewTetrahedron(3, 0)},
		{"octahedron", bld.NewOctahedron(3, 0)},
		{"icosahedron", bld.NewIcosahedron(3, 0)},
		{"dodecahedron", bld.NewDodecahedron(3, 0)},
	} {
		t.Run(test.name, func(t *testing.T) {
			if test.g.NumPrimitives() == 0 {
				t.Fatal("empty geometry")
			}
			if v := signedVolume(test.g); v <= 0 {
				t.Errorf("closed mesh must enclose positive volume with outward winding, got %g", v)
			}
		})
	}
	if err := bld.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestPolyhedronRadius(t *testing.T) {
	var bld Builder
	const r = 7
	for detail := 0; detail < 3; detail++ {
		g := bld.NewIcosahedron(r, detail)
		want := 20 * (detail + 1) * (detail + 1)
		if g.NumPrimitives() != want {
			t.Errorf("detail %d: want %d triangles, got %d", detail, want, g.NumPrimitives())
		}
		for i, p := range g.Positions {
			if math32.Abs(ms3.Norm(p)-r) > 1e-4 {
				t.Fatalf("detail %d: vertex %d at distance %g from center", detail, i, ms3.Norm(p))
			}
		}
	}
}

func TestKlein(t *testing.T) {
	got := Klein(0, 0)
	want := ms3.Vec{X: 3}
	if ms3.Norm(ms3.Sub(got, want)) > 1e-5 {
		t.Errorf("Klein(0,0) want %v, got %v", want, got)
	}
	// Second branch ignores the cross-section angle in z.
	a, b := Klein(0.1, 0.75), Klein(0.6, 0.75)
	if math32.Abs(a.Z-b.Z) > 1e-5 {
		t.Errorf("second branch z should not depend on v: %g != %g", a.Z, b.Z)
	}
	// The branch switches exactly at half the body sweep.
	a, b = Klein(0, 0.5), Klein(0.5, 0.5)
	if a.Z != b.Z {
		t.Errorf("z at u=0.5 should not depend on v: %g != %g", a.Z, b.Z)
	}
	a, b = Klein(0, 0.5-1e-3), Klein(0.5, 0.5-1e-3)
	if math32.Abs(a.Z-b.Z) < 1e-2 {
		t.Errorf("z just below u=0.5 should depend on v: %g ~ %g", a.Z, b.Z)
	}
	var bld Builder
	g := bld.NewParametric(Klein, 25, 25)
	if len(g.Positions) != 26*26 || g.NumPrimitives() != 2*25*25 {
		t.Errorf("unexpected parametric size: %d vertices, %d triangles", len(g.Positions), g.NumPrimitives())
	}
}

func TestParametricSampling(t *testing.T) {
	const slices, stacks = 4, 3
	var args [][2]float32
	var bld Builder
	g := bld.NewParametric(func(u, v float32) ms3.Vec {
		args = append(args, [2]float32{u, v})
		return ms3.Vec{X: u, Y: v}
	}, slices, stacks)
	if len(args) != (slices+1)*(stacks+1) {
		t.Fatalf("want %d samples, got %d", (slices+1)*(stacks+1), len(args))
	}
	for i := 0; i <= stacks; i++ {
		for j := 0; j <= slices; j++ {
			k := i*(slices+1) + j
			want := [2]float32{float32(j) / slices, float32(i) / stacks}
			if args[k] != want {
				t.Errorf("sample %d: want (u,v)=%v, got %v", k, want, args[k])
			}
			if p := g.Positions[k]; p.X != want[0] || p.Y != want[1] {
				t.Errorf("vertex %d at %v, want sample %v", k, p, want)
			}
		}
	}
	first, last := args[0], args[len(args)-1]
	if first != [2]float32{0, 0} || last != [2]float32{1, 1} {
		t.Errorf("samples must span [0,1] inclusive: first %v last %v", first, last)
	}
}

func TestTriangulateHole(t *testing.T) {
	outline := []ms2.Vec{{X: -2, Y: -2}, {X: 2, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}}
	hole := []ms2.Vec{{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}}
	tris, err := Triangulate(outline, [][]ms2.Vec{hole})
	if err != nil {
		t.Fatal(err)
	}
	verts := append(append([]ms2.Vec{}, outline...), hole...)
	if got := triangleArea(verts, tris); math32.Abs(got-12) > 1e-4 {
		t.Errorf("want triangulated area 12, got %g", got)
	}
}

func TestTriangulateConcave(t *testing.T) {
	poly := []ms2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 2, Y: 1}, {X: 0, Y: 4}}
	tris, err := Triangulate(poly, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 9 {
		t.Errorf("want 3 triangles, got %d", len(tris)/3)
	}
	if got := triangleArea(poly, tris); math32.Abs(got-10) > 1e-4 {
		t.Errorf("want area 10, got %g", got)
	}
}

func TestPathPoints(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(1, 0)
	p.QuadTo(2, 1, 1, 2)
	p.LineTo(0, 0)
	pts := p.AppendPoints(nil, 4)
	// Start, line end, 4 quad steps (last is quad end), closing point dropped.
	if len(pts) != 6 {
		t.Fatalf("want 6 points, got %d: %v", len(pts), pts)
	}
	if pts[len(pts)-1] != (ms2.Vec{X: 1, Y: 2}) {
		t.Errorf("last point should be the quad end, got %v", pts[len(pts)-1])
	}
}

func TestShapeContoursOrientation(t *testing.T) {
	var s Shape
	// Clockwise outline, counter clockwise hole: both get flipped.
	s.Outline.MoveTo(0, 0)
	s.Outline.LineTo(0, 4)
	s.Outline.LineTo(4, 4)
	s.Outline.LineTo(4, 0)
	var h Path
	h.MoveTo(1, 1)
	h.LineTo(2, 1)
	h.LineTo(2, 2)
	s.Holes = append(s.Holes, h)
	outline, holes := s.Contours(1)
	if signedArea(outline) <= 0 {
		t.Error("outline not counter clockwise")
	}
	if len(holes) != 1 || signedArea(holes[0]) >= 0 {
		t.Error("hole not clockwise")
	}
}

func squareShape(half float32, withHole bool) Shape {
	var s Shape
	s.Outline.MoveTo(-half, -half)
	s.Outline.LineTo(half, -half)
	s.Outline.LineTo(half, half)
	s.Outline.LineTo(-half, half)
	if withHole {
		var h Path
		h.MoveTo(-half/2, -half/2)
		h.LineTo(-half/2, half/2)
		h.LineTo(half/2, half/2)
		h.LineTo(half/2, -half/2)
		s.Holes = []Path{h}
	}
	return s
}

func TestExtrude(t *testing.T) {
	var bld Builder
	g := bld.NewExtrude([]Shape{squareShape(1, false)}, ExtrudeConfig{Steps: 2, Depth: 1})
	if err := bld.Err(); err != nil {
		t.Fatal(err)
	}
	// 2 caps of 2 triangles plus 4 sides of 2 steps of 2 triangles.
	if g.NumPrimitives() != 4+16 {
		t.Errorf("want 20 triangles, got %d", g.NumPrimitives())
	}
	if g.Indices != nil {
		t.Error("extrusion should be non-indexed")
	}
	if v := signedVolume(g); math32.Abs(v-4) > 1e-4 {
		t.Errorf("want volume 4, got %g", v)
	}

	bevelled := bld.NewExtrude([]Shape{squareShape(1, true)}, ExtrudeConfig{
		Steps: 1, Depth: 1, BevelEnabled: true, BevelThickness: 0.2, BevelSize: 0.1, BevelSegments: 2,
	})
	if err := bld.Err(); err != nil {
		t.Fatal(err)
	}
	bb := bevelled.Bounds()
	if math32.Abs(bb.Min.Z+0.2) > 1e-5 || math32.Abs(bb.Max.Z-1.2) > 1e-5 {
		t.Errorf("bevel should extend depth to [-0.2, 1.2], got [%g, %g]", bb.Min.Z, bb.Max.Z)
	}
	if math32.Abs(bb.Max.X-1.1) > 1e-4 {
		t.Errorf("bevel should grow outline to 1.1, got %g", bb.Max.X)
	}
	if v := signedVolume(bevelled); v <= 0 {
		t.Errorf("bevelled extrusion has non positive volume %g", v)
	}
}

func TestShapeGeometry(t *testing.T) {
	var bld Builder
	g := bld.NewShapeGeometry([]Shape{squareShape(2, true)}, 1)
	if err := bld.Err(); err != nil {
		t.Fatal(err)
	}
	if g.NumPrimitives() != 8 {
		t.Errorf("want 8 triangles for square with hole, got %d", g.NumPrimitives())
	}
	for i := 0; i < g.NumPrimitives(); i++ {
		if n := FaceNormal(g.Triangle(i)); n.Z < 0.99 {
			t.Fatalf("triangle %d faces %v, want +Z", i, n)
		}
	}
}

func TestEdgesAndWireframe(t *testing.T) {
	var bld Builder
	box := bld.NewBox(1, 1, 1, 1, 1, 1)
	edges := bld.Edges(box, 1)
	if edges.Topology != Lines || edges.NumPrimitives() != 12 {
		t.Errorf("want 12 box edges, got %d", edges.NumPrimitives())
	}
	wire := bld.Wireframe(box)
	if wire.NumPrimitives() != 30 {
		t.Errorf("want 30 indexed box wireframe segments, got %d", wire.NumPrimitives())
	}
	ico := bld.NewIcosahedron(1, 0)
	if got := bld.Wireframe(ico).NumPrimitives(); got != 60 {
		t.Errorf("want 3 segments per non-indexed triangle (60), got %d", got)
	}
	if got := bld.Edges(ico, 1).NumPrimitives(); got != 30 {
		t.Errorf("want 30 icosahedron edges, got %d", got)
	}
	pts := AsPoints(box)
	if pts.Topology != Points || pts.NumPrimitives() != 24 {
		t.Errorf("unexpected point cloud %v with %d points", pts.Topology, pts.NumPrimitives())
	}
}

func TestTube(t *testing.T) {
	var bld Builder
	g := bld.NewTube(SinCurve{Scale: 4}, 20, 1, 8, false)
	if len(g.Positions) != 21*9 || g.NumPrimitives() != 2*20*8 {
		t.Fatalf("unexpected tube size: %d vertices, %d triangles", len(g.Positions), g.NumPrimitives())
	}
	for i := 0; i <= 20; i++ {
		c := SinCurve{Scale: 4}.Point(float32(i) / 20)
		for j := 0; j <= 8; j++ {
			p := g.Positions[i*9+j]
			if d := ms3.Norm(ms3.Sub(p, c)); math32.Abs(d-1) > 1e-3 {
				t.Fatalf("ring %d vertex %d at distance %g from curve", i, j, d)
			}
		}
	}
}

func TestFrenetFrames(t *testing.T) {
	circle := CurveFunc(func(t float32) ms3.Vec {
		return ms3.Vec{X: math32.Cos(twoPi * t), Y: math32.Sin(twoPi * t), Z: 0.3 * math32.Sin(2*twoPi*t)}
	})
	for _, test := range []struct {
		name   string
		c      Curve
		closed bool
	}{
		{"sin", SinCurve{Scale: 4}, false},
		{"loop", circle, true},
	} {
		const segs = 32
		f := frenetFrames(test.c, segs, test.closed)
		for i := 0; i <= segs; i++ {
			T, N, B := f.tangents[i], f.normals[i], f.binormals[i]
			if math32.Abs(ms3.Norm(N)-1) > 1e-3 || math32.Abs(ms3.Norm(B)-1) > 1e-3 {
				t.Fatalf("%s frame %d: normal %v binormal %v not unit", test.name, i, N, B)
			}
			if math32.Abs(ms3.Dot(T, N)) > 1e-3 || math32.Abs(ms3.Dot(T, B)) > 1e-3 || math32.Abs(ms3.Dot(N, B)) > 1e-3 {
				t.Fatalf("%s frame %d not orthogonal: T=%v N=%v B=%v", test.name, i, T, N, B)
			}
		}
		if test.closed {
			if d := ms3.Norm(ms3.Sub(f.normals[0], f.normals[segs])); d > 1e-2 {
				t.Errorf("%s: closed curve normals should meet, off by %g", test.name, d)
			}
		}
	}
}

func TestTranslate(t *testing.T) {
	var bld Builder
	g := bld.NewBox(2, 2, 2, 1, 1, 1)
	d := ms3.Vec{X: 1, Y: -2, Z: 3}
	g.Translate(d)
	bb := g.Bounds()
	if ms3.Norm(ms3.Sub(bb.Center(), d)) > 1e-5 {
		t.Errorf("translated box centered at %v, want %v", bb.Center(), d)
	}
	if ms3.Norm(ms3.Sub(bb.Size(), ms3.Vec{X: 2, Y: 2, Z: 2})) > 1e-5 {
		t.Errorf("translation changed size to %v", bb.Size())
	}
}

func TestBuilderErrors(t *testing.T) {
	bld := Builder{NoDimensionPanic: true}
	g := bld.NewBox(-1, 1, 1, 1, 1, 1)
	if g.NumElements() != 0 {
		t.Error("invalid box should be empty")
	}
	bld.NewSphere(1, 2, 1)
	if bld.Err() == nil {
		t.Fatal("expected accumulated errors")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic with NoDimensionPanic unset")
		}
	}()
	var strict Builder
	strict.NewTorus(0, 1, 4, 4, twoPi)
}

func checkWinding(t *testing.T, g *Geometry) {
	t.Helper()
	for i := 0; i < g.NumPrimitives(); i++ {
		tri := g.Triangle(i)
		fn := FaceNormal(tri)
		vn := g.Normals[g.Vertex(3*i)]
		if ms3.Dot(fn, vn) < 0.99 {
			t.Fatalf("triangle %d face normal %v disagrees with vertex normal %v", i, fn, vn)
		}
	}
}

// signedVolume uses the divergence theorem, positive for outward winding.
func signedVolume(g *Geometry) float32 {
	var v float32
	for i := 0; i < g.NumPrimitives(); i++ {
		tri := g.Triangle(i)
		v += ms3.Dot(tri[0], ms3.Cross(tri[1], tri[2])) / 6
	}
	return v
}

func triangleArea(verts []ms2.Vec, tris []int) float32 {
	var sum float32
	for i := 0; i < len(tris); i += 3 {
		a, b, c := verts[tris[i]], verts[tris[i+1]], verts[tris[i+2]]
		sum += cross2(ms2.Sub(b, a), ms2.Sub(c, a)) / 2
	}
	return sum
}
