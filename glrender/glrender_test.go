package glrender

import (
	"context"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshapes"
	"github.com/soypat/gshapes/geom"
)

func TestRasterizeCubes(t *testing.T) {
	cfg := gshapes.CubesConfig()
	cfg.Seed = 1
	r, err := NewRasterizer(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := &gshapes.FixedSurface{Width: 300, Height: 150, Ratio: 1}
	d, err := gshapes.Setup(context.Background(), cfg, r, s, gshapes.FixedSteps(0, 16), log)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Tick(1000); err != nil {
		t.Fatal(err)
	}
	img := r.Image()
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 150 {
		t.Fatalf("backbuffer not resized: %v", img.Bounds())
	}
	black := color.RGBA{A: 255}
	if img.RGBAAt(2, 2) != black {
		t.Errorf("corner should show the background, got %v", img.RGBAAt(2, 2))
	}
	green := img.RGBAAt(150, 75)
	if green.G <= green.R || green.G <= green.B {
		t.Errorf("center should show the green cube, got %v", green)
	}
	purple := img.RGBAAt(52, 75)
	if purple.B <= purple.G || purple.R <= purple.G {
		t.Errorf("left cube should be purple, got %v", purple)
	}
	st := r.Stats()
	if st.Triangles == 0 || st.Culled == 0 {
		t.Errorf("single sided cubes should draw and cull faces: %+v", st)
	}
	if st.Triangles+st.Culled+st.Clipped != 3*12 {
		t.Errorf("every cube triangle must be accounted for: %+v", st)
	}
}

func TestRasterizeZeroSize(t *testing.T) {
	r, err := NewRasterizer(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	scene, cam := testScene()
	if err := r.Render(scene, cam); err != nil {
		t.Fatal("zero sized render must succeed:", err)
	}
	if !r.Image().Bounds().Empty() || r.Stats().Triangles != 0 {
		t.Fatal("zero sized render should draw nothing")
	}
	if err := r.SetSize(-1, 10); err == nil {
		t.Fatal("negative size should fail")
	}
	if err := r.SetSize(20, 10); err != nil {
		t.Fatal(err)
	}
	if w, h := r.BackbufferSize(); w != 20 || h != 10 {
		t.Fatalf("got %dx%d", w, h)
	}
	if err := r.Render(nil, cam); err == nil {
		t.Fatal("nil scene should fail")
	}
}

func TestRasterizeDepth(t *testing.T) {
	var bld geom.Builder
	plane := bld.NewPlane(1, 1, 1, 1)
	for _, frontFirst := range []bool{true, false} {
		scene, cam := testScene()
		front := gshapes.NewMesh("front", plane, gshapes.Material{Color: 0xff0000, DoubleSided: true})
		front.Position = ms3.Vec{Z: 0.5}
		back := gshapes.NewMesh("back", plane, gshapes.Material{Color: 0x0000ff, DoubleSided: true})
		if frontFirst {
			scene.Add(front)
			scene.Add(back)
		} else {
			scene.Add(back)
			scene.Add(front)
		}
		r, _ := NewRasterizer(64, 32)
		if err := r.Render(scene, cam); err != nil {
			t.Fatal(err)
		}
		c := r.Image().RGBAAt(32, 16)
		if c.R == 0 || c.B != 0 {
			t.Errorf("front plane should occlude the back one (front first=%v), got %v", frontFirst, c)
		}
	}
}

func TestRasterizeCulling(t *testing.T) {
	var bld geom.Builder
	plane := bld.NewPlane(1, 1, 1, 1)
	scene, cam := testScene()
	n := gshapes.NewMesh("plane", plane, gshapes.Material{Color: 0xffffff})
	n.Rotation.Y = 3.14159
	scene.Add(n)
	r, _ := NewRasterizer(64, 32)
	r.Render(scene, cam)
	if st := r.Stats(); st.Culled != 2 || st.Triangles != 0 {
		t.Fatalf("turned away plane should be culled: %+v", st)
	}
	n.Material.DoubleSided = true
	r.Render(scene, cam)
	if st := r.Stats(); st.Triangles != 2 {
		t.Fatalf("double sided plane should be drawn: %+v", st)
	}
	if c := r.Image().RGBAAt(32, 16); c.R == 0 {
		t.Fatal("back face of double sided plane not drawn")
	}
}

func TestRasterizeLinesAndPoints(t *testing.T) {
	var bld geom.Builder
	box := bld.NewBox(1, 1, 1, 1, 1, 1)
	scene, cam := testScene()
	scene.Background = 0xffffff
	scene.Add(gshapes.NewMesh("wire", bld.Wireframe(box), gshapes.Material{Shading: gshapes.LineBasic}))
	sphere := geom.AsPoints(bld.NewSphere(0.5, 8, 6))
	pts := gshapes.NewMesh("points", sphere, gshapes.Material{Shading: gshapes.PointsBasic, Color: gshapes.Red, Size: 0.05})
	pts.Position.X = 1.5
	scene.Add(pts)
	r, _ := NewRasterizer(200, 100)
	if err := r.Render(scene, cam); err != nil {
		t.Fatal(err)
	}
	st := r.Stats()
	if st.Lines != 30 {
		t.Errorf("want 30 wireframe segments, got %d", st.Lines)
	}
	if st.Points != sphere.NumElements() {
		t.Errorf("want %d points, got %d", sphere.NumElements(), st.Points)
	}
	img := r.Image()
	var black, red int
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			switch img.RGBAAt(x, y) {
			case color.RGBA{A: 255}:
				black++
			case color.RGBA{R: 255, A: 255}:
				red++
			}
		}
	}
	if black == 0 || red == 0 {
		t.Errorf("want black lines and red points, got %d black %d red pixels", black, red)
	}
}

func testScene() (*gshapes.Scene, *gshapes.Camera) {
	scene := gshapes.NewScene(0x000000)
	scene.Lights = append(scene.Lights, gshapes.DirectionalLight{Position: ms3.Vec{X: -1, Y: 2, Z: 4}, Color: 0xffffff, Intensity: 1})
	return scene, gshapes.NewCamera(75, 2, 0.1, 5, ms3.Vec{Z: 2})
}
