package gshapes

import (
	"context"
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshapes/forge/textmesh"
	"github.com/soypat/gshapes/geom"
)

// Style selects the material family of a catalog entry.
type Style uint8

const (
	// Solid entries get a lit material.
	Solid Style = iota
	// Lines entries get a black line material.
	Lines
	// PointCloud entries draw their vertices as red points.
	PointCloud
)

// pointSize is the point cloud size in world units.
const pointSize = 0.2

// Entry is a declarative catalog recipe: a geometry generator and the grid
// cell its node is placed at. Exactly one of Generate and Load is set.
type Entry struct {
	Name     string
	Col, Row int
	Style    Style
	// FixedColor replaces the random hue of a Solid entry with Color.
	FixedColor bool
	Color      Color
	// Center wraps the mesh in a group node so it rotates about the center
	// of its bounding box.
	Center   bool
	Generate func(bld *geom.Builder) *geom.Geometry
	// Load generates the geometry asynchronously.
	Load func(ctx context.Context, bld *geom.Builder) (*geom.Geometry, error)
}

func (e *Entry) material(mf *MaterialFactory) Material {
	switch e.Style {
	case Lines:
		return mf.Line()
	case PointCloud:
		return mf.Points(Red, pointSize)
	}
	if e.FixedColor {
		return mf.Fixed(e.Color)
	}
	return mf.Shaded()
}

// node realizes the entry. It draws from mf so it must run on the render goroutine.
func (e *Entry) node(g *geom.Geometry, mf *MaterialFactory) *Node {
	if e.Style == PointCloud {
		g = geom.AsPoints(g)
	}
	mesh := NewMesh(e.Name, g, e.material(mf))
	if !e.Center {
		return mesh
	}
	mesh.Position = ms3.Scale(-1, g.Bounds().Center())
	return NewGroup(e.Name, mesh)
}

// Populate realizes every entry in order. Synchronous entries are placed
// immediately, asynchronous ones are handed to the driver and placed on the
// tick after they finish.
func Populate(ctx context.Context, d *Driver, mf *MaterialFactory, entries []Entry) error {
	bld := geom.Builder{NoDimensionPanic: true}
	log := d.rc.logger()
	for i := range entries {
		e := &entries[i]
		switch {
		case e.Generate != nil && e.Load != nil:
			return fmt.Errorf("entry %q sets both Generate and Load", e.Name)
		case e.Generate != nil:
			g := e.Generate(&bld)
			d.rc.Place(e.Col, e.Row, e.node(g, mf))
		case e.Load != nil:
			load := func(ctx context.Context) (*geom.Geometry, error) {
				abld := geom.Builder{NoDimensionPanic: true}
				g, err := e.Load(ctx, &abld)
				if err == nil && abld.Err() != nil {
					log.Warn("async geometry degraded", "name", e.Name, "err", abld.Err())
				}
				return g, err
			}
			d.Load(ctx, e.Name, e.Col, e.Row, load, func(g *geom.Geometry) *Node {
				return e.node(g, mf)
			})
		default:
			return fmt.Errorf("entry %q has no generator", e.Name)
		}
	}
	return bld.Err()
}

// CubeEntries returns the three cube scene: green, purple and gold unit
// cubes at x = 0, -2 and 2.
func CubeEntries() []Entry {
	cube := func(bld *geom.Builder) *geom.Geometry { return bld.NewBox(1, 1, 1, 1, 1, 1) }
	return []Entry{
		{Name: "cube-green", Col: 0, FixedColor: true, Color: 0x44aa88, Generate: cube},
		{Name: "cube-purple", Col: -2, FixedColor: true, Color: 0x8844aa, Generate: cube},
		{Name: "cube-gold", Col: 2, FixedColor: true, Color: 0xd1c75e, Generate: cube},
	}
}

// Text shown by the gallery text entry.
const galleryText = "three.js"

// GalleryEntries returns the shape gallery on a 5×5 grid. The text entry
// fetches its font from fontSrc, see [textmesh.Fetch].
func GalleryEntries(fontSrc string) []Entry {
	return []Entry{
		{Name: "box", Col: -2, Row: 2, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewBox(8, 8, 8, 1, 1, 1)
		}},
		{Name: "circle", Col: -1, Row: 2, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewCircle(7, 24, 0, 2*math32.Pi)
		}},
		{Name: "cone", Col: 0, Row: 2, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewCone(6, 8, 16)
		}},
		{Name: "cylinder", Col: 1, Row: 2, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewCylinder(4, 4, 8, 12, 1, false)
		}},
		{Name: "dodecahedron", Col: 2, Row: 2, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewDodecahedron(7, 0)
		}},
		{Name: "extrude", Col: -2, Row: 1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewExtrude([]geom.Shape{heart()}, geom.ExtrudeConfig{
				Steps:          2,
				Depth:          2,
				BevelEnabled:   true,
				BevelThickness: 1,
				BevelSize:      1,
				BevelSegments:  2,
			})
		}},
		{Name: "icosahedron", Col: -1, Row: 1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewIcosahedron(7, 0)
		}},
		{Name: "lathe", Col: 0, Row: 1, Generate: func(bld *geom.Builder) *geom.Geometry {
			points := make([]ms2.Vec, 10)
			for i := range points {
				points[i] = ms2.Vec{X: math32.Sin(float32(i)*0.2)*3 + 3, Y: float32(i-5) * 0.8}
			}
			return bld.NewLathe(points, 12, 0, 2*math32.Pi)
		}},
		{Name: "octahedron", Col: 1, Row: 1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewOctahedron(7, 0)
		}},
		{Name: "klein", Col: 2, Row: 1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewParametric(geom.Klein, 25, 25)
		}},
		{Name: "plane", Col: -2, Row: 0, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewPlane(9, 9, 2, 2)
		}},
		{Name: "polyhedron", Col: -1, Row: 0, Generate: func(bld *geom.Builder) *geom.Geometry {
			vertices := []float32{
				-1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1,
				-1, -1, 1, 1, -1, 1, 1, 1, 1, -1, 1, 1,
			}
			faces := []int{
				2, 1, 0, 0, 3, 2,
				0, 4, 7, 7, 3, 0,
				0, 1, 5, 5, 4, 0,
				1, 2, 6, 6, 5, 1,
				2, 3, 7, 7, 6, 2,
				4, 5, 6, 6, 7, 4,
			}
			return bld.NewPolyhedron(vertices, faces, 7, 2)
		}},
		{Name: "ring", Col: 0, Row: 0, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewRing(2, 7, 18, 1)
		}},
		{Name: "shape", Col: 1, Row: 0, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewShapeGeometry([]geom.Shape{heart()}, 12)
		}},
		{Name: "sphere", Col: 2, Row: 0, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewSphere(7, 12, 8)
		}},
		{Name: "tetrahedron", Col: -2, Row: -1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewTetrahedron(7, 0)
		}},
		{Name: "text", Col: -1, Row: -1, Center: true, Load: func(ctx context.Context, bld *geom.Builder) (*geom.Geometry, error) {
			return textGeometry(ctx, bld, fontSrc)
		}},
		{Name: "torus", Col: 0, Row: -1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewTorus(5, 2, 8, 24, 2*math32.Pi)
		}},
		{Name: "torus-knot", Col: 1, Row: -1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewTorusKnot(3.5, 1.5, 64, 8, 2, 3)
		}},
		{Name: "tube", Col: 2, Row: -1, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewTube(geom.SinCurve{Scale: 4}, 20, 1, 8, false)
		}},
		{Name: "edges", Col: -1, Row: -2, Style: Lines, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.Edges(bld.NewBox(8, 8, 8, 1, 1, 1), 15)
		}},
		{Name: "wireframe", Col: 1, Row: -2, Style: Lines, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.Wireframe(bld.NewBox(8, 8, 8, 1, 1, 1))
		}},
		{Name: "points", Col: 0, Row: -2, Style: PointCloud, Generate: func(bld *geom.Builder) *geom.Geometry {
			return bld.NewSphere(7, 12, 8)
		}},
	}
}

// heart is the Bézier heart outline of the extrude and shape entries.
func heart() geom.Shape {
	const x, y = -2.5, -5
	var s geom.Shape
	p := &s.Outline
	p.MoveTo(x+2.5, y+2.5)
	p.BezierTo(x+2.5, y+2.5, x+2, y, x, y)
	p.BezierTo(x-3, y, x-3, y+3.5, x-3, y+3.5)
	p.BezierTo(x-3, y+5.5, x-1.5, y+7.7, x+2.5, y+9.5)
	p.BezierTo(x+6, y+7.7, x+8, y+4.5, x+8, y+3.5)
	p.BezierTo(x+8, y+3.5, x+8, y, x+5, y)
	p.BezierTo(x+3.5, y, x+2.5, y+2.5, x+2.5, y+2.5)
	return s
}

func textGeometry(ctx context.Context, bld *geom.Builder, fontSrc string) (*geom.Geometry, error) {
	f, err := textmesh.Load(ctx, fontSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFont, err)
	}
	g, err := f.Extrude(bld, galleryText, textmesh.TextConfig{
		Size:           3,
		Depth:          0.2,
		CurveSegments:  12,
		BevelEnabled:   true,
		BevelThickness: 0.15,
		BevelSize:      0.3,
		BevelSegments:  5,
	})
	if err != nil {
		return nil, err
	}
	if g.NumElements() == 0 {
		return nil, errors.New("empty text geometry")
	}
	return g, nil
}
