// Package glrender implements a headless software renderer for gshapes scenes.
package glrender

import (
	"errors"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/gshapes"
	"github.com/soypat/gshapes/geom"
)

// DefaultAmbient is the light level of faces turned away from every light.
const DefaultAmbient = 0.25

// Stats counts the primitives handled by the last Render call.
type Stats struct {
	Triangles int
	// Culled counts back facing triangles of single sided materials.
	Culled int
	// Clipped counts primitives with a vertex behind the camera.
	Clipped int
	Lines   int
	Points  int
}

// Rasterizer is a z-buffered software [gshapes.Renderer]. Triangles are flat
// shaded with Lambert diffuse plus a constant ambient term. Primitives
// with any vertex behind the camera plane are discarded rather than clipped.
type Rasterizer struct {
	fb      framebuffer
	Ambient float32
	stats   Stats
}

var _ gshapes.Renderer = (*Rasterizer)(nil)

// NewRasterizer returns a rasterizer with a width×height backbuffer.
func NewRasterizer(width, height int) (*Rasterizer, error) {
	r := &Rasterizer{Ambient: DefaultAmbient}
	if err := r.SetSize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rasterizer) BackbufferSize() (int, int) { return r.fb.w, r.fb.h }

// SetSize reallocates the backbuffer. A zero sized backbuffer is valid and
// renders nothing.
func (r *Rasterizer) SetSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid backbuffer size %dx%d", width, height)
	}
	r.fb.reset(width, height)
	return nil
}

// Image returns the backbuffer. It is overwritten by the next Render.
func (r *Rasterizer) Image() *image.RGBA { return r.fb.img }

// Stats returns the counters of the last Render call.
func (r *Rasterizer) Stats() Stats { return r.stats }

// Render clears the backbuffer with the scene background and draws every
// node with geometry.
func (r *Rasterizer) Render(scene *gshapes.Scene, cam *gshapes.Camera) error {
	if scene == nil || cam == nil {
		return errors.New("nil scene or camera")
	}
	r.stats = Stats{}
	r.fb.clear(scene.Background)
	if r.fb.w == 0 || r.fb.h == 0 {
		return nil
	}
	vp := cam.ViewProjection()
	proj := cam.Projection()
	var light gshapes.DirectionalLight
	if len(scene.Lights) > 0 {
		light = scene.Lights[0]
	}
	lightDir := light.Direction()
	scene.Walk(func(n *gshapes.Node, world mgl32.Mat4) {
		g := n.Geometry
		if g == nil {
			return
		}
		mvp := vp.Mul4(world)
		switch g.Topology {
		case geom.Triangles:
			for i := 0; i < g.NumPrimitives(); i++ {
				r.triangle(g.Triangle(i), world, mvp, cam.Position, lightDir, light.Intensity, n.Material)
			}
		case geom.Lines:
			for i := 0; i < g.NumPrimitives(); i++ {
				a := g.Positions[g.Vertex(2*i)]
				b := g.Positions[g.Vertex(2*i+1)]
				r.line(a, b, mvp, n.Material.Color)
			}
		case geom.Points:
			// Pixels per world unit at unit depth.
			scale := proj[5] * float32(r.fb.h) / 2
			for i := 0; i < g.NumElements(); i++ {
				r.point(g.Positions[g.Vertex(i)], mvp, n.Material.Size*scale, n.Material.Color)
			}
		}
	})
	return nil
}

func (r *Rasterizer) triangle(t ms3.Triangle, world, mvp mgl32.Mat4, eye, lightDir ms3.Vec, intensity float32, m gshapes.Material) {
	var wt ms3.Triangle
	for i := range t {
		wt[i] = transformPoint(world, t[i])
	}
	n := geom.FaceNormal(wt)
	if ms3.Dot(n, ms3.Sub(eye, wt[0])) < 0 {
		if !m.DoubleSided {
			r.stats.Culled++
			return
		}
		n = ms3.Scale(-1, n)
	}
	var s [3]screenVertex
	for i := range t {
		v, ok := r.fb.project(mvp, t[i])
		if !ok {
			r.stats.Clipped++
			return
		}
		s[i] = v
	}
	diffuse := max(ms3.Dot(n, lightDir), 0) * intensity
	shade := ms1.Clamp(r.Ambient+(1-r.Ambient)*diffuse, 0, 1)
	r.fb.fillTriangle(s, m.Color.Scale(shade))
	r.stats.Triangles++
}

func (r *Rasterizer) line(a, b ms3.Vec, mvp mgl32.Mat4, c gshapes.Color) {
	sa, oka := r.fb.project(mvp, a)
	sb, okb := r.fb.project(mvp, b)
	if !oka || !okb {
		r.stats.Clipped++
		return
	}
	r.fb.drawLine(sa, sb, c)
	r.stats.Lines++
}

func (r *Rasterizer) point(p ms3.Vec, mvp mgl32.Mat4, size float32, c gshapes.Color) {
	sp, ok := r.fb.project(mvp, p)
	if !ok {
		r.stats.Clipped++
		return
	}
	r.fb.drawSquare(sp, math32.Max(size/sp.w, 1), c)
	r.stats.Points++
}

func transformPoint(m mgl32.Mat4, p ms3.Vec) ms3.Vec {
	v := m.Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
	return ms3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
