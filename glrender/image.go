package glrender

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshapes"
)

// framebuffer is a color image with a depth value per pixel.
type framebuffer struct {
	w, h  int
	img   *image.RGBA
	depth []float32
}

// screenVertex is a projected vertex: pixel coordinates with y pointing
// down, NDC depth and clip w.
type screenVertex struct {
	x, y, z, w float32
}

func (fb *framebuffer) reset(w, h int) {
	fb.w, fb.h = w, h
	fb.img = image.NewRGBA(image.Rect(0, 0, w, h))
	if cap(fb.depth) >= w*h {
		fb.depth = fb.depth[:w*h]
	} else {
		fb.depth = make([]float32, w*h)
	}
}

func (fb *framebuffer) clear(bg gshapes.Color) {
	c := color.RGBAModel.Convert(bg).(color.RGBA)
	pix := fb.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	for i := range fb.depth {
		fb.depth[i] = math32.Inf(1)
	}
}

// project maps p through mvp to pixel space. It reports false for points
// on or behind the camera plane.
func (fb *framebuffer) project(mvp mgl32.Mat4, p ms3.Vec) (screenVertex, bool) {
	v := mvp.Mul4x1(mgl32.Vec4{p.X, p.Y, p.Z, 1})
	if v[3] <= 1e-6 {
		return screenVertex{}, false
	}
	inv := 1 / v[3]
	return screenVertex{
		x: (v[0]*inv + 1) / 2 * float32(fb.w),
		y: (1 - v[1]*inv) / 2 * float32(fb.h),
		z: v[2] * inv,
		w: v[3],
	}, true
}

// plot writes c at pixel (x, y) if z passes the depth test.
func (fb *framebuffer) plot(x, y int, z float32, c color.RGBA) {
	if x < 0 || y < 0 || x >= fb.w || y >= fb.h || z < -1 || z > 1 {
		return
	}
	i := y*fb.w + x
	if z >= fb.depth[i] {
		return
	}
	fb.depth[i] = z
	fb.img.SetRGBA(x, y, c)
}

func (fb *framebuffer) fillTriangle(s [3]screenVertex, col gshapes.Color) {
	c := color.RGBAModel.Convert(col).(color.RGBA)
	area := edge(s[0], s[1], s[2].x, s[2].y)
	if math32.Abs(area) < 1e-9 {
		return
	}
	minx := max(int(math32.Floor(min(s[0].x, s[1].x, s[2].x))), 0)
	maxx := min(int(math32.Ceil(max(s[0].x, s[1].x, s[2].x))), fb.w-1)
	miny := max(int(math32.Floor(min(s[0].y, s[1].y, s[2].y))), 0)
	maxy := min(int(math32.Ceil(max(s[0].y, s[1].y, s[2].y))), fb.h-1)
	inv := 1 / area
	for y := miny; y <= maxy; y++ {
		py := float32(y) + 0.5
		for x := minx; x <= maxx; x++ {
			px := float32(x) + 0.5
			w0 := edge(s[1], s[2], px, py) * inv
			w1 := edge(s[2], s[0], px, py) * inv
			w2 := edge(s[0], s[1], px, py) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			fb.plot(x, y, w0*s[0].z+w1*s[1].z+w2*s[2].z, c)
		}
	}
}

// edge is twice the signed area of triangle (a, b, p).
func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (fb *framebuffer) drawLine(a, b screenVertex, col gshapes.Color) {
	c := color.RGBAModel.Convert(col).(color.RGBA)
	steps := int(math32.Ceil(max(math32.Abs(b.x-a.x), math32.Abs(b.y-a.y))))
	// Lines are drawn slightly towards the camera so they win over
	// coplanar faces.
	const bias = 1e-4
	for i := 0; i <= steps; i++ {
		t := float32(0)
		if steps > 0 {
			t = float32(i) / float32(steps)
		}
		x := a.x + t*(b.x-a.x)
		y := a.y + t*(b.y-a.y)
		z := a.z + t*(b.z-a.z)
		fb.plot(int(math32.Floor(x)), int(math32.Floor(y)), z-bias, c)
	}
}

// drawSquare draws a screen aligned square of side size pixels centered on s.
func (fb *framebuffer) drawSquare(s screenVertex, size float32, col gshapes.Color) {
	c := color.RGBAModel.Convert(col).(color.RGBA)
	half := size / 2
	x0, x1 := int(math32.Floor(s.x-half)), int(math32.Ceil(s.x+half))
	y0, y1 := int(math32.Floor(s.y-half)), int(math32.Ceil(s.y+half))
	for y := max(y0, 0); y < min(y1, fb.h); y++ {
		for x := max(x0, 0); x < min(x1, fb.w); x++ {
			fb.plot(x, y, s.z, c)
		}
	}
}
