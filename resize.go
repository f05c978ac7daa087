package gshapes

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Surface is the display surface a renderer presents to.
type Surface interface {
	// ClientSize returns the laid out size in logical pixels. Both are zero
	// before the surface is attached.
	ClientSize() (width, height int)
	// DevicePixelRatio returns physical pixels per logical pixel. Values
	// that are NaN or not positive mean the ratio is unavailable.
	DevicePixelRatio() float32
}

// Renderer rasterizes a scene into its backbuffer.
type Renderer interface {
	BackbufferSize() (width, height int)
	// SetSize resizes the backbuffer to exactly width×height pixels.
	// A 0×0 backbuffer must be accepted.
	SetSize(width, height int) error
	Render(scene *Scene, cam *Camera) error
}

// FixedSurface is a Surface of constant size.
type FixedSurface struct {
	Width, Height int
	Ratio         float32
}

func (s *FixedSurface) ClientSize() (int, int)    { return s.Width, s.Height }
func (s *FixedSurface) DevicePixelRatio() float32 { return s.Ratio }

// snapTol is how close a scaled size must be to an integer to be rounded to
// it instead of floored. Ratios derived from integer sizes land within it.
const snapTol = 1e-3

// BackbufferTarget returns the backbuffer size matching the surface: the
// client size scaled by the device pixel ratio and floored.
func BackbufferTarget(s Surface) (width, height int) {
	p := s.DevicePixelRatio()
	if math32.IsNaN(p) || p <= 0 {
		p = 1
	}
	cw, ch := s.ClientSize()
	return scaleDim(cw, p), scaleDim(ch, p)
}

func scaleDim(d int, ratio float32) int {
	v := float32(max(d, 0)) * ratio
	if r := math32.Round(v); math32.Abs(v-r) < snapTol {
		return int(r)
	}
	return int(math32.Floor(v))
}

// CheckAndResize resizes the renderer's backbuffer when it differs from the
// surface's scaled client size and reports whether it did. A second call
// without a surface change reports false.
func CheckAndResize(r Renderer, s Surface) (bool, error) {
	w, h := BackbufferTarget(s)
	bw, bh := r.BackbufferSize()
	if w == bw && h == bh {
		return false, nil
	}
	if err := r.SetSize(w, h); err != nil {
		return false, fmt.Errorf("resize backbuffer to %dx%d: %w", w, h, err)
	}
	return true, nil
}

// SyncSurface resizes the backbuffer if needed and, on resize, sets the
// camera aspect to the client width over height. The aspect is left
// unchanged while the client height is zero.
func (rc *RenderContext) SyncSurface() (bool, error) {
	resized, err := CheckAndResize(rc.Renderer, rc.Surface)
	if err != nil || !resized {
		return resized, err
	}
	cw, ch := rc.Surface.ClientSize()
	if ch > 0 {
		rc.Camera.SetAspect(float32(cw) / float32(ch))
	}
	w, h := rc.Renderer.BackbufferSize()
	rc.logger().Debug("resized backbuffer", "width", w, "height", h, "aspect", rc.Camera.Aspect())
	return true, nil
}
