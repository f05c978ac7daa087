package textmesh

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gshapes/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const firstBasic = '!'
const lastBasic = '~'

// Font implements font parsing and glyph outline generation.
type Font struct {
	ttf truetype.Font
	gb  truetype.GlyphBuf
	// basicGlyphs optimized array access for common ASCII glyphs.
	basicGlyphs [lastBasic - firstBasic + 1]*glyph
	// Other kinds of glyphs.
	otherGlyphs map[rune]*glyph
	loaded      bool
}

// LoadTTFBytes loads a TTF file blob into f. After calling Load the Font is ready to generate text outlines.
func (f *Font) LoadTTFBytes(ttf []byte) error {
	font, err := truetype.Parse(ttf)
	if err != nil {
		return err
	}
	f.reset()
	f.ttf = *font
	f.loaded = true
	return nil
}

// reset resets most internal state of Font without removing underlying assigned font.
func (f *Font) reset() {
	for i := range f.basicGlyphs {
		f.basicGlyphs[i] = nil
	}
	if f.otherGlyphs == nil {
		f.otherGlyphs = make(map[rune]*glyph)
	} else {
		clear(f.otherGlyphs)
	}
}

// contour is a closed TrueType outline in em units.
type contour struct {
	pts []ms2.Vec
	on  []bool
}

// glyphShape is an outer contour with the holes it contains.
type glyphShape struct {
	outline contour
	holes   []contour
}

type glyph struct {
	shapes []glyphShape
}

// TextLine returns the outlines of a single line of text. One em measures
// size world units. TextLine takes kerning and advance width into account
// for letter spacing. Glyphs start at x=0 on the baseline and are appended
// in positive x direction.
func (f *Font) TextLine(s string, size float32) ([]geom.Shape, error) {
	if !f.loaded {
		return nil, errors.New("no font loaded")
	}
	if size <= 0 {
		return nil, errors.New("text size must be positive")
	}
	var shapes []geom.Shape
	scale := f.scale()
	var idxPrev truetype.Index
	var xOfs int64
	scaleout := size / float32(f.ttf.FUnitsPerEm())
	for ic, c := range s {
		if !unicode.IsGraphic(c) && c != '\t' {
			return nil, fmt.Errorf("char %q not graphic", c)
		}
		idx := f.ttf.Index(c)
		hm := f.ttf.HMetric(scale, idx)
		if unicode.IsSpace(c) {
			if c == '\t' {
				hm.AdvanceWidth *= 4
			}
			xOfs += int64(hm.AdvanceWidth)
			continue
		}
		g, err := f.glyph(c)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}
		if ic > 0 {
			xOfs += int64(f.ttf.Kern(scale, idxPrev, idx))
		}
		idxPrev = idx
		offset := ms2.Vec{X: float32(xOfs) * scaleout}
		for _, gs := range g.shapes {
			shapes = append(shapes, gs.shape(size, offset))
		}
		xOfs += int64(hm.AdvanceWidth)
	}
	if len(shapes) == 0 {
		// Only whitespace.
		return nil, errors.New("no text provided")
	}
	return shapes, nil
}

// Kern returns the horizontal adjustment for the given glyph pair in em units. A positive kern means to move the glyphs further apart.
func (f *Font) Kern(c0, c1 rune) float32 {
	return float32(f.ttf.Kern(f.scale(), f.ttf.Index(c0), f.ttf.Index(c1))) * f.emScale()
}

// AdvanceWidth returns the horizontal advance of a glyph in em units.
func (f *Font) AdvanceWidth(c rune) float32 {
	return float32(f.ttf.HMetric(f.scale(), f.ttf.Index(c)).AdvanceWidth) * f.emScale()
}

// Glyph returns the outlines of a character in em units with its origin on the baseline.
func (f *Font) Glyph(c rune) ([]geom.Shape, error) {
	g, err := f.glyph(c)
	if err != nil {
		return nil, err
	}
	shapes := make([]geom.Shape, len(g.shapes))
	for i := range g.shapes {
		shapes[i] = g.shapes[i].shape(1, ms2.Vec{})
	}
	return shapes, nil
}

func (f *Font) glyph(c rune) (g *glyph, err error) {
	if !f.loaded {
		return nil, errors.New("no font loaded")
	}
	if c >= firstBasic && c <= lastBasic {
		// Basic ASCII glyph case.
		g = f.basicGlyphs[c-firstBasic]
		if g == nil {
			// Glyph not yet created. create it.
			g, err = f.makeGlyph(c)
			if err != nil {
				return nil, err
			}
			f.basicGlyphs[c-firstBasic] = g
		}
		return g, nil
	}
	// Unicode or other glyph.
	g, ok := f.otherGlyphs[c]
	if !ok {
		g, err = f.makeGlyph(c)
		if err != nil {
			return nil, err
		}
		f.otherGlyphs[c] = g
	}
	return g, nil
}

// scale is chosen so that glyph buffer coordinates equal font units.
func (f *Font) scale() fixed.Int26_6 {
	return fixed.Int26_6(f.ttf.FUnitsPerEm())
}

func (f *Font) emScale() float32 {
	return 1 / float32(f.ttf.FUnitsPerEm())
}

func (f *Font) makeGlyph(char rune) (*glyph, error) {
	g := &f.gb
	idx := f.ttf.Index(char)
	err := g.Load(&f.ttf, f.scale(), idx, font.HintingNone)
	if err != nil {
		return nil, err
	}
	if len(g.Ends) == 0 {
		return &glyph{}, nil
	}
	emscale := f.emScale()
	var fills, holes []contour
	start := 0
	for _, end := range g.Ends {
		c := newContour(g.Points[start:end], emscale)
		start = end
		if len(c.pts) < 3 {
			continue
		}
		// TrueType fills clockwise contours.
		if signedArea(c.pts) < 0 {
			fills = append(fills, c)
		} else {
			holes = append(holes, c)
		}
	}
	out := &glyph{shapes: make([]glyphShape, len(fills))}
	for i := range fills {
		out.shapes[i].outline = fills[i]
	}
	for _, h := range holes {
		// Holes belong to the smallest fill that contains them.
		best := -1
		var bestArea float32
		for i := range fills {
			if !pointInPolygon(h.pts[0], fills[i].pts) {
				continue
			}
			a := math32.Abs(signedArea(fills[i].pts))
			if best < 0 || a < bestArea {
				best, bestArea = i, a
			}
		}
		if best < 0 {
			// Orphan counter clockwise contour, treat as its own outline.
			out.shapes = append(out.shapes, glyphShape{outline: h})
			continue
		}
		out.shapes[best].holes = append(out.shapes[best].holes, h)
	}
	return out, nil
}

func newContour(points []truetype.Point, scale float32) contour {
	c := contour{
		pts: make([]ms2.Vec, len(points)),
		on:  make([]bool, len(points)),
	}
	for i, p := range points {
		c.pts[i] = ms2.Vec{X: float32(p.X) * scale, Y: float32(p.Y) * scale}
		c.on[i] = p.Flags&1 != 0
	}
	return c
}

func (gs *glyphShape) shape(scale float32, offset ms2.Vec) geom.Shape {
	s := geom.Shape{Outline: gs.outline.path(scale, offset)}
	for i := range gs.holes {
		s.Holes = append(s.Holes, gs.holes[i].path(scale, offset))
	}
	return s
}

// path converts the contour to a path following the TrueType rule that two
// consecutive off-curve points imply an on-curve point at their midpoint.
func (c *contour) path(scale float32, offset ms2.Vec) geom.Path {
	var p geom.Path
	n := len(c.pts)
	v := func(i int) ms2.Vec { return ms2.Add(ms2.Scale(scale, c.pts[i%n]), offset) }
	start := -1
	for i := range c.on {
		if c.on[i] {
			start = i
			break
		}
	}
	var first ms2.Vec
	var from, to int
	if start < 0 {
		// All points off-curve.
		first = midpoint(v(n-1), v(0))
		from, to = 0, n
	} else {
		first = v(start)
		from, to = start+1, start+n
	}
	p.MoveTo(first.X, first.Y)
	var ctrl ms2.Vec
	hasCtrl := false
	step := func(pt ms2.Vec, on bool) {
		switch {
		case on && hasCtrl:
			p.QuadTo(ctrl.X, ctrl.Y, pt.X, pt.Y)
			hasCtrl = false
		case on:
			p.LineTo(pt.X, pt.Y)
		case hasCtrl:
			m := midpoint(ctrl, pt)
			p.QuadTo(ctrl.X, ctrl.Y, m.X, m.Y)
			ctrl = pt
		default:
			ctrl, hasCtrl = pt, true
		}
	}
	for i := from; i < to; i++ {
		step(v(i), c.on[i%n])
	}
	step(first, true)
	return p
}

func midpoint(a, b ms2.Vec) ms2.Vec {
	return ms2.Scale(0.5, ms2.Add(a, b))
}

// signedArea of the control polygon, positive for counter clockwise contours.
func signedArea(poly []ms2.Vec) float32 {
	var sum float32
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// pointInPolygon uses the even-odd rule.
func pointInPolygon(p ms2.Vec, poly []ms2.Vec) bool {
	in := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
