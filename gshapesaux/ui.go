//go:build !tinygo && cgo

package gshapesaux

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gshapes"
	"github.com/soypat/gshapes/geom"
	"github.com/soypat/gshapes/glrender"
)

func ui(ctx context.Context, cfg gshapes.Config, log *slog.Logger) error {
	window, term, err := startGLFW(cfg.Window)
	if err != nil {
		return err
	}
	defer term()
	r, err := newGLRenderer(window)
	if err != nil {
		return err
	}
	defer r.delete()
	surface := &windowSurface{win: window}
	sched := &windowScheduler{win: window}
	d, err := gshapes.Setup(ctx, cfg, r, surface, sched, log)
	if err != nil {
		return err
	}
	return d.Run(ctx)
}

// windowSurface reports the window's layout size and the ratio of its
// framebuffer to window size as the device pixel ratio.
type windowSurface struct {
	win *glfw.Window
}

func (s *windowSurface) ClientSize() (int, int) { return s.win.GetSize() }

func (s *windowSurface) DevicePixelRatio() float32 {
	w, _ := s.win.GetSize()
	fw, _ := s.win.GetFramebufferSize()
	if w == 0 {
		return 0
	}
	return float32(fw) / float32(w)
}

// windowScheduler delivers a frame per event poll. Frames are paced by the
// swap interval of the renderer's buffer swap.
type windowScheduler struct {
	win *glfw.Window
}

func (ws *windowScheduler) NextFrame(ctx context.Context) (float64, error) {
	glfw.PollEvents()
	if ws.win.ShouldClose() {
		return 0, gshapes.ErrStopped
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	return glfw.GetTime() * 1000, nil
}

const vertexSrc = `#version 460
in vec3 aPos;
in vec3 aNormal;
uniform mat4 uMVP;
uniform mat4 uModel;
uniform float uPointScale;
out vec3 vNormal;
void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vNormal = mat3(uModel) * aNormal;
	gl_PointSize = max(uPointScale / gl_Position.w, 1.0);
}
` + "\x00"

const fragmentSrc = `#version 460
in vec3 vNormal;
out vec4 fragColor;
uniform vec3 uColor;
uniform vec3 uLightDir;
uniform float uLight;
uniform float uAmbient;
uniform int uLit;
void main() {
	if (uLit == 0) {
		fragColor = vec4(uColor, 1.0);
		return;
	}
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}
	float dif = max(dot(n, uLightDir), 0.0) * uLight;
	fragColor = vec4(uColor * clamp(uAmbient + (1.0 - uAmbient) * dif, 0.0, 1.0), 1.0);
}
` + "\x00"

// glRenderer draws scenes with OpenGL into the window's default framebuffer.
// Geometry buffers are uploaded on first use and cached per geometry.
type glRenderer struct {
	win  *glfw.Window
	prog glgl.Program
	w, h int
	vaos map[*geom.Geometry]vertexArray

	uMVP, uModel, uPointScale, uColor, uLightDir, uLight, uAmbient, uLit int32
	aPos, aNormal                                                        uint32
}

type vertexArray struct {
	vao     uint32
	buffers [3]uint32
	count   int32
	indexed bool
}

func newGLRenderer(win *glfw.Window) (*glRenderer, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{Vertex: vertexSrc, Fragment: fragmentSrc})
	if err != nil {
		return nil, fmt.Errorf("compiling scene shaders: %w", err)
	}
	r := &glRenderer{win: win, prog: prog, vaos: make(map[*geom.Geometry]vertexArray)}
	prog.Bind()
	uniforms := []struct {
		dst  *int32
		name string
	}{
		{&r.uMVP, "uMVP\x00"},
		{&r.uModel, "uModel\x00"},
		{&r.uPointScale, "uPointScale\x00"},
		{&r.uColor, "uColor\x00"},
		{&r.uLightDir, "uLightDir\x00"},
		{&r.uLight, "uLight\x00"},
		{&r.uAmbient, "uAmbient\x00"},
		{&r.uLit, "uLit\x00"},
	}
	for _, u := range uniforms {
		*u.dst, err = prog.UniformLocation(u.name)
		if err != nil {
			return nil, err
		}
	}
	r.aPos, err = prog.AttribLocation("aPos\x00")
	if err != nil {
		return nil, err
	}
	r.aNormal, err = prog.AttribLocation("aNormal\x00")
	if err != nil {
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	return r, glgl.Err()
}

func (r *glRenderer) BackbufferSize() (int, int) { return r.w, r.h }

func (r *glRenderer) SetSize(w, h int) error {
	if w < 0 || h < 0 {
		return errors.New("negative backbuffer size")
	}
	r.w, r.h = w, h
	gl.Viewport(0, 0, int32(w), int32(h))
	return glgl.Err()
}

func (r *glRenderer) Render(scene *gshapes.Scene, cam *gshapes.Camera) error {
	bg := scene.Background
	cr, cg, cb := bg.RGB()
	gl.ClearColor(cr, cg, cb, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.w == 0 || r.h == 0 {
		r.win.SwapBuffers()
		return nil
	}
	r.prog.Bind()
	var light gshapes.DirectionalLight
	if len(scene.Lights) > 0 {
		light = scene.Lights[0]
	}
	ld := light.Direction()
	gl.Uniform3f(r.uLightDir, ld.X, ld.Y, ld.Z)
	gl.Uniform1f(r.uLight, light.Intensity)
	gl.Uniform1f(r.uAmbient, glrender.DefaultAmbient)
	vp := cam.ViewProjection()
	proj := cam.Projection()
	scene.Walk(func(n *gshapes.Node, world mgl32.Mat4) {
		g := n.Geometry
		if g == nil || g.NumElements() == 0 {
			return
		}
		va := r.vertexArray(g)
		m := n.Material
		mvp := vp.Mul4(world)
		gl.UniformMatrix4fv(r.uMVP, 1, false, &mvp[0])
		gl.UniformMatrix4fv(r.uModel, 1, false, &world[0])
		gl.Uniform1f(r.uPointScale, m.Size*proj[5]*float32(r.h)/2)
		cr, cg, cb := m.Color.RGB()
		gl.Uniform3f(r.uColor, cr, cg, cb)
		var mode uint32
		switch g.Topology {
		case geom.Triangles:
			mode = gl.TRIANGLES
			gl.Uniform1i(r.uLit, 1)
		case geom.Lines:
			mode = gl.LINES
			gl.Uniform1i(r.uLit, 0)
		default:
			mode = gl.POINTS
			gl.Uniform1i(r.uLit, 0)
		}
		if m.DoubleSided || g.Topology != geom.Triangles {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
		}
		gl.BindVertexArray(va.vao)
		if va.indexed {
			gl.DrawElements(mode, va.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
		} else {
			gl.DrawArrays(mode, 0, va.count)
		}
	})
	gl.BindVertexArray(0)
	r.win.SwapBuffers()
	return glgl.Err()
}

func (r *glRenderer) vertexArray(g *geom.Geometry) vertexArray {
	if va, ok := r.vaos[g]; ok {
		return va
	}
	if g.Normals == nil {
		g.ComputeNormals()
	}
	normals := g.Normals
	if normals == nil {
		// Unlit topologies still feed the normal attribute.
		normals = make([]ms3.Vec, len(g.Positions))
	}
	var va vertexArray
	gl.GenVertexArrays(1, &va.vao)
	gl.BindVertexArray(va.vao)
	gl.GenBuffers(3, &va.buffers[0])

	gl.BindBuffer(gl.ARRAY_BUFFER, va.buffers[0])
	gl.BufferData(gl.ARRAY_BUFFER, 12*len(g.Positions), gl.Ptr(g.Positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(r.aPos)
	gl.VertexAttribPointer(r.aPos, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindBuffer(gl.ARRAY_BUFFER, va.buffers[1])
	gl.BufferData(gl.ARRAY_BUFFER, 12*len(normals), gl.Ptr(normals), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(r.aNormal)
	gl.VertexAttribPointer(r.aNormal, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	if g.Indices != nil {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.buffers[2])
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(g.Indices), gl.Ptr(g.Indices), gl.STATIC_DRAW)
		va.indexed = true
	}
	va.count = int32(g.NumElements())
	gl.BindVertexArray(0)
	r.vaos[g] = va
	return va
}

func (r *glRenderer) delete() {
	for g, va := range r.vaos {
		gl.DeleteBuffers(3, &va.buffers[0])
		gl.DeleteVertexArrays(1, &va.vao)
		delete(r.vaos, g)
	}
	r.prog.Delete()
}

func startGLFW(wcfg gshapes.WindowConfig) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)
	w, h := wcfg.Width, wcfg.Height
	if w <= 0 || h <= 0 {
		w, h = 300, 150
	}
	window, err = glfw.CreateWindow(w, h, wcfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
