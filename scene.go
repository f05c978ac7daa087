package gshapes

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshapes/geom"
)

// Node is a placed object of the scene graph. A node without geometry is a
// group that only transforms its children.
type Node struct {
	Name     string
	Position ms3.Vec
	// Rotation holds Euler angles in radians applied in X, Y, Z order.
	Rotation ms3.Vec
	Geometry *geom.Geometry
	Material Material
	Children []*Node
}

// NewMesh returns a node drawing g with material m.
func NewMesh(name string, g *geom.Geometry, m Material) *Node {
	return &Node{Name: name, Geometry: g, Material: m}
}

// NewGroup returns a node with the given children and no geometry.
func NewGroup(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children}
}

// Add appends child to the node's children.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

// LocalMatrix returns the transform from node space to parent space.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X, n.Position.Y, n.Position.Z)
	r := mgl32.HomogRotate3DX(n.Rotation.X).
		Mul4(mgl32.HomogRotate3DY(n.Rotation.Y)).
		Mul4(mgl32.HomogRotate3DZ(n.Rotation.Z))
	return t.Mul4(r)
}

func (n *Node) walk(parent mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	world := parent.Mul4(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.Children {
		c.walk(world, fn)
	}
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Position  ms3.Vec
	Color     Color
	Intensity float32
}

// Direction returns the unit vector pointing from the scene towards the light.
func (l DirectionalLight) Direction() ms3.Vec {
	if ms3.Norm(l.Position) == 0 {
		return ms3.Vec{Z: 1}
	}
	return ms3.Unit(l.Position)
}

// Scene is the root of the scene graph.
type Scene struct {
	Background Color
	Lights     []DirectionalLight
	nodes      []*Node
}

// NewScene returns an empty scene with the given background.
func NewScene(background Color) *Scene {
	return &Scene{Background: background}
}

// Add attaches a top level node.
func (s *Scene) Add(n *Node) {
	s.nodes = append(s.nodes, n)
}

// Nodes returns the top level nodes in insertion order.
func (s *Scene) Nodes() []*Node { return s.nodes }

// Walk calls fn for every node in depth first order with its world matrix.
func (s *Scene) Walk(fn func(n *Node, world mgl32.Mat4)) {
	ident := mgl32.Ident4()
	for _, n := range s.nodes {
		n.walk(ident, fn)
	}
}

// Camera is a perspective camera looking down -Z from Position. Only the
// aspect ratio changes after construction.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV       float32
	Near, Far float32
	Position  ms3.Vec
	aspect    float32
	proj      mgl32.Mat4
}

// NewCamera returns a camera with its projection computed.
func NewCamera(fov, aspect, near, far float32, pos ms3.Vec) *Camera {
	c := &Camera{FOV: fov, Near: near, Far: far, Position: pos}
	c.SetAspect(aspect)
	return c
}

// SetAspect sets the width/height ratio and recomputes the projection.
func (c *Camera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

func (c *Camera) Aspect() float32 { return c.aspect }

func (c *Camera) Projection() mgl32.Mat4 { return c.proj }

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.Translate3D(-c.Position.X, -c.Position.Y, -c.Position.Z)
}

// ViewProjection returns Projection×View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.proj.Mul4(c.View())
}
