package gshapes

import (
	"log/slog"

	"github.com/soypat/geometry/ms3"
)

// RenderContext owns the state shared by placement, resizing and the
// animation driver. It is used from a single goroutine.
type RenderContext struct {
	Scene    *Scene
	Camera   *Camera
	Renderer Renderer
	Surface  Surface
	// Spread is the world distance between adjacent grid cells.
	Spread float32
	// Log receives debug and error events. If nil slog.Default is used.
	Log *slog.Logger
	// animated holds placed nodes in placement order. Index in this slice
	// selects the rotation speed.
	animated []*Node
}

// Place positions node at (col·Spread, row·Spread, 0), attaches it to the
// scene and appends it to the animation list. Cells are not checked for
// collisions.
func (rc *RenderContext) Place(col, row int, node *Node) {
	node.Position = ms3.Vec{X: float32(col) * rc.Spread, Y: float32(row) * rc.Spread}
	rc.Scene.Add(node)
	rc.animated = append(rc.animated, node)
	rc.logger().Debug("placed", "name", node.Name, "col", col, "row", row, "index", len(rc.animated)-1)
}

// Animated returns the animation list. The returned slice must not be modified.
func (rc *RenderContext) Animated() []*Node { return rc.animated }

func (rc *RenderContext) logger() *slog.Logger {
	if rc.Log == nil {
		return slog.Default()
	}
	return rc.Log
}
