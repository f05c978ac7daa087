package gshapes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/soypat/gshapes/geom"
)

// SpeedLaw maps an animation list index to a rotation speed in radians
// per second: Base + index·Increment.
type SpeedLaw struct {
	Base      float32 `toml:"base"`
	Increment float32 `toml:"increment"`
}

// Speed presets of the two built-in scenes.
var (
	CubeSpeeds    = SpeedLaw{Base: 1, Increment: 0.1}
	GallerySpeeds = SpeedLaw{Base: 0.1, Increment: 0.05}
)

// Speed returns the speed of the object at index i.
func (l SpeedLaw) Speed(i int) float32 {
	return l.Base + float32(i)*l.Increment
}

// Angle returns the rotation of the object at index i after t seconds.
func (l SpeedLaw) Angle(t float32, i int) float32 {
	return t * l.Speed(i)
}

// DriverState is the state of a [Driver].
type DriverState uint8

const (
	// Idle is the state before the first tick.
	Idle DriverState = iota
	// Running is the steady tick loop.
	Running
)

func (s DriverState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return "unknown state"
}

// readyBufferSize bounds how many finished async loads may wait for the
// next tick before their goroutines block.
const readyBufferSize = 32

// ready is a finished asynchronous catalog entry. node runs on the render
// goroutine so it may use the material factory.
type ready struct {
	name     string
	col, row int
	geom     *geom.Geometry
	err      error
	node     func(*geom.Geometry) *Node
}

// Driver advances the animation of a RenderContext once per frame.
type Driver struct {
	rc     *RenderContext
	speeds SpeedLaw
	sched  Scheduler
	state  DriverState
	frames uint64
	ready  chan ready
	loads  sync.WaitGroup
	failed []error
}

// NewDriver returns an idle driver.
func NewDriver(rc *RenderContext, sched Scheduler, speeds SpeedLaw) *Driver {
	return &Driver{
		rc:     rc,
		speeds: speeds,
		sched:  sched,
		ready:  make(chan ready, readyBufferSize),
	}
}

func (d *Driver) State() DriverState { return d.state }

// Frames returns the number of completed ticks.
func (d *Driver) Frames() uint64 { return d.frames }

// Context returns the driven RenderContext.
func (d *Driver) Context() *RenderContext { return d.rc }

// Failures returns the errors of async loads that produced no node.
func (d *Driver) Failures() []error { return d.failed }

// Tick runs one frame for timestamp tms in milliseconds: it places finished
// async entries, syncs the surface, sets every animated node's X and Y
// rotation to t·speed and renders. Rotation depends only on tms and list
// index so decreasing timestamps are accepted as-is.
func (d *Driver) Tick(tms float64) error {
	d.state = Running
	d.drainReady()
	t := float32(tms / 1000)
	if _, err := d.rc.SyncSurface(); err != nil {
		return err
	}
	for i, n := range d.rc.animated {
		rot := d.speeds.Angle(t, i)
		n.Rotation.X = rot
		n.Rotation.Y = rot
	}
	err := d.rc.Renderer.Render(d.rc.Scene, d.rc.Camera)
	if err != nil {
		return fmt.Errorf("render frame %d: %w", d.frames, err)
	}
	d.frames++
	return nil
}

// Run ticks once per frame delivered by the scheduler until ctx is done or
// the scheduler stops. A stopped scheduler is not an error.
func (d *Driver) Run(ctx context.Context) error {
	log := d.rc.logger()
	log.Info("animation started", "objects", len(d.rc.animated))
	d.state = Running
	for {
		tms, err := d.sched.NextFrame(ctx)
		if errors.Is(err, ErrStopped) {
			log.Info("animation stopped", "frames", d.frames)
			return nil
		} else if err != nil {
			return err
		}
		if err := d.Tick(tms); err != nil {
			return err
		}
	}
}

// Load runs load in its own goroutine. When it finishes, the next tick
// builds the node with makeNode and places it at (col, row). A failed load
// is recorded as a [ResourceError] and creates no node.
func (d *Driver) Load(ctx context.Context, name string, col, row int, load func(context.Context) (*geom.Geometry, error), makeNode func(*geom.Geometry) *Node) {
	d.loads.Add(1)
	go func() {
		defer d.loads.Done()
		g, err := load(ctx)
		select {
		case d.ready <- ready{name: name, col: col, row: row, geom: g, err: err, node: makeNode}:
		case <-ctx.Done():
			d.rc.logger().Warn("async entry dropped", "name", name, "err", ctx.Err())
		}
	}()
}

// WaitLoads blocks until every started load has finished. Their nodes are
// placed on the following tick. With more than readyBufferSize loads pending
// between ticks, WaitLoads returns only once the load context is done and
// the excess results are dropped.
func (d *Driver) WaitLoads() {
	d.loads.Wait()
}

func (d *Driver) drainReady() {
	for {
		select {
		case r := <-d.ready:
			d.place(r)
		default:
			return
		}
	}
}

func (d *Driver) place(r ready) {
	if r.err == nil && r.geom == nil {
		r.err = errors.New("no geometry")
	}
	if r.err != nil {
		err := &ResourceError{Name: r.name, Err: r.err}
		d.failed = append(d.failed, err)
		d.rc.logger().Error("async entry failed", "name", r.name, "err", r.err)
		return
	}
	d.rc.Place(r.col, r.row, r.node(r.geom))
}
