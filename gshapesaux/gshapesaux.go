// Package gshapesaux runs gshapes scenes, either in a window or headless into image files.
package gshapesaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/soypat/gshapes"
	"github.com/soypat/gshapes/glrender"
)

// FrameConfig configures a headless frame dump.
type FrameConfig struct {
	// Frames is the number of frames rendered.
	Frames int
	// PeriodMs is the timestamp step between frames in milliseconds.
	PeriodMs float64
	// Dir receives the PNG files. It is created if missing.
	Dir string
	// Prefix of the file names, followed by the zero padded frame number.
	// Defaults to the scene name.
	Prefix string
	// Paced renders on a wall clock ticker of period PeriodMs instead of
	// replaying fixed timestamps.
	Paced bool
}

// RenderFrames renders fc.Frames ticks of the scene described by cfg with the
// software rasterizer and writes each frame as a PNG file. Asynchronous
// entries are awaited before the first frame so every frame shows the
// complete scene. It returns the written file names. Frames rendered while
// the surface is zero sized are not written.
func RenderFrames(ctx context.Context, cfg gshapes.Config, fc FrameConfig, log *slog.Logger) ([]string, error) {
	if fc.Frames <= 0 {
		return nil, errors.New("RenderFrames requires a positive frame count")
	}
	if fc.Paced && fc.PeriodMs <= 0 {
		return nil, errors.New("paced RenderFrames requires a positive period")
	}
	if log == nil {
		log = slog.Default()
	}
	if fc.Prefix == "" {
		fc.Prefix = cfg.Scene
	}
	if fc.Dir != "" {
		if err := os.MkdirAll(fc.Dir, 0o755); err != nil {
			return nil, err
		}
	}
	raster, err := glrender.NewRasterizer(0, 0)
	if err != nil {
		return nil, err
	}
	rec := &pngRecorder{Rasterizer: raster, dir: fc.Dir, prefix: fc.Prefix}
	surface := &gshapes.FixedSurface{Width: cfg.Window.Width, Height: cfg.Window.Height, Ratio: cfg.Window.PixelRatio}
	var sched gshapes.Scheduler = gshapes.FixedSteps(fc.Frames, fc.PeriodMs)
	if fc.Paced {
		ts := gshapes.NewTickerScheduler(time.Duration(fc.PeriodMs * float64(time.Millisecond)))
		defer ts.Stop()
		sched = gshapes.Limit(ts, fc.Frames)
	}
	watch := stopwatch()
	d, err := gshapes.Setup(ctx, cfg, rec, surface, sched, log)
	if err != nil {
		return nil, err
	}
	d.WaitLoads()
	log.Debug("scene ready", "objects", len(d.Context().Animated()), "elapsed", watch())
	watch = stopwatch()
	err = d.Run(ctx)
	if err != nil {
		return rec.files, err
	}
	st := raster.Stats()
	log.Info("wrote frames", "frames", len(rec.files), "dir", fc.Dir, "elapsed", watch(),
		"triangles", st.Triangles, "culled", st.Culled, "lines", st.Lines, "points", st.Points)
	return rec.files, nil
}

// UI opens a resizable window and animates the scene described by cfg until
// the window is closed or ctx is done. It must be called from the main
// thread and requires cgo.
func UI(ctx context.Context, cfg gshapes.Config, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	return ui(ctx, cfg, log)
}

// pngRecorder writes every rendered frame to a PNG file.
type pngRecorder struct {
	*glrender.Rasterizer
	dir    string
	prefix string
	files  []string
}

func (rec *pngRecorder) Render(scene *gshapes.Scene, cam *gshapes.Camera) error {
	err := rec.Rasterizer.Render(scene, cam)
	if err != nil || rec.Image().Bounds().Empty() {
		// PNG cannot hold an empty image. Detached surfaces produce no file.
		return err
	}
	name := filepath.Join(rec.dir, fmt.Sprintf("%s%04d.png", rec.prefix, len(rec.files)))
	err = WritePNG(name, rec.Image())
	if err != nil {
		return err
	}
	rec.files = append(rec.files, name)
	return nil
}

// WritePNG encodes img to a new PNG file with said filename.
func WritePNG(filename string, img image.Image) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return fp.Sync()
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
