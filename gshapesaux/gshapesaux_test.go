package gshapesaux

import (
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/gshapes"
)

func TestRenderFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	cfg := gshapes.CubesConfig()
	cfg.Seed = 2
	cfg.Window.PixelRatio = 2
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	files, err := RenderFrames(context.Background(), cfg, FrameConfig{Frames: 3, PeriodMs: 100, Dir: dir}, log)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("want 3 frames, got %v", files)
	}
	if filepath.Base(files[2]) != "cubes0002.png" {
		t.Errorf("unexpected file name %s", files[2])
	}
	fp, err := os.Open(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 300 {
		t.Fatalf("want 600x300 frame at pixel ratio 2, got %v", b)
	}
	_, err = RenderFrames(context.Background(), cfg, FrameConfig{Dir: dir}, log)
	if err == nil {
		t.Fatal("zero frames should fail")
	}
}

func TestRenderFramesZeroSurface(t *testing.T) {
	cfg := gshapes.CubesConfig()
	cfg.Seed = 2
	cfg.Window.Width, cfg.Window.Height = 0, 0
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	files, err := RenderFrames(context.Background(), cfg, FrameConfig{Frames: 2, Dir: t.TempDir()}, log)
	if err != nil {
		t.Fatal("zero sized surface must not fail:", err)
	}
	if len(files) != 0 {
		t.Fatalf("empty frames should not be written: %v", files)
	}
}

func TestRenderFramesPaced(t *testing.T) {
	cfg := gshapes.CubesConfig()
	cfg.Seed = 2
	cfg.Window.Width, cfg.Window.Height = 30, 15
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fc := FrameConfig{Frames: 3, PeriodMs: 1, Dir: t.TempDir(), Paced: true}
	files, err := RenderFrames(context.Background(), cfg, fc, log)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("want 3 paced frames, got %v", files)
	}
	fc.PeriodMs = 0
	if _, err := RenderFrames(context.Background(), cfg, fc, log); err == nil {
		t.Fatal("paced dump without period should fail")
	}
}
