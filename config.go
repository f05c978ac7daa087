package gshapes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/geometry/ms3"
)

// Scene names of the built-in presets.
const (
	SceneCubes   = "cubes"
	SceneGallery = "gallery"
)

// defaultAspect is the aspect of an unsized 300×150 surface. The first tick
// replaces it.
const defaultAspect = 2

// Config describes a scene and how it is presented.
type Config struct {
	// Scene selects the catalog, one of "cubes" or "gallery".
	Scene  string       `toml:"scene"`
	Window WindowConfig `toml:"window"`
	Camera CameraConfig `toml:"camera"`
	// Background is a 0xRRGGBB color.
	Background Color `toml:"background"`
	// Spread is the world distance between grid cells.
	Spread float32  `toml:"spread"`
	Speed  SpeedLaw `toml:"speed"`
	Light  struct {
		Position  [3]float32 `toml:"position"`
		Intensity float32    `toml:"intensity"`
	} `toml:"light"`
	// Font is the text entry font source, see textmesh.Fetch.
	Font string `toml:"font"`
	// Seed seeds material hues. Zero picks a random seed.
	Seed uint64 `toml:"seed"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	// PixelRatio of headless surfaces.
	PixelRatio float32 `toml:"pixel_ratio"`
}

type CameraConfig struct {
	FOV  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
	Z    float32 `toml:"z"`
}

// CubesConfig returns the three rotating cubes preset.
func CubesConfig() Config {
	cfg := Config{
		Scene:      SceneCubes,
		Window:     WindowConfig{Width: 300, Height: 150, Title: "gshapes cubes", PixelRatio: 1},
		Camera:     CameraConfig{FOV: 75, Near: 0.1, Far: 5, Z: 2},
		Background: 0x000000,
		Spread:     1,
		Speed:      CubeSpeeds,
	}
	cfg.Light.Position = [3]float32{-1, 2, 4}
	cfg.Light.Intensity = 1
	return cfg
}

// GalleryConfig returns the shape gallery preset.
func GalleryConfig() Config {
	cfg := Config{
		Scene:      SceneGallery,
		Window:     WindowConfig{Width: 800, Height: 600, Title: "gshapes gallery", PixelRatio: 1},
		Camera:     CameraConfig{FOV: 40, Near: 0.1, Far: 1000, Z: 120},
		Background: 0x404040,
		Spread:     15,
		Speed:      GallerySpeeds,
	}
	cfg.Light.Position = [3]float32{-1, 2, 4}
	cfg.Light.Intensity = 1
	return cfg
}

// LoadConfig decodes a TOML configuration. Fields absent from r keep the
// values of the preset named by its scene key, the gallery by default.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	var probe struct {
		Scene string `toml:"scene"`
	}
	if err := toml.Unmarshal(b, &probe); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	var cfg Config
	switch probe.Scene {
	case SceneCubes:
		cfg = CubesConfig()
	case SceneGallery, "":
		cfg = GalleryConfig()
	default:
		return Config{}, fmt.Errorf("unknown scene %q", probe.Scene)
	}
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// OpenConfig loads the configuration file at path.
func OpenConfig(path string) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	return LoadConfig(fp)
}

// WriteTo encodes the configuration as TOML.
func (cfg Config) WriteTo(w io.Writer) (int64, error) {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Validate reports every invalid field.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Scene != SceneCubes && cfg.Scene != SceneGallery {
		errs = append(errs, fmt.Errorf("unknown scene %q", cfg.Scene))
	}
	if cfg.Window.Width < 0 || cfg.Window.Height < 0 {
		errs = append(errs, errors.New("negative window size"))
	}
	if cfg.Camera.FOV <= 0 || cfg.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g out of range (0, 180)", cfg.Camera.FOV))
	}
	if cfg.Camera.Near <= 0 || cfg.Camera.Far <= cfg.Camera.Near {
		errs = append(errs, errors.New("camera requires 0 < near < far"))
	}
	if cfg.Spread <= 0 {
		errs = append(errs, errors.New("spread must be positive"))
	}
	if cfg.Background > 0xffffff {
		errs = append(errs, fmt.Errorf("background %#x is not a 24 bit color", uint32(cfg.Background)))
	}
	return errors.Join(errs...)
}

// Entries returns the catalog of the configured scene.
func (cfg Config) Entries() []Entry {
	if cfg.Scene == SceneCubes {
		return CubeEntries()
	}
	return GalleryEntries(cfg.Font)
}

// NewRenderContext builds the camera, light and empty scene described by cfg.
func NewRenderContext(cfg Config, r Renderer, s Surface, log *slog.Logger) *RenderContext {
	scene := NewScene(cfg.Background)
	lp := cfg.Light.Position
	scene.Lights = append(scene.Lights, DirectionalLight{
		Position:  ms3.Vec{X: lp[0], Y: lp[1], Z: lp[2]},
		Color:     0xffffff,
		Intensity: cfg.Light.Intensity,
	})
	cam := NewCamera(cfg.Camera.FOV, defaultAspect, cfg.Camera.Near, cfg.Camera.Far, ms3.Vec{Z: cfg.Camera.Z})
	return &RenderContext{
		Scene:    scene,
		Camera:   cam,
		Renderer: r,
		Surface:  s,
		Spread:   cfg.Spread,
		Log:      log,
	}
}

// Setup validates cfg, builds its render context and populates the scene.
// The returned driver is idle.
func Setup(ctx context.Context, cfg Config, r Renderer, s Surface, sched Scheduler, log *slog.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rc := NewRenderContext(cfg, r, s, log)
	var mf *MaterialFactory
	if cfg.Seed != 0 {
		mf = NewSeededMaterialFactory(cfg.Seed)
	} else {
		mf = NewMaterialFactory(nil)
	}
	d := NewDriver(rc, sched, cfg.Speed)
	if err := Populate(ctx, d, mf, cfg.Entries()); err != nil {
		return nil, fmt.Errorf("populate %s scene: %w", cfg.Scene, err)
	}
	return d, nil
}
