package gosieview

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration, usually read from a YAML file.
type Config struct {
	Window     WindowConfig `yaml:"window"`
	Background string       `yaml:"background"`
	Camera     CameraConfig `yaml:"camera"`
	Orbit      OrbitConfig  `yaml:"orbit"`
	Drag       DragConfig   `yaml:"drag"`
	Lights     LightConfig  `yaml:"lights"`
	Layout     LayoutConfig `yaml:"layout"`
	Loader     LoaderConfig `yaml:"loader"`
	Ground     GroundConfig `yaml:"ground"`
	Assets     []AssetSpec  `yaml:"assets"`
}

type WindowConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	ShowFPS bool   `yaml:"show_fps"`
}

type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	FOV      float64    `yaml:"fov"`
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
}

type OrbitConfig struct {
	EnableRotate  bool    `yaml:"enable_rotate"`
	EnableZoom    bool    `yaml:"enable_zoom"`
	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float64 `yaml:"damping_factor"`
	RotateSpeed   float64 `yaml:"rotate_speed"`
	ZoomSpeed     float64 `yaml:"zoom_speed"`
	MinDistance   float64 `yaml:"min_distance"`
	MaxDistance   float64 `yaml:"max_distance"`
}

type DragConfig struct {
	Sensitivity float64 `yaml:"sensitivity"`
}

type LightConfig struct {
	Ambient     float64    `yaml:"ambient"`
	Directional float64    `yaml:"directional"`
	Direction   [3]float64 `yaml:"direction"`
}

type LoaderConfig struct {
	// Concurrency bounds how many assets load at once.
	Concurrency int  `yaml:"concurrency"`
	Centre      bool `yaml:"centre"`
	// FitSize rescales each asset so its largest extent is FitSize. Zero
	// keeps the asset's own units.
	FitSize float64 `yaml:"fit_size"`
}

// GroundConfig describes the optional checkerboard under the assets. It can
// be hit by picks but never selected.
type GroundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Y       float64 `yaml:"y"`
	Size    float64 `yaml:"size"`
	Step    float64 `yaml:"step"`
}

// AssetSpec names one asset to load and optionally overrides its layout.
type AssetSpec struct {
	Path     string      `yaml:"path"`
	Name     string      `yaml:"name"`
	Position *[3]float64 `yaml:"position"`
	Scale    float64     `yaml:"scale"`
}

func (a AssetSpec) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Path
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:   1280,
			Height:  720,
			Title:   "gosieview",
			ShowFPS: true,
		},
		Background: "#eeeeee",
		Camera: CameraConfig{
			Position: [3]float64{2, 2, 2},
			FOV:      DefaultFOV,
			Near:     DefaultNear,
			Far:      DefaultFar,
		},
		Orbit: OrbitConfig{
			EnableZoom:    true,
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			ZoomSpeed:     1,
		},
		Drag: DragConfig{
			Sensitivity: DefaultDragSensitivity,
		},
		Lights: LightConfig{
			Ambient:     0.8,
			Directional: 1.5,
			Direction:   [3]float64{5, 10, 7},
		},
		Layout: DefaultLayout(),
		Loader: LoaderConfig{
			Concurrency: 4,
			Centre:      true,
		},
		Ground: GroundConfig{
			Y:    -0.5,
			Size: 10,
			Step: 1,
		},
		Assets: []AssetSpec{{Path: "shoes.glb"}},
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Fields absent from the document keep their defaults; a present assets
// list replaces the default one.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := ParseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v must be in (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes near=%v far=%v invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Position == c.Camera.Target {
		errs = append(errs, errors.New("camera position and target coincide"))
	}
	if c.Orbit.DampingFactor <= 0 || c.Orbit.DampingFactor > 1 {
		errs = append(errs, fmt.Errorf("orbit damping_factor %v must be in (0, 1]", c.Orbit.DampingFactor))
	}
	if c.Orbit.MinDistance < 0 || (c.Orbit.MaxDistance > 0 && c.Orbit.MaxDistance < c.Orbit.MinDistance) {
		errs = append(errs, fmt.Errorf("orbit distance range [%v, %v] invalid", c.Orbit.MinDistance, c.Orbit.MaxDistance))
	}
	if c.Lights.Ambient < 0 || c.Lights.Directional < 0 {
		errs = append(errs, errors.New("light intensities must not be negative"))
	}
	switch c.Layout.Strategy {
	case LayoutExplicit, LayoutLinear, LayoutGrid, "":
	case LayoutCircular:
		if c.Layout.Radius <= 0 {
			errs = append(errs, fmt.Errorf("layout radius %v must be positive", c.Layout.Radius))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown layout strategy %q", c.Layout.Strategy))
	}
	if c.Layout.Spacing < 0 || c.Layout.Columns < 0 || c.Layout.Scale < 0 {
		errs = append(errs, errors.New("layout spacing, columns and scale must not be negative"))
	}
	if c.Loader.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("loader concurrency %d must be at least 1", c.Loader.Concurrency))
	}
	if c.Loader.FitSize < 0 {
		errs = append(errs, fmt.Errorf("loader fit_size %v must not be negative", c.Loader.FitSize))
	}
	if c.Ground.Enabled && (c.Ground.Size <= 0 || c.Ground.Step <= 0) {
		errs = append(errs, errors.New("ground size and step must be positive"))
	}
	for i, a := range c.Assets {
		if strings.TrimSpace(a.Path) == "" {
			errs = append(errs, fmt.Errorf("asset %d has no path", i))
		}
		if a.Scale < 0 {
			errs = append(errs, fmt.Errorf("asset %s scale %v must not be negative", a.DisplayName(), a.Scale))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// BackgroundColor resolves Background, which has been validated.
func (c Config) BackgroundColor() color.RGBA {
	col, _ := ParseColor(c.Background)
	return col
}

// NewCamera builds the configured camera.
func (c CameraConfig) NewCamera() *Camera {
	cam := NewCamera(mgl64.Vec3(c.Position), mgl64.Vec3(c.Target))
	cam.FOV = c.FOV
	cam.Near = c.Near
	cam.Far = c.Far
	return cam
}

// Apply copies the settings onto o.
func (c OrbitConfig) Apply(o *OrbitControls) {
	o.EnableZoom = c.EnableZoom
	o.EnableDamping = c.EnableDamping
	o.DampingFactor = c.DampingFactor
	o.RotateSpeed = c.RotateSpeed
	o.ZoomSpeed = c.ZoomSpeed
	o.MinDistance = c.MinDistance
	o.MaxDistance = c.MaxDistance
	o.SetRotateEnabled(c.EnableRotate)
}

// ParseColor accepts "#rrggbb", "#rgb" or an SVG colour name such as
// "lightgray".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("colour %q: want #rrggbb or #rgb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	if col, ok := colornames.Map[s]; ok {
		return col, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
}
