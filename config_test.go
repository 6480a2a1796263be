package gosieview

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Orbit.EnableRotate {
		t.Error("orbit rotation should be off by default")
	}
	if cfg.BackgroundColor() != (color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}) {
		t.Errorf("background = %v", cfg.BackgroundColor())
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
window:
  title: shoes
layout:
  strategy: circular
  radius: 4
assets:
  - path: a.glb
  - path: b.ply
    scale: 2
    position: [1, 0, -1]
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.Window.Title != "shoes" {
		t.Errorf("title = %q", cfg.Window.Title)
	}
	if cfg.Window.Width != def.Window.Width {
		t.Errorf("width = %d, want default %d", cfg.Window.Width, def.Window.Width)
	}
	if cfg.Layout.Strategy != LayoutCircular || cfg.Layout.Radius != 4 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Spacing != def.Layout.Spacing {
		t.Errorf("spacing = %v, want default %v", cfg.Layout.Spacing, def.Layout.Spacing)
	}
	if cfg.Camera.FOV != DefaultFOV || cfg.Drag.Sensitivity != DefaultDragSensitivity {
		t.Errorf("camera/drag defaults lost: %+v %+v", cfg.Camera, cfg.Drag)
	}
	if len(cfg.Assets) != 2 {
		t.Fatalf("assets = %+v", cfg.Assets)
	}
	b := cfg.Assets[1]
	if b.Scale != 2 || b.Position == nil || *b.Position != [3]float64{1, 0, -1} {
		t.Errorf("asset b = %+v", b)
	}
}

func TestParseConfigRejects(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "window: [", "parse yaml"},
		{"bad strategy", "layout:\n  strategy: spiral", "unknown layout strategy"},
		{"zero width", "window:\n  width: 0", "window size"},
		{"bad fov", "camera:\n  fov: 190", "fov"},
		{"far before near", "camera:\n  near: 5\n  far: 1", "clip planes"},
		{"bad colour", "background: notacolour", "unknown colour"},
		{"empty asset path", "assets:\n  - path: ''", "no path"},
		{"damping out of range", "orbit:\n  damping_factor: 2", "damping_factor"},
		{"distance range", "orbit:\n  min_distance: 5\n  max_distance: 1", "distance range"},
		{"no concurrency", "loader:\n  concurrency: 0", "concurrency"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	if err := os.WriteFile(path, []byte("background: lightgray\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BackgroundColor() != (color.RGBA{R: 211, G: 211, B: 211, A: 255}) {
		t.Errorf("background = %v", cfg.BackgroundColor())
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
}

func TestParseColor(t *testing.T) {
	testCases := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#eeeeee", want: color.RGBA{0xee, 0xee, 0xee, 0xff}},
		{in: "#F0a", want: color.RGBA{0xff, 0x00, 0xaa, 0xff}},
		{in: "white", want: color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{in: " Red ", want: color.RGBA{0xff, 0x00, 0x00, 0xff}},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseColor(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
