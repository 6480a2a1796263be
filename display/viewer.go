// Package display runs a gosieview scene in an ebiten window.
package display

import (
	"context"
	"fmt"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/smasonuk/gosieview"
)

var (
	outlineColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	groundLight  = color.RGBA{R: 210, G: 210, B: 210, A: 255}
	groundDark   = color.RGBA{R: 180, G: 180, B: 180, A: 255}
)

// Viewer is the ebiten.Game that owns the scene. All scene mutation happens
// in Update, on ebiten's game goroutine.
type Viewer struct {
	cfg        gosieview.Config
	background color.RGBA

	scene   *gosieview.Scene
	camera  *gosieview.Camera
	orbit   *gosieview.OrbitControls
	drag    *gosieview.DragController
	surface gosieview.PointerSurface
	input   mouseInput

	queue   *gosieview.LoadQueue
	loaded  int
	failed  int
	painter gosieview.Painter
	batcher *PolygonBatcher

	width, height int
}

// NewViewer builds the scene, wires the controllers to the pointer surface
// and starts loading cfg.Assets in the background.
func NewViewer(ctx context.Context, cfg gosieview.Config, loader gosieview.Loader) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &Viewer{
		cfg:        cfg,
		background: cfg.BackgroundColor(),
		camera:     cfg.Camera.NewCamera(),
		batcher:    NewPolygonBatcher(),
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
	}
	v.camera.SetViewport(v.width, v.height)
	v.scene = gosieview.NewScene(v.camera, cfg.Layout, len(cfg.Assets))

	if cfg.Ground.Enabled {
		ground := gosieview.NewNode("ground")
		ground.Mesh = gosieview.NewGroundGrid(cfg.Ground.Size, cfg.Ground.Step, groundLight, groundDark)
		ground.Position = mgl64.Vec3{0, cfg.Ground.Y, 0}
		if err := v.scene.AddScaffold(ground); err != nil {
			return nil, fmt.Errorf("add ground: %w", err)
		}
	}

	v.painter.Lighting = gosieview.Lighting{
		Ambient:     cfg.Lights.Ambient,
		Directional: cfg.Lights.Directional,
		Direction:   mgl64.Vec3(cfg.Lights.Direction),
	}

	v.orbit = gosieview.NewOrbitControls(v.camera)
	cfg.Orbit.Apply(v.orbit)
	v.orbit.SetViewport(v.width, v.height)

	v.drag = gosieview.NewDragController(gosieview.PickerFunc(v.pick), cfg.Drag.Sensitivity)
	v.drag.OnSelect = func(n *gosieview.Node) {
		log.Printf("selected %s", n.Name)
	}

	v.surface.Subscribe(v.drag)
	v.surface.Subscribe(v.orbit)

	v.queue = gosieview.StartLoads(ctx, loader, cfg.Assets, gosieview.LoadOptions{
		Concurrency: cfg.Loader.Concurrency,
		Centre:      cfg.Loader.Centre,
		FitSize:     cfg.Loader.FitSize,
	})
	return v, nil
}

func (v *Viewer) pick(x, y float64) *gosieview.Node {
	return v.scene.Pick(x, y, float64(v.width), float64(v.height))
}

// Scene exposes the scene for callers that add their own content.
func (v *Viewer) Scene() *gosieview.Scene {
	return v.scene
}

func (v *Viewer) Update() error {
	for _, res := range v.queue.Poll() {
		if err := v.scene.Attach(res); err != nil {
			v.failed++
			continue
		}
		v.loaded++
	}
	v.input.poll(&v.surface)
	v.orbit.Update()
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.background)

	selected := v.drag.Selected()
	polys := v.painter.Project(v.scene.Root, v.camera, float64(v.width), float64(v.height))
	v.batcher.Begin(screen)
	for _, p := range polys {
		if selected != nil && p.Unit == selected {
			v.batcher.AddPolygonAndOutline(p.X, p.Y, p.Col, outlineColor, 1)
			continue
		}
		v.batcher.AddPolygon(p.X, p.Y, p.Col)
	}
	v.batcher.Flush()

	if v.cfg.Window.ShowFPS {
		status := fmt.Sprintf("FPS: %0.2f\nassets: %d/%d loaded", ebiten.ActualFPS(), v.loaded, v.queue.Total())
		if v.failed > 0 {
			status += fmt.Sprintf(", %d failed", v.failed)
		}
		if selected != nil {
			status += "\ndragging: " + selected.Name
		}
		ebitenutil.DebugPrint(screen, status)
	}
}

// Layout follows the window size so the projection keeps the window's
// aspect ratio.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != v.width || outsideHeight != v.height) {
		v.width, v.height = outsideWidth, outsideHeight
		v.camera.SetViewport(v.width, v.height)
		v.orbit.SetViewport(v.width, v.height)
	}
	return v.width, v.height
}
