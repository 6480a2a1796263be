package gosieview

import (
	"fmt"
	"log"
)

// Scene is the root node, the camera that views it and the layout used to
// place assets as they arrive.
type Scene struct {
	Root   *Node
	Camera *Camera
	Layout LayoutConfig

	assetCount int
}

// NewScene creates an empty scene expecting assetCount assets.
func NewScene(cam *Camera, layout LayoutConfig, assetCount int) *Scene {
	return &Scene{
		Root:       NewNode("root"),
		Camera:     cam,
		Layout:     layout,
		assetCount: assetCount,
	}
}

// Attach adds a finished load as a new top-level node at its layout
// position. Failed loads are logged and leave the scene unchanged.
func (s *Scene) Attach(res LoadResult) error {
	if res.Err != nil {
		log.Printf("failed to load %s: %v", res.Spec.DisplayName(), res.Err)
		return res.Err
	}
	if res.Node == nil {
		log.Printf("failed to load %s: %v", res.Spec.DisplayName(), ErrNoGeometry)
		return fmt.Errorf("attach %s: %w", res.Spec.DisplayName(), ErrNoGeometry)
	}
	pos, scale, err := s.Layout.InitialTransform(res.Index, s.assetCount, res.Spec)
	if err != nil {
		return fmt.Errorf("attach %s: %w", res.Spec.DisplayName(), err)
	}
	res.Node.Position = pos
	res.Node.Scale = scale
	if err := s.Root.AddChild(res.Node); err != nil {
		return fmt.Errorf("attach %s: %w", res.Spec.DisplayName(), err)
	}
	log.Printf("loaded %s", res.Spec.DisplayName())
	return nil
}

// AddScaffold adds non-selectable helper geometry at the top level.
func (s *Scene) AddScaffold(n *Node) error {
	n.Scaffold = true
	return s.Root.AddChild(n)
}

// Units returns the selectable top-level nodes.
func (s *Scene) Units() []*Node {
	var units []*Node
	for _, c := range s.Root.Children() {
		if !c.Scaffold {
			units = append(units, c)
		}
	}
	return units
}

// Pick resolves a viewport position to a unit, or nil.
func (s *Scene) Pick(x, y, width, height float64) *Node {
	return Pick(x, y, width, height, s.Camera, s.Root)
}
