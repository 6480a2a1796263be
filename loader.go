package gosieview

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
)

const builtinPrefix = "builtin:"

// Loader turns an asset path into a node subtree. Implementations must not
// touch any live scene; they run off the render thread.
type Loader interface {
	Load(ctx context.Context, path string) (*Node, error)
}

type LoaderFunc func(ctx context.Context, path string) (*Node, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (*Node, error) {
	return f(ctx, path)
}

// FileLoader loads assets by file extension: .glb and .gltf, ASCII .ply,
// .dxf, and the built-in primitives builtin:box and builtin:sphere.
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, path string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(path, builtinPrefix) {
		return loadBuiltin(strings.TrimPrefix(path, builtinPrefix))
	}

	name := filepath.Base(path)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		return LoadGLTF(path)
	case ".ply":
		mesh, err := LoadPLYFile(path)
		if err != nil {
			return nil, err
		}
		return meshNode(name, mesh), nil
	case ".dxf":
		mesh, err := LoadDXFFile(path)
		if err != nil {
			return nil, err
		}
		return meshNode(name, mesh), nil
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func meshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

func loadBuiltin(kind string) (*Node, error) {
	switch kind {
	case "box":
		return meshNode("box", NewBox(1, 1, 1, color.RGBA{R: 200, G: 120, B: 60, A: 255})), nil
	case "sphere":
		return meshNode("sphere", NewUVSphere(0.5, 16, 12,
			color.RGBA{R: 60, G: 120, B: 200, A: 255},
			color.RGBA{R: 230, G: 230, B: 230, A: 255})), nil
	}
	return nil, fmt.Errorf("%s%s: %w", builtinPrefix, kind, ErrUnsupportedFormat)
}

// NewAssetNode wraps loaded content in the single top-level node that
// represents the asset. With centre set the content is shifted so the
// asset's bounding box is centred on the node's origin, so drag rotation
// spins it in place. A positive fitSize rescales the content so its largest
// extent equals fitSize.
func NewAssetNode(spec AssetSpec, content *Node, centre bool, fitSize float64) (*Node, error) {
	min, max, ok := SubtreeBounds(content)
	if !ok {
		return nil, fmt.Errorf("%s: %w", spec.Path, ErrNoGeometry)
	}

	asset := NewNode(spec.DisplayName())
	asset.Asset = spec.Path

	f := 1.0
	if fitSize > 0 {
		size := max.Sub(min)
		extent := size.X()
		if size.Y() > extent {
			extent = size.Y()
		}
		if size.Z() > extent {
			extent = size.Z()
		}
		if extent > epsilon {
			f = fitSize / extent
		}
	}
	if centre {
		mid := min.Add(max).Mul(0.5)
		content.Position = content.Position.Sub(mid)
	}
	content.Position = content.Position.Mul(f)
	content.Scale = content.Scale.Mul(f)

	if err := asset.AddChild(content); err != nil {
		return nil, err
	}
	return asset, nil
}
