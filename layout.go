package gosieview

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type LayoutStrategy string

const (
	LayoutExplicit LayoutStrategy = "explicit"
	LayoutLinear   LayoutStrategy = "linear"
	LayoutGrid     LayoutStrategy = "grid"
	LayoutCircular LayoutStrategy = "circular"
)

// LayoutConfig places loaded assets so they do not overlap.
type LayoutConfig struct {
	Strategy LayoutStrategy `yaml:"strategy"`
	// Spacing is the distance between neighbours for linear and grid.
	Spacing float64 `yaml:"spacing"`
	// Columns for grid. Zero picks a near-square grid.
	Columns int     `yaml:"columns"`
	Radius  float64 `yaml:"radius"`
	// Height is the Y of the plane assets are laid on.
	Height float64 `yaml:"height"`
	// Scale is the default uniform scale of every asset.
	Scale float64 `yaml:"scale"`
}

func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		Strategy: LayoutLinear,
		Spacing:  1.5,
		Radius:   2,
		Scale:    1,
	}
}

// InitialTransform returns the starting position and scale of asset index
// out of count. An asset's own position and scale override the strategy.
func (l LayoutConfig) InitialTransform(index, count int, asset AssetSpec) (mgl64.Vec3, mgl64.Vec3, error) {
	if count <= 0 || index < 0 || index >= count {
		return mgl64.Vec3{}, mgl64.Vec3{}, fmt.Errorf("layout: asset %d of %d out of range", index, count)
	}

	s := l.Scale
	if asset.Scale != 0 {
		s = asset.Scale
	}
	if s == 0 {
		s = 1
	}
	scale := mgl64.Vec3{s, s, s}

	if asset.Position != nil {
		return mgl64.Vec3(*asset.Position), scale, nil
	}

	centred := func(i, n int) float64 {
		return (float64(i) - float64(n-1)/2) * l.Spacing
	}

	switch l.Strategy {
	case LayoutExplicit:
		return mgl64.Vec3{0, l.Height, 0}, scale, nil
	case LayoutLinear, "":
		return mgl64.Vec3{centred(index, count), l.Height, 0}, scale, nil
	case LayoutGrid:
		cols := l.Columns
		if cols <= 0 {
			cols = int(math.Ceil(math.Sqrt(float64(count))))
		}
		rows := (count + cols - 1) / cols
		return mgl64.Vec3{centred(index%cols, cols), l.Height, centred(index/cols, rows)}, scale, nil
	case LayoutCircular:
		if count == 1 {
			return mgl64.Vec3{0, l.Height, 0}, scale, nil
		}
		angle := 2 * math.Pi * float64(index) / float64(count)
		return mgl64.Vec3{l.Radius * math.Cos(angle), l.Height, l.Radius * math.Sin(angle)}, scale, nil
	}
	return mgl64.Vec3{}, mgl64.Vec3{}, fmt.Errorf("layout: unknown strategy %q", l.Strategy)
}
