package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/smasonuk/gosieview"
	"github.com/smasonuk/gosieview/display"
)

type assetFlags []string

func (a *assetFlags) String() string {
	return strings.Join(*a, ",")
}

func (a *assetFlags) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	var assets assetFlags
	configPath := flag.String("config", "", "path to a YAML config file")
	layout := flag.String("layout", "", "layout strategy: explicit, linear, grid or circular")
	flag.Var(&assets, "asset", "asset to load (repeatable); .glb, .gltf, .ply, .dxf, builtin:box, builtin:sphere")
	flag.Parse()

	cfg := gosieview.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = gosieview.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if len(assets) > 0 {
		cfg.Assets = cfg.Assets[:0]
		for _, a := range assets {
			cfg.Assets = append(cfg.Assets, gosieview.AssetSpec{Path: a})
		}
	}
	if *layout != "" {
		cfg.Layout.Strategy = gosieview.LayoutStrategy(*layout)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	log.Printf("loading %d assets", len(cfg.Assets))
	viewer, err := display.NewViewer(context.Background(), cfg, gosieview.FileLoader{})
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
