package main

import (
	"flag"
	"log"

	"github.com/Garsondee/Block-Sense/internal/config"
	"github.com/Garsondee/Block-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "tuning YAML file (defaults when empty)")
	flag.Parse()

	tun, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	g := game.New(tun)
	ebiten.SetWindowTitle("Block Sense")
	ebiten.SetWindowSize(g.Size())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
