package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tireroll/internal/config"
	"tireroll/internal/game"
	"tireroll/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	levelPath := flag.String("level", "", "path to a JSON level file")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") && *configPath == "" && *levelPath == "" {
			os.Chdir(execDir)
		}
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	if *levelPath == "" {
		*levelPath = cfg.Level
	}
	level := world.DefaultLevel()
	if *levelPath != "" {
		var err error
		if level, err = world.LoadLevel(*levelPath); err != nil {
			log.Fatalf("level: %v", err)
		}
	}

	g := game.New(cfg, level)
	if err := g.Run(); err != nil {
		log.Fatalf("game: %v", err)
	}
}
