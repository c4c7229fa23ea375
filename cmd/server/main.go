package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/OCharnyshevich/voxel-server/internal/server"
	"github.com/OCharnyshevich/voxel-server/internal/server/config"
	"github.com/OCharnyshevich/voxel-server/internal/server/storage"
	"github.com/OCharnyshevich/voxel-server/pkg/world/block"
	"github.com/OCharnyshevich/voxel-server/pkg/world/gen"
)

func main() {
	def := config.DefaultConfig()

	app := &cli.App{
		Name:  "voxel-server",
		Usage: "serves a generated voxel world to 1.15.2 clients",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: def.Port, Usage: "server port"},
			&cli.StringFlag{Name: "motd", Value: def.MOTD, Usage: "server description"},
			&cli.IntFlag{Name: "max-players", Value: def.MaxPlayers, Usage: "maximum players online"},
			&cli.IntFlag{Name: "view-distance", Value: def.ViewDistance, Usage: "chunk and entity view distance"},
			&cli.StringFlag{Name: "generator", Value: def.Generator, Usage: "world generator: " + strings.Join(gen.Names(), ", ")},
			&cli.Int64Flag{Name: "seed", Value: def.Seed, Usage: "terrain seed"},
			&cli.StringFlag{Name: "data-dir", Value: def.DataDir, Usage: "directory for config.yaml and region files"},
			&cli.DurationFlag{Name: "autosave", Value: def.AutosaveInterval, Usage: "autosave interval, 0 disables"},
			&cli.StringFlag{Name: "block-data", Value: def.BlockData, Usage: "minecraft-data blocks.json for block names"},
			&cli.StringFlag{Name: "log-level", Value: def.LogLevel, Usage: "debug, info, warn or error"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// mergeFlags are the flags whose explicit values win over config.yaml.
var mergeFlags = []string{
	"port", "motd", "max-players", "view-distance", "generator",
	"seed", "autosave", "block-data", "log-level",
}

func run(c *cli.Context) error {
	cfg := &config.Config{
		Port:             c.Int("port"),
		MOTD:             c.String("motd"),
		MaxPlayers:       c.Int("max-players"),
		ViewDistance:     c.Int("view-distance"),
		Generator:        c.String("generator"),
		Seed:             c.Int64("seed"),
		DataDir:          c.String("data-dir"),
		AutosaveInterval: c.Duration("autosave"),
		BlockData:        c.String("block-data"),
		LogLevel:         c.String("log-level"),
	}

	level := new(slog.LevelVar)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	store, err := storage.New(cfg.DataDir, log.With("component", "storage"))
	if err != nil {
		return err
	}

	fromFile := *cfg
	found, err := store.LoadConfig(&fromFile)
	if err != nil {
		return err
	}
	if found {
		explicit := make(map[string]bool)
		for _, name := range mergeFlags {
			if c.IsSet(name) {
				explicit[name] = true
			}
		}
		config.Merge(cfg, &fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !found {
		if err := store.SaveConfig(cfg); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
		log.Info("wrote config file", "dir", cfg.DataDir)
	}

	lvl, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	level.Set(lvl)

	generator, err := gen.New(cfg.Generator, cfg.Seed)
	if err != nil {
		return err
	}

	registry := block.DefaultRegistry()
	if cfg.BlockData != "" {
		registry, err = block.LoadRegistry(cfg.BlockData)
		if err != nil {
			return fmt.Errorf("load block data: %w", err)
		}
		log.Info("loaded block data", "path", cfg.BlockData, "states", registry.Len())
	}

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, log, generator, store, registry)
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
