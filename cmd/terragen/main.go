package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/OCharnyshevich/terragen/internal/server"
	"github.com/OCharnyshevich/terragen/internal/server/config"
	"github.com/OCharnyshevich/terragen/internal/server/storage"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		configPath = flag.String("config", "", "config file (default: <data>/config.yaml)")
		configURL  = flag.String("config-url", "", "fetch the config from a go-getter source into the data dir")
		dataDir    = flag.String("data", "./data", "data directory")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "generation workers (0 = GOMAXPROCS)")
	flag.IntVar(&cfg.RegionFactor, "factor", cfg.RegionFactor, "log2 of the region edge in chunks")
	flag.IntVar(&cfg.RegionBorder, "border", cfg.RegionBorder, "region border in chunks")
	flag.IntVar(&cfg.SpawnRadius, "radius", cfg.SpawnRadius, "regions around spawn to pregenerate")
	flag.BoolVar(&cfg.Export, "export", cfg.Export, "export generated regions to the data dir")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(*dataDir, log)
	if err != nil {
		log.Error("open data dir", "error", err)
		os.Exit(1)
	}

	if *configURL != "" {
		if err := store.FetchConfig(ctx, *configURL); err != nil {
			log.Error("fetch config", "error", err)
			os.Exit(1)
		}
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fromFile := config.DefaultConfig()
	if *configPath != "" {
		fromFile, err = config.Load(*configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		config.Merge(cfg, fromFile, explicit)
	} else {
		found, err := store.LoadConfig(fromFile)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		if found {
			config.Merge(cfg, fromFile, explicit)
		} else if err := store.SaveConfig(cfg); err != nil {
			log.Warn("save default config", "error", err)
		}
	}

	srv, err := server.New(cfg, store, log)
	if err != nil {
		log.Error("server setup", "error", err)
		os.Exit(1)
	}
	if err := srv.Run(ctx); err != nil {
		log.Error("generation error", "error", err)
		os.Exit(1)
	}
}
