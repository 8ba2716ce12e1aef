package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/OCharnyshevich/terragen/internal/server/config"
	"github.com/OCharnyshevich/terragen/internal/server/storage"
	"github.com/OCharnyshevich/terragen/internal/server/world"
	"github.com/OCharnyshevich/terragen/pkg/concurrent"
	"github.com/OCharnyshevich/terragen/pkg/world/gen"
	"github.com/OCharnyshevich/terragen/pkg/world/region"
	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// Server wires the generation stack together and drives a pregeneration run.
type Server struct {
	cfg       *config.Config
	log       *slog.Logger
	store     *storage.Storage
	generator *region.Generator
	cache     *region.Cache
	world     *world.World
	biomes    *gen.BiomeRegistry
}

// New creates a new Server with the given config and logger. store may be nil
// when nothing is exported.
func New(cfg *config.Config, store *storage.Storage, log *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Export && store == nil {
		return nil, errors.New("export requires a data dir")
	}

	levels := tile.NewLevels(cfg.WorldHeight, cfg.SeaLevel)
	factory, err := gen.NewFactory(cfg.Seed, levels, cfg.Filters)
	if err != nil {
		return nil, err
	}

	generator, err := region.NewGeneratorBuilder().
		Factor(cfg.RegionFactor).
		Border(cfg.RegionBorder).
		Factory(factory).
		ThreadPool(concurrent.NewThreadPool(cfg.Workers)).
		PoolSize(cfg.PoolSize).
		Logger(log).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}

	cache := region.NewCache(generator, region.CacheOptions{
		TTL:             cfg.CacheTTL,
		QueueNeighbours: cfg.QueueNeighbours,
	}, log)

	return &Server{
		cfg:       cfg,
		log:       log,
		store:     store,
		generator: generator,
		cache:     cache,
		world:     world.NewWorld(cache, levels),
		biomes:    gen.NewBiomeRegistry(),
	}, nil
}

// World returns the server's terrain view.
func (s *Server) World() *world.World {
	return s.world
}

// Run pregenerates the spawn area, logs per-region statistics and optionally
// exports every region. It returns when the run is done or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.cache.Close()

	s.log.Info("generation started",
		"seed", s.cfg.Seed,
		"factor", s.cfg.RegionFactor,
		"border", s.cfg.RegionBorder,
		"radius", s.cfg.SpawnRadius,
		"filters", s.cfg.Filters.Order,
	)

	regions, err := s.world.PreGenerateRadius(ctx, s.cfg.SpawnRadius)
	if err != nil {
		if ctx.Err() != nil {
			s.log.Info("generation cancelled", "regions", len(regions))
			return nil
		}
		return err
	}

	for _, r := range regions {
		st := r.Stats()
		s.log.Info("region ready",
			"x", r.X(), "z", r.Z(),
			"min", st.Min, "max", st.Max,
			"mean", st.Mean, "stddev", st.StdDev,
			"biome", s.biomes.Name(dominantBiome(r)),
		)
		if !s.cfg.Export {
			continue
		}
		path, err := s.store.ExportRegion(r)
		if err != nil {
			return err
		}
		s.log.Debug("region exported", "path", path)
	}

	s.log.Info("generation finished",
		"regions", len(regions),
		"generated", s.generator.Generated(),
		"cached", s.cache.Len(),
		"spawnHeight", s.world.SpawnHeight(ctx),
	)
	return nil
}

// dominantBiome returns the most common biome among r's inner cells.
func dominantBiome(r *region.Region) tile.Biome {
	var counts [256]int
	r.Iterate(func(c *tile.Cell, _, _ int) {
		counts[c.Biome]++
	})
	var best tile.Biome
	for id, n := range counts {
		if n > counts[best] {
			best = tile.Biome(id)
		}
	}
	return best
}
