package server

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/OCharnyshevich/terragen/internal/server/config"
	"github.com/OCharnyshevich/terragen/internal/server/storage"
	"github.com/OCharnyshevich/terragen/pkg/world/archive"
	"github.com/OCharnyshevich/terragen/pkg/world/gen"
	"github.com/OCharnyshevich/terragen/pkg/world/region"
	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.Workers = 2
	cfg.RegionFactor = 1
	cfg.RegionBorder = 1
	cfg.SpawnRadius = 1
	cfg.QueueNeighbours = false
	cfg.Filters.Erosion.Iterations = 200
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RegionFactor = -1
	if _, err := New(cfg, nil, discard()); err == nil {
		t.Error("expected error for invalid config")
	}

	cfg = testConfig()
	cfg.Filters.Order = []string{"blur"}
	if _, err := New(cfg, nil, discard()); err == nil {
		t.Error("expected error for unknown filter")
	}

	cfg = testConfig()
	cfg.Export = true
	if _, err := New(cfg, nil, discard()); err == nil {
		t.Error("expected error for export without storage")
	}
}

func TestRunExportsSpawnArea(t *testing.T) {
	store, err := storage.New(t.TempDir(), discard())
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.Export = true

	srv, err := New(cfg, store, discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	files, err := filepath.Glob(filepath.Join(store.RegionDir(), "*.hmz"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 9 {
		t.Fatalf("exported %d regions, want 9", len(files))
	}
	if _, err := os.Stat(filepath.Join(store.RegionDir(), archive.FileName(-1, 1))); err != nil {
		t.Errorf("region -1,1 not exported: %v", err)
	}
	if _, err := archive.ReadChunk(filepath.Join(store.RegionDir(), archive.FileName(0, 0)), 1, 1); err != nil {
		t.Errorf("read exported chunk: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	srv, err := New(testConfig(), nil, discard())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := srv.Run(ctx); err != nil {
		t.Fatalf("Run on cancelled context = %v, want nil", err)
	}
}

func TestDominantBiome(t *testing.T) {
	r := region.New(0, 0, 1, 0)
	r.Iterate(func(c *tile.Cell, x, _ int) {
		if x < 20 {
			c.Biome = gen.BiomeForest
		} else {
			c.Biome = gen.BiomeBeach
		}
	})
	if got := dominantBiome(r); got != gen.BiomeForest {
		t.Errorf("dominantBiome() = %d, want forest", got)
	}
}
