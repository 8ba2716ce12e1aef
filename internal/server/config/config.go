package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/terragen/pkg/world/filter"
)

// Config holds the generator configuration.
type Config struct {
	Seed     int64 `yaml:"seed"`
	Workers  int   `yaml:"workers"`   // 0 = GOMAXPROCS
	PoolSize int   `yaml:"pool_size"` // 0 = workers

	RegionFactor int `yaml:"region_factor"` // log2 of the region edge in chunks
	RegionBorder int `yaml:"region_border"` // margin in chunks

	CacheTTL        time.Duration `yaml:"cache_ttl"`
	QueueNeighbours bool          `yaml:"queue_neighbours"`

	WorldHeight int `yaml:"world_height"`
	SeaLevel    int `yaml:"sea_level"`

	SpawnRadius int  `yaml:"spawn_radius"` // regions around the origin to pregenerate
	Export      bool `yaml:"export"`       // write generated regions to the data dir

	Filters filter.Settings `yaml:"filters"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RegionFactor:    3,
		RegionBorder:    2,
		CacheTTL:        30 * time.Second,
		QueueNeighbours: true,
		WorldHeight:     256,
		SeaLevel:        63,
		SpawnRadius:     1,
		Filters:         filter.DefaultSettings(),
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.RegionFactor < 0 || c.RegionFactor > 5:
		return fmt.Errorf("region_factor %d out of range [0,5]", c.RegionFactor)
	case c.RegionBorder < 0:
		return fmt.Errorf("region_border %d is negative", c.RegionBorder)
	case c.Workers < 0 || c.PoolSize < 0:
		return errors.New("workers and pool_size must not be negative")
	case c.WorldHeight < 16:
		return fmt.Errorf("world_height %d is below 16", c.WorldHeight)
	case c.SeaLevel < 1 || c.SeaLevel >= c.WorldHeight:
		return fmt.Errorf("sea_level %d outside [1,%d)", c.SeaLevel, c.WorldHeight)
	case c.SpawnRadius < 0:
		return fmt.Errorf("spawn_radius %d is negative", c.SpawnRadius)
	case c.CacheTTL < 0:
		return fmt.Errorf("cache_ttl %s is negative", c.CacheTTL)
	}
	if err := c.Filters.Validate(); err != nil {
		return fmt.Errorf("filters: %w", err)
	}
	return nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["factor"] {
		cfg.RegionFactor = fromFile.RegionFactor
	}
	if !explicitFlags["border"] {
		cfg.RegionBorder = fromFile.RegionBorder
	}
	if !explicitFlags["radius"] {
		cfg.SpawnRadius = fromFile.SpawnRadius
	}
	if !explicitFlags["export"] {
		cfg.Export = fromFile.Export
	}
	cfg.PoolSize = fromFile.PoolSize
	cfg.CacheTTL = fromFile.CacheTTL
	cfg.QueueNeighbours = fromFile.QueueNeighbours
	cfg.WorldHeight = fromFile.WorldHeight
	cfg.SeaLevel = fromFile.SeaLevel
	cfg.Filters = fromFile.Filters
}
