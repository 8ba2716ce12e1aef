package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/terragen/internal/server/config"
	"github.com/OCharnyshevich/terragen/pkg/world/archive"
	"github.com/OCharnyshevich/terragen/pkg/world/region"
)

const configFile = "config.yaml"

// Storage handles the data directory: config files and exported regions.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, "regions"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

// ConfigPath returns the path of the config file in the data dir.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.dir, configFile)
}

// RegionDir returns the directory exported regions are written to.
func (s *Storage) RegionDir() string {
	return filepath.Join(s.dir, "regions")
}

// LoadConfig reads config.yaml into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) (bool, error) {
	path := s.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config from file", "path", path)
	return true, nil
}

// SaveConfig writes cfg to config.yaml atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	return s.atomicWriteYAML(s.ConfigPath(), cfg)
}

// FetchConfig downloads a config file from src into the data dir. src is
// anything go-getter understands: a local path, an http URL, a git or s3
// address.
func (s *Storage) FetchConfig(ctx context.Context, src string) error {
	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working dir: %w", err)
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  s.ConfigPath(),
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("fetch config %s: %w", src, err)
	}
	s.log.Info("fetched config", "src", src, "path", s.ConfigPath())
	return nil
}

// ExportRegion writes r to the region directory and returns the file path.
func (s *Storage) ExportRegion(r *region.Region) (string, error) {
	path, err := archive.WriteRegion(s.RegionDir(), r)
	if err != nil {
		return "", fmt.Errorf("export region %d,%d: %w", r.X(), r.Z(), err)
	}
	return path, nil
}

// atomicWriteYAML marshals v to YAML and writes it atomically using a temp file + rename.
func (s *Storage) atomicWriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
