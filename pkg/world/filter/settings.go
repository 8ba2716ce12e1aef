package filter

import (
	"errors"
	"fmt"
)

// MaxRadius bounds every filter radius. Brush tables grow with the square of it.
const MaxRadius = 16

// Settings configures the filter pipeline.
type Settings struct {
	Order     []string          `yaml:"order"`
	Erosion   ErosionSettings   `yaml:"erosion"`
	Smoothing SmoothingSettings `yaml:"smoothing"`
	Steepness SteepnessSettings `yaml:"steepness"`
}

type ErosionSettings struct {
	Seed                   int64   `yaml:"seed"`
	Iterations             int     `yaml:"iterations"`
	Radius                 int     `yaml:"radius"`
	Inertia                float32 `yaml:"inertia"`
	SedimentCapacityFactor float32 `yaml:"sediment_capacity_factor"`
	MinSedimentCapacity    float32 `yaml:"min_sediment_capacity"`
	ErodeSpeed             float32 `yaml:"erode_speed"`
	DepositSpeed           float32 `yaml:"deposit_speed"`
	EvaporateSpeed         float32 `yaml:"evaporate_speed"`
	Gravity                float32 `yaml:"gravity"`
	MaxDropletLifetime     int     `yaml:"max_droplet_lifetime"`
	InitialWaterVolume     float32 `yaml:"initial_water_volume"`
	InitialSpeed           float32 `yaml:"initial_speed"`
}

type SmoothingSettings struct {
	Iterations int     `yaml:"iterations"`
	Radius     float32 `yaml:"radius"`
	Rate       float32 `yaml:"rate"`
}

type SteepnessSettings struct {
	Radius         int     `yaml:"radius"`
	Scaler         float32 `yaml:"scaler"`
	BeachThreshold float32 `yaml:"beach_threshold"`
}

// DefaultSettings returns the reference filter configuration.
func DefaultSettings() Settings {
	return Settings{
		Order:     []string{"erosion", "smoothing", "steepness"},
		Erosion:   DefaultErosionSettings(),
		Smoothing: SmoothingSettings{Iterations: 1, Radius: 1.75, Rate: 0.9},
		Steepness: SteepnessSettings{Radius: 1, Scaler: 10, BeachThreshold: 0.15},
	}
}

func DefaultErosionSettings() ErosionSettings {
	return ErosionSettings{
		Iterations:             12000,
		Radius:                 3,
		Inertia:                0.05,
		SedimentCapacityFactor: 4,
		MinSedimentCapacity:    0.01,
		ErodeSpeed:             0.3,
		DepositSpeed:           0.3,
		EvaporateSpeed:         0.01,
		Gravity:                8,
		MaxDropletLifetime:     30,
		InitialWaterVolume:     1,
		InitialSpeed:           1,
	}
}

// Validate reports the first setting outside its usable range.
func (s Settings) Validate() error {
	e, sm, st := s.Erosion, s.Smoothing, s.Steepness
	switch {
	case e.Iterations < 0:
		return fmt.Errorf("erosion iterations %d is negative", e.Iterations)
	case e.Radius < 1 || e.Radius > MaxRadius:
		return fmt.Errorf("erosion radius %d out of range [1,%d]", e.Radius, MaxRadius)
	case e.MaxDropletLifetime < 0:
		return fmt.Errorf("erosion max_droplet_lifetime %d is negative", e.MaxDropletLifetime)
	case !unit(e.Inertia) || !unit(e.ErodeSpeed) || !unit(e.DepositSpeed) || !unit(e.EvaporateSpeed):
		return errors.New("erosion inertia and speeds must be in [0,1]")
	case e.SedimentCapacityFactor < 0 || e.MinSedimentCapacity < 0 || e.Gravity < 0:
		return errors.New("erosion capacities and gravity must not be negative")
	case sm.Iterations < 0:
		return fmt.Errorf("smoothing iterations %d is negative", sm.Iterations)
	case !(sm.Radius >= 0 && sm.Radius <= MaxRadius):
		return fmt.Errorf("smoothing radius %v out of range [0,%d]", sm.Radius, MaxRadius)
	case !unit(sm.Rate):
		return fmt.Errorf("smoothing rate %v out of range [0,1]", sm.Rate)
	case st.Radius < 0 || st.Radius > MaxRadius:
		return fmt.Errorf("steepness radius %d out of range [0,%d]", st.Radius, MaxRadius)
	}
	for _, name := range s.Order {
		switch name {
		case "erosion", "smoothing", "steepness":
		default:
			return fmt.Errorf("filter %q: %w", name, ErrUnknownFilter)
		}
	}
	return nil
}

func unit(f float32) bool {
	return f >= 0 && f <= 1
}
