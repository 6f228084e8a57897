package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 60.0

	DefaultRaysPerSide   = 3
	DefaultMaxProbeAngle = 60.0 // degrees
	DefaultProbeLength   = 18.0
	DefaultProbeRadius   = 0.4
	DefaultMinDistance   = 0.3

	DefaultNearThreshold   = 3.0
	DefaultMediumThreshold = 8.0
	DefaultMinThrottle     = 0.25
	DefaultSteerStrength   = 0.8
	DefaultSideSteerWeight = 0.35

	DefaultAvoidDistance     = 6.0
	DefaultCollisionDistance = 1.2
	DefaultStuckSpeed        = 0.3
	DefaultStuckTime         = 1.5
)

type Config struct {
	Scenario            string  `yaml:"scenario"`
	Policy              string  `yaml:"policy"`
	Mode                string  `yaml:"mode"`
	AllowReverseInBlend bool    `yaml:"allow_reverse_in_blend"`
	Dt                  float64 `yaml:"dt"`
	Duration            float64 `yaml:"duration"`
	Seed                int64   `yaml:"seed"`

	Sensor SensorConfig `yaml:"sensor"`
	Fuzzy  FuzzyConfig  `yaml:"fuzzy"`
	State  StateConfig  `yaml:"state"`
}

// SensorConfig describes the probe fan. MaxProbeAngle is in degrees in
// the file and on the CLI; RadiansMaxAngle converts.
type SensorConfig struct {
	RaysPerSide   int     `yaml:"rays_per_side"`
	MaxProbeAngle float64 `yaml:"max_probe_angle"`
	ProbeLength   float64 `yaml:"probe_length"`
	ProbeRadius   float64 `yaml:"probe_radius"`
	MinDistance   float64 `yaml:"min_distance_considered"`
}

func (s SensorConfig) RadiansMaxAngle() float64 {
	return s.MaxProbeAngle * math.Pi / 180
}

type FuzzyConfig struct {
	NearThreshold         float64 `yaml:"near_threshold"`
	MediumThreshold       float64 `yaml:"medium_threshold"`
	MinThrottleMultiplier float64 `yaml:"min_throttle_multiplier"`
	SteerStrength         float64 `yaml:"steer_strength"`
	SideSteerWeight       float64 `yaml:"side_steer_weight"`
}

type StateConfig struct {
	AvoidDistance       float64 `yaml:"avoid_distance"`
	CollisionDistance   float64 `yaml:"collision_distance"`
	StuckSpeedThreshold float64 `yaml:"stuck_speed_threshold"`
	StuckTimeThreshold  float64 `yaml:"stuck_time_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "slalom",
		Policy:   "chase",
		Mode:     "blended",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Sensor: SensorConfig{
			RaysPerSide:   DefaultRaysPerSide,
			MaxProbeAngle: DefaultMaxProbeAngle,
			ProbeLength:   DefaultProbeLength,
			ProbeRadius:   DefaultProbeRadius,
			MinDistance:   DefaultMinDistance,
		},
		Fuzzy: FuzzyConfig{
			NearThreshold:         DefaultNearThreshold,
			MediumThreshold:       DefaultMediumThreshold,
			MinThrottleMultiplier: DefaultMinThrottle,
			SteerStrength:         DefaultSteerStrength,
			SideSteerWeight:       DefaultSideSteerWeight,
		},
		State: StateConfig{
			AvoidDistance:       DefaultAvoidDistance,
			CollisionDistance:   DefaultCollisionDistance,
			StuckSpeedThreshold: DefaultStuckSpeed,
			StuckTimeThreshold:  DefaultStuckTime,
		},
	}
}

// Load reads a yaml file over the defaults and validates the result, so a
// bad configuration is rejected before any simulation starts.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate enforces the numeric invariants the tick path relies on.
// Membership denominators and transition ordering are only safe when
// these hold, so violations fail here rather than mid-run.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Sensor.RaysPerSide < 0 {
		return fmt.Errorf("rays_per_side must be non-negative, got %d", c.Sensor.RaysPerSide)
	}
	if c.Sensor.MaxProbeAngle <= 0 || c.Sensor.MaxProbeAngle > 180 {
		return fmt.Errorf("max_probe_angle must be in (0, 180] degrees, got %f", c.Sensor.MaxProbeAngle)
	}
	if c.Sensor.ProbeLength <= 0 {
		return fmt.Errorf("probe_length must be positive, got %f", c.Sensor.ProbeLength)
	}
	if c.Sensor.ProbeRadius <= 0 {
		return fmt.Errorf("probe_radius must be positive, got %f", c.Sensor.ProbeRadius)
	}
	if c.Sensor.MinDistance < 0 {
		return fmt.Errorf("min_distance_considered must be non-negative, got %f", c.Sensor.MinDistance)
	}

	if c.Fuzzy.NearThreshold <= c.Sensor.MinDistance {
		return fmt.Errorf("near_threshold (%f) must exceed min_distance_considered (%f)",
			c.Fuzzy.NearThreshold, c.Sensor.MinDistance)
	}
	if c.Fuzzy.MediumThreshold <= c.Fuzzy.NearThreshold {
		return fmt.Errorf("medium_threshold (%f) must exceed near_threshold (%f)",
			c.Fuzzy.MediumThreshold, c.Fuzzy.NearThreshold)
	}
	if c.Fuzzy.MinThrottleMultiplier < 0 || c.Fuzzy.MinThrottleMultiplier > 1 {
		return fmt.Errorf("min_throttle_multiplier must be in [0,1], got %f", c.Fuzzy.MinThrottleMultiplier)
	}
	if c.Fuzzy.SteerStrength < 0 || c.Fuzzy.SteerStrength > 1 {
		return fmt.Errorf("steer_strength must be in [0,1], got %f", c.Fuzzy.SteerStrength)
	}
	if c.Fuzzy.SideSteerWeight < 0 || c.Fuzzy.SideSteerWeight > 1 {
		return fmt.Errorf("side_steer_weight must be in [0,1], got %f", c.Fuzzy.SideSteerWeight)
	}

	if c.State.CollisionDistance <= 0 {
		return fmt.Errorf("collision_distance must be positive, got %f", c.State.CollisionDistance)
	}
	if c.State.AvoidDistance <= c.State.CollisionDistance {
		return fmt.Errorf("avoid_distance (%f) must exceed collision_distance (%f)",
			c.State.AvoidDistance, c.State.CollisionDistance)
	}
	if c.State.StuckSpeedThreshold <= 0 {
		return fmt.Errorf("stuck_speed_threshold must be positive, got %f", c.State.StuckSpeedThreshold)
	}
	if c.State.StuckTimeThreshold <= 0 {
		return fmt.Errorf("stuck_time_threshold must be positive, got %f", c.State.StuckTimeThreshold)
	}

	return nil
}
