// Package config loads service configuration from an optional YAML
// file, then applies environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"databaseUrl"`
	RedisURL    string `yaml:"redisUrl"`

	Routing   Routing   `yaml:"routing"`
	Inventory Inventory `yaml:"inventory"`
	Batch     Batch     `yaml:"batch"`
	RateLimit RateLimit `yaml:"rateLimit"`
}

// Routing holds the vehicle-routing defaults applied when a request
// omits them.
type Routing struct {
	VehicleCapacity  float64 `yaml:"vehicleCapacity"`
	MaxDistanceKm    float64 `yaml:"maxDistanceKm"`
	DefaultAlgorithm string  `yaml:"defaultAlgorithm"`
}

// Inventory holds the inventory policy defaults.
type Inventory struct {
	HoldingCostRate float64 `yaml:"holdingCostRate"`
	OrderingCost    float64 `yaml:"orderingCost"`
	ServiceLevel    float64 `yaml:"serviceLevel"`
}

// Batch holds worker-pool settings.
type Batch struct {
	Workers     int `yaml:"workers"`
	MaxProblems int `yaml:"maxProblems"`
}

// RateLimit holds the per-instance request limiter settings.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port: "8080",
		Routing: Routing{
			VehicleCapacity:  1000,
			MaxDistanceKm:    500,
			DefaultAlgorithm: "clarke_wright",
		},
		Inventory: Inventory{
			HoldingCostRate: 0.25,
			OrderingCost:    100,
			ServiceLevel:    0.95,
		},
		Batch: Batch{
			Workers:     0, // 0 means NumCPU
			MaxProblems: 100,
		},
		RateLimit: RateLimit{
			RPS:   50,
			Burst: 100,
		},
	}
}

// Load reads CONFIG_PATH (if set and present), merges it over the
// defaults, then applies environment overrides. A missing file is not
// an error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	strVar(&c.Port, "PORT")
	strVar(&c.DatabaseURL, "DATABASE_URL")
	strVar(&c.RedisURL, "REDIS_URL")
	strVar(&c.Routing.DefaultAlgorithm, "DEFAULT_ALGORITHM")
	floatVar(&c.Routing.VehicleCapacity, "VEHICLE_CAPACITY")
	floatVar(&c.Routing.MaxDistanceKm, "MAX_DISTANCE_KM")
	floatVar(&c.Inventory.HoldingCostRate, "HOLDING_COST_RATE")
	floatVar(&c.Inventory.OrderingCost, "ORDERING_COST")
	floatVar(&c.Inventory.ServiceLevel, "SERVICE_LEVEL")
	intVar(&c.Batch.Workers, "BATCH_WORKERS")
	intVar(&c.Batch.MaxProblems, "BATCH_MAX_PROBLEMS")
	floatVar(&c.RateLimit.RPS, "RATE_RPS")
	intVar(&c.RateLimit.Burst, "RATE_BURST")
}

func (c *Config) validate() error {
	if c.Routing.VehicleCapacity <= 0 {
		return fmt.Errorf("config: vehicle capacity must be positive, got %v", c.Routing.VehicleCapacity)
	}
	if c.Inventory.ServiceLevel <= 0 || c.Inventory.ServiceLevel >= 1 {
		return fmt.Errorf("config: service level must be in (0,1), got %v", c.Inventory.ServiceLevel)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("config: rate limit must be positive")
	}
	return nil
}

func strVar(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func floatVar(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func intVar(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
