// Package config loads ls-stellar settings from defaults, an optional
// config file, a .env file and LS_STELLAR_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/litescript/ls-stellar/internal/parsec"
	"github.com/litescript/ls-stellar/internal/population"
)

const (
	appName   = "ls-stellar"
	envPrefix = "LS_STELLAR"
)

// Config is the resolved application configuration.
type Config struct {
	LogLevel   string           `mapstructure:"logLevel"`
	Data       DataConfig       `mapstructure:"data"`
	Population PopulationConfig `mapstructure:"population"`
	Observer   ObserverConfig   `mapstructure:"observer"`
	Store      StoreConfig      `mapstructure:"store"`
}

// DataConfig locates the PARSEC track files.
type DataConfig struct {
	Dir         string        `mapstructure:"dir"`
	Metallicity string        `mapstructure:"metallicity"`
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PopulationConfig mirrors population.Config.
type PopulationConfig struct {
	StarsPerCubicLy  float64 `mapstructure:"starsPerCubicLy"`
	ThinDiskAgeYears float64 `mapstructure:"thinDiskAgeYears"`
	MaxChunkSize     int     `mapstructure:"maxChunkSize"`
	Workers          int     `mapstructure:"workers"`
	Seed             uint64  `mapstructure:"seed"`
}

// ObserverConfig places the observer on Earth for horizon views.
type ObserverConfig struct {
	Lat float64 `mapstructure:"lat"`
	Lon float64 `mapstructure:"lon"`
}

// StoreConfig selects the run store. An empty DSN disables it.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Generator converts the settings into a population.Config.
func (c PopulationConfig) Generator() population.Config {
	return population.Config{
		StarsPerCubicLy:  c.StarsPerCubicLy,
		ThinDiskAgeYears: c.ThinDiskAgeYears,
		MaxChunkSize:     c.MaxChunkSize,
		Workers:          c.Workers,
		Seed:             c.Seed,
	}
}

// DefaultDataDir returns the per-user directory for downloaded tracks.
func DefaultDataDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "data")
	}
	return filepath.Join(dir, appName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("data.dir", DefaultDataDir())
	v.SetDefault("data.metallicity", parsec.Metallicity)
	v.SetDefault("data.url", parsec.DefaultBaseURL)
	v.SetDefault("data.timeout", parsec.DefaultTimeout.String())

	v.SetDefault("population.starsPerCubicLy", population.DefaultStarsPerCubicLy)
	v.SetDefault("population.thinDiskAgeYears", population.DefaultThinDiskAgeYears)
	v.SetDefault("population.maxChunkSize", population.DefaultMaxChunkSize)
	v.SetDefault("population.workers", 0)
	v.SetDefault("population.seed", 0)

	// Greenwich
	v.SetDefault("observer.lat", 51.4769)
	v.SetDefault("observer.lon", 0.0)

	v.SetDefault("store.dsn", "")
}

// Load reads the configuration. An empty path searches the working directory
// and the user config directory for ls-stellar.{toml,yaml,json}; a missing
// file is not an error then. An explicit path must exist.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv exports variables from a .env file without overriding the
// environment. A missing file is ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func (c *Config) validate() error {
	if c.Data.Metallicity == "" {
		return errors.New("data.metallicity must not be empty")
	}
	if c.Data.Timeout <= 0 {
		return fmt.Errorf("data.timeout must be positive, got %v", c.Data.Timeout)
	}
	if c.Population.StarsPerCubicLy < 0 {
		return fmt.Errorf("population.starsPerCubicLy must not be negative, got %v", c.Population.StarsPerCubicLy)
	}
	if c.Observer.Lat < -90 || c.Observer.Lat > 90 {
		return fmt.Errorf("observer.lat out of range: %v", c.Observer.Lat)
	}
	return nil
}
