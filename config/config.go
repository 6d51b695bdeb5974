// Package config loads the service configuration from a YAML file,
// layering it over built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "24h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full service configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Storage  Storage  `yaml:"storage"`
	Convert  Convert  `yaml:"convert"`
	Janitor  Janitor  `yaml:"janitor"`
	LogLevel string   `yaml:"log_level"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr string `yaml:"addr"`
}

// Storage configures on-disk layout and upload limits.
type Storage struct {
	UploadDir   string `yaml:"upload_dir"`
	OutputDir   string `yaml:"output_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// Convert configures the conversion pipeline.
type Convert struct {
	OCREnabled    bool     `yaml:"ocr_enabled"`
	Languages     []string `yaml:"languages"`
	ExtractImages bool     `yaml:"extract_images"`
	MinImagePx    int      `yaml:"min_image_px"`
}

// Janitor configures stale-file cleanup.
type Janitor struct {
	Retention Duration `yaml:"retention"`
	Interval  Duration `yaml:"interval"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			UploadDir:   "uploads",
			OutputDir:   "converted",
			MaxUploadMB: 20,
		},
		Convert: Convert{
			OCREnabled:    true,
			Languages:     []string{"eng"},
			ExtractImages: true,
			MinImagePx:    50,
		},
		Janitor: Janitor{
			Retention: Duration(time.Hour),
			Interval:  Duration(time.Hour),
		},
		LogLevel: "info",
	}
}

// Load reads path and merges it over the defaults. A missing path returns
// the defaults unchanged; a malformed file is an error. The PDF2WORD_ADDR
// environment variable overrides the listen address last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// keep defaults
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if addr := os.Getenv("PDF2WORD_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.Storage.MaxUploadMB)
	}
	if c.Janitor.Retention <= 0 || c.Janitor.Interval <= 0 {
		return fmt.Errorf("janitor retention and interval must be positive")
	}
	return nil
}
