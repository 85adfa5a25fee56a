package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HERALD_"

// Override adjusts a loaded configuration before validation.
type Override func(*Config)

// Load reads, expands, overrides and validates the configuration at path.
// An empty path yields the defaults. Environment overrides apply first,
// then each override in order.
func Load(path string, overrides ...Override) (*Config, error) {
	if path == "" {
		return finish(Default(), overrides)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	// Support ${ENV_VAR} placeholders in config files.
	data = []byte(os.ExpandEnv(string(data)))

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}

	for i := range cfg.Listeners {
		if f := cfg.Listeners[i].ScriptFile; f != "" && !filepath.IsAbs(f) {
			cfg.Listeners[i].ScriptFile = filepath.Join(filepath.Dir(path), f)
		}
	}

	return finish(cfg, overrides)
}

func finish(cfg *Config, overrides []Override) (*Config, error) {
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads path into the environment if it exists. Variables
// already set are not overridden.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// formatOf returns the format for a file name by extension.
func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Parse decodes data in the given format ("yaml", "yml" or "toml") on top
// of the defaults. It neither expands variables nor validates.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()

	var err error
	switch format {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, cfg)
	case "toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: "<" + format + ">", Err: err}
	}
	return cfg, nil
}

// ApplyEnv applies HERALD_* overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvPrefix + "FAKE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sFAKE: %w", EnvPrefix, err)
		}
		c.Fake = b
	}
	if v, ok := lookup(EnvPrefix + "METRICS_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sMETRICS_ENABLED: %w", EnvPrefix, err)
		}
		c.Metrics.Enabled = b
	}
	if v, ok := lookup(EnvPrefix + "METRICS_ADDR"); ok && v != "" {
		c.Metrics.Addr = v
		c.Metrics.Enabled = true
	}
	return nil
}
