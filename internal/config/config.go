// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/openformat/internal/schemas"
	"github.com/jonathan/openformat/internal/transcode"
	"github.com/jonathan/openformat/internal/types"
	schemafiles "github.com/jonathan/openformat/schemas"
)

// Environment variables read by FromEnv.
const (
	EnvOutputDir   = "OPENFORMAT_OUTPUT_DIR"
	EnvEncodings   = "OPENFORMAT_ENCODINGS"
	EnvDatabaseURL = "DATABASE_URL"
)

// DefaultOutputDir is used when neither the config file, environment nor flags name one.
const DefaultOutputDir = "openformat_out"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Output
	OutputDir string          `json:"output_dir,omitempty"` // Root directory for generated files
	Encodings []types.Variant `json:"encodings,omitempty" validate:"omitempty,dive"`
	Flat      bool            `json:"flat,omitempty"` // Write directly into OutputDir, skipping OPENFRMT/<vat>.<yy>/<MMDDhhmm>

	// Sources
	Input       string `json:"input,omitempty"`        // Fixture JSON file; the built-in sample is used when empty
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SalesFrom   string `json:"sales_from,omitempty"`   // YYYYMMDD, load POS sales from the database
	SalesTo     string `json:"sales_to,omitempty"`     // YYYYMMDD, inclusive

	// Behavior
	Parallel bool `json:"parallel,omitempty"` // Encode variants concurrently
	Verbose  bool `json:"verbose,omitempty"`  // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		Encodings: types.DefaultVariants(),
	}
}

// Load runs the configuration lifecycle: read the file (if any), fill gaps
// from the environment and then the built-in defaults, and validate.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	env, err := FromEnv()
	if err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(env)
	merged = merged.MergeWithDefaults(Defaults())

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := schemas.ValidateBytes(schemafiles.Config, data); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a partial Config from environment variables.
// OPENFORMAT_ENCODINGS is a comma-separated list of Name=codepage pairs.
func FromEnv() (Config, error) {
	cfg := Config{
		OutputDir:   os.Getenv(EnvOutputDir),
		DatabaseURL: os.Getenv(EnvDatabaseURL),
	}
	if raw := os.Getenv(EnvEncodings); raw != "" {
		variants, err := ParseEncodings(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvEncodings, err)
		}
		cfg.Encodings = variants
	}
	return cfg, nil
}

// ParseEncodings reads "Win1255=windows-1255,CP862=cp862". A bare codepage
// is accepted and names its own variant.
func ParseEncodings(raw string) ([]types.Variant, error) {
	var variants []types.Variant
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, codepage, found := strings.Cut(item, "=")
		if !found {
			codepage = name
		}
		name, codepage = strings.TrimSpace(name), strings.TrimSpace(codepage)
		if name == "" || codepage == "" {
			return nil, fmt.Errorf("malformed encoding entry %q", item)
		}
		variants = append(variants, types.Variant{Name: name, Codepage: codepage})
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("no encodings listed")
	}
	return variants, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	seen := make(map[string]bool, len(c.Encodings))
	for _, v := range c.Encodings {
		key := strings.ToLower(v.Name)
		if seen[key] {
			return fmt.Errorf("config error: duplicate encoding variant %q", v.Name)
		}
		seen[key] = true
		if _, err := transcode.Lookup(v.Codepage); err != nil {
			return fmt.Errorf("config error: variant %s: %w", v.Name, err)
		}
	}

	// Sales replace the input's records; the input still supplies the header
	if (c.SalesFrom != "" || c.SalesTo != "") && c.DatabaseURL == "" {
		return fmt.Errorf("config error: loading sales requires 'database_url'")
	}
	from, err := parseDay("sales_from", c.SalesFrom)
	if err != nil {
		return err
	}
	to, err := parseDay("sales_to", c.SalesTo)
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("config error: 'sales_to' is before 'sales_from'")
	}

	// Validate file paths exist (if specified)
	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	return nil
}

// UsesDatabaseSource reports whether records come from the sales tables.
func (c *Config) UsesDatabaseSource() bool {
	return c.SalesFrom != "" || c.SalesTo != ""
}

// SalesRange returns the parsed sales range; a missing end means the start day only.
func (c *Config) SalesRange() (from, to time.Time, err error) {
	if from, err = parseDay("sales_from", c.SalesFrom); err != nil {
		return
	}
	if to, err = parseDay("sales_to", c.SalesTo); err != nil {
		return
	}
	if to.IsZero() {
		to = from
	}
	if from.IsZero() {
		from = to
	}
	return from, to, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SalesFrom == "" {
		result.SalesFrom = defaults.SalesFrom
	}
	if result.SalesTo == "" {
		result.SalesTo = defaults.SalesTo
	}

	// Encodings are replaced as a whole, never mixed
	if len(result.Encodings) == 0 && len(defaults.Encodings) > 0 {
		result.Encodings = append([]types.Variant(nil), defaults.Encodings...)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func parseDay(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("20060102", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("config error: '%s' must be YYYYMMDD: %w", field, err)
	}
	return t, nil
}
