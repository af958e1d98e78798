package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/lu-zhengda/cleanslim/internal/category"
	"github.com/lu-zhengda/cleanslim/internal/utils"
)

// Config holds all cleanslim configuration.
type Config struct {
	SizeMode   string           `yaml:"size_mode"`
	Categories CategoriesConfig `yaml:"categories"`
	Clean      CleanConfig      `yaml:"clean"`
	Selection  SelectionConfig  `yaml:"selection"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	LogLevel   string           `yaml:"log_level"`
}

// CategoriesConfig adjusts the built-in category list.
type CategoriesConfig struct {
	Disabled []string              `yaml:"disabled"`
	Extra    []category.Definition `yaml:"extra"`
}

// CleanConfig controls the clean phase.
type CleanConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Credit      string `yaml:"credit"`
	MinDuration string `yaml:"min_duration"`
}

// SelectionConfig chooses where category selections are persisted.
type SelectionConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// ScheduleConfig holds cron expressions for the watch command.
type ScheduleConfig struct {
	Scan  string `yaml:"scan"`
	Clean string `yaml:"clean"`
}

// ScheduleParser accepts five-field cron expressions and descriptors such
// as "@daily".
var ScheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a schedule.scan or schedule.clean expression.
func ParseSchedule(spec string) (cron.Schedule, error) {
	return ScheduleParser.Parse(spec)
}

// Warning is a non-fatal configuration problem.
type Warning struct {
	Field      string
	Message    string
	Suggestion string
}

// DefaultPath is the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "cleanslim", "config.yaml")
}

// Default returns a Config with all default values populated.
func Default() *Config {
	return &Config{
		SizeMode: "allocated",
		Categories: CategoriesConfig{
			Disabled: []string{},
			Extra:    []category.Definition{},
		},
		Clean: CleanConfig{
			Concurrency: 0,
			Credit:      "scanned",
			MinDuration: "1s",
		},
		Selection: SelectionConfig{
			Backend: "file",
		},
		LogLevel: "warn",
	}
}

// Load loads config from the given path. If path is empty, it uses
// DefaultPath. If the file does not exist, it creates it with default
// values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	return LoadFrom(path)
}

// LoadFrom loads and parses config from the given path. Missing fields
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.expand()
	return cfg, nil
}

// LoadAndValidate parses raw YAML and reports every problem found. Parse
// errors are returned as a single warning with a nil config.
func LoadAndValidate(data []byte) (*Config, []Warning) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, []Warning{{
			Message:    fmt.Sprintf("invalid YAML: %v", err),
			Suggestion: "check indentation and quoting",
		}}
	}
	cfg.expand()
	return cfg, cfg.Validate()
}

// Save marshals the config to YAML and writes it to the given path,
// creating parent directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) expand() {
	for i := range c.Categories.Extra {
		c.Categories.Extra[i].Path = utils.ExpandHome(c.Categories.Extra[i].Path)
	}
	c.Selection.Path = utils.ExpandHome(c.Selection.Path)
}

// Validate checks values that parse but make no sense.
func (c *Config) Validate() []Warning {
	var ws []Warning

	switch c.SizeMode {
	case "", "allocated", "apparent":
	default:
		ws = append(ws, Warning{
			Field:      "size_mode",
			Message:    fmt.Sprintf("unknown size mode %q", c.SizeMode),
			Suggestion: "use allocated or apparent",
		})
	}

	if c.Clean.Concurrency < 0 {
		ws = append(ws, Warning{
			Field:      "clean.concurrency",
			Message:    fmt.Sprintf("negative concurrency %d", c.Clean.Concurrency),
			Suggestion: "use 0 for no limit",
		})
	}
	switch c.Clean.Credit {
	case "", "scanned", "measured":
	default:
		ws = append(ws, Warning{
			Field:      "clean.credit",
			Message:    fmt.Sprintf("unknown credit policy %q", c.Clean.Credit),
			Suggestion: "use scanned or measured",
		})
	}
	if c.Clean.MinDuration != "" {
		if _, err := ParseDuration(c.Clean.MinDuration); err != nil {
			ws = append(ws, Warning{
				Field:      "clean.min_duration",
				Message:    err.Error(),
				Suggestion: `use a duration such as "500ms" or "1s"`,
			})
		}
	}

	switch c.Selection.Backend {
	case "", "file", "sqlite", "memory":
	default:
		ws = append(ws, Warning{
			Field:      "selection.backend",
			Message:    fmt.Sprintf("unknown selection backend %q", c.Selection.Backend),
			Suggestion: "use file, sqlite or memory",
		})
	}

	seen := make(map[string]bool)
	for i, d := range c.Categories.Extra {
		field := fmt.Sprintf("categories.extra[%d]", i)
		if d.Name == "" {
			ws = append(ws, Warning{Field: field, Message: "category has no name", Suggestion: "add a name such as npm.cache"})
			continue
		}
		if seen[d.Name] {
			ws = append(ws, Warning{Field: field, Message: fmt.Sprintf("duplicate category %q", d.Name)})
		}
		seen[d.Name] = true
		if d.Path == "" {
			ws = append(ws, Warning{Field: field, Message: fmt.Sprintf("category %q has no path", d.Name)})
		} else if !filepath.IsAbs(d.Path) {
			ws = append(ws, Warning{
				Field:      field,
				Message:    fmt.Sprintf("category %q path %q is relative", d.Name, d.Path),
				Suggestion: "use an absolute path or one starting with ~",
			})
		}
	}

	for field, spec := range map[string]string{"schedule.scan": c.Schedule.Scan, "schedule.clean": c.Schedule.Clean} {
		if spec == "" {
			continue
		}
		if _, err := ParseSchedule(spec); err != nil {
			ws = append(ws, Warning{
				Field:      field,
				Message:    fmt.Sprintf("invalid cron expression %q: %v", spec, err),
				Suggestion: `use five fields such as "0 3 * * *" or a descriptor like "@daily"`,
			})
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error", "off", "disabled":
	default:
		ws = append(ws, Warning{
			Field:      "log_level",
			Message:    fmt.Sprintf("unknown log level %q", c.LogLevel),
			Suggestion: "use debug, info, warn or error",
		})
	}

	return ws
}

// MinDuration returns the parsed clean.min_duration, or zero when it is
// empty or invalid.
func (c *Config) MinDuration() time.Duration {
	d, err := ParseDuration(c.Clean.MinDuration)
	if err != nil {
		return 0
	}
	return d
}

// ParseDuration parses duration strings like "2d" as well as the formats
// accepted by time.ParseDuration. An empty string is zero.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.HasSuffix(s, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(s, "d")); err == nil {
			if days < 0 {
				return 0, fmt.Errorf("negative duration %q", s)
			}
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
