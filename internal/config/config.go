// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/chatapp-tui/internal/api"
	"github.com/jeranaias/chatapp-tui/internal/clock"
	"github.com/jeranaias/chatapp-tui/internal/util"
)

// EnvAPIURL overrides api.base_url.
const EnvAPIURL = "CHATAPP_API_URL"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatapp configuration.
type Config struct {
	API   APIConfig   `toml:"api" json:"api"`
	Probe ProbeConfig `toml:"probe" json:"probe"`
	Clock ClockConfig `toml:"clock" json:"clock"`
	UI    UIConfig    `toml:"ui" json:"ui"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the backend address, e.g. http://localhost:8000
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model is sent with every chat request
	Model string `toml:"model" json:"model"`
	// TimeoutSecs bounds each request (0 = no bound)
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSecond paces outgoing requests (0 = unlimited)
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// ProbeConfig contains connectivity probe settings.
type ProbeConfig struct {
	ResetDelayMs int `toml:"reset_delay_ms" json:"reset_delay_ms"`
	TimeoutMs    int `toml:"timeout_ms" json:"timeout_ms"`
}

// ClockConfig contains the world clock settings.
type ClockConfig struct {
	IntervalMs int          `toml:"interval_ms" json:"interval_ms"`
	Zones      []ZoneConfig `toml:"zones" json:"zones"`
}

// ZoneConfig is one city shown in the clock bar.
type ZoneConfig struct {
	City     string `toml:"city" json:"city"`
	Timezone string `toml:"timezone" json:"timezone"`
	Glyph    string `toml:"glyph" json:"glyph"`
}

// UIConfig contains display preferences.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme          string `toml:"theme" json:"theme"`
	ShowTokens     bool   `toml:"show_tokens" json:"show_tokens"`
	RenderMarkdown bool   `toml:"render_markdown" json:"render_markdown"`
}

// Default returns a configuration with default values.
func Default() *Config {
	zones := make([]ZoneConfig, 0, 4)
	for _, e := range clock.DefaultEntries() {
		zones = append(zones, ZoneConfig{City: e.City, Timezone: e.TimezoneID, Glyph: e.Glyph})
	}

	return &Config{
		API: APIConfig{
			BaseURL:           api.DefaultBaseURL,
			Model:             api.DefaultModel,
			TimeoutSecs:       0, // chat requests run to completion
			RequestsPerSecond: 0,
		},
		Probe: ProbeConfig{
			ResetDelayMs: 3000,
			TimeoutMs:    10000,
		},
		Clock: ClockConfig{
			IntervalMs: 1000,
			Zones:      zones,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTokens:     true,
			RenderMarkdown: true,
		},
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Timeout returns the API request bound.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ResetDelay returns the probe reset delay.
func (c ProbeConfig) ResetDelay() time.Duration {
	return time.Duration(c.ResetDelayMs) * time.Millisecond
}

// Timeout returns the per-check bound.
func (c ProbeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Interval returns the clock tick period.
func (c ClockConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Entries converts the configured zones into clock entries.
func (c ClockConfig) Entries() []clock.Entry {
	entries := make([]clock.Entry, len(c.Zones))
	for i, z := range c.Zones {
		entries[i] = clock.Entry{City: z.City, TimezoneID: z.Timezone, Glyph: z.Glyph}
	}
	return entries
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the chatapp configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatapp"), nil
}

// DefaultPath returns the path to the TOML config file.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the configuration at path, or the default path when path is
// empty. A missing default file yields the defaults; a missing explicit file
// is an error. Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}

	defaultPath, err := DefaultPath()
	if err == nil {
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			return LoadFromPath(defaultPath)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the file at path over cfg. Keys absent from the file keep
// the values already in cfg.
func LoadTOML(cfg *Config, path string) error {
	// A [[clock.zones]] list replaces the existing one entirely; decoding
	// into the old slice would leave stale fields in reused elements.
	prevZones := cfg.Clock.Zones
	cfg.Clock.Zones = nil

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		cfg.Clock.Zones = prevZones
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if !meta.IsDefined("clock", "zones") {
		cfg.Clock.Zones = prevZones
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: ignoring unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path atomically with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# chatapp configuration file")
	fmt.Fprintln(&buf, "# Generated by chatapp - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every validation failure.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors when any
// field is invalid.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http:// or https:// with a host", c.API.BaseURL),
		})
	}
	if strings.TrimSpace(c.API.Model) == "" {
		errs = append(errs, ValidationError{Field: "api.model", Message: "must not be empty"})
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_secs", Message: "must be >= 0"})
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "api.requests_per_second", Message: "must be >= 0"})
	}

	if c.Probe.ResetDelayMs <= 0 {
		errs = append(errs, ValidationError{Field: "probe.reset_delay_ms", Message: "must be > 0"})
	}
	if c.Probe.TimeoutMs < 0 {
		errs = append(errs, ValidationError{Field: "probe.timeout_ms", Message: "must be >= 0"})
	}

	if c.Clock.IntervalMs <= 0 {
		errs = append(errs, ValidationError{Field: "clock.interval_ms", Message: "must be > 0"})
	}
	seen := make(map[string]bool)
	for i, z := range c.Clock.Zones {
		field := fmt.Sprintf("clock.zones[%d]", i)
		if strings.TrimSpace(z.City) == "" {
			errs = append(errs, ValidationError{Field: field + ".city", Message: "must not be empty"})
		} else if seen[z.City] {
			errs = append(errs, ValidationError{Field: field + ".city", Message: fmt.Sprintf("duplicate city '%s'", z.City)})
		}
		seen[z.City] = true
		if z.Timezone == "" {
			errs = append(errs, ValidationError{Field: field + ".timezone", Message: "must not be empty"})
		} else if _, err := time.LoadLocation(z.Timezone); err != nil {
			errs = append(errs, ValidationError{Field: field + ".timezone", Message: fmt.Sprintf("unknown timezone '%s'", z.Timezone)})
		}
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that cannot be meaningful.
func (c *Config) SetDefaults() {
	defaults := Default()

	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if strings.TrimSpace(c.API.Model) == "" {
		c.API.Model = defaults.API.Model
	}
	if c.Probe.ResetDelayMs == 0 {
		c.Probe.ResetDelayMs = defaults.Probe.ResetDelayMs
	}
	if c.Clock.IntervalMs == 0 {
		c.Clock.IntervalMs = defaults.Clock.IntervalMs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if u := strings.TrimSpace(os.Getenv(EnvAPIURL)); u != "" {
		c.API.BaseURL = u
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Clock.Zones = append([]ZoneConfig(nil), c.Clock.Zones...)
	return &clone
}

// String returns a JSON rendering of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
