package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/thomas-vilte/commitintent/internal/errors"
)

type Config struct {
	Enabled          bool   `json:"enabled"`
	APIURL           string `json:"api_url"`
	TimeoutMs        int    `json:"timeout_ms"`
	AllowInsecureSSL bool   `json:"allow_insecure_ssl"`
	DebounceDelayMs  int    `json:"debounce_delay_ms"`
	ShowStatusBar    bool   `json:"show_status_bar"`
	Language         string `json:"language"`
	CacheTTLMinutes  int    `json:"cache_ttl_minutes"`
	PathFile         string `json:"path_file"`
}

const (
	DefaultAPIURL          = "http://commitintentdetector.runasp.net/api/Commit/analyze"
	DefaultTimeoutMs       = 30000
	DefaultDebounceDelayMs = 1000
	DefaultCacheTTLMinutes = 24 * 60

	defaultLang = "en"
	configDir   = ".commitintent"
	configFile  = "config.json"
)

// Keys accepted by Set, in display order.
var Keys = []string{
	"enabled",
	"api_url",
	"timeout_ms",
	"allow_insecure_ssl",
	"debounce_delay_ms",
	"show_status_bar",
	"language",
	"cache_ttl_minutes",
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c Config) DebounceDelay() time.Duration {
	return time.Duration(c.DebounceDelayMs) * time.Millisecond
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	return &Config{
		Enabled:          true,
		APIURL:           DefaultAPIURL,
		TimeoutMs:        DefaultTimeoutMs,
		AllowInsecureSSL: false,
		DebounceDelayMs:  DefaultDebounceDelayMs,
		ShowStatusBar:    true,
		Language:         defaultLang,
		CacheTTLMinutes:  DefaultCacheTTLMinutes,
	}
}

// ResolvePath maps a home directory (or an explicit .json file) to the config file path.
func ResolvePath(path string) string {
	if filepath.Ext(path) == ".json" {
		return path
	}
	return filepath.Join(path, configDir, configFile)
}

// LoadConfig reads the config at path, creating it with defaults when missing.
// path is either a home directory or an explicit .json file.
func LoadConfig(path string) (*Config, error) {
	configPath := ResolvePath(path)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return CreateDefaultConfig(configPath)
	} else if err != nil {
		return nil, fmt.Errorf("error checking configuration file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	// start from defaults so keys missing from older files keep sane values
	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error decoding configuration file: %w", err)
	}
	config.PathFile = configPath

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("loaded configuration is invalid: %w", err)
	}

	return config, nil
}

func CreateDefaultConfig(path string) (*Config, error) {
	config := Default()
	config.PathFile = path

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating configuration directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding default configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("error saving default configuration: %w", err)
	}

	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration to save is invalid: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("configuration file path is not set")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(config.PathFile), 0755); err != nil {
		return fmt.Errorf("error creating configuration directory: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0644); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}

	return nil
}

// Set updates a single field addressed by its JSON key.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "_"))
	value = strings.TrimSpace(value)

	switch key {
	case "enabled":
		return setBool(&c.Enabled, key, value)
	case "allow_insecure_ssl":
		return setBool(&c.AllowInsecureSSL, key, value)
	case "show_status_bar":
		return setBool(&c.ShowStatusBar, key, value)
	case "timeout_ms":
		return setInt(&c.TimeoutMs, key, value)
	case "debounce_delay_ms":
		return setInt(&c.DebounceDelayMs, key, value)
	case "cache_ttl_minutes":
		return setInt(&c.CacheTTLMinutes, key, value)
	case "api_url":
		c.APIURL = value
	case "language", "lang":
		c.Language = value
	default:
		return domainErrors.ErrUnknownConfigKey.WithContext("key", key)
	}
	return nil
}

// IsBoolKey reports whether key holds a boolean.
func IsBoolKey(key string) bool {
	switch key {
	case "enabled", "allow_insecure_ssl", "show_status_bar":
		return true
	}
	return false
}

// Get returns the value of the field addressed by key, formatted for display.
func (c Config) Get(key string) (string, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", "_")) {
	case "enabled":
		return strconv.FormatBool(c.Enabled), nil
	case "api_url":
		return c.APIURL, nil
	case "timeout_ms":
		return strconv.Itoa(c.TimeoutMs), nil
	case "allow_insecure_ssl":
		return strconv.FormatBool(c.AllowInsecureSSL), nil
	case "debounce_delay_ms":
		return strconv.Itoa(c.DebounceDelayMs), nil
	case "show_status_bar":
		return strconv.FormatBool(c.ShowStatusBar), nil
	case "language", "lang":
		return c.Language, nil
	case "cache_ttl_minutes":
		return strconv.Itoa(c.CacheTTLMinutes), nil
	}
	return "", domainErrors.ErrUnknownConfigKey.WithContext("key", key)
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return domainErrors.ErrInvalidConfig.
			WithError(fmt.Errorf("%s: invalid boolean value %q", key, value))
	}
	*dst = b
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return domainErrors.ErrInvalidConfig.
			WithError(fmt.Errorf("%s: invalid integer value %q", key, value))
	}
	*dst = n
	return nil
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return domainErrors.ErrInvalidConfig.WithError(errors.New("language cannot be empty"))
	}
	u, err := url.Parse(config.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domainErrors.ErrInvalidConfig.
			WithError(fmt.Errorf("api_url must be an absolute http(s) URL, got %q", config.APIURL))
	}
	if config.TimeoutMs <= 0 {
		return domainErrors.ErrInvalidConfig.WithError(errors.New("timeout_ms must be greater than 0"))
	}
	if config.DebounceDelayMs < 0 {
		return domainErrors.ErrInvalidConfig.WithError(errors.New("debounce_delay_ms cannot be negative"))
	}
	if config.CacheTTLMinutes < 0 {
		return domainErrors.ErrInvalidConfig.WithError(errors.New("cache_ttl_minutes cannot be negative"))
	}
	return nil
}
