package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "dailywisdom"

// Config represents the application configuration
type Config struct {
	DefaultDeck  string `toml:"default_deck"`
	Language     string `toml:"language"`
	Font         string `toml:"font"`
	Timezone     string `toml:"timezone"`      // IANA name, or "Local"
	Store        string `toml:"store"`         // toml or sqlite
	PollInterval string `toml:"poll_interval"` // Day rollover check interval, e.g. "30s"
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		DefaultDeck:  "daily-wisdom",
		Language:     "en",
		Font:         "system",
		Timezone:     "Local",
		Store:        "toml",
		PollInterval: "30s",
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return xdgCache
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache")
}

// GetDeckLibraryPath returns the path to the deck library
func GetDeckLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), appName, "decks")
}

// GetDataDir returns where persisted app state lives
func GetDataDir() string {
	return filepath.Join(GetXDGDataHome(), appName)
}

// GetCacheDir returns the cache directory for rendered card art
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), appName)
}

// GetLogDir returns the log directory
func GetLogDir() string {
	return filepath.Join(GetDataDir(), "logs")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// LoadConfig loads the config file, creating it with defaults on first run.
// Fields missing from an existing file take their default values.
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := Default()
		if err := SaveConfig(config); err != nil {
			return nil, err
		}
		return config, nil
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig writes the config file
func SaveConfig(config *Config) error {
	configPath := GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later at use
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	switch c.Store {
	case "toml", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store %q (expected toml or sqlite)", c.Store)
	}
	return nil
}

// Location resolves the configured timezone; empty or "Local" means the system zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Interval parses the poll interval
func (c *Config) Interval() (time.Duration, error) {
	if c.PollInterval == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid poll_interval %q: %w", c.PollInterval, err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("poll_interval %s is below one second", d)
	}
	return d, nil
}

// GetDeckPath returns the path to a deck, either in the deck library or a relative path
func GetDeckPath(deckName string) (string, error) {
	libraryPath := GetDeckLibraryPath()
	deckPath := filepath.Join(libraryPath, deckName)

	if _, err := os.Stat(deckPath); err == nil {
		return deckPath, nil
	}

	if _, err := os.Stat(deckName); err == nil {
		return deckName, nil
	}

	return "", fmt.Errorf("deck not found: %s", deckName)
}

// SetDefaultDeck sets the default deck in the config
func SetDefaultDeck(deckName string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	config.DefaultDeck = deckName
	return SaveConfig(config)
}
