// Package config loads the client configuration: server address, window
// layout with stream subscriptions, preset colors, and the paths of the
// highlight and logbook files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"mudlark/internal/style"
)

type Config struct {
	Server     ServerConfig            `mapstructure:"server"`
	Windows    []WindowConfig          `mapstructure:"windows"`
	Presets    map[string]PresetConfig `mapstructure:"presets"`
	Highlights string                  `mapstructure:"highlights"`
	Logbook    LogbookConfig           `mapstructure:"logbook"`
	Sound      SoundConfig             `mapstructure:"sound"`
}

type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Character string `mapstructure:"character"`
}

// Addr returns host:port for dialing.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WindowConfig declares one destination and the streams it subscribes to.
// Windows later in the list displace earlier ones on shared stream names.
type WindowConfig struct {
	Name       string   `mapstructure:"name"`
	Streams    []string `mapstructure:"streams"`
	Scrollback int      `mapstructure:"scrollback"`
}

// PresetConfig is the color the server's preset tags of that id resolve to.
type PresetConfig struct {
	Fg   string `mapstructure:"fg"`
	Bg   string `mapstructure:"bg"`
	Bold bool   `mapstructure:"bold"`
}

type LogbookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // empty means <config dir>/logbook.db
}

type SoundConfig struct {
	Command string   `mapstructure:"command"` // player binary; empty disables sound
	Args    []string `mapstructure:"args"`    // {file} and {volume} are substituted
	Dir     string   `mapstructure:"dir"`     // base dir for relative sound paths
}

func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("logbook.enabled", true)

	// Missing config file is fine; defaults plus flags carry a first run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults(configPath)
	return &cfg, nil
}

// applyDefaults fills in what the file left out: a main window subscribed to
// the main stream, scrollback sizes, and file locations under the config dir.
func (c *Config) applyDefaults(configDir string) {
	if len(c.Windows) == 0 {
		c.Windows = []WindowConfig{{Name: "main", Streams: []string{"main"}}}
	}
	for i := range c.Windows {
		if c.Windows[i].Scrollback <= 0 {
			c.Windows[i].Scrollback = 5000
		}
	}
	if c.Highlights == "" {
		c.Highlights = filepath.Join(configDir, "highlights.yaml")
	}
	if c.Logbook.Path == "" {
		c.Logbook.Path = filepath.Join(configDir, "logbook.db")
	}
}

// ApplyOverrides applies command-line overrides. Empty values leave the
// config untouched.
func (c *Config) ApplyOverrides(host string, port int, character string) {
	if host != "" {
		c.Server.Host = host
	}
	if port != 0 {
		c.Server.Port = port
	}
	if character != "" {
		c.Server.Character = character
	}
}

// PresetStyles converts the configured presets to parser styles.
func (c *Config) PresetStyles() map[string]style.Style {
	out := make(map[string]style.Style, len(c.Presets))
	for id, p := range c.Presets {
		out[id] = style.Style{Fg: style.Color(p.Fg), Bg: style.Color(p.Bg), Bold: p.Bold}
	}
	return out
}

// GetConfigDir returns the XDG config directory for mudlark.
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "mudlark"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "mudlark"), nil
}

// GetConfigPath returns the path where the config file should be located.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}
