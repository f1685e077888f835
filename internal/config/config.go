package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mdocx/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// DefaultMaxSize is the largest Markdown file accepted for conversion.
const DefaultMaxSize int64 = 10 * 1024 * 1024

// Config represents the application configuration structure.
type Config struct {
	Service struct {
		URL          string `yaml:"url"`           // Base URL of the conversion service
		ProbeTimeout int    `yaml:"probe_timeout"` // Startup probe timeout in seconds
	} `yaml:"service"`
	Intake struct {
		MaxSize int64 `yaml:"max_size"` // Size ceiling in bytes
	} `yaml:"intake"`
	Output struct {
		Directory string `yaml:"directory"` // Where generated documents are saved
		Collision string `yaml:"collision"` // Collision strategy: rename or overwrite
	} `yaml:"output"`
	Templates struct {
		Default string `yaml:"default"` // Template preselected at startup
	} `yaml:"templates"`
	Inbox struct {
		Directory string `yaml:"directory"` // Drop folder watched by `mdocx watch`
		Pattern   string `yaml:"pattern"`   // Glob of file names picked up from the inbox
	} `yaml:"inbox"`
	Logging struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"` // Used by the TUI; empty means <config dir>/mdocx.log
	} `yaml:"logging"`
	Theme struct {
		Name    string `yaml:"name"`    // Theme name (default, dark, light, etc.)
		Primary string `yaml:"primary"` // Primary color for branding
		Info    string `yaml:"info"`    // Informational message color
		Success string `yaml:"success"` // Success message color
		Warning string `yaml:"warning"` // Warning message color
		Error   string `yaml:"error"`   // Error message color
		Border  string `yaml:"border"`  // Border color for frames
	} `yaml:"theme"`
}

// Dir returns the configuration directory (~/.config/mdocx).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mdocx"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/mdocx/config.yaml).
func LoadConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(filepath.Join(dir, "config.yaml"))
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Service.URL != "" {
		cfg.Service.URL = tempCfg.Service.URL
	}
	if tempCfg.Service.ProbeTimeout != 0 {
		cfg.Service.ProbeTimeout = tempCfg.Service.ProbeTimeout
	}
	if tempCfg.Intake.MaxSize != 0 {
		cfg.Intake.MaxSize = tempCfg.Intake.MaxSize
	}
	if tempCfg.Output.Directory != "" {
		cfg.Output.Directory = tempCfg.Output.Directory
	}
	if tempCfg.Output.Collision != "" {
		cfg.Output.Collision = tempCfg.Output.Collision
	}
	cfg.Templates.Default = tempCfg.Templates.Default
	cfg.Inbox.Directory = tempCfg.Inbox.Directory
	if tempCfg.Inbox.Pattern != "" {
		cfg.Inbox.Pattern = tempCfg.Inbox.Pattern
	}
	cfg.Logging = tempCfg.Logging
	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Service.URL = "http://localhost:5000"
	cfg.Service.ProbeTimeout = 5

	cfg.Intake.MaxSize = DefaultMaxSize

	cfg.Output.Directory = "."
	cfg.Output.Collision = "rename" // Never clobber an earlier download

	cfg.Inbox.Pattern = "*.{md,markdown}"

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	url := strings.ToLower(c.Service.URL)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return errors.NewConfigError("service url must be http or https", "service.url", errors.InvalidConfig, nil)
	}

	if c.Service.ProbeTimeout < 1 {
		return errors.NewConfigError("probe timeout must be >= 1 second", "service.probe_timeout", errors.InvalidConfig, nil)
	}

	if c.Intake.MaxSize <= 0 {
		return errors.NewConfigError("max size must be positive", "intake.max_size", errors.InvalidConfig, nil)
	}

	validCollisions := map[string]bool{"rename": true, "overwrite": true}
	if !validCollisions[c.Output.Collision] {
		return errors.NewConfigError("invalid collision setting", "output.collision", errors.InvalidConfig,
			fmt.Errorf("%q is not one of rename, overwrite", c.Output.Collision))
	}

	if c.Output.Directory == "" {
		return errors.NewConfigError("output directory is required", "output.directory", errors.InvalidConfig, nil)
	}

	if _, err := glob.Compile(c.Inbox.Pattern); err != nil {
		return errors.NewConfigError("invalid inbox pattern", "inbox.pattern", errors.InvalidConfig, err)
	}

	return nil
}

// ProbeTimeout returns the startup probe timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Service.ProbeTimeout) * time.Second
}

// LogFile returns the log file used by interactive front-ends.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	dir, err := Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mdocx.log")
	}
	return filepath.Join(dir, "mdocx.log")
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(serviceURL, outputDir string) *Config {
	cfg := defaultConfig()
	cfg.Service.URL = serviceURL
	cfg.Service.ProbeTimeout = 1
	cfg.Output.Directory = outputDir
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary": "213", // Purple
			"success": "114", // Green
			"warning": "220", // Yellow
			"error":   "196", // Red
			"info":    "39",  // Blue
			"border":  "213", // Purple
		},
		"dark": {
			"primary": "105",
			"success": "78",
			"warning": "214",
			"error":   "160",
			"info":    "33",
			"border":  "105",
		},
		"light": {
			"primary": "135",
			"success": "150",
			"warning": "222",
			"error":   "210",
			"info":    "117",
			"border":  "135",
		},
		"monochrome": {
			"primary": "245",
			"success": "252",
			"warning": "241",
			"error":   "232",
			"info":    "248",
			"border":  "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
