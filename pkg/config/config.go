/*
Package config manages TOML config for hintserve.

The file lives at ~/.config/hintserve/config.toml unless a path is given.
A broken file never stops startup: values that cannot be decoded fall back
to defaults section by section.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/hintserve/internal/utils"
	"github.com/charmbracelet/log"
)

const appName = "hintserve"

// Config holds the entire config structure
type Config struct {
	Hints    HintsConfig    `toml:"hints"`
	Patterns PatternsConfig `toml:"patterns"`
	Style    StyleConfig    `toml:"style"`
	Server   ServerConfig   `toml:"server"`
}

// HintsConfig selects the symbols hints are spelled with.
type HintsConfig struct {
	KeyboardLayout string `toml:"keyboard_layout"`
	// Alphabet overrides the layout when set.
	Alphabet     string `toml:"alphabet"`
	HintPosition string `toml:"hint_position"`
}

// PatternsConfig lists the enabled patterns. Builtins are declared first,
// so they win over custom patterns at the same position.
type PatternsConfig struct {
	EnabledBuiltin []string        `toml:"enabled_builtin"`
	Custom         []CustomPattern `toml:"custom,omitempty"`
}

// CustomPattern is a user defined regular expression. A (?P<match>...)
// group narrows the highlighted part.
type CustomPattern struct {
	Name  string `toml:"name"`
	Regex string `toml:"regex"`
}

// StyleConfig holds tmux style strings such as "fg=green,bold".
type StyleConfig struct {
	Hint              string `toml:"hint"`
	Highlight         string `toml:"highlight"`
	SelectedHint      string `toml:"selected_hint"`
	SelectedHighlight string `toml:"selected_highlight"`
	Backdrop          string `toml:"backdrop"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxTextBytes int  `toml:"max_text_bytes"`
	MaxSessions  int  `toml:"max_sessions"`
	ReloadConfig bool `toml:"reload_config"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Hints: HintsConfig{
			KeyboardLayout: DefaultLayout,
			HintPosition:   PositionLeft,
		},
		Patterns: PatternsConfig{
			EnabledBuiltin: []string{AllBuiltin},
		},
		Style: StyleConfig{
			Hint:              "fg=green,bold",
			Highlight:         "fg=yellow",
			SelectedHint:      "fg=blue,bold",
			SelectedHighlight: "fg=blue",
			Backdrop:          "dim",
		},
		Server: ServerConfig{
			MaxTextBytes: 1 << 20,
			MaxSessions:  16,
			ReloadConfig: true,
		},
	}
}

// Hint positions relative to the highlighted text.
const (
	PositionLeft  = "left"
	PositionRight = "right"
)

// Position returns the configured hint position, defaulting to left.
func (c *Config) Position() string {
	switch p := strings.ToLower(strings.TrimSpace(c.Hints.HintPosition)); p {
	case PositionLeft, PositionRight:
		return p
	case "":
		return PositionLeft
	default:
		log.Warnf("Unknown hint_position %q, using %s", c.Hints.HintPosition, PositionLeft)
		return PositionLeft
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. $XDG_CONFIG_HOME/hintserve or ~/.config/hintserve
// 2. ~/Library/Application Support/hintserve (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(utils.UserConfigHome(homeDir), appName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/hintserve/config.toml
// 3. Builtin defaults
//
// The returned path is empty when builtin defaults are used.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, err
	}
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages every section that still decodes
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "hints"); ok {
		extractHintsConfig(section, &config.Hints)
	}
	if section, ok := utils.ExtractSection(tempConfig, "patterns"); ok {
		extractPatternsConfig(section, &config.Patterns)
	}
	if section, ok := utils.ExtractSection(tempConfig, "style"); ok {
		extractStyleConfig(section, &config.Style)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractHintsConfig(data map[string]any, hints *HintsConfig) {
	if val, ok := utils.ExtractString(data, "keyboard_layout"); ok {
		hints.KeyboardLayout = val
	}
	if val, ok := utils.ExtractString(data, "alphabet"); ok {
		hints.Alphabet = val
	}
	if val, ok := utils.ExtractString(data, "hint_position"); ok {
		hints.HintPosition = val
	}
}

func extractPatternsConfig(data map[string]any, patterns *PatternsConfig) {
	if val, ok := utils.ExtractStringSlice(data, "enabled_builtin"); ok {
		patterns.EnabledBuiltin = val
	}
	tables, ok := utils.ExtractTables(data, "custom")
	if !ok {
		return
	}
	for _, t := range tables {
		regex, ok := utils.ExtractString(t, "regex")
		if !ok {
			log.Warnf("Skipping custom pattern without a regex: %v", t)
			continue
		}
		name, _ := utils.ExtractString(t, "name")
		patterns.Custom = append(patterns.Custom, CustomPattern{Name: name, Regex: regex})
	}
}

func extractStyleConfig(data map[string]any, style *StyleConfig) {
	for key, dst := range map[string]*string{
		"hint":               &style.Hint,
		"highlight":          &style.Highlight,
		"selected_hint":      &style.SelectedHint,
		"selected_highlight": &style.SelectedHighlight,
		"backdrop":           &style.Backdrop,
	} {
		if val, ok := utils.ExtractString(data, key); ok {
			*dst = val
		}
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_text_bytes"); ok {
		server.MaxTextBytes = val
	}
	if val, ok := utils.ExtractInt64(data, "max_sessions"); ok {
		server.MaxSessions = val
	}
	if val, ok := utils.ExtractBool(data, "reload_config"); ok {
		server.ReloadConfig = val
	}
}

// RebuildConfigFile force creates a new config.toml with defaults.
// An empty path means the default location.
func RebuildConfigFile(configPath string) (string, error) {
	if configPath == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return "", err
		}
		configPath = defaultPath
	}
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return "", err
	}
	return configPath, SaveConfig(DefaultConfig(), configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the hint settings and saves to file. Nil values are left alone.
func (c *Config) Update(configPath string, layout, alphabet, position *string) error {
	hints := &c.Hints
	if layout != nil {
		hints.KeyboardLayout = *layout
	}
	if alphabet != nil {
		hints.Alphabet = *alphabet
	}
	if position != nil {
		hints.HintPosition = *position
	}
	return SaveConfig(c, configPath)
}
