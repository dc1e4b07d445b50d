// Package config provides configuration loading and defaults for the shortcut
// tool.
//
// Configuration is an optional TOML file in the tool's data directory. The
// tool only reads it; a missing file yields [DefaultConfig], which reproduces
// the built-in product and install names exactly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/deskshortcut/internal/paths"
)

// CurrentVersion is the config schema version this build understands.
const CurrentVersion = 1

// Backend names accepted by [ShortcutConfig.Backend].
const (
	BackendAuto   = "auto"
	BackendNative = "native"
	BackendShell  = "shell"
)

// reservedNameChars are characters Windows rejects in file names.
const reservedNameChars = `<>:"/\|?*`

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level configuration.
type Config struct {
	// Version is the config schema version.
	Version int `toml:"version"`
	// Shortcut holds the names the shortcut paths are derived from.
	Shortcut ShortcutConfig `toml:"shortcut"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// ShortcutConfig holds the names used to derive the shortcut location,
// target, and working directory.
type ShortcutConfig struct {
	// ProductName is the shortcut display name and the executable's base name.
	ProductName string `toml:"product_name"`
	// InstallDir is the install directory relative to the profile directory.
	InstallDir string `toml:"install_dir"`
	// BuildDir is the build output directory relative to InstallDir.
	BuildDir string `toml:"build_dir"`
	// Backend selects how the shortcut is persisted: "auto", "native", or "shell".
	Backend string `toml:"backend"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File is an optional log file; relative paths resolve under the data dir.
	File string `toml:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with the built-in names.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Shortcut: ShortcutConfig{
			ProductName: paths.ProductName,
			InstallDir:  paths.InstallDirRel,
			BuildDir:    paths.BuildDirRel,
			Backend:     BackendAuto,
		},
		Log: LogConfig{
			Level:     "warn",
			File:      "",
			MaxSizeMB: 10,
		},
	}
}

// ///////////////////////////////////////////////
// Loading
// ///////////////////////////////////////////////

// Load reads and parses the configuration file at path. If the file doesn't
// exist, returns DefaultConfig. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config: unknown key %q", undecoded[0].String())
	}
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Version > CurrentVersion {
		return fmt.Errorf("config version %d is newer than supported version %d", c.Version, CurrentVersion)
	}

	name := c.Shortcut.ProductName
	if strings.TrimSpace(name) == "" {
		return errors.New("shortcut.product_name must not be empty")
	}
	if strings.ContainsAny(name, reservedNameChars) {
		return fmt.Errorf("invalid shortcut.product_name %q: must not contain any of %s", name, reservedNameChars)
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, " ") {
		return fmt.Errorf("invalid shortcut.product_name %q: must not end in a dot or space", name)
	}

	if err := validateRelDir("shortcut.install_dir", c.Shortcut.InstallDir); err != nil {
		return err
	}
	if err := validateRelDir("shortcut.build_dir", c.Shortcut.BuildDir); err != nil {
		return err
	}

	switch c.Shortcut.Backend {
	case BackendAuto, BackendNative, BackendShell:
	default:
		return fmt.Errorf("invalid shortcut.backend %q: must be auto, native, or shell", c.Shortcut.Backend)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be > 0, got %d", c.Log.MaxSizeMB)
	}
	return nil
}

// validateRelDir requires dir to be a non-empty path that stays beneath its
// parent: no absolute paths, volume names, or ".." escapes.
func validateRelDir(key, dir string) error {
	if dir == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	if !filepath.IsLocal(filepath.FromSlash(dir)) {
		return fmt.Errorf("invalid %s %q: must be a relative path inside its parent", key, dir)
	}
	return nil
}

// ///////////////////////////////////////////////
// Accessors
// ///////////////////////////////////////////////

// Layout combines the configured names with the resolved directories.
func (c *Config) Layout(profile, desktop string) paths.Layout {
	return paths.Layout{
		Profile:    profile,
		Desktop:    desktop,
		Product:    c.Shortcut.ProductName,
		InstallDir: filepath.FromSlash(c.Shortcut.InstallDir),
		BuildDir:   filepath.FromSlash(c.Shortcut.BuildDir),
	}
}

// LogFile returns the configured log file resolved against dataDir, or "" when
// file logging is off.
func (c *Config) LogFile(dataDir string) string {
	if c.Log.File == "" {
		return ""
	}
	f := filepath.FromSlash(c.Log.File)
	if filepath.IsAbs(f) {
		return f
	}
	return filepath.Join(dataDir, f)
}
