// Package config provides configuration directory management and settings for hass-users.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const appName = "hass-users"

// Environment variables that override values from the config file.
const (
	EnvUsersFile  = "HASS_USERS_USERS_FILE"
	EnvGroupsFile = "HASS_USERS_GROUPS_FILE"
	EnvLogLevel   = "HASS_USERS_LOG_LEVEL"
)

// Config holds runtime settings for the hass-users command.
type Config struct {
	UsersFile  string
	GroupsFile string
	LogLevel   string
	LogFormat  string
}

// GetConfigDir returns the configuration directory for hass-users.
// It follows platform-specific conventions:
// - Windows: %APPDATA%\hass-users
// - Unix-like: $XDG_CONFIG_HOME/hass-users or $HOME/.config/hass-users
func GetConfigDir() (string, error) {
	var configDir string

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		configDir = filepath.Join(xdgConfig, appName)
	} else if appData := os.Getenv("APPDATA"); appData != "" {
		configDir = filepath.Join(appData, appName)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(homeDir, ".config", appName)
	} else {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", err
	}

	return configDir, nil
}

// GetConfigPath returns the default path of the INI config file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName+".ini"), nil
}

// LoadDefaults points both backing files into the config directory and
// logs at info level in text format.
func (c *Config) LoadDefaults() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	c.UsersFile = filepath.Join(configDir, "users.yaml")
	c.GroupsFile = filepath.Join(configDir, "groups.yaml")
	c.LogLevel = "info"
	c.LogFormat = "text"
	return nil
}

// Load builds a Config from defaults, then the INI file at path (if it
// exists), then environment variables. An empty path selects GetConfigPath.
//
// File layout:
//
//	[storage]
//	users_file  = users.yaml
//	groups_file = groups.yaml
//
//	[log]
//	level  = info
//	format = text
//
// Relative file paths are resolved against the directory of the INI file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.LoadDefaults(); err != nil {
		return nil, err
	}

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}

	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	storage := file.Section("storage")
	if v := storage.Key("users_file").String(); v != "" {
		c.UsersFile = resolve(base, v)
	}
	if v := storage.Key("groups_file").String(); v != "" {
		c.GroupsFile = resolve(base, v)
	}

	log := file.Section("log")
	if v := log.Key("level").String(); v != "" {
		c.LogLevel = v
	}
	if v := log.Key("format").String(); v != "" {
		c.LogFormat = v
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvUsersFile); v != "" {
		c.UsersFile = v
	}
	if v := os.Getenv(EnvGroupsFile); v != "" {
		c.GroupsFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.UsersFile) == "" {
		result = multierror.Append(result, errors.New("users file path is empty"))
	}
	if strings.TrimSpace(c.GroupsFile) == "" {
		result = multierror.Append(result, errors.New("groups file path is empty"))
	}
	if c.UsersFile != "" && filepath.Clean(c.UsersFile) == filepath.Clean(c.GroupsFile) {
		result = multierror.Append(result, fmt.Errorf("users and groups share the file %s", c.UsersFile))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("log level: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result, fmt.Errorf("log format %q: must be text or json", c.LogFormat))
	}

	return result.ErrorOrNil()
}

// Save writes c to path in the layout read by Load.
func (c *Config) Save(path string) error {
	file := ini.Empty()
	file.Section("storage").Key("users_file").SetValue(c.UsersFile)
	file.Section("storage").Key("groups_file").SetValue(c.GroupsFile)
	file.Section("log").Key("level").SetValue(c.LogLevel)
	file.Section("log").Key("format").SetValue(c.LogFormat)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return file.SaveTo(path)
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
