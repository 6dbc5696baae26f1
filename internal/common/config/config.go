package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the user configuration
type Config struct {
	// Per-source enables
	EnablePacman   bool `yaml:"enable_pacman"`
	EnableAUR      bool `yaml:"enable_aur"`
	EnableFlatpak  bool `yaml:"enable_flatpak"`
	EnableGitRepos bool `yaml:"enable_git_repos"`

	EnableNotifications bool `yaml:"enable_notifications"`
	EnableBackups       bool `yaml:"enable_backups"`
	ParallelUpdates     bool `yaml:"parallel_updates"`
	NoConfirm           bool `yaml:"noconfirm"`

	ExcludedPackages    []string `yaml:"excluded_packages,omitempty"`
	NotificationMethods []string `yaml:"notification_methods"`
	WebhookURL          string   `yaml:"webhook_url,omitempty"`
	EmailAddress        string   `yaml:"email_address,omitempty"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		EnablePacman:        true,
		EnableAUR:           true,
		EnableFlatpak:       true,
		EnableGitRepos:      true,
		EnableNotifications: true,
		EnableBackups:       true,
		NotificationMethods: []string{"desktop"},
	}
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/sysup/config.yaml (XDG standard - priority)
// 2. ~/.sysup/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "sysup", "config.yaml"),
		filepath.Join(home, ".sysup", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path.
// Returns the default path if no config file exists yet.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file.
// If no config file exists yet, defaults are written and returned.
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DataDir returns the sysup data directory (~/.config/sysup), creating it
// if necessary. Repository list, statistics, backups, and hooks live here.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	dir := filepath.Join(xdgConfig, "sysup")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// ReposFile returns the path of the tracked repositories list
func ReposFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "repositories.json"), nil
}

// StatsFile returns the path of the statistics file
func StatsFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "statistics.json"), nil
}

// BackupDir returns the backup directory, creating it if necessary
func BackupDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	backupDir := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", err
	}
	return backupDir, nil
}

// HooksDir returns the hooks directory, creating the pre-update and
// post-update subdirectories if necessary
func HooksDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	hooksDir := filepath.Join(dir, "hooks")
	for _, sub := range []string{"pre-update", "post-update"} {
		if err := os.MkdirAll(filepath.Join(hooksDir, sub), 0755); err != nil {
			return "", err
		}
	}
	return hooksDir, nil
}
