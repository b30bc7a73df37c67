package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Configuration represents the complete application configuration.
type Configuration struct {
	Global  GlobalConfig  `yaml:"global"`
	Mount   MountConfig   `yaml:"mount"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GlobalConfig represents process-wide settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// MountConfig represents the mount and backend settings. BackendRoot is
// the directory every virtual path resolves into; it is fixed for the
// lifetime of the process.
type MountConfig struct {
	MountPoint  string `yaml:"mount_point"`
	BackendRoot string `yaml:"backend_root"`
	FSName      string `yaml:"fsname"`
	Subtype     string `yaml:"subtype"`
	AllowOther  bool   `yaml:"allow_other"`
	ReadOnly    bool   `yaml:"read_only"`
}

// MetricsConfig represents the metrics endpoint settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel: "INFO",
			LogFile:  "",
		},
		Mount: MountConfig{
			BackendRoot: "/tmp/fuse_data",
			FSName:      "basicfs",
			Subtype:     "passthrough",
			AllowOther:  false,
			ReadOnly:    false,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Port:      8080,
			Path:      "/metrics",
			Namespace: "basicfs",
		},
	}
}

// LoadFromFile loads configuration from a YAML file.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration overrides from environment variables.
func (c *Configuration) LoadFromEnv() {
	if val := os.Getenv("BASICFS_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("BASICFS_LOG_FILE"); val != "" {
		c.Global.LogFile = val
	}
	if val := os.Getenv("BASICFS_MOUNT_POINT"); val != "" {
		c.Mount.MountPoint = val
	}
	if val := os.Getenv("BASICFS_BACKEND_ROOT"); val != "" {
		c.Mount.BackendRoot = val
	}
	if val := os.Getenv("BASICFS_ALLOW_OTHER"); val != "" {
		c.Mount.AllowOther = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("BASICFS_READ_ONLY"); val != "" {
		c.Mount.ReadOnly = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("BASICFS_METRICS_ENABLED"); val != "" {
		c.Metrics.Enabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("BASICFS_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Metrics.Port = port
		}
	}
}

// Validate validates the configuration.
func (c *Configuration) Validate() error {
	if c.Mount.MountPoint == "" {
		return fmt.Errorf("mount_point is required")
	}
	if !filepath.IsAbs(c.Mount.MountPoint) {
		return fmt.Errorf("mount_point must be absolute: %s", c.Mount.MountPoint)
	}
	if c.Mount.BackendRoot == "" {
		return fmt.Errorf("backend_root is required")
	}
	if !filepath.IsAbs(c.Mount.BackendRoot) {
		return fmt.Errorf("backend_root must be absolute: %s", c.Mount.BackendRoot)
	}

	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if strings.ToUpper(c.Global.LogLevel) == level {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}
