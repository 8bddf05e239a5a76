package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the deployment defaults read from the profile file.
// The keystore password is deliberately not part of it.
type Config struct {
	Bucket      string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	ObjectKey   string `yaml:"object_key,omitempty" json:"object_key,omitempty"`
	ConfigDir   string `yaml:"config_dir,omitempty" json:"config_dir,omitempty"`
	ConfigFile  string `yaml:"config_file" json:"config_file"`
	CertDir     string `yaml:"cert_dir,omitempty" json:"cert_dir,omitempty"`
	ServiceName string `yaml:"service_name" json:"service_name"`
	JavaHome    string `yaml:"java_home,omitempty" json:"java_home,omitempty"`
	Store       string `yaml:"store" json:"store"`

	Azure AzureStore `yaml:"azure,omitempty" json:"azure"`
	File  FileStore  `yaml:"file,omitempty" json:"file"`

	// path the profile was loaded from; Save writes back to it
	path string
}

// configDir is the default config directory
const configDir = ".config/certdeploy"
const configFile = "config.yaml"

// Defaults applied when neither flag nor profile sets a value.
const (
	DefaultServiceName = "Tomcat9"
	DefaultConfigFile  = "server.xml"
)

// New creates a new Config with default values
func New() *Config {
	return &Config{
		ConfigFile:  DefaultConfigFile,
		ServiceName: DefaultServiceName,
		Store:       StoreS3,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the profile from the default location
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the profile at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := New()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// An explicit empty value in the file falls back to the default
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = DefaultConfigFile
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Store == "" {
		cfg.Store = StoreS3
	}
	if !IsValidStore(cfg.Store) {
		return nil, fmt.Errorf("invalid store %q in %s (valid: %v)", cfg.Store, path, ValidStores())
	}

	return cfg, nil
}

// Path returns the file the profile was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save writes the profile back to the file it was loaded from,
// or to the default location for a fresh Config.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	c.path = path
	return nil
}
