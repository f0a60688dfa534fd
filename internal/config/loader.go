package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (DOCSMITH_*)
// 2. Config file (.docsmith/config.yml or .docsmith/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".docsmith")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("DOCSMITH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("module.name")
	v.BindEnv("sources.root")
	v.BindEnv("output.dir")
	v.BindEnv("output.format")
	v.BindEnv("filters.skip_deprecated")

	setDefaults(v, l.rootDir)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper, rootDir string) {
	defaults := Default()

	v.SetDefault("module.name", defaults.Module.Name)
	v.SetDefault("module.includes", defaults.Module.Includes)

	v.SetDefault("sources.root", rootDir)
	v.SetDefault("sources.packages", defaults.Sources.Packages)
	v.SetDefault("sources.interop", defaults.Sources.Interop)
	v.SetDefault("sources.samples", defaults.Sources.Samples)

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.source_links", defaults.Output.SourceLinks)

	v.SetDefault("filters.skip_deprecated", defaults.Filters.SkipDeprecated)
}

// LoadFromDir loads configuration rooted at a specific directory.
func LoadFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
