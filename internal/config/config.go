package config

// Config represents the complete docsmith configuration.
// It can be loaded from .docsmith/config.yml with environment variable
// overrides.
type Config struct {
	Module  ModuleConfig  `yaml:"module" mapstructure:"module"`
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Filters FiltersConfig `yaml:"filters" mapstructure:"filters"`
}

// ModuleConfig names the documented module and its authored prose.
type ModuleConfig struct {
	Name     string   `yaml:"name" mapstructure:"name"`         // module display name
	Includes []string `yaml:"includes" mapstructure:"includes"` // package/module doc include files
}

// SourcesConfig defines where declarations come from.
type SourcesConfig struct {
	Root     string   `yaml:"root" mapstructure:"root"`         // mandatory source root
	Packages []string `yaml:"packages" mapstructure:"packages"` // package patterns, default ./...
	Interop  []string `yaml:"interop" mapstructure:"interop"`   // C interop source files
	Samples  []string `yaml:"samples" mapstructure:"samples"`   // glob patterns excluded from main docs
}

// OutputConfig defines what gets written where.
type OutputConfig struct {
	Dir         string   `yaml:"dir" mapstructure:"dir"`
	Format      string   `yaml:"format" mapstructure:"format"`
	SourceLinks []string `yaml:"source_links" mapstructure:"source_links"` // prefix=url[#lineSuffix]
}

// FiltersConfig controls traversal filtering.
type FiltersConfig struct {
	SkipDeprecated bool `yaml:"skip_deprecated" mapstructure:"skip_deprecated"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Module: ModuleConfig{
			Name: "docs",
		},
		Sources: SourcesConfig{
			Packages: []string{"./..."},
		},
		Output: OutputConfig{
			Dir:    "docs",
			Format: "markdown",
		},
	}
}
