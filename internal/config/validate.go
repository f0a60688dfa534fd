package config

import (
	"fmt"
	"os"
)

// Validate checks configuration invariants that must fail the build before
// any traversal starts. A missing source root is a fatal configuration
// error, not something to degrade around.
func Validate(cfg *Config) error {
	if cfg.Sources.Root == "" {
		return fmt.Errorf("sources.root is required")
	}
	info, err := os.Stat(cfg.Sources.Root)
	if err != nil {
		return fmt.Errorf("sources.root %q: %w", cfg.Sources.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("sources.root %q is not a directory", cfg.Sources.Root)
	}

	if cfg.Module.Name == "" {
		return fmt.Errorf("module.name must not be empty")
	}
	if cfg.Output.Format == "" {
		return fmt.Errorf("output.format must not be empty")
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}

	for _, inc := range cfg.Module.Includes {
		if _, err := os.Stat(inc); err != nil {
			return fmt.Errorf("include file %q: %w", inc, err)
		}
	}

	return nil
}
