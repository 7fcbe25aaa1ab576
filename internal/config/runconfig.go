package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// RunConfig is the engine's tunable knobs, loaded from an optional YAML
// file (".cpgconfig.yaml" by convention). No field is read from the
// environment.
type RunConfig struct {
	// FunctionPointerAmbiguityCap bounds how many candidate callees
	// resolver Pass 5 (function-pointer call binding) may attach to one
	// call site before giving up and leaving Invokes empty.
	FunctionPointerAmbiguityCap int `yaml:"functionPointerAmbiguityCap"`

	// Verbosity selects the internal/output.Logger's verbosity level
	// ("normal", "verbose", "debug").
	Verbosity string `yaml:"verbosity"`

	// ExcludeDirs lists directory basenames the engine's file walker
	// skips outright (vendor, node_modules, .git, ...).
	ExcludeDirs []string `yaml:"excludeDirs"`
}

// DefaultRunConfig returns the configuration used when no YAML file is
// present.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		FunctionPointerAmbiguityCap: 3,
		Verbosity:                   "normal",
		ExcludeDirs:                 []string{".git", "vendor", "node_modules", "testdata"},
	}
}

// LoadRunConfig reads a YAML run-configuration file, falling back to
// DefaultRunConfig when the file does not exist. Fields absent from the
// file keep their default, and a non-positive
// functionPointerAmbiguityCap is replaced by the default.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.FunctionPointerAmbiguityCap <= 0 {
		cfg.FunctionPointerAmbiguityCap = DefaultRunConfig().FunctionPointerAmbiguityCap
	}
	return cfg, nil
}

// LoadEnv loads a .env file (if present) into the process environment,
// so API keys or feature toggles consumed via os.Getenv are available
// without the caller having to export them manually.
func LoadEnv(path string) {
	_ = godotenv.Load(path)
}
