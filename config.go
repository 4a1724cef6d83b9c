package peek

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML shape of an on-disk configuration file.
type FileConfig struct {
	Debug    bool   `yaml:"debug"`
	Disabled bool   `yaml:"disabled"`
	Trace    bool   `yaml:"trace"`
	Sink     string `yaml:"sink"` // "stderr", "stdout", or a file path
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fc, nil
}

// Apply copies file settings onto an engine configuration. Flags already
// set on cfg win; the Sink string is resolved by the caller, which owns any
// file it opens.
func (fc *FileConfig) Apply(cfg *Config) {
	cfg.Debug = cfg.Debug || fc.Debug
	cfg.Disabled = cfg.Disabled || fc.Disabled
	cfg.Trace = cfg.Trace || fc.Trace
}
