package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultOverridePath is the project-relative location of a schema override.
const DefaultOverridePath = ".idea/symfony2-config.xml"

// Config represents the symfonymcp.yaml configuration.
type Config struct {
	ProjectRoot string           `yaml:"project_root"`
	Schema      SchemaConfig     `yaml:"schema"`
	Completion  CompletionConfig `yaml:"completion"`
	Log         LogConfig        `yaml:"log"`
}

// SchemaConfig controls where the configuration reference XML is read from.
type SchemaConfig struct {
	// OverridePath is relative to the project root unless absolute.
	OverridePath string `yaml:"override_path"`
	// Watch invalidates cached override documents when the file changes.
	Watch bool `yaml:"watch"`
}

// CompletionConfig tunes candidate presentation.
type CompletionConfig struct {
	MaxDocLength int `yaml:"max_doc_length"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		ProjectRoot: ".",
		Schema: SchemaConfig{
			OverridePath: DefaultOverridePath,
			Watch:        true,
		},
		Completion: CompletionConfig{
			MaxDocLength: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a configuration file from the given path.
// Missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	// Ensure required defaults
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if cfg.Schema.OverridePath == "" {
		cfg.Schema.OverridePath = DefaultOverridePath
	}
	if cfg.Completion.MaxDocLength <= 0 {
		cfg.Completion.MaxDocLength = 100
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}
