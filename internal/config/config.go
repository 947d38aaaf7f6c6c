// Package config provides the unified patternforge configuration.
// Config lives at .forge/config.yaml inside the workspace and can be
// overridden by environment variables for CI use.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all patternforge configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Pattern catalog layout
	Catalog CatalogConfig `yaml:"catalog"`

	// Memory files and compaction
	Memory MemoryConfig `yaml:"memory"`

	// Docker sandbox
	Sandbox SandboxConfig `yaml:"sandbox"`

	// Documentation validation
	Validation ValidationConfig `yaml:"validation"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// MemoryConfig configures the flat memory files and context compaction.
type MemoryConfig struct {
	TodoFile      string `yaml:"todo_file"`
	DecisionsFile string `yaml:"decisions_file"`
	NotesFile     string `yaml:"notes_file"`

	// Context window budget for compaction decisions
	MaxTokens int `yaml:"max_tokens"`

	// Trigger compaction at this utilization (0..1)
	CompactThreshold float64 `yaml:"compact_threshold"`

	// Token estimation calibration (characters per token)
	CharsPerToken float64 `yaml:"chars_per_token"`

	// How many recent decisions a compact snapshot keeps
	RecentDecisions int `yaml:"recent_decisions"`
}

// ValidationConfig configures the documentation validators.
type ValidationConfig struct {
	// External link checking
	CheckExternal   bool     `yaml:"check_external"`
	ExternalTimeout string   `yaml:"external_timeout"`
	MaxConcurrency  int      `yaml:"max_concurrency"`
	SkipURLPrefixes []string `yaml:"skip_url_prefixes"`

	// Minimum implementation content per pattern, in characters
	MinImplementationChars int `yaml:"min_implementation_chars"`

	// Watch mode debounce
	WatchDebounce string `yaml:"watch_debounce"`
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"`
	Directory string `yaml:"directory"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "patternforge",
		Version: "0.3.0",
		Catalog: CatalogConfig{
			ReadmePath:     "README.md",
			SpecPath:       "pattern-spec.md",
			MaturityLevels: []string{"Beginner", "Intermediate", "Advanced"},
			Categories: []string{
				"Foundation", "Development", "Operations",
				"Security & Compliance", "Deployment Automation", "Monitoring & Maintenance",
			},
		},
		Memory: MemoryConfig{
			TodoFile:         "TODO.md",
			DecisionsFile:    "DECISIONS.log",
			NotesFile:        "NOTES.md",
			MaxTokens:        128000,
			CompactThreshold: 0.80,
			CharsPerToken:    4.0,
			RecentDecisions:  10,
		},
		Sandbox: SandboxConfig{
			Image:         "patternforge-sandbox",
			Tag:           "latest",
			ContainerName: "forge-sandbox",
			Dockerfile:    "sandbox/Dockerfile",
			ComposePath:   "sandbox/docker-compose.yml",
			WorkspaceDir:  "/workspace",
			Tool:          "claude",
			ForbiddenMounts: []string{
				".aws", ".ssh", ".gnupg", ".config/gcloud",
				".env", "credentials", ".netrc", ".docker/config.json",
			},
		},
		Validation: ValidationConfig{
			CheckExternal:          false,
			ExternalTimeout:        "10s",
			MaxConcurrency:         8,
			SkipURLPrefixes:        []string{"https://img.shields.io/"},
			MinImplementationChars: 100,
			WatchDebounce:          "500ms",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
			Directory: ".forge/logs",
		},
	}
}

// ConfigPath returns the config file path for a workspace.
func ConfigPath(workspace string) string {
	return filepath.Join(workspace, ".forge", "config.yaml")
}

// Load reads configuration from a YAML file and applies env overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadOrDefault loads the workspace config, falling back to defaults when
// the file does not exist.
func LoadOrDefault(workspace string) *Config {
	cfg, err := Load(ConfigPath(workspace))
	if err != nil {
		cfg = DefaultConfig()
		cfg.applyEnvOverrides()
	}
	return cfg
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
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
	return nil
}

// applyEnvOverrides applies FORGE_* environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FORGE_SANDBOX_IMAGE"); v != "" {
		c.Sandbox.Image = v
	}
	if v := os.Getenv("FORGE_SANDBOX_CONTAINER"); v != "" {
		c.Sandbox.ContainerName = v
	}
	if v := os.Getenv("FORGE_README"); v != "" {
		c.Catalog.ReadmePath = v
	}
	if v := os.Getenv("FORGE_CHECK_EXTERNAL"); v == "1" || v == "true" {
		c.Validation.CheckExternal = true
	}
	if v := os.Getenv("FORGE_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Memory.MaxTokens <= 0 {
		return fmt.Errorf("memory.max_tokens must be positive, got %d", c.Memory.MaxTokens)
	}
	if c.Memory.CompactThreshold <= 0 || c.Memory.CompactThreshold > 1 {
		return fmt.Errorf("memory.compact_threshold must be in (0,1], got %.2f", c.Memory.CompactThreshold)
	}
	if c.Memory.CharsPerToken <= 0 {
		return fmt.Errorf("memory.chars_per_token must be positive, got %.2f", c.Memory.CharsPerToken)
	}
	if len(c.Catalog.MaturityLevels) == 0 {
		return fmt.Errorf("catalog.maturity_levels must not be empty")
	}
	if c.Validation.MaxConcurrency <= 0 {
		return fmt.Errorf("validation.max_concurrency must be positive, got %d", c.Validation.MaxConcurrency)
	}
	return nil
}
