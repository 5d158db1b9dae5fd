// Package config handles configuration loading and management for tandem.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for tandem.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic" yaml:"anthropic"`
	Planning  PlanningConfig  `mapstructure:"planning" yaml:"planning"`
	Agents    []AgentConfig   `mapstructure:"agents" yaml:"agents"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	Model      string `mapstructure:"model" yaml:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock" yaml:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region" yaml:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile" yaml:"aws_profile"`
}

// PlanningConfig holds orchestration settings.
type PlanningConfig struct {
	// Mode is "full" or "iterative".
	Mode string `mapstructure:"mode" yaml:"mode"`
	// Planner names the agent used for planning calls. Empty means the
	// first configured agent.
	Planner string `mapstructure:"planner" yaml:"planner"`
	// Summarizer names the agent used for summarization. Empty means
	// the first configured agent.
	Summarizer string `mapstructure:"summarizer" yaml:"summarizer"`
	// Temperature is the sampling temperature for planning calls.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	// MaxIterations caps the iterative planning loop.
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
	// StepTimeout bounds each step's completion call. Zero disables it.
	StepTimeout time.Duration `mapstructure:"step_timeout" yaml:"step_timeout"`
}

// AgentConfig describes one configured agent capability.
type AgentConfig struct {
	// Name is the unique capability name used in plans.
	Name string `mapstructure:"name" yaml:"name"`
	// Description is shown to the planner when it assigns steps.
	Description string `mapstructure:"description" yaml:"description"`
	// Model overrides the default Claude model for this agent.
	Model string `mapstructure:"model" yaml:"model,omitempty"`
	// System is the optional system prompt.
	System string `mapstructure:"system" yaml:"system,omitempty"`
	// Temperature is the default sampling temperature.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature,omitempty"`
	// Tools enables the file/command tool loop.
	Tools bool `mapstructure:"tools" yaml:"tools,omitempty"`
	// WorkDir is the working directory for tool execution.
	WorkDir string `mapstructure:"work_dir" yaml:"work_dir,omitempty"`
	// MaxTurns bounds the tool loop.
	MaxTurns int `mapstructure:"max_turns" yaml:"max_turns,omitempty"`
}

// LoggingConfig holds debug log settings.
type LoggingConfig struct {
	// Path is the debug log file. Empty disables debug logging.
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.tandem.yaml in current directory or parent)
// 3. User config (~/.config/tandem/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	switch c.Planning.Mode {
	case "full", "iterative":
	default:
		return fmt.Errorf("planning.mode must be \"full\" or \"iterative\", got %q", c.Planning.Mode)
	}

	seen := make(map[string]bool, len(c.Agents))
	for i, agent := range c.Agents {
		if agent.Name == "" {
			return fmt.Errorf("agents[%d] has no name", i)
		}
		if seen[agent.Name] {
			return fmt.Errorf("duplicate agent name %q", agent.Name)
		}
		seen[agent.Name] = true
	}

	if c.Planning.Planner != "" && !seen[c.Planning.Planner] {
		return fmt.Errorf("planning.planner %q is not a configured agent", c.Planning.Planner)
	}
	if c.Planning.Summarizer != "" && !seen[c.Planning.Summarizer] {
		return fmt.Errorf("planning.summarizer %q is not a configured agent", c.Planning.Summarizer)
	}

	return nil
}

// PlannerName returns the configured planner agent, falling back to the
// first agent.
func (c *Config) PlannerName() string {
	if c.Planning.Planner != "" {
		return c.Planning.Planner
	}
	if len(c.Agents) > 0 {
		return c.Agents[0].Name
	}
	return ""
}

// Watch re-loads configuration whenever the user config file changes on
// disk and invokes onChange with the fresh config. Invalid intermediate
// states are skipped.
func Watch(onChange func(*Config)) error {
	v := viper.New()

	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading user config: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Load()
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()

	return nil
}

// Save writes the config to the user config file as YAML, creating the
// directory if needed.
func Save(cfg *Config) error {
	dir := getUserConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")

	v.SetDefault("planning.mode", "full")
	v.SetDefault("planning.temperature", 0.2)
	v.SetDefault("planning.max_iterations", 25)
	v.SetDefault("planning.step_timeout", "10m")

	v.SetDefault("logging.path", "")

	v.SetDefault("server.addr", ":8080")
}

// getUserConfigDir returns the XDG config directory for tandem.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "tandem")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "tandem")
	}
	return filepath.Join(home, ".config", "tandem")
}

// findProjectConfig searches for .tandem.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".tandem.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values and a minimal agent set.
func Default() *Config {
	return &Config{
		Planning: PlanningConfig{
			Mode:          "full",
			Temperature:   0.2,
			MaxIterations: 25,
			StepTimeout:   10 * time.Minute,
		},
		Agents: []AgentConfig{
			{
				Name:        "researcher",
				Description: "Gathers facts and background information for a topic",
			},
			{
				Name:        "writer",
				Description: "Turns gathered material into clear prose",
			},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
