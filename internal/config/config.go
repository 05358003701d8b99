// Package config loads the client configuration from YAML, environment,
// and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/klogdotwebsite-rd-bot/llama.cpp.mcp-webui/internal/provider"
)

// LLMConfig points at the llama-server used for generation.
type LLMConfig struct {
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Predict        int    `mapstructure:"predict" yaml:"predict"`
}

// SafetyConfig restricts the unattended shell tool.
type SafetyConfig struct {
	Blocklist []string `mapstructure:"blocklist" yaml:"blocklist"`
	Allowlist []string `mapstructure:"allowlist" yaml:"allowlist"`
}

// Config holds all configuration for the MCP client and agent binaries.
type Config struct {
	LLM                LLMConfig               `mapstructure:"llm" yaml:"llm"`
	Servers            []provider.ServerConfig `mapstructure:"servers" yaml:"servers"`
	ShowInstructions   bool                    `mapstructure:"show_instructions" yaml:"show_instructions"`
	ConfirmCommands    bool                    `mapstructure:"confirm_commands" yaml:"confirm_commands"`
	CallTimeoutSeconds int                     `mapstructure:"call_timeout_seconds" yaml:"call_timeout_seconds"`
	Safety             SafetyConfig            `mapstructure:"safety" yaml:"safety"`
}

// DefaultConfig returns the defaults, including the convenience default
// agent server.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Endpoint:       "http://localhost:8080",
			TimeoutSeconds: 120,
			Predict:        256,
		},
		Servers: []provider.ServerConfig{
			{Name: "default-agent", Host: "localhost", Port: 8889, Type: "llama-agent"},
		},
		ShowInstructions: true,
		// 0 means dispatch calls block until the provider answers.
		CallTimeoutSeconds: 0,
	}
}

// Load reads configuration from the given file (or the default search
// paths when path is empty), layered over defaults and MCPCLI_* environment
// variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.mcp-webui")
	}

	v.SetEnvPrefix("MCPCLI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("llm.endpoint", defaults.LLM.Endpoint)
	v.SetDefault("llm.timeout_seconds", defaults.LLM.TimeoutSeconds)
	v.SetDefault("llm.predict", defaults.LLM.Predict)
	v.SetDefault("show_instructions", defaults.ShowInstructions)
	v.SetDefault("confirm_commands", defaults.ConfirmCommands)
	v.SetDefault("call_timeout_seconds", defaults.CallTimeoutSeconds)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !(path == "" && errors.As(err, &notFound)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Servers) == 0 {
		cfg.Servers = defaults.Servers
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ParseServerFlag parses one --add-server value of the form
// "name host port type" (whitespace or colon separated).
func ParseServerFlag(value string) (provider.ServerConfig, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ':'
	})
	if len(fields) != 4 {
		return provider.ServerConfig{}, fmt.Errorf(
			"invalid --add-server value %q, expected 'name host port type'", value)
	}
	port, err := strconv.Atoi(fields[2])
	if err != nil {
		return provider.ServerConfig{}, fmt.Errorf("invalid port %q: %w", fields[2], err)
	}
	return provider.ServerConfig{
		Name: fields[0],
		Host: fields[1],
		Port: port,
		Type: fields[3],
	}, nil
}
