// Package config resolves bridge settings from defaults, an optional
// configuration file, and environment overrides. Environment variables
// use the PR_AGENT prefix with a double-underscore separator, so
// brain.mcp_enable is overridden by PR_AGENT__BRAIN__MCP_ENABLE.
// Unrecognized keys are ignored; recognized keys with values that fail
// to decode or validate produce a ConfigError.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stephen-netu/brain-bridge/internal/errors"
)

// envPrefix is the fixed prefix for environment overrides.
const envPrefix = "PR_AGENT"

// Config holds the full resolved configuration.
type Config struct {
	Brain BrainConfig `mapstructure:"brain"`
}

// BrainConfig holds the knowledge-bridge settings.
type BrainConfig struct {
	MCPEnable         bool    `mapstructure:"mcp_enable"`
	MCPBin            string  `mapstructure:"mcp_bin"`
	MCPRoot           string  `mapstructure:"mcp_root"`
	MCPDefaultSlice   string  `mapstructure:"mcp_default_slice"`
	MCPTimeoutSeconds float64 `mapstructure:"mcp_timeout_seconds"`
	MCPMaxModules     int     `mapstructure:"mcp_max_modules"`
	MCPMaxRisks       int     `mapstructure:"mcp_max_risks"`
	MCPMaxJobs        int     `mapstructure:"mcp_max_jobs"`
}

// Timeout returns the per-query timeout as a duration.
func (b BrainConfig) Timeout() time.Duration {
	return time.Duration(b.MCPTimeoutSeconds * float64(time.Second))
}

// Default returns the configuration with all defaults applied. The
// bridge ships disabled; enabling it requires explicit configuration.
func Default() *Config {
	return &Config{
		Brain: BrainConfig{
			MCPEnable:         false,
			MCPBin:            "",
			MCPRoot:           "",
			MCPDefaultSlice:   "runtime",
			MCPTimeoutSeconds: 20,
			MCPMaxModules:     5,
			MCPMaxRisks:       8,
			MCPMaxJobs:        6,
		},
	}
}

// recognizedKeys are the configuration keys the resolver binds for
// environment override. Keys outside this set never influence the
// resolved configuration.
var recognizedKeys = []string{
	"brain.mcp_enable",
	"brain.mcp_bin",
	"brain.mcp_root",
	"brain.mcp_default_slice",
	"brain.mcp_timeout_seconds",
	"brain.mcp_max_modules",
	"brain.mcp_max_risks",
	"brain.mcp_max_jobs",
}

// SetDefaults registers all default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("brain.mcp_enable", def.Brain.MCPEnable)
	v.SetDefault("brain.mcp_bin", def.Brain.MCPBin)
	v.SetDefault("brain.mcp_root", def.Brain.MCPRoot)
	v.SetDefault("brain.mcp_default_slice", def.Brain.MCPDefaultSlice)
	v.SetDefault("brain.mcp_timeout_seconds", def.Brain.MCPTimeoutSeconds)
	v.SetDefault("brain.mcp_max_modules", def.Brain.MCPMaxModules)
	v.SetDefault("brain.mcp_max_risks", def.Brain.MCPMaxRisks)
	v.SetDefault("brain.mcp_max_jobs", def.Brain.MCPMaxJobs)
}

// bindEnv binds each recognized key to its environment variable.
// Binding explicitly, rather than relying on AutomaticEnv, keeps
// Unmarshal aware of env-only values.
func bindEnv(v *viper.Viper) {
	for _, key := range recognizedKeys {
		env := envPrefix + "__" + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
		// BindEnv only errors on empty input.
		_ = v.BindEnv(key, env)
	}
}

// Resolve unmarshals and validates the configuration held by v.
// Defaults and environment bindings are applied first, so a zero-value
// viper resolves to Default().
func Resolve(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("failed to decode configuration").WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load builds a fresh viper instance, reads the optional configuration
// file, and resolves. A missing file is not an error; an unreadable or
// malformed one is.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".pr_agent")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("failed to read configuration file").WithCause(err)
		}
	}

	return Resolve(v)
}
