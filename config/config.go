// Copyright 2025 The NLP Odyssey Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the agent team settings from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/modelsettings"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable derived from a config key,
// e.g. AGENT_TEAM_SEARCH_BACKEND for search.backend.
const EnvPrefix = "AGENT_TEAM"

type Config struct {
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	OpenAI  OpenAIConfig  `mapstructure:"openai" yaml:"openai"`
	Azure   AzureConfig   `mapstructure:"azure" yaml:"azure"`
	Gemini  GeminiConfig  `mapstructure:"gemini" yaml:"gemini"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// ModelConfig selects the models. Names may carry a provider prefix:
// "openai/", "azure/" or "gemini/". No prefix means OpenAI.
type ModelConfig struct {
	Name string `mapstructure:"name" yaml:"name"`

	// Optional per-task overrides of Name.
	Planner     string `mapstructure:"planner" yaml:"planner"`
	Researcher  string `mapstructure:"researcher" yaml:"researcher"`
	Recommender string `mapstructure:"recommender" yaml:"recommender"`

	// Negative means unset.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens" yaml:"max_tokens"`

	NativeStructuredOutput bool `mapstructure:"native_structured_output" yaml:"native_structured_output"`
}

type OpenAIConfig struct {
	APIKey       string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
	Organization string `mapstructure:"organization" yaml:"organization"`
	Project      string `mapstructure:"project" yaml:"project"`
}

type AzureConfig struct {
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	APIVersion string `mapstructure:"api_version" yaml:"api_version"`
	Deployment string `mapstructure:"deployment" yaml:"deployment"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

type SearchConfig struct {
	// One of ValidSearchBackends.
	Backend        string       `mapstructure:"backend" yaml:"backend"`
	TimeoutSeconds int          `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Google         GoogleConfig `mapstructure:"google" yaml:"google"`
	Tavily         TavilyConfig `mapstructure:"tavily" yaml:"tavily"`
	Brave          BraveConfig  `mapstructure:"brave" yaml:"brave"`
}

type GoogleConfig struct {
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	EngineID string `mapstructure:"engine_id" yaml:"engine_id"`
	Num      int    `mapstructure:"num" yaml:"num"`
}

type TavilyConfig struct {
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	Depth      string `mapstructure:"depth" yaml:"depth"`
	MaxResults int    `mapstructure:"max_results" yaml:"max_results"`
}

type BraveConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Count  int    `mapstructure:"count" yaml:"count"`
}

// SessionConfig controls where conversation history is kept between runs.
type SessionConfig struct {
	// One of ValidSessionStores. "memory" keeps history for one process only.
	Store       string `mapstructure:"store" yaml:"store"`
	ID          string `mapstructure:"id" yaml:"id"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type OutputConfig struct {
	// One of ValidOutputFormats.
	Format   string `mapstructure:"format" yaml:"format"`
	WordWrap int    `mapstructure:"word_wrap" yaml:"word_wrap"`
}

// Settings converts the model options into model settings. Unset values
// are left for the provider to decide.
func (c ModelConfig) Settings() modelsettings.ModelSettings {
	var ms modelsettings.ModelSettings
	if c.Temperature >= 0 {
		ms.Temperature = param.NewOpt(c.Temperature)
	}
	if c.MaxTokens > 0 {
		ms.MaxTokens = param.NewOpt(c.MaxTokens)
	}
	if c.NativeStructuredOutput {
		ms.NativeStructuredOutput = param.NewOpt(true)
	}
	return ms
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Name:        "gpt-4o",
			Temperature: -1,
		},
		Search: SearchConfig{
			Backend:        "google",
			TimeoutSeconds: 15,
			Google:         GoogleConfig{Num: 10},
			Tavily:         TavilyConfig{Depth: "basic", MaxResults: 5},
			Brave:          BraveConfig{Count: 5},
		},
		Session: SessionConfig{
			Store:      "memory",
			SQLitePath: filepath.Join(ConfigDir(), "history.db"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Format:   "markdown",
			WordWrap: 100,
		},
	}
}

// SetDefaults registers the defaults in v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("model.name", d.Model.Name)
	v.SetDefault("model.planner", d.Model.Planner)
	v.SetDefault("model.researcher", d.Model.Researcher)
	v.SetDefault("model.recommender", d.Model.Recommender)
	v.SetDefault("model.temperature", d.Model.Temperature)
	v.SetDefault("model.max_tokens", d.Model.MaxTokens)
	v.SetDefault("model.native_structured_output", d.Model.NativeStructuredOutput)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.organization", "")
	v.SetDefault("openai.project", "")

	v.SetDefault("azure.endpoint", "")
	v.SetDefault("azure.api_key", "")
	v.SetDefault("azure.api_version", "")
	v.SetDefault("azure.deployment", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "")

	v.SetDefault("search.backend", d.Search.Backend)
	v.SetDefault("search.timeout_seconds", d.Search.TimeoutSeconds)
	v.SetDefault("search.google.api_key", "")
	v.SetDefault("search.google.engine_id", "")
	v.SetDefault("search.google.num", d.Search.Google.Num)
	v.SetDefault("search.tavily.api_key", "")
	v.SetDefault("search.tavily.depth", d.Search.Tavily.Depth)
	v.SetDefault("search.tavily.max_results", d.Search.Tavily.MaxResults)
	v.SetDefault("search.brave.api_key", "")
	v.SetDefault("search.brave.count", d.Search.Brave.Count)

	v.SetDefault("session.store", d.Session.Store)
	v.SetDefault("session.id", d.Session.ID)
	v.SetDefault("session.sqlite_path", d.Session.SQLitePath)
	v.SetDefault("session.postgres_dsn", "")

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.word_wrap", d.Output.WordWrap)
}

// envAliases maps config keys to the conventional environment variable
// names of the services, checked after the AGENT_TEAM_* form.
var envAliases = map[string][]string{
	"openai.api_key":           {"OPENAI_API_KEY"},
	"azure.endpoint":           {"AZURE_OPENAI_ENDPOINT"},
	"azure.api_key":            {"AZURE_OPENAI_API_KEY"},
	"azure.api_version":        {"AZURE_OPENAI_API_VERSION"},
	"azure.deployment":         {"DEPLOYMENT_NAME", "AZURE_OPENAI_DEPLOYMENT"},
	"gemini.api_key":           {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"search.google.api_key":    {"GOOGLE_API_KEY"},
	"search.google.engine_id":  {"GOOGLE_CSE_ID"},
	"search.tavily.api_key":    {"TAVILY_API_KEY"},
	"search.brave.api_key":     {"BRAVE_API_KEY"},
	"session.postgres_dsn":     {"DATABASE_URL"},
}

// BindEnv makes every key readable from AGENT_TEAM_<KEY> and from its aliases.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range slices.Sorted(maps.Keys(envAliases)) {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, envAliases[key]...)
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding environment for %s: %w", key, err)
		}
	}
	return nil
}

// New returns a viper instance with defaults and environment bindings. If
// configFile is empty, config.yaml is looked up in ConfigDir and the working
// directory; a missing file is not an error.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agentteam")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentteam"
	}
	return filepath.Join(home, ".config", "agentteam")
}

// ConfigFile returns the path to the default config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
