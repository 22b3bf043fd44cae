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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openai/openai-go/v3/packages/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, names := range envAliases {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, "google", cfg.Search.Backend)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "markdown", cfg.Output.Format)
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		isolate(t)
		v, err := New("")
		require.NoError(t, err)
		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", cfg.Model.Name)
		assert.Equal(t, 10, cfg.Search.Google.Num)
		assert.Equal(t, filepath.Join(ConfigDir(), "history.db"), cfg.Session.SQLitePath)
	})

	t.Run("service environment names", func(t *testing.T) {
		isolate(t)
		t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
		t.Setenv("AZURE_OPENAI_API_KEY", "azure-key")
		t.Setenv("AZURE_OPENAI_API_VERSION", "2024-10-21")
		t.Setenv("DEPLOYMENT_NAME", "gpt4o-team")
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GOOGLE_CSE_ID", "cse-id")

		v, err := New("")
		require.NoError(t, err)
		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, AzureConfig{
			Endpoint:   "https://example.openai.azure.com",
			APIKey:     "azure-key",
			APIVersion: "2024-10-21",
			Deployment: "gpt4o-team",
		}, cfg.Azure)
		assert.Equal(t, "google-key", cfg.Search.Google.APIKey)
		assert.Equal(t, "cse-id", cfg.Search.Google.EngineID)
		assert.Empty(t, cfg.MissingSearchCredentials())
	})

	t.Run("prefixed variables win over aliases", func(t *testing.T) {
		isolate(t)
		t.Setenv("OPENAI_API_KEY", "alias")
		t.Setenv("AGENT_TEAM_OPENAI_API_KEY", "prefixed")
		t.Setenv("AGENT_TEAM_SEARCH_BACKEND", "tavily")
		t.Setenv("AGENT_TEAM_MODEL_TEMPERATURE", "0.2")

		v, err := New("")
		require.NoError(t, err)
		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "prefixed", cfg.OpenAI.APIKey)
		assert.Equal(t, "tavily", cfg.Search.Backend)
		assert.InDelta(t, 0.2, cfg.Model.Temperature, 1e-9)
	})

	t.Run("config file", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "team.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
model:
  name: gemini/gemini-2.5-flash
  recommender: openai/gpt-4o
search:
  backend: brave
  brave:
    api_key: brave-key
session:
  store: sqlite
  id: work
output:
  format: yaml
`), 0o600))

		v, err := New(path)
		require.NoError(t, err)
		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "gemini/gemini-2.5-flash", cfg.Model.Name)
		assert.Equal(t, "openai/gpt-4o", cfg.Model.Recommender)
		assert.Equal(t, "brave", cfg.Search.Backend)
		assert.Equal(t, "brave-key", cfg.Search.Brave.APIKey)
		assert.Equal(t, "work", cfg.Session.ID)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		isolate(t)
		_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		isolate(t)
		t.Setenv("AGENT_TEAM_SEARCH_BACKEND", "bing")
		t.Setenv("AGENT_TEAM_OUTPUT_FORMAT", "html")

		v, err := New("")
		require.NoError(t, err)
		_, err = Load(v)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		require.Len(t, errs, 2)
		assert.Equal(t, "search.backend", errs[0].Field)
		assert.Equal(t, "output.format", errs[1].Field)
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	cfg.Model.Name = " "
	cfg.Model.Temperature = 3
	cfg.Search.TimeoutSeconds = 0
	cfg.Session.Store = "postgres"
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"

	var fields []string
	for _, e := range cfg.Validate() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		"model.name",
		"model.temperature",
		"search.timeout_seconds",
		"session.postgres_dsn",
		"logging.level",
		"logging.format",
	}, fields)
}

func TestConfig_MissingSearchCredentials(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.MissingSearchCredentials(), 2)

	cfg.Search.Backend = "tavily"
	errs := cfg.MissingSearchCredentials()
	require.Len(t, errs, 1)
	assert.Equal(t, "search.tavily.api_key", errs[0].Field)

	cfg.Search.Tavily.APIKey = "k"
	assert.Empty(t, cfg.MissingSearchCredentials())
}

func TestValidationErrors_Error(t *testing.T) {
	one := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
	assert.Equal(t, "a: bad (got: 1)", one.Error())

	two := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}, {Field: "b", Value: "x", Message: "worse"}}
	assert.Equal(t, "2 validation errors:\n  1. a: bad (got: 1)\n  2. b: worse (got: x)\n", two.Error())
}

func TestModelConfig_Settings(t *testing.T) {
	ms := Default().Model.Settings()
	assert.False(t, ms.Temperature.Valid())
	assert.False(t, ms.MaxTokens.Valid())

	ms = ModelConfig{Temperature: 0, MaxTokens: 1024, NativeStructuredOutput: true}.Settings()
	assert.Equal(t, param.NewOpt(0.0), ms.Temperature)
	assert.Equal(t, param.NewOpt[int64](1024), ms.MaxTokens)
	assert.Equal(t, param.NewOpt(true), ms.NativeStructuredOutput)
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/agentteam", ConfigDir())
		assert.Equal(t, "/custom/config/agentteam/config.yaml", ConfigFile())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, ".config", "agentteam"), ConfigDir())
	})
}
