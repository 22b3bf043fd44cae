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

package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/agentstesting"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/config"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/memory"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Search(t *testing.T) {
	t.Run("google", func(t *testing.T) {
		cfg := config.Default()
		cfg.Search.Google.APIKey = "key"
		cfg.Search.Google.EngineID = "cx"
		cfg.Search.Google.Num = 3
		cfg.Search.TimeoutSeconds = 7

		sp, err := (&app{cfg: cfg}).search()
		require.NoError(t, err)
		g, ok := sp.(*search.Google)
		require.True(t, ok)
		assert.Equal(t, "key", g.APIKey)
		assert.Equal(t, "cx", g.EngineID)
		assert.Equal(t, 3, g.Num)
		assert.Equal(t, 7*time.Second, g.HTTPClient.Timeout)
	})

	t.Run("tavily", func(t *testing.T) {
		cfg := config.Default()
		cfg.Search.Backend = "tavily"
		cfg.Search.Tavily.APIKey = "tvly"
		cfg.Search.Tavily.Depth = "advanced"

		sp, err := (&app{cfg: cfg}).search()
		require.NoError(t, err)
		tv, ok := sp.(*search.Tavily)
		require.True(t, ok)
		assert.Equal(t, "advanced", tv.Depth)
		assert.Equal(t, 5, tv.MaxResults)
	})

	t.Run("brave", func(t *testing.T) {
		cfg := config.Default()
		cfg.Search.Backend = "brave"
		cfg.Search.Brave.APIKey = "bsa"

		sp, err := (&app{cfg: cfg}).search()
		require.NoError(t, err)
		require.IsType(t, &search.Brave{}, sp)
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := config.Default()
		cfg.Search.Backend = "tavily"

		_, err := (&app{cfg: cfg}).search()
		var verrs config.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "search.tavily.api_key", verrs[0].Field)
	})

	t.Run("override", func(t *testing.T) {
		fake := agentstesting.NewFakeSearchProvider()
		sp, err := (&app{cfg: config.Default(), searchProvider: fake}).search()
		require.NoError(t, err)
		assert.Same(t, fake, sp)
	})
}

func TestApp_Models(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAI.APIKey = "sk-test"
	require.IsType(t, &agents.MultiProvider{}, (&app{cfg: cfg}).models())
}

func TestApp_OpenSession(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, closeSession, err := (&app{cfg: config.Default()}).openSession(t.Context())
		require.NoError(t, err)
		assert.Nil(t, s)
		assert.NoError(t, closeSession())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.Default()
		cfg.Session.Store = "sqlite"
		cfg.Session.SQLitePath = filepath.Join(t.TempDir(), "a", "b", "history.db")

		s, closeSession, err := (&app{cfg: cfg}).openSession(t.Context())
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, closeSession()) })

		assert.Equal(t, defaultSessionID, s.SessionID(t.Context()))
		require.NoError(t, s.AddTurns(t.Context(), []memory.Turn{{Role: memory.RoleHuman, Content: "hi"}}))
		assert.FileExists(t, cfg.Session.SQLitePath)
	})

	t.Run("session id", func(t *testing.T) {
		cfg := config.Default()
		cfg.Session.Store = "sqlite"
		cfg.Session.ID = "project-x"
		cfg.Session.SQLitePath = filepath.Join(t.TempDir(), "history.db")

		s, closeSession, err := (&app{cfg: cfg}).openSession(t.Context())
		require.NoError(t, err)
		t.Cleanup(func() { assert.NoError(t, closeSession()) })
		assert.Equal(t, "project-x", s.SessionID(t.Context()))
	})
}

func TestApp_NewTeam(t *testing.T) {
	t.Run("per-task models", func(t *testing.T) {
		cfg := config.Default()
		cfg.Model.Name = "gpt-4o"
		cfg.Model.Researcher = "gemini/gemini-2.5-flash"
		provider := &agentstesting.FakeModelProvider{Model: agentstesting.NewFakeModel()}

		a := &app{cfg: cfg, modelProvider: provider, searchProvider: agentstesting.NewFakeSearchProvider()}
		team, err := a.newTeam(t.Context(), nil, nil)
		require.NoError(t, err)
		require.NotNil(t, team)
		assert.Equal(t, []string{"gpt-4o", "gemini/gemini-2.5-flash"}, provider.Names)
	})

	t.Run("settings reach the model", func(t *testing.T) {
		cfg := config.Default()
		cfg.Model.Temperature = 0.2
		cfg.Model.MaxTokens = 900
		model := pipelineModel("done", "q1")

		a := &app{
			cfg:            cfg,
			modelProvider:  &agentstesting.FakeModelProvider{Model: model},
			searchProvider: agentstesting.NewFakeSearchProvider(),
		}
		team, err := a.newTeam(t.Context(), nil, nil)
		require.NoError(t, err)
		_, err = team.Solve(t.Context(), wfhQuery)
		require.NoError(t, err)

		for _, call := range model.Calls() {
			assert.Equal(t, 0.2, call.ModelSettings.Temperature.Value)
			assert.Equal(t, int64(900), call.ModelSettings.MaxTokens.Value)
		}
	})

	t.Run("mcp factory has no session", func(t *testing.T) {
		isolate(t)
		a := newFakeApp(pipelineModel("x"))
		a.cfg = config.Default()
		team, err := a.mcpTeamFactory()(t.Context())
		require.NoError(t, err)
		assert.Empty(t, team.History())
	})
}
