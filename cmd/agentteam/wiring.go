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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/config"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/memory"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/search"
	"github.com/openai/openai-go/v3/packages/param"
)

const defaultSessionID = "default"

func (a *app) models() agents.ModelProvider {
	if a.modelProvider != nil {
		return a.modelProvider
	}
	c := a.cfg
	opt := func(s string) param.Opt[string] {
		if s == "" {
			return param.Opt[string]{}
		}
		return param.NewOpt(s)
	}
	return agents.NewMultiProvider(agents.NewMultiProviderParams{
		OpenaiAPIKey:       opt(c.OpenAI.APIKey),
		OpenaiBaseURL:      opt(c.OpenAI.BaseURL),
		OpenaiOrganization: opt(c.OpenAI.Organization),
		OpenaiProject:      opt(c.OpenAI.Project),
		Azure: agents.AzureOpenAIProviderParams{
			Endpoint:   c.Azure.Endpoint,
			APIVersion: c.Azure.APIVersion,
			APIKey:     c.Azure.APIKey,
			Deployment: c.Azure.Deployment,
		},
		Gemini: agents.GeminiProviderParams{
			APIKey:  c.Gemini.APIKey,
			BaseURL: c.Gemini.BaseURL,
		},
	})
}

func (a *app) search() (agents.SearchProvider, error) {
	if a.searchProvider != nil {
		return a.searchProvider, nil
	}
	if errs := a.cfg.MissingSearchCredentials(); len(errs) > 0 {
		return nil, config.ValidationErrors(errs)
	}

	sc := a.cfg.Search
	client := &http.Client{Timeout: time.Duration(sc.TimeoutSeconds) * time.Second}

	switch sc.Backend {
	case "google":
		g := search.NewGoogle(sc.Google.APIKey, sc.Google.EngineID)
		g.Num = sc.Google.Num
		g.HTTPClient = client
		return g, nil
	case "tavily":
		t := search.NewTavily(sc.Tavily.APIKey, sc.Tavily.Depth)
		t.MaxResults = sc.Tavily.MaxResults
		t.HTTPClient = client
		return t, nil
	case "brave":
		b := search.NewBrave(sc.Brave.APIKey)
		b.Count = sc.Brave.Count
		b.HTTPClient = client
		return b, nil
	default:
		return nil, fmt.Errorf("unknown search backend %q", sc.Backend)
	}
}

// openSession opens the configured history store. The returned session is
// nil for the "memory" store. The close function is never nil.
func (a *app) openSession(ctx context.Context) (memory.Session, func() error, error) {
	noop := func() error { return nil }
	sc := a.cfg.Session

	id := sc.ID
	if id == "" {
		id = defaultSessionID
	}

	switch sc.Store {
	case "", "memory":
		return nil, noop, nil
	case "sqlite":
		if dir := filepath.Dir(sc.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, noop, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		s, err := memory.NewSQLiteSession(ctx, memory.SQLiteSessionParams{
			SessionID:        id,
			DBDataSourceName: sc.SQLitePath,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "postgres":
		s, err := memory.NewPgSession(ctx, memory.PgSessionParams{
			SessionID:        id,
			ConnectionString: sc.PostgresDSN,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, func() error { return s.Close(context.WithoutCancel(ctx)) }, nil
	default:
		return nil, noop, fmt.Errorf("unknown session store %q", sc.Store)
	}
}

// newTeam builds a team from the configuration.
func (a *app) newTeam(ctx context.Context, session memory.Session, hooks agents.RunHooks) (*agents.Team, error) {
	sp, err := a.search()
	if err != nil {
		return nil, err
	}

	provider := a.models()
	mc := a.cfg.Model

	model, err := provider.GetModel(mc.Name)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", mc.Name, err)
	}
	override := func(name string) (agents.Model, error) {
		if name == "" {
			return nil, nil
		}
		m, err := provider.GetModel(name)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		return m, nil
	}
	planner, err1 := override(mc.Planner)
	researcher, err2 := override(mc.Researcher)
	recommender, err3 := override(mc.Recommender)
	if err = errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}

	return agents.NewTeam(ctx, agents.TeamParams{
		Model:            model,
		PlannerModel:     planner,
		ResearcherModel:  researcher,
		RecommenderModel: recommender,
		ModelSettings:    mc.Settings(),
		Search:           sp,
		Hooks:            hooks,
		Session:          session,
	})
}
