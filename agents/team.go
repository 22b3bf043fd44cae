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

package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/memory"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/modelsettings"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
	"github.com/google/uuid"
)

type TeamParams struct {
	// Default model for every task.
	Model Model

	// Optional per-task model overrides.
	PlannerModel     Model
	ResearcherModel  Model
	RecommenderModel Model

	// Optional settings applied to every task.
	ModelSettings modelsettings.ModelSettings

	// Web search backend used by the researcher. Required.
	Search SearchProvider

	// Optional lifecycle observer.
	Hooks RunHooks

	// Optional store for the conversation history. The team starts with the
	// turns already in the session, and AddToHistory writes through to it.
	Session memory.Session

	// Optional fully configured tasks, replacing the built-in ones.
	Planner     *Task
	Researcher  *Task
	Recommender *Task
}

// Team runs the planner, researcher and recommender in sequence.
// Use one Team per independent conversation.
type Team struct {
	planner     *Task
	researcher  *Task
	recommender *Task
	collector   *SearchCollector
	hooks       RunHooks
	session     memory.Session

	// runMu serializes runs. mu guards history and state only and is never
	// held while a hook or a model runs.
	runMu   sync.Mutex
	mu      sync.Mutex
	history []ConversationTurn
	state   Stage
}

// RunResult records everything a successful run produced.
type RunResult struct {
	RunID          string         `json:"run_id" yaml:"run_id"`
	Query          string         `json:"query" yaml:"query"`
	Plan           PlanResult     `json:"plan" yaml:"plan"`
	Searches       []SearchRecord `json:"searches" yaml:"searches"`
	Research       ResearchResult `json:"research" yaml:"research"`
	Recommendation string         `json:"recommendation" yaml:"recommendation"`
	Usage          usage.Usage    `json:"usage" yaml:"usage"`
	Duration       time.Duration  `json:"duration" yaml:"duration"`
}

func NewTeam(ctx context.Context, params TeamParams) (*Team, error) {
	if params.Search == nil {
		return nil, NewUserError("a search provider is required")
	}

	pick := func(task *Task, override Model, build func(Model) *Task) *Task {
		if task != nil {
			return task
		}
		m := override
		if m == nil {
			m = params.Model
		}
		t := build(m)
		t.ModelSettings = t.ModelSettings.Resolve(params.ModelSettings)
		return t
	}

	t := &Team{
		planner:     pick(params.Planner, params.PlannerModel, NewPlannerTask),
		researcher:  pick(params.Researcher, params.ResearcherModel, NewResearcherTask),
		recommender: pick(params.Recommender, params.RecommenderModel, NewRecommenderTask),
		hooks:       params.Hooks,
		session:     params.Session,
	}
	if t.hooks == nil {
		t.hooks = NoOpRunHooks{}
	}
	t.collector = NewSearchCollector(params.Search, t.hooks)

	for _, task := range []*Task{t.planner, t.researcher, t.recommender} {
		if err := task.Validate(); err != nil {
			return nil, err
		}
	}

	if t.session != nil {
		turns, err := t.session.GetTurns(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation history: %w", err)
		}
		t.history = turns
	}
	return t, nil
}

// AddToHistory appends a turn to the conversation the planner sees.
// It is the only way the history changes.
func (t *Team) AddToHistory(ctx context.Context, role Role, content string) error {
	turn := ConversationTurn{Role: role, Content: content}
	if err := turn.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != nil {
		if err := t.session.AddTurns(ctx, []ConversationTurn{turn}); err != nil {
			return fmt.Errorf("failed to persist conversation turn: %w", err)
		}
	}
	t.history = append(t.history, turn)
	return nil
}

// History returns a copy of the conversation history.
func (t *Team) History() []ConversationTurn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.history)
}

// State returns the stage the pipeline is in. After a run it is either
// StageDone or StageFailed.
func (t *Team) State() Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Team) setState(s Stage) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// Solve runs the pipeline and returns the markdown recommendation.
func (t *Team) Solve(ctx context.Context, query string) (string, error) {
	res, err := t.Run(ctx, query)
	if err != nil {
		return "", err
	}
	return res.Recommendation, nil
}

// Run runs the pipeline and returns every intermediate result.
//
// The error, if any, is one of *TemplateBindingError, *GenerationServiceError,
// *SearchServiceError or *OutputParseError. Nothing is retried and no
// partial result is returned.
func (t *Team) Run(ctx context.Context, query string) (*RunResult, error) {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	start := time.Now()
	res := &RunResult{RunID: uuid.NewString(), Query: query}
	u := usage.NewUsage()
	ctx = usage.NewContext(ctx, u)

	logger := Logger().With(slog.String("run_id", res.RunID))
	logger.InfoContext(ctx, "Run started")

	stage := StageIdle
	enter := func(s Stage) {
		stage = s
		t.setState(s)
		t.hooks.OnStageStart(ctx, s)
	}
	fail := func(err error) (*RunResult, error) {
		t.setState(StageFailed)
		t.hooks.OnStageFailed(ctx, stage, err)
		logger.ErrorContext(ctx, "Run failed", slog.String("stage", stage.String()), slog.String("error", err.Error()))
		return nil, err
	}

	// Planning
	enter(StagePlanning)
	if strings.TrimSpace(query) == "" {
		return fail(&TemplateBindingError{Task: t.planner.Name, Missing: []string{"input"}})
	}
	plan, _, err := RunTask[PlanResult](ctx, t.planner, TaskInput{
		Vars:    map[string]string{"input": query},
		History: t.History(),
	})
	if err != nil {
		return fail(err)
	}
	res.Plan = plan
	t.hooks.OnStageEnd(ctx, StagePlanning, &res.Plan)

	// Researching
	enter(StageResearching)
	res.Searches, err = t.collector.Collect(ctx, plan.ResearchQuestions)
	if err != nil {
		return fail(err)
	}
	searchJSON, err := json.MarshalIndent(res.Searches, "", "  ")
	if err != nil {
		return fail(&TemplateBindingError{Task: t.researcher.Name, Err: err})
	}
	questionsJSON, err := json.Marshal(plan.ResearchQuestions)
	if err != nil {
		return fail(&TemplateBindingError{Task: t.researcher.Name, Err: err})
	}
	res.Research, _, err = RunTask[ResearchResult](ctx, t.researcher, TaskInput{
		Vars: map[string]string{
			"context":   fmt.Sprintf("Problem context: %s\n\nSearch results: %s", plan.ProblemUnderstanding, searchJSON),
			"questions": string(questionsJSON),
		},
	})
	if err != nil {
		return fail(err)
	}
	t.hooks.OnStageEnd(ctx, StageResearching, &res.Research)

	// Recommending
	enter(StageRecommending)
	schemaJSON, err := json.MarshalIndent(plan.SolutionSchema, "", "  ")
	if err != nil {
		return fail(&TemplateBindingError{Task: t.recommender.Name, Err: err})
	}
	findingsJSON, err := json.MarshalIndent(res.Research, "", "  ")
	if err != nil {
		return fail(&TemplateBindingError{Task: t.recommender.Name, Err: err})
	}
	resp, err := t.recommender.Invoke(ctx, TaskInput{
		Vars: map[string]string{
			"problem":  query,
			"schema":   string(schemaJSON),
			"findings": string(findingsJSON),
		},
	})
	if err != nil {
		return fail(err)
	}
	res.Recommendation, err = ParseRecommendation(t.recommender.Name, resp.Text)
	if err != nil {
		return fail(err)
	}
	t.hooks.OnStageEnd(ctx, StageRecommending, res.Recommendation)

	t.setState(StageDone)
	res.Usage = *u
	res.Duration = time.Since(start)
	logger.InfoContext(ctx, "Run completed",
		slog.Uint64("requests", u.Requests),
		slog.Uint64("total_tokens", u.TotalTokens),
		slog.Duration("duration", res.Duration))
	return res, nil
}
