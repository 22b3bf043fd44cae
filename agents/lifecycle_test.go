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

package agents_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/stretchr/testify/assert"
)

func TestStage_String(t *testing.T) {
	assert.Equal(t, "idle", agents.StageIdle.String())
	assert.Equal(t, "planning", agents.StagePlanning.String())
	assert.Equal(t, "researching", agents.StageResearching.String())
	assert.Equal(t, "recommending", agents.StageRecommending.String())
	assert.Equal(t, "done", agents.StageDone.String())
	assert.Equal(t, "failed", agents.StageFailed.String())
	assert.Equal(t, "Stage(42)", agents.Stage(42).String())
}

func TestProgressRunHooks(t *testing.T) {
	var buf bytes.Buffer
	h := agents.NewProgressRunHooks(&buf)
	ctx := t.Context()

	h.OnStageStart(ctx, agents.StagePlanning)
	h.OnStageEnd(ctx, agents.StagePlanning, &agents.PlanResult{ResearchQuestions: []string{"a", "b"}})
	h.OnStageStart(ctx, agents.StageResearching)
	h.OnSearchStart(ctx, 0, 2, "a")
	h.OnSearchEnd(ctx, 0, 2, "a", "result")
	h.OnStageFailed(ctx, agents.StageResearching, errors.New("boom"))

	assert.Equal(t, "Planning the solution...\n"+
		"Plan ready with 2 research questions.\n"+
		"Researching the questions...\n"+
		"  [1/2] a\n"+
		"Failed while researching: boom\n", buf.String())
}

func TestMultiRunHooks(t *testing.T) {
	a, b := &recordingHooks{}, &recordingHooks{}
	hooks := agents.MultiRunHooks{a, b, agents.NoOpRunHooks{}, agents.LoggingRunHooks{}}
	ctx := t.Context()

	hooks.OnStageStart(ctx, agents.StageRecommending)
	hooks.OnSearchStart(ctx, 0, 1, "q")
	hooks.OnSearchEnd(ctx, 0, 1, "q", "r")
	hooks.OnStageEnd(ctx, agents.StageRecommending, "report")
	hooks.OnStageFailed(ctx, agents.StageRecommending, errors.New("x"))

	want := []string{"start:recommending", "search:q", "searched:q", "end:recommending", "failed:recommending"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}
