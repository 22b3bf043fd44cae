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
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/agentstesting"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *agents.RunResult {
	return &agents.RunResult{
		RunID: "run-1",
		Query: wfhQuery,
		Plan: agents.PlanResult{
			ProblemUnderstanding: "distractions at home",
			SolutionSchema: agents.SolutionSchema{
				Steps:      []string{"set up a desk"},
				Components: []string{"desk"},
			},
			ResearchQuestions: []string{"best desk height?"},
		},
		Searches: []agents.SearchRecord{{Question: "best desk height?", SearchResult: "72 cm"}},
		Research: agents.ResearchResult{
			ResearchFindings:   []agents.ResearchFinding{{Question: "best desk height?", Answer: "about 72 cm"}},
			AdditionalInsights: "take breaks",
		},
		Recommendation: agentstesting.Recommendation("Set up a proper desk."),
		Usage:          usage.Usage{Requests: 3, InputTokens: 30, OutputTokens: 12, TotalTokens: 42},
		Duration:       1500 * time.Millisecond,
	}
}

func TestRender(t *testing.T) {
	res := sampleResult()

	t.Run("raw", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, res, "raw", 80))
		assert.Equal(t, res.Recommendation+"\n", buf.String())
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, res, "markdown", 80))
		assert.Contains(t, buf.String(), "Executive Summary")
		assert.Contains(t, buf.String(), "Set up a proper desk.")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, res, "json", 80))

		var got agents.RunResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, *res, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, res, "yaml", 80))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "run-1", got["run_id"])
		assert.Equal(t, res.Recommendation, got["recommendation"])
		assert.Equal(t, "1.5s", got["duration"])
		assert.Equal(t, []any{"best desk height?"}, got["plan"].(map[string]any)["research_questions"])
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		require.EqualError(t, render(&buf, res, "html", 80), `unknown output format "html"`)
		assert.Zero(t, buf.Len())
	})
}
