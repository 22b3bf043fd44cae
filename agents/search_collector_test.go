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
	"context"
	"errors"
	"testing"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/agentstesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHooks struct {
	agents.NoOpRunHooks
	events []string
}

func (h *recordingHooks) OnStageStart(_ context.Context, stage agents.Stage) {
	h.events = append(h.events, "start:"+stage.String())
}

func (h *recordingHooks) OnStageEnd(_ context.Context, stage agents.Stage, _ any) {
	h.events = append(h.events, "end:"+stage.String())
}

func (h *recordingHooks) OnStageFailed(_ context.Context, stage agents.Stage, _ error) {
	h.events = append(h.events, "failed:"+stage.String())
}

func (h *recordingHooks) OnSearchStart(_ context.Context, _, _ int, question string) {
	h.events = append(h.events, "search:"+question)
}

func (h *recordingHooks) OnSearchEnd(_ context.Context, _, _ int, question, _ string) {
	h.events = append(h.events, "searched:"+question)
}

func TestSearchCollector_Collect(t *testing.T) {
	t.Run("one record per question in order", func(t *testing.T) {
		search := agentstesting.NewFakeSearchProvider()
		search.Results["q1"] = "r1"
		hooks := &recordingHooks{}

		records, err := agents.NewSearchCollector(search, hooks).Collect(t.Context(), []string{"q1", "q2"})
		require.NoError(t, err)
		assert.Equal(t, []agents.SearchRecord{
			{Question: "q1", SearchResult: "r1"},
			{Question: "q2", SearchResult: "results for q2"},
		}, records)
		assert.Equal(t, []string{"q1", "q2"}, search.SeenQueries())
		assert.Equal(t, []string{"search:q1", "searched:q1", "search:q2", "searched:q2"}, hooks.events)
	})

	t.Run("no questions", func(t *testing.T) {
		search := agentstesting.NewFakeSearchProvider()
		records, err := agents.NewSearchCollector(search, nil).Collect(t.Context(), nil)
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Empty(t, search.SeenQueries())
	})

	t.Run("first failure aborts", func(t *testing.T) {
		quota := errors.New("quota exceeded")
		search := agentstesting.NewFakeSearchProvider()
		search.Errors["q2"] = quota

		records, err := agents.NewSearchCollector(search, nil).Collect(t.Context(), []string{"q1", "q2", "q3"})
		assert.Nil(t, records)
		var searchErr *agents.SearchServiceError
		require.ErrorAs(t, err, &searchErr)
		assert.Equal(t, "q2", searchErr.Query)
		assert.Equal(t, 1, searchErr.Index)
		assert.ErrorIs(t, err, quota)
		assert.Equal(t, []string{"q1", "q2"}, search.SeenQueries())
	})

	t.Run("canceled context stops before searching", func(t *testing.T) {
		search := agentstesting.NewFakeSearchProvider()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := agents.NewSearchCollector(search, nil).Collect(ctx, []string{"q1"})
		var searchErr *agents.SearchServiceError
		require.ErrorAs(t, err, &searchErr)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, search.SeenQueries())
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := agents.NewSearchCollector(nil, nil).Collect(t.Context(), []string{"q1"})
		var searchErr *agents.SearchServiceError
		require.ErrorAs(t, err, &searchErr)
	})

	t.Run("provider func", func(t *testing.T) {
		provider := agents.SearchProviderFunc(func(_ context.Context, q string) (string, error) {
			return "<" + q + ">", nil
		})
		records, err := agents.NewSearchCollector(provider, nil).Collect(t.Context(), []string{"x"})
		require.NoError(t, err)
		assert.Equal(t, "<x>", records[0].SearchResult)
	})
}
