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
	"errors"
	"log/slog"
)

// SearchProvider runs one web search and returns the raw result text.
type SearchProvider interface {
	Search(ctx context.Context, query string) (string, error)
}

// SearchProviderFunc adapts a function to SearchProvider.
type SearchProviderFunc func(ctx context.Context, query string) (string, error)

func (f SearchProviderFunc) Search(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// SearchCollector issues one search per research question, sequentially
// and in order.
type SearchCollector struct {
	provider SearchProvider
	hooks    RunHooks
}

func NewSearchCollector(provider SearchProvider, hooks RunHooks) *SearchCollector {
	if hooks == nil {
		hooks = NoOpRunHooks{}
	}
	return &SearchCollector{provider: provider, hooks: hooks}
}

// Collect returns one record per question, in input order. The first
// failing search aborts the collection with *SearchServiceError.
func (c *SearchCollector) Collect(ctx context.Context, questions []string) ([]SearchRecord, error) {
	records := make([]SearchRecord, 0, len(questions))
	for i, q := range questions {
		if c.provider == nil {
			return nil, &SearchServiceError{Query: q, Index: i, Err: errors.New("no search provider configured")}
		}
		// Checked between searches so a canceled run does not start new ones.
		if err := ctx.Err(); err != nil {
			return nil, &SearchServiceError{Query: q, Index: i, Err: err}
		}

		c.hooks.OnSearchStart(ctx, i, len(questions), q)
		result, err := c.provider.Search(ctx, q)
		if err != nil {
			Logger().WarnContext(ctx, "Search failed", slog.Int("index", i), slog.String("error", err.Error()))
			return nil, &SearchServiceError{Query: q, Index: i, Err: err}
		}
		c.hooks.OnSearchEnd(ctx, i, len(questions), q, result)

		records = append(records, SearchRecord{Question: q, SearchResult: result})
	}
	return records, nil
}
