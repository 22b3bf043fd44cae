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

package agentstesting

import (
	"context"
	"fmt"
	"sync"
)

// FakeSearchProvider answers searches from a fixed table and records every
// query it receives.
type FakeSearchProvider struct {
	mu sync.Mutex

	// Results by query. Queries not in the table get "results for <query>".
	Results map[string]string

	// Errors by query.
	Errors map[string]error

	Queries []string
}

func NewFakeSearchProvider() *FakeSearchProvider {
	return &FakeSearchProvider{
		Results: make(map[string]string),
		Errors:  make(map[string]error),
	}
}

func (p *FakeSearchProvider) Search(_ context.Context, query string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Queries = append(p.Queries, query)
	if err, ok := p.Errors[query]; ok {
		return "", err
	}
	if r, ok := p.Results[query]; ok {
		return r, nil
	}
	return fmt.Sprintf("results for %s", query), nil
}

// SeenQueries returns the queries received so far, in order.
func (p *FakeSearchProvider) SeenQueries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Queries...)
}
