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

package search

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily calls the Tavily search API.
type Tavily struct {
	APIKey string

	// "basic" or "advanced". Empty means "basic".
	Depth string

	// Zero means 5.
	MaxResults int

	Endpoint   string
	HTTPClient *http.Client
}

func NewTavily(apiKey, depth string) *Tavily {
	return &Tavily{APIKey: apiKey, Depth: depth}
}

func (t *Tavily) Results(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}

	maxResults := t.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	payload, err := json.Marshal(map[string]any{
		"api_key":      t.APIKey,
		"query":        query,
		"search_depth": cmp.Or(t.Depth, "basic"),
		"max_results":  maxResults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cmp.Or(t.Endpoint, tavilyEndpoint), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := do(t.HTTPClient, "tavily", req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(response.Results))
	for _, r := range response.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

func (t *Tavily) Search(ctx context.Context, query string) (string, error) {
	results, err := t.Results(ctx, query)
	if err != nil {
		return "", err
	}
	return Format(results), nil
}
