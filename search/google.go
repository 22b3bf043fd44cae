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
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	googleEndpoint = "https://www.googleapis.com/customsearch/v1"

	// GoogleNoResults matches the text other tooling returns for an empty
	// Custom Search answer.
	GoogleNoResults = "No good Google Search Result was found"
)

// Google queries the Google Custom Search JSON API.
type Google struct {
	APIKey string

	// Programmable Search Engine ID (cx).
	EngineID string

	// Results per query, 1 to 10. Zero means 10.
	Num int

	// Optional, mainly for tests.
	Endpoint   string
	HTTPClient *http.Client
}

func NewGoogle(apiKey, engineID string) *Google {
	return &Google{APIKey: apiKey, EngineID: engineID}
}

// Results returns the hits for query.
func (g *Google) Results(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return nil, errors.New("google: API key is missing")
	}
	if strings.TrimSpace(g.EngineID) == "" {
		return nil, errors.New("google: search engine ID is missing")
	}

	num := g.Num
	if num <= 0 || num > 10 {
		num = 10
	}
	params := url.Values{}
	params.Set("key", g.APIKey)
	params.Set("cx", g.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	endpoint := cmp.Or(g.Endpoint, googleEndpoint) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := do(g.HTTPClient, "google", req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, Result{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return results, nil
}

// Search returns the snippets of all hits joined by spaces.
func (g *Google) Search(ctx context.Context, query string) (string, error) {
	results, err := g.Results(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return GoogleNoResults, nil
	}
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if r.Snippet != "" {
			snippets = append(snippets, r.Snippet)
		}
	}
	if len(snippets) == 0 {
		return GoogleNoResults, nil
	}
	return strings.Join(snippets, " "), nil
}
