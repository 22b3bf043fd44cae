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

// Package search implements web search backends for the research stage.
//
// Every backend returns its hits as plain text, ready to be placed in a
// prompt. Google follows the Custom Search JSON API, Tavily and Brave use
// their public REST APIs.
package search

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// NoResults is returned as the search text when a backend finds nothing.
const NoResults = "No good search result was found"

// Format renders results as numbered blocks of title, URL and snippet.
func Format(results []Result) string {
	if len(results) == 0 {
		return NoResults
	}
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		_, _ = fmt.Fprintf(&sb, "[%d] %s\nURL: %s\n%s", i+1, r.Title, r.URL, r.Snippet)
	}
	return sb.String()
}

const defaultTimeout = 15 * time.Second

// HTTPError reports a non-200 answer from a search API.
type HTTPError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (err *HTTPError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("%s http %d", err.Backend, err.StatusCode)
	}
	return fmt.Sprintf("%s http %d: %s", err.Backend, err.StatusCode, err.Body)
}

// do sends req once. Any status other than 200 becomes an *HTTPError
// carrying the start of the response body.
func do(client *http.Client, backend string, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	_ = resp.Body.Close()
	return nil, &HTTPError{Backend: backend, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
