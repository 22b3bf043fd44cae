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

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		_, _ = fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func ValidSearchBackends() []string { return []string{"google", "tavily", "brave"} }
func ValidSessionStores() []string  { return []string{"memory", "sqlite", "postgres"} }
func ValidOutputFormats() []string  { return []string{"markdown", "raw", "json", "yaml"} }
func ValidLogFormats() []string     { return []string{"text", "json"} }

// Validate checks the Config for invalid values and returns all problems
// found. Credentials are only required for the backends that are selected.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if strings.TrimSpace(c.Model.Name) == "" {
		add("model.name", c.Model.Name, "must not be empty")
	}
	if c.Model.Temperature > 2 {
		add("model.temperature", c.Model.Temperature, "must be at most 2")
	}
	if c.Model.MaxTokens < 0 {
		add("model.max_tokens", c.Model.MaxTokens, "must not be negative")
	}

	if !slices.Contains(ValidSearchBackends(), c.Search.Backend) {
		add("search.backend", c.Search.Backend, "must be one of "+strings.Join(ValidSearchBackends(), ", "))
	}
	if c.Search.TimeoutSeconds <= 0 {
		add("search.timeout_seconds", c.Search.TimeoutSeconds, "must be positive")
	}
	switch c.Search.Backend {
	case "google":
		if c.Search.Google.Num < 1 || c.Search.Google.Num > 10 {
			add("search.google.num", c.Search.Google.Num, "must be between 1 and 10")
		}
	case "tavily":
		if !slices.Contains([]string{"basic", "advanced"}, c.Search.Tavily.Depth) {
			add("search.tavily.depth", c.Search.Tavily.Depth, "must be basic or advanced")
		}
	}

	if !slices.Contains(ValidSessionStores(), c.Session.Store) {
		add("session.store", c.Session.Store, "must be one of "+strings.Join(ValidSessionStores(), ", "))
	}
	switch c.Session.Store {
	case "sqlite":
		if c.Session.SQLitePath == "" {
			add("session.sqlite_path", c.Session.SQLitePath, "required when session.store is sqlite")
		}
	case "postgres":
		if c.Session.PostgresDSN == "" {
			add("session.postgres_dsn", c.Session.PostgresDSN, "required when session.store is postgres")
		}
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		add("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}
	if !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		add("logging.format", c.Logging.Format, "must be text or json")
	}

	if !slices.Contains(ValidOutputFormats(), c.Output.Format) {
		add("output.format", c.Output.Format, "must be one of "+strings.Join(ValidOutputFormats(), ", "))
	}
	if c.Output.WordWrap < 0 {
		add("output.word_wrap", c.Output.WordWrap, "must not be negative")
	}

	return errs
}

// MissingSearchCredentials reports the credentials missing for the selected search
// backend. They are checked separately from Validate because commands that
// never search, such as history, do not need them.
func (c *Config) MissingSearchCredentials() []ValidationError {
	var errs []ValidationError
	switch c.Search.Backend {
	case "google":
		if c.Search.Google.APIKey == "" {
			errs = append(errs, ValidationError{Field: "search.google.api_key", Message: "required (GOOGLE_API_KEY)"})
		}
		if c.Search.Google.EngineID == "" {
			errs = append(errs, ValidationError{Field: "search.google.engine_id", Message: "required (GOOGLE_CSE_ID)"})
		}
	case "tavily":
		if c.Search.Tavily.APIKey == "" {
			errs = append(errs, ValidationError{Field: "search.tavily.api_key", Message: "required (TAVILY_API_KEY)"})
		}
	case "brave":
		if c.Search.Brave.APIKey == "" {
			errs = append(errs, ValidationError{Field: "search.brave.api_key", Message: "required (BRAVE_API_KEY)"})
		}
	}
	return errs
}
