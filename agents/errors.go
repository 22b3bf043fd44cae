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
	"fmt"
	"strings"
)

// TemplateBindingError is returned when a task prompt template references
// variables that were not supplied, or cannot be parsed (Err is set).
type TemplateBindingError struct {
	Task    string
	Missing []string
	Err     error
}

func (err *TemplateBindingError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("task %s: invalid prompt template: %v", err.Task, err.Err)
	}
	return fmt.Sprintf("task %s: unbound template variables: %s", err.Task, strings.Join(err.Missing, ", "))
}

func (err *TemplateBindingError) Unwrap() error { return err.Err }

// GenerationServiceError is returned when the language-model call fails.
type GenerationServiceError struct {
	Task string
	Err  error
}

func (err *GenerationServiceError) Error() string {
	return fmt.Sprintf("task %s: generation failed: %v", err.Task, err.Err)
}

func (err *GenerationServiceError) Unwrap() error { return err.Err }

// SearchServiceError is returned when a web search fails. Index is the
// position of the failed question in the planner's list.
type SearchServiceError struct {
	Query string
	Index int
	Err   error
}

func (err *SearchServiceError) Error() string {
	return fmt.Sprintf("search %d (%q) failed: %v", err.Index, err.Query, err.Err)
}

func (err *SearchServiceError) Unwrap() error { return err.Err }

// OutputParseError is returned when model output does not match the format
// the task declared. Raw holds the unparsed text.
type OutputParseError struct {
	Task string
	Raw  string
	Err  error
}

func (err *OutputParseError) Error() string {
	return fmt.Sprintf("task %s: cannot parse model output: %v", err.Task, err.Err)
}

func (err *OutputParseError) Unwrap() error { return err.Err }

// UserError is returned when the package is misconfigured, e.g. a team is
// built without a model.
type UserError struct {
	Message string
}

func (err *UserError) Error() string { return err.Message }

func NewUserError(message string) *UserError {
	return &UserError{Message: message}
}

func UserErrorf(format string, a ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, a...)}
}
