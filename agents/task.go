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
	"fmt"
	"slices"
	"strings"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/modelsettings"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
)

// Task is a prompted LLM call: a system prompt, a user prompt template and
// an optional structured output type. The planner, researcher and
// recommender are all Tasks that differ only in configuration.
type Task struct {
	// Name identifies the task in logs and errors.
	Name string

	// Instructions is the system prompt.
	Instructions string

	// Template is the user prompt. Every placeholder must be bound on Invoke.
	Template PromptTemplate

	// Optional output type. Nil or plain text means the raw text is the result.
	OutputType OutputTypeInterface

	// The model that runs the task.
	Model Model

	// Optional model settings.
	ModelSettings modelsettings.ModelSettings

	// IncludeHistory sends the caller's conversation before the rendered prompt.
	IncludeHistory bool
}

type TaskInput struct {
	// Values for the template placeholders. Extra entries are ignored.
	Vars map[string]string

	// Conversation history, used when the task includes history.
	// It is never modified.
	History []ConversationTurn
}

type TaskResponse struct {
	// Text is the raw model output.
	Text string

	Usage *usage.Usage
}

// SystemPrompt returns the instructions followed by the output format
// instructions, if the task has a structured output type.
func (t *Task) SystemPrompt() (string, error) {
	format, err := FormatInstructions(t.OutputType)
	if err != nil {
		return "", err
	}
	if format == "" {
		return t.Instructions, nil
	}
	if t.Instructions == "" {
		return format, nil
	}
	return t.Instructions + "\n\n" + format, nil
}

// Invoke renders the prompt and performs exactly one model call.
//
// It fails with *TemplateBindingError before contacting the model if a
// placeholder has no value, and with *GenerationServiceError if the model
// call fails.
func (t *Task) Invoke(ctx context.Context, in TaskInput) (*TaskResponse, error) {
	prompt, missing, err := t.Template.Render(in.Vars)
	if err != nil {
		return nil, &TemplateBindingError{Task: t.Name, Err: err}
	}
	if len(missing) > 0 {
		return nil, &TemplateBindingError{Task: t.Name, Missing: missing}
	}

	if t.Model == nil {
		return nil, &GenerationServiceError{Task: t.Name, Err: NewUserError("no model configured")}
	}

	system, err := t.SystemPrompt()
	if err != nil {
		return nil, &GenerationServiceError{Task: t.Name, Err: err}
	}

	var messages []ConversationTurn
	if t.IncludeHistory {
		messages = slices.Clone(in.History)
	}
	messages = append(messages, ConversationTurn{Role: RoleHuman, Content: prompt})

	resp, err := t.Model.GetResponse(ctx, ModelRequest{
		SystemInstructions: system,
		Messages:           messages,
		ModelSettings:      t.ModelSettings,
		OutputType:         t.OutputType,
	})
	if err != nil {
		return nil, &GenerationServiceError{Task: t.Name, Err: err}
	}
	if resp == nil {
		return nil, &GenerationServiceError{Task: t.Name, Err: errors.New("model returned no response")}
	}

	u := resp.Usage
	if u == nil {
		u = &usage.Usage{Requests: 1}
	}
	if acc, ok := usage.FromContext(ctx); ok {
		acc.Add(u)
	}
	return &TaskResponse{Text: resp.Text, Usage: u}, nil
}

// Parse decodes raw model output with the task's output type.
func (t *Task) Parse(ctx context.Context, raw string) (any, error) {
	return ParseStructuredOutput(ctx, t.Name, raw, t.OutputType)
}

// RunTask invokes the task and parses its output as T.
func RunTask[T any](ctx context.Context, t *Task, in TaskInput) (T, *TaskResponse, error) {
	var zero T
	resp, err := t.Invoke(ctx, in)
	if err != nil {
		return zero, nil, err
	}
	v, err := t.Parse(ctx, resp.Text)
	if err != nil {
		return zero, resp, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, resp, &OutputParseError{
			Task: t.Name,
			Raw:  resp.Text,
			Err:  fmt.Errorf("output type %T is not %T", v, zero),
		}
	}
	return out, resp, nil
}

// Validate reports configuration problems that would make every Invoke fail.
func (t *Task) Validate() error {
	var problems []string
	if strings.TrimSpace(t.Name) == "" {
		problems = append(problems, "name is empty")
	}
	if t.Model == nil {
		problems = append(problems, "model is nil")
	}
	if _, err := t.Template.Variables(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := FormatInstructions(t.OutputType); err != nil {
		problems = append(problems, err.Error())
	}
	if err := t.ModelSettings.Validate(); err != nil {
		problems = append(problems, strings.ReplaceAll(err.Error(), "\n", "; "))
	}
	if len(problems) > 0 {
		return UserErrorf("invalid task %q: %s", t.Name, strings.Join(problems, "; "))
	}
	return nil
}
