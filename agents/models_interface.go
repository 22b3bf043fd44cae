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

	"github.com/berkePagnikli/Planner-AI-Agent-Team/memory"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/modelsettings"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
)

// ConversationTurn is one message of the caller's conversation history.
type ConversationTurn = memory.Turn

// Role identifies the author of a ConversationTurn.
type Role = memory.Role

const (
	RoleHuman     = memory.RoleHuman
	RoleAssistant = memory.RoleAssistant
)

// Model is the base interface for calling an LLM.
type Model interface {
	// GetResponse returns the full model response from the model.
	GetResponse(context.Context, ModelRequest) (*ModelResponse, error)
}

type ModelRequest struct {
	// The system instructions to use. Empty means none.
	SystemInstructions string

	// The conversation sent to the model, oldest first. The last turn is the
	// rendered task prompt.
	Messages []ConversationTurn

	// The model settings to use.
	ModelSettings modelsettings.ModelSettings

	// Optional output type. Providers may use it to request native
	// structured output when ModelSettings.NativeStructuredOutput is set.
	OutputType OutputTypeInterface
}

type ModelResponse struct {
	// The text generated by the model.
	Text string

	// The usage information for the response.
	Usage *usage.Usage

	// Provider-assigned identifier of the response, if any.
	ResponseID string
}

// ModelProvider is the base interface for a model provider.
// It is responsible for looking up Models by name.
type ModelProvider interface {
	// GetModel returns a model by name.
	GetModel(modelName string) (Model, error)
}
