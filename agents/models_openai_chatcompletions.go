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
	"reflect"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared/constant"
)

type OpenAIChatCompletionsModel struct {
	Model  openai.ChatModel
	client OpenaiClient
}

func NewOpenAIChatCompletionsModel(model openai.ChatModel, client OpenaiClient) OpenAIChatCompletionsModel {
	return OpenAIChatCompletionsModel{
		Model:  model,
		client: client,
	}
}

func (m OpenAIChatCompletionsModel) GetResponse(ctx context.Context, req ModelRequest) (*ModelResponse, error) {
	body, opts, err := m.prepareRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	response, err := m.client.Chat.Completions.New(ctx, *body, opts...)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	message := response.Choices[0].Message
	if message.Refusal != "" && message.Content == "" {
		return nil, errors.New("model refused: " + message.Refusal)
	}

	if DontLogModelData {
		Logger().DebugContext(ctx, "LLM responded", slog.String("model", m.Model))
	} else {
		Logger().DebugContext(ctx, "LLM responded", slog.String("model", m.Model), slog.String("content", message.Content))
	}

	u := &usage.Usage{Requests: 1}
	if !reflect.ValueOf(response.Usage).IsZero() {
		u.InputTokens = uint64(response.Usage.PromptTokens)
		u.CachedInputTokens = uint64(response.Usage.PromptTokensDetails.CachedTokens)
		u.OutputTokens = uint64(response.Usage.CompletionTokens)
		u.ReasoningTokens = uint64(response.Usage.CompletionTokensDetails.ReasoningTokens)
		u.TotalTokens = uint64(response.Usage.TotalTokens)
	}

	return &ModelResponse{
		Text:       message.Content,
		Usage:      u,
		ResponseID: response.ID,
	}, nil
}

func (m OpenAIChatCompletionsModel) prepareRequest(
	ctx context.Context,
	req ModelRequest,
) (*openai.ChatCompletionNewParams, []option.RequestOption, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.SystemInstructions != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstructions))
	}
	for _, turn := range req.Messages {
		switch turn.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	ms := req.ModelSettings
	params := &openai.ChatCompletionNewParams{
		Model:               m.Model,
		Messages:            messages,
		Temperature:         ms.Temperature,
		TopP:                ms.TopP,
		FrequencyPenalty:    ms.FrequencyPenalty,
		PresencePenalty:     ms.PresencePenalty,
		MaxCompletionTokens: ms.MaxTokens,
		Seed:                ms.Seed,
		Metadata:            ms.Metadata,
	}

	if ms.NativeStructuredOutput.Value {
		format, ok, err := convertResponseFormat(req.OutputType)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			params.ResponseFormat = format
		}
	}

	var opts []option.RequestOption
	for k, v := range ms.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}
	for k, v := range ms.ExtraQuery {
		opts = append(opts, option.WithQuery(k, v))
	}

	if DontLogModelData {
		Logger().DebugContext(ctx, "Calling LLM", slog.String("model", m.Model))
	} else {
		Logger().DebugContext(ctx, "Calling LLM", slog.String("model", m.Model), slog.Int("messages", len(messages)))
	}

	if ms.CustomizeChatCompletionsRequest != nil {
		return ms.CustomizeChatCompletionsRequest(ctx, params, opts)
	}
	return params, opts, nil
}

func convertResponseFormat(ot OutputTypeInterface) (openai.ChatCompletionNewParamsResponseFormatUnion, bool, error) {
	if ot == nil || ot.IsPlainText() {
		return openai.ChatCompletionNewParamsResponseFormatUnion{}, false, nil
	}
	schema, err := ot.JSONSchema()
	if err != nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{}, false, err
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   "final_output",
				Strict: param.NewOpt(ot.IsStrictJSONSchema()),
				Schema: schema,
			},
			Type: constant.ValueOf[constant.JSONSchema](),
		},
	}, true, nil
}
