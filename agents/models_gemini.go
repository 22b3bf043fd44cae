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
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
	"google.golang.org/genai"
)

type GeminiProviderParams struct {
	// Defaults to $GEMINI_API_KEY, then $GOOGLE_API_KEY.
	APIKey string

	// Optional base URL override, mainly for tests.
	BaseURL string

	// Optional HTTP client.
	HTTPClient *http.Client
}

// GeminiProvider looks up Gemini models through the Gemini API backend.
type GeminiProvider struct {
	params GeminiProviderParams
	client *genai.Client
	err    error
	once   sync.Once
}

func NewGeminiProvider(params GeminiProviderParams) *GeminiProvider {
	return &GeminiProvider{params: params}
}

func (provider *GeminiProvider) GetModel(modelName string) (Model, error) {
	if modelName == "" {
		return nil, fmt.Errorf("cannot get Gemini model without a name")
	}
	client, err := provider.getClient()
	if err != nil {
		return nil, err
	}
	return GeminiModel{Model: modelName, client: client}, nil
}

func (provider *GeminiProvider) getClient() (*genai.Client, error) {
	provider.once.Do(func() {
		apiKey := provider.params.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			provider.err = NewUserError("Gemini API key is missing")
			return
		}

		cfg := &genai.ClientConfig{
			APIKey:     apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: provider.params.HTTPClient,
		}
		if provider.params.BaseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: provider.params.BaseURL}
		}
		// Client creation does no network I/O with an explicit API key.
		provider.client, provider.err = genai.NewClient(context.Background(), cfg)
	})
	return provider.client, provider.err
}

type GeminiModel struct {
	Model  string
	client *genai.Client
}

func (m GeminiModel) GetResponse(ctx context.Context, req ModelRequest) (*ModelResponse, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, turn := range req.Messages {
		role := genai.RoleUser
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, genai.Role(role)))
	}

	ms := req.ModelSettings
	config := &genai.GenerateContentConfig{}
	if req.SystemInstructions != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstructions, genai.RoleUser)
	}
	if ms.Temperature.Valid() {
		config.Temperature = genai.Ptr(float32(ms.Temperature.Value))
	}
	if ms.TopP.Valid() {
		config.TopP = genai.Ptr(float32(ms.TopP.Value))
	}
	if ms.FrequencyPenalty.Valid() {
		config.FrequencyPenalty = genai.Ptr(float32(ms.FrequencyPenalty.Value))
	}
	if ms.PresencePenalty.Valid() {
		config.PresencePenalty = genai.Ptr(float32(ms.PresencePenalty.Value))
	}
	if ms.MaxTokens.Valid() {
		config.MaxOutputTokens = int32(ms.MaxTokens.Value)
	}
	if ms.Seed.Valid() {
		config.Seed = genai.Ptr(int32(ms.Seed.Value))
	}
	if ms.NativeStructuredOutput.Value && req.OutputType != nil && !req.OutputType.IsPlainText() {
		config.ResponseMIMEType = "application/json"
	}
	if len(ms.ExtraHeaders) > 0 {
		config.HTTPOptions = &genai.HTTPOptions{Headers: make(http.Header, len(ms.ExtraHeaders))}
		for k, v := range ms.ExtraHeaders {
			config.HTTPOptions.Headers.Set(k, v)
		}
	}

	if DontLogModelData {
		Logger().DebugContext(ctx, "Calling LLM", slog.String("model", m.Model))
	} else {
		Logger().DebugContext(ctx, "Calling LLM", slog.String("model", m.Model), slog.Int("messages", len(contents)))
	}

	response, err := m.client.Models.GenerateContent(ctx, m.Model, contents, config)
	if err != nil {
		return nil, err
	}
	if len(response.Candidates) == 0 {
		return nil, errors.New("gemini returned no candidates")
	}
	text := response.Text()

	if DontLogModelData {
		Logger().DebugContext(ctx, "LLM responded", slog.String("model", m.Model))
	} else {
		Logger().DebugContext(ctx, "LLM responded", slog.String("model", m.Model), slog.String("content", text))
	}

	u := &usage.Usage{Requests: 1}
	if md := response.UsageMetadata; md != nil {
		u.InputTokens = uint64(md.PromptTokenCount)
		u.CachedInputTokens = uint64(md.CachedContentTokenCount)
		u.OutputTokens = uint64(md.CandidatesTokenCount)
		u.ReasoningTokens = uint64(md.ThoughtsTokenCount)
		u.TotalTokens = uint64(md.TotalTokenCount)
	}

	return &ModelResponse{
		Text:       text,
		Usage:      u,
		ResponseID: response.ResponseID,
	}, nil
}
