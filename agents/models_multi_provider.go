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
	"strings"
	"sync"

	"github.com/openai/openai-go/v3/packages/param"
)

// MultiProvider routes a model name to a provider by its prefix:
//
//	"gpt-4o", "openai/gpt-4o"          OpenAIProvider
//	"azure/my-gpt4o"                   AzureOpenAIProvider (deployment name)
//	"gemini/gemini-2.5-flash"          GeminiProvider
//
// Register adds prefixes or replaces the built-in ones.
type MultiProvider struct {
	openai       *OpenAIProvider
	azureParams  AzureOpenAIProviderParams
	geminiParams GeminiProviderParams

	mu        sync.Mutex
	providers map[string]ModelProvider
}

type NewMultiProviderParams struct {
	// OpenAI settings, used for names without a prefix or with "openai/".
	// Unset values fall back to the package defaults and the environment.
	OpenaiAPIKey       param.Opt[string]
	OpenaiBaseURL      param.Opt[string]
	OpenaiOrganization param.Opt[string]
	OpenaiProject      param.Opt[string]

	// Optional OpenAI client, replacing the settings above.
	OpenaiClient *OpenaiClient

	// Settings for the "azure/" prefix. Unset fields fall back to the
	// AZURE_OPENAI_* environment variables.
	Azure AzureOpenAIProviderParams

	// Settings for the "gemini/" prefix.
	Gemini GeminiProviderParams
}

func NewMultiProvider(params NewMultiProviderParams) *MultiProvider {
	return &MultiProvider{
		openai: NewOpenAIProvider(OpenAIProviderParams{
			APIKey:       params.OpenaiAPIKey,
			BaseURL:      params.OpenaiBaseURL,
			OpenaiClient: params.OpenaiClient,
			Organization: params.OpenaiOrganization,
			Project:      params.OpenaiProject,
		}),
		azureParams:  params.Azure,
		geminiParams: params.Gemini,
		providers:    make(map[string]ModelProvider),
	}
}

// Register routes names starting with prefix+"/" to provider.
func (mp *MultiProvider) Register(prefix string, provider ModelProvider) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.providers[prefix] = provider
}

// GetModel splits the name at the first "/" and asks the matching
// provider for the rest.
func (mp *MultiProvider) GetModel(modelName string) (Model, error) {
	prefix, name, ok := strings.Cut(modelName, "/")
	if !ok {
		prefix, name = "", modelName
	}
	provider, err := mp.provider(prefix)
	if err != nil {
		return nil, err
	}
	return provider.GetModel(name)
}

func (mp *MultiProvider) provider(prefix string) (ModelProvider, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if p, ok := mp.providers[prefix]; ok {
		return p, nil
	}

	var p ModelProvider
	switch prefix {
	case "", "openai":
		return mp.openai, nil
	case "azure":
		azure, err := NewAzureOpenAIProvider(mp.azureParams)
		if err != nil {
			return nil, err
		}
		p = azure
	case "gemini":
		p = NewGeminiProvider(mp.geminiParams)
	default:
		return nil, UserErrorf("unknown model provider prefix %q", prefix)
	}
	mp.providers[prefix] = p
	return p, nil
}
