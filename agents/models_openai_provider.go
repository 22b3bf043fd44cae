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
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

type OpenAIProviderParams struct {
	// The API key to use for the OpenAI client. If not provided, we will use the
	// default API key.
	APIKey param.Opt[string]

	// The base URL to use for the OpenAI client. If not provided, we will use the
	// default base URL.
	BaseURL param.Opt[string]

	// An optional OpenAI client to use. If not provided, we will create a new
	// OpenAI client using the APIKey and BaseURL.
	OpenaiClient *OpenaiClient

	// The organization to use for the OpenAI client.
	Organization param.Opt[string]

	// The project to use for the OpenAI client.
	Project param.Opt[string]
}

type OpenAIProvider struct {
	params OpenAIProviderParams
	client *OpenaiClient
	once   sync.Once
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(params OpenAIProviderParams) *OpenAIProvider {
	if params.OpenaiClient != nil && (params.APIKey.Valid() || params.BaseURL.Valid()) {
		panic(errors.New("OpenAIProvider: don't provide APIKey or BaseURL if you provide OpenaiClient"))
	}
	return &OpenAIProvider{
		params: params,
		client: params.OpenaiClient,
	}
}

func (provider *OpenAIProvider) GetModel(modelName string) (Model, error) {
	if modelName == "" {
		return nil, fmt.Errorf("cannot get OpenAI model without a name")
	}
	return NewOpenAIChatCompletionsModel(modelName, provider.getClient()), nil
}

// The client is built lazily in case the provider is never used.
func (provider *OpenAIProvider) getClient() OpenaiClient {
	provider.once.Do(func() {
		if provider.client != nil {
			return
		}
		if c := GetDefaultOpenaiClient(); c != nil {
			provider.client = c
			return
		}

		apiKey := provider.params.APIKey
		if !apiKey.Valid() {
			apiKey = GetDefaultOpenaiKey()
		}
		if !apiKey.Valid() {
			if v := os.Getenv("OPENAI_API_KEY"); v != "" {
				apiKey = param.NewOpt(v)
			} else {
				Logger().Warn("OpenAIProvider: an API key is missing")
			}
		}

		var options []option.RequestOption
		if provider.params.Organization.Valid() {
			options = append(options, option.WithOrganization(provider.params.Organization.Value))
		}
		if provider.params.Project.Valid() {
			options = append(options, option.WithProject(provider.params.Project.Value))
		}

		c := NewOpenaiClient(provider.params.BaseURL, apiKey, options...)
		provider.client = &c
	})
	return *provider.client
}

type AzureOpenAIProviderParams struct {
	// Resource endpoint, e.g. "https://my-resource.openai.azure.com".
	// Defaults to $AZURE_OPENAI_ENDPOINT.
	Endpoint string

	// API version, e.g. "2024-10-21". Defaults to $AZURE_OPENAI_API_VERSION.
	APIVersion string

	// Defaults to $AZURE_OPENAI_API_KEY.
	APIKey string

	// Deployment used when GetModel is called with an empty name.
	// Defaults to $DEPLOYMENT_NAME.
	Deployment string

	// Extra request options, mainly for tests.
	Options []option.RequestOption
}

// NewAzureOpenAIProvider creates a provider for Azure OpenAI deployments.
// Model names are deployment names.
func NewAzureOpenAIProvider(params AzureOpenAIProviderParams) (*AzureOpenAIProvider, error) {
	orEnv := func(v, env string) string {
		if v != "" {
			return v
		}
		return os.Getenv(env)
	}
	params.Endpoint = orEnv(params.Endpoint, "AZURE_OPENAI_ENDPOINT")
	params.APIVersion = orEnv(params.APIVersion, "AZURE_OPENAI_API_VERSION")
	params.APIKey = orEnv(params.APIKey, "AZURE_OPENAI_API_KEY")
	params.Deployment = orEnv(params.Deployment, "DEPLOYMENT_NAME")

	if params.Endpoint == "" {
		return nil, NewUserError("Azure OpenAI endpoint is missing")
	}
	if params.APIVersion == "" {
		return nil, NewUserError("Azure OpenAI API version is missing")
	}

	return &AzureOpenAIProvider{
		deployment: params.Deployment,
		client:     NewAzureOpenaiClient(params.Endpoint, params.APIVersion, params.APIKey, params.Options...),
	}, nil
}

type AzureOpenAIProvider struct {
	deployment string
	client     OpenaiClient
}

func (provider *AzureOpenAIProvider) GetModel(deployment string) (Model, error) {
	if deployment == "" {
		deployment = provider.deployment
	}
	if deployment == "" {
		return nil, fmt.Errorf("cannot get Azure OpenAI model without a deployment name")
	}
	return NewOpenAIChatCompletionsModel(deployment, provider.client), nil
}
