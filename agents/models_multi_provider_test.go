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

package agents_test

import (
	"testing"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/agentstesting"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiProvider_GetModel(t *testing.T) {
	t.Run("no prefix and openai prefix use OpenAI", func(t *testing.T) {
		mp := agents.NewMultiProvider(agents.NewMultiProviderParams{OpenaiAPIKey: param.NewOpt("k")})
		for _, name := range []string{"gpt-4o", "openai/gpt-4o"} {
			model, err := mp.GetModel(name)
			require.NoError(t, err)
			chat, ok := model.(agents.OpenAIChatCompletionsModel)
			require.True(t, ok)
			assert.Equal(t, "gpt-4o", chat.Model)
		}
	})

	t.Run("azure prefix", func(t *testing.T) {
		mp := agents.NewMultiProvider(agents.NewMultiProviderParams{
			Azure: agents.AzureOpenAIProviderParams{
				Endpoint:   "https://example.openai.azure.com",
				APIVersion: "2024-10-21",
				APIKey:     "k",
			},
		})
		model, err := mp.GetModel("azure/team-gpt4o")
		require.NoError(t, err)
		assert.Equal(t, "team-gpt4o", model.(agents.OpenAIChatCompletionsModel).Model)
	})

	t.Run("gemini prefix", func(t *testing.T) {
		mp := agents.NewMultiProvider(agents.NewMultiProviderParams{
			Gemini: agents.GeminiProviderParams{APIKey: "k"},
		})
		model, err := mp.GetModel("gemini/gemini-2.5-flash")
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-flash", model.(agents.GeminiModel).Model)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		mp := agents.NewMultiProvider(agents.NewMultiProviderParams{})
		_, err := mp.GetModel("nope/some-model")
		var userErr *agents.UserError
		assert.ErrorAs(t, err, &userErr)
	})

	t.Run("registered provider takes precedence", func(t *testing.T) {
		fake := agentstesting.NewFakeModel()
		provider := &agentstesting.FakeModelProvider{Model: fake}

		mp := agents.NewMultiProvider(agents.NewMultiProviderParams{})
		mp.Register("gemini", provider)
		model, err := mp.GetModel("gemini/custom")
		require.NoError(t, err)
		assert.Same(t, fake, model)
		assert.Equal(t, []string{"custom"}, provider.Names)
	})

	t.Run("registered custom prefix", func(t *testing.T) {
		provider := &agentstesting.FakeModelProvider{Model: agentstesting.NewFakeModel()}

		mp := agents.NewMultiProvider(agents.NewMultiProviderParams{})
		mp.Register("local", provider)
		_, err := mp.GetModel("local/llama3/8b")
		require.NoError(t, err)
		assert.Equal(t, []string{"llama3/8b"}, provider.Names)
	})

	t.Run("built-in providers are reused", func(t *testing.T) {
		mp := agents.NewMultiProvider(agents.NewMultiProviderParams{
			Gemini: agents.GeminiProviderParams{APIKey: "k"},
		})
		a, err := mp.GetModel("gemini/a")
		require.NoError(t, err)
		b, err := mp.GetModel("gemini/b")
		require.NoError(t, err)
		assert.Equal(t, "a", a.(agents.GeminiModel).Model)
		assert.Equal(t, "b", b.(agents.GeminiModel).Model)
	})
}
