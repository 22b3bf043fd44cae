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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptTemplate_Render(t *testing.T) {
	t.Run("all placeholders bound", func(t *testing.T) {
		tpl := agents.PromptTemplate("Problem: {problem}\nSchema: {schema}")
		out, missing, err := tpl.Render(map[string]string{"problem": "p", "schema": "s", "extra": "x"})
		require.NoError(t, err)
		assert.Empty(t, missing)
		assert.Equal(t, "Problem: p\nSchema: s", out)
	})

	t.Run("missing placeholders are reported once each", func(t *testing.T) {
		tpl := agents.PromptTemplate("{a} {b} {a} {c}")
		_, missing, err := tpl.Render(map[string]string{"b": "x"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, missing)
	})

	t.Run("empty value counts as bound", func(t *testing.T) {
		out, missing, err := agents.PromptTemplate("[{a}]").Render(map[string]string{"a": ""})
		require.NoError(t, err)
		assert.Empty(t, missing)
		assert.Equal(t, "[]", out)
	})

	t.Run("escaped braces", func(t *testing.T) {
		out, missing, err := agents.PromptTemplate(`{{"key": "{v}"}}`).Render(map[string]string{"v": "1"})
		require.NoError(t, err)
		assert.Empty(t, missing)
		assert.Equal(t, `{"key": "1"}`, out)
	})

	t.Run("values are not re-expanded", func(t *testing.T) {
		out, _, err := agents.PromptTemplate("{a}").Render(map[string]string{"a": "{b}"})
		require.NoError(t, err)
		assert.Equal(t, "{b}", out)
	})

	t.Run("malformed templates", func(t *testing.T) {
		for _, tpl := range []agents.PromptTemplate{"{unclosed", "stray }", "{not valid}", "{}"} {
			_, _, err := tpl.Render(nil)
			assert.Error(t, err, string(tpl))
		}
	})
}

func TestPromptTemplate_Variables(t *testing.T) {
	vars, err := agents.PromptTemplate("Context: {context}\nResearch Questions: {questions} {context}").Variables()
	require.NoError(t, err)
	assert.Equal(t, []string{"context", "questions"}, vars)

	vars, err = agents.PromptTemplate("no placeholders {{here}}").Variables()
	require.NoError(t, err)
	assert.Empty(t, vars)
}
