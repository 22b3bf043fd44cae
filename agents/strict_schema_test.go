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

func TestEnsureStrictJSONSchema(t *testing.T) {
	type m = map[string]any

	t.Run("empty schema", func(t *testing.T) {
		for _, schema := range []m{nil, {}} {
			strict, err := agents.EnsureStrictJSONSchema(schema)
			require.NoError(t, err)
			assert.Equal(t, false, strict["additionalProperties"])
			assert.Equal(t, []string{}, strict["required"])
		}
	})

	t.Run("object properties become required in sorted order", func(t *testing.T) {
		schema := m{
			"type": "object",
			"properties": m{
				"zeta":  m{"type": "string"},
				"alpha": m{"type": "object", "properties": m{"x": m{"type": "number"}}},
			},
		}
		result, err := agents.EnsureStrictJSONSchema(schema)
		require.NoError(t, err)
		assert.Equal(t, m{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"alpha", "zeta"},
			"properties": m{
				"zeta": m{"type": "string"},
				"alpha": m{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"x"},
					"properties":           m{"x": m{"type": "number"}},
				},
			},
		}, result)
	})

	t.Run("additional properties rejected", func(t *testing.T) {
		schema := m{
			"type":                 "object",
			"properties":           m{"a": m{"type": "number"}},
			"additionalProperties": true,
		}
		_, err := agents.EnsureStrictJSONSchema(schema)
		var userErr *agents.UserError
		assert.ErrorAs(t, err, &userErr)
	})

	t.Run("array items and nil defaults", func(t *testing.T) {
		schema := m{
			"type":  "array",
			"items": m{"type": "number", "default": nil},
		}
		result, err := agents.EnsureStrictJSONSchema(schema)
		require.NoError(t, err)
		assert.Equal(t, m{"type": "array", "items": m{"type": "number"}}, result)
	})

	t.Run("single allOf is merged", func(t *testing.T) {
		schema := m{
			"type":  "object",
			"allOf": []any{m{"properties": m{"a": m{"type": "boolean"}}}},
		}
		result, err := agents.EnsureStrictJSONSchema(schema)
		require.NoError(t, err)
		assert.Equal(t, m{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"a"},
			"properties":           m{"a": m{"type": "boolean"}},
		}, result)
	})

	t.Run("ref with siblings is inlined", func(t *testing.T) {
		schema := m{
			"$defs":      m{"refObj": m{"type": "string", "default": nil}},
			"type":       "object",
			"properties": m{"a": m{"$ref": "#/$defs/refObj", "description": "desc"}},
		}
		result, err := agents.EnsureStrictJSONSchema(schema)
		require.NoError(t, err)
		assert.Equal(t, m{"type": "string", "description": "desc"}, result["properties"].(m)["a"])
	})

	t.Run("lone ref is kept", func(t *testing.T) {
		result, err := agents.EnsureStrictJSONSchema(m{"$ref": "#/$defs/x"})
		require.NoError(t, err)
		assert.Equal(t, m{"$ref": "#/$defs/x"}, result)
	})

	t.Run("invalid ref", func(t *testing.T) {
		schema := m{
			"type":       "object",
			"properties": m{"a": m{"$ref": "invalid", "description": "desc"}},
		}
		_, err := agents.EnsureStrictJSONSchema(schema)
		assert.Error(t, err)
	})
}
