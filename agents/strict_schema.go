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
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// EnsureStrictJSONSchema rewrites schema, in place, into the subset accepted
// by OpenAI strict structured outputs. Every object gets
// "additionalProperties": false and requires all of its properties, in name
// order. Null defaults are dropped, a single allOf is merged into its
// parent, and a $ref with sibling keys is inlined.
func EnsureStrictJSONSchema(schema map[string]any) (map[string]any, error) {
	if len(schema) == 0 {
		return map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           map[string]any{},
			"required":             []string{},
		}, nil
	}
	return strictSchema{root: schema}.fix(schema, "")
}

type strictSchema struct {
	root map[string]any
}

func (s strictSchema) fix(node any, at string) (map[string]any, error) {
	schema, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema at %q is a %T, not an object", at, node)
	}

	for _, key := range []string{"$defs", "definitions"} {
		defs, _ := schema[key].(map[string]any)
		for name, def := range defs {
			if _, err := s.fix(def, at+"/"+key+"/"+name); err != nil {
				return nil, err
			}
		}
	}

	if schema["type"] == "object" {
		ap, has := schema["additionalProperties"]
		if !has {
			schema["additionalProperties"] = false
		} else if ap == true {
			return nil, UserErrorf("a strict schema cannot allow additional properties (at %q)", cmp.Or(at, "/"))
		}
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		schema["required"] = slices.Sorted(maps.Keys(props))
		for name, prop := range props {
			fixed, err := s.fix(prop, at+"/properties/"+name)
			if err != nil {
				return nil, err
			}
			props[name] = fixed
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		if _, err := s.fix(items, at+"/items"); err != nil {
			return nil, err
		}
	}

	if anyOf, ok := schema["anyOf"].([]any); ok {
		if err := s.fixEach(anyOf, at+"/anyOf"); err != nil {
			return nil, err
		}
	}

	if allOf, ok := schema["allOf"].([]any); ok {
		if len(allOf) == 1 {
			only, err := s.fix(allOf[0], at+"/allOf/0")
			if err != nil {
				return nil, err
			}
			delete(schema, "allOf")
			maps.Copy(schema, only)
		} else if err := s.fixEach(allOf, at+"/allOf"); err != nil {
			return nil, err
		}
	}

	// A null default adds nothing: the model falls back to null anyway.
	if d, ok := schema["default"]; ok && d == nil {
		delete(schema, "default")
	}

	// Strict mode rejects a $ref next to other keys.
	if raw, ok := schema["$ref"]; ok && len(schema) > 1 {
		ref, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("$ref at %q is a %T, not a string", at, raw)
		}
		target, err := s.resolve(ref)
		if err != nil {
			return nil, err
		}
		delete(schema, "$ref")
		for k, v := range target {
			if _, ok := schema[k]; !ok {
				schema[k] = v
			}
		}
		return s.fix(schema, at)
	}

	return schema, nil
}

func (s strictSchema) fixEach(list []any, at string) error {
	for i, item := range list {
		fixed, err := s.fix(item, at+"/"+strconv.Itoa(i))
		if err != nil {
			return err
		}
		list[i] = fixed
	}
	return nil
}

func (s strictSchema) resolve(ref string) (map[string]any, error) {
	rest, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return nil, fmt.Errorf("unsupported $ref %q: only local references are allowed", ref)
	}
	node := s.root
	for _, key := range strings.Split(rest, "/") {
		next, ok := node[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cannot resolve $ref %q: %q is not an object", ref, key)
		}
		node = next
	}
	return node, nil
}
