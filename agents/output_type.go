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
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// OutputTypeInterface is implemented by an object that describes a task's output type.
// Unless the output type is plain text (string), it captures the JSON schema of the output,
// as well as validating/parsing JSON produced by the LLM into the output type.
type OutputTypeInterface interface {
	// IsPlainText reports whether the output type is plain text (versus a JSON object).
	IsPlainText() bool

	// The Name of the output type.
	Name() string

	// JSONSchema returns the JSON schema of the output.
	// It will only be called if the output type is not plain text.
	JSONSchema() (map[string]any, error)

	// IsStrictJSONSchema reports whether the JSON schema is in strict mode.
	//
	// For more details, see https://platform.openai.com/docs/guides/structured-outputs#supported-schemas
	IsStrictJSONSchema() bool

	// Fields lists the top-level keys the model must produce, in declaration
	// order. Plain text output types have no fields.
	Fields() []OutputField

	// ValidateJSON validates a JSON string against the output type and
	// returns the decoded value.
	// It will only be called if the output type is not plain text.
	ValidateJSON(ctx context.Context, jsonStr string) (any, error)
}

// OutputField describes one top-level key of a structured output.
type OutputField struct {
	Name        string
	Description string
}

type outputTypeImpl[T any] struct {
	// Whether the output type is wrapped in an object under the "response"
	// key. This is done when T cannot be represented as a JSON Schema object.
	isWrapped bool

	outputSchema     map[string]any
	fields           []OutputField
	strictJSONSchema bool
	isPlainText      bool
	name             string
}

type wrappedOutputType[T any] struct {
	Response T `json:"response"`
}

// OutputType creates a new output type for T with default options (strict schema).
// It panics in case of errors. For a safer variant, see SafeOutputType.
func OutputType[T any]() OutputTypeInterface {
	result, err := SafeOutputType[T](defaultOutputTypeOpts)
	if err != nil {
		panic(err)
	}
	return result
}

type OutputTypeOpts struct {
	StrictJSONSchema bool
}

var defaultOutputTypeOpts = OutputTypeOpts{
	StrictJSONSchema: true,
}

// OutputTypeWithOpts creates a new output type for T with custom options.
// It panics in case of errors. For a safer variant, see SafeOutputType.
func OutputTypeWithOpts[T any](opts OutputTypeOpts) OutputTypeInterface {
	result, err := SafeOutputType[T](opts)
	if err != nil {
		panic(err)
	}
	return result
}

// SafeOutputType creates a new output type for T with custom options.
func SafeOutputType[T any](opts OutputTypeOpts) (OutputTypeInterface, error) {
	var zero T
	name := fmt.Sprintf("%T", zero)

	if _, isPlainText := any(zero).(string); isPlainText {
		return outputTypeImpl[T]{
			outputSchema:     map[string]any{"type": "string"},
			strictJSONSchema: opts.StrictJSONSchema,
			isPlainText:      true,
			name:             name,
		}, nil
	}

	isWrapped := !isStruct[T]()
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: !opts.StrictJSONSchema,
		ExpandedStruct:            true,
	}

	var valueToReflect any = zero
	if isWrapped {
		valueToReflect = wrappedOutputType[T]{}
	}
	schema := reflector.Reflect(valueToReflect)

	var fields []OutputField
	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			fields = append(fields, OutputField{Name: pair.Key, Description: pair.Value.Description})
		}
	}

	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to JSON-marshal JSON schema: %w", err)
	}
	var outputSchema map[string]any
	if err = json.Unmarshal(b, &outputSchema); err != nil {
		return nil, fmt.Errorf("failed to JSON-unmarshal JSON schema: %w", err)
	}

	if opts.StrictJSONSchema {
		outputSchema, err = EnsureStrictJSONSchema(outputSchema)
		if err != nil {
			var userError *UserError
			if errors.As(err, &userError) {
				return nil, UserErrorf(
					"strict JSON schema is enabled, but output type %s is not valid: %s", name, userError.Message,
				)
			}
			return nil, err
		}
	}

	return outputTypeImpl[T]{
		isWrapped:        isWrapped,
		outputSchema:     outputSchema,
		fields:           fields,
		strictJSONSchema: opts.StrictJSONSchema,
		name:             name,
	}, nil
}

// isStruct reports whether T is a struct or pointer to struct.
func isStruct[T any]() bool {
	typ := reflect.TypeFor[T]()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Kind() == reflect.Struct
}

func (t outputTypeImpl[T]) IsPlainText() bool        { return t.isPlainText }
func (t outputTypeImpl[T]) Name() string             { return t.name }
func (t outputTypeImpl[T]) IsStrictJSONSchema() bool { return t.strictJSONSchema }
func (t outputTypeImpl[T]) Fields() []OutputField    { return t.fields }

func (t outputTypeImpl[T]) JSONSchema() (map[string]any, error) {
	if t.isPlainText {
		return nil, NewUserError("output type is plain text, so no JSON schema is available")
	}
	return t.outputSchema, nil
}

func (t outputTypeImpl[T]) ValidateJSON(ctx context.Context, jsonStr string) (any, error) {
	if t.isPlainText {
		return nil, NewUserError("output type is plain text, so JSON validation is not available")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(t.outputSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load and compile output JSON schema: %w", err)
	}

	if err = ValidateJSON(ctx, schema, jsonStr); err != nil {
		return nil, fmt.Errorf("output type %s: %w", t.name, err)
	}

	if t.isWrapped {
		var wrappedOutput wrappedOutputType[T]
		if err = json.Unmarshal([]byte(jsonStr), &wrappedOutput); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON output (wrapped): %w", err)
		}
		return wrappedOutput.Response, nil
	}

	var output T
	if err = json.Unmarshal([]byte(jsonStr), &output); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON output: %w", err)
	}
	return output, nil
}
