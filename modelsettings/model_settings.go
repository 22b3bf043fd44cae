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

package modelsettings

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// ModelSettings are the sampling and request options of one model call.
// Unset fields are left to the provider. A provider that cannot express a
// field ignores it.
type ModelSettings struct {
	Temperature      param.Opt[float64] `json:"temperature"`
	TopP             param.Opt[float64] `json:"top_p"`
	FrequencyPenalty param.Opt[float64] `json:"frequency_penalty"`
	PresencePenalty  param.Opt[float64] `json:"presence_penalty"`

	// Upper bound on generated tokens.
	MaxTokens param.Opt[int64] `json:"max_tokens"`

	Seed param.Opt[int64] `json:"seed"`

	// Ask the provider to enforce the output JSON schema itself (OpenAI
	// structured outputs, Gemini JSON mode). Otherwise the schema only
	// reaches the model through the prompt.
	NativeStructuredOutput param.Opt[bool] `json:"native_structured_output"`

	// Sent as request metadata where the provider supports it.
	Metadata map[string]string `json:"metadata"`

	// Added to the request URL query and headers.
	ExtraQuery   map[string]string `json:"extra_query"`
	ExtraHeaders map[string]string `json:"extra_headers"`

	// Last-chance hook on a chat completions request. It receives the
	// prepared parameters and options and returns the ones to send.
	CustomizeChatCompletionsRequest func(context.Context, *openai.ChatCompletionNewParams, []option.RequestOption) (*openai.ChatCompletionNewParams, []option.RequestOption, error) `json:"-"`
}

// Resolve returns ms with every field set in override replaced. Map fields
// are merged, with override's keys winning. The result never shares maps
// with either input.
func (ms ModelSettings) Resolve(override ModelSettings) ModelSettings {
	out := ms
	setOpt(&out.Temperature, override.Temperature)
	setOpt(&out.TopP, override.TopP)
	setOpt(&out.FrequencyPenalty, override.FrequencyPenalty)
	setOpt(&out.PresencePenalty, override.PresencePenalty)
	setOpt(&out.MaxTokens, override.MaxTokens)
	setOpt(&out.Seed, override.Seed)
	setOpt(&out.NativeStructuredOutput, override.NativeStructuredOutput)
	out.Metadata = merge(ms.Metadata, override.Metadata)
	out.ExtraQuery = merge(ms.ExtraQuery, override.ExtraQuery)
	out.ExtraHeaders = merge(ms.ExtraHeaders, override.ExtraHeaders)
	if override.CustomizeChatCompletionsRequest != nil {
		out.CustomizeChatCompletionsRequest = override.CustomizeChatCompletionsRequest
	}
	return out
}

// Validate reports out-of-range values, using the OpenAI API limits.
func (ms ModelSettings) Validate() error {
	var errs []error
	inRange := func(name string, o param.Opt[float64], lo, hi float64) {
		if o.Valid() && (o.Value < lo || o.Value > hi) {
			errs = append(errs, fmt.Errorf("%s must be between %g and %g, got %g", name, lo, hi, o.Value))
		}
	}
	inRange("temperature", ms.Temperature, 0, 2)
	inRange("top_p", ms.TopP, 0, 1)
	inRange("frequency_penalty", ms.FrequencyPenalty, -2, 2)
	inRange("presence_penalty", ms.PresencePenalty, -2, 2)
	if ms.MaxTokens.Valid() && ms.MaxTokens.Value <= 0 {
		errs = append(errs, fmt.Errorf("max_tokens must be positive, got %d", ms.MaxTokens.Value))
	}
	return errors.Join(errs...)
}

func setOpt[T comparable](dst *param.Opt[T], v param.Opt[T]) {
	if v.Valid() {
		*dst = v
	}
}

func merge(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string, len(override))
	}
	maps.Copy(out, override)
	return out
}
