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
	"sync/atomic"

	"github.com/openai/openai-go/v3/packages/param"
)

var (
	defaultOpenaiKey    atomic.Pointer[string]
	defaultOpenaiClient atomic.Pointer[OpenaiClient]
)

// SetDefaultOpenaiKey sets the default OpenAI API key to use for LLM requests.
// This is only necessary if the OPENAI_API_KEY environment variable is not already set.
func SetDefaultOpenaiKey(key string) {
	defaultOpenaiKey.Store(&key)
}

func GetDefaultOpenaiKey() param.Opt[string] {
	v := defaultOpenaiKey.Load()
	if v == nil {
		return param.Opt[string]{}
	}
	return param.NewOpt(*v)
}

// SetDefaultOpenaiClient sets the default OpenAI client to use for LLM requests.
// If provided, this client will be used instead of the default OpenAI client.
func SetDefaultOpenaiClient(client OpenaiClient) {
	defaultOpenaiClient.Store(&client)
}

func GetDefaultOpenaiClient() *OpenaiClient {
	return defaultOpenaiClient.Load()
}

// ResetOpenaiDefaults clears the default key and client.
func ResetOpenaiDefaults() {
	defaultOpenaiKey.Store(nil)
	defaultOpenaiClient.Store(nil)
}
