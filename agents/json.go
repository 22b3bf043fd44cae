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
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONValidationError lists the schema violations of a JSON document.
type JSONValidationError struct {
	Problems []string
}

func (err *JSONValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("JSON validation failed with the following errors:")
	for _, p := range err.Problems {
		_, _ = fmt.Fprintf(&sb, "\n- %s", p)
	}
	return sb.String()
}

// ValidateJSON checks jsonValue against schema.
func ValidateJSON(ctx context.Context, schema *gojsonschema.Schema, jsonValue string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonValue))
	if err != nil {
		return fmt.Errorf("failed to load and validate JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	Logger().DebugContext(ctx, "JSON failed schema validation", slog.Int("problems", len(problems)))
	return &JSONValidationError{Problems: problems}
}
