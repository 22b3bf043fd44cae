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
	"regexp"
	"strings"
)

var (
	ErrNoJSONObject            = errors.New("no JSON object found in output")
	ErrEmptyOutput             = errors.New("output is empty")
	ErrMissingExecutiveSummary = errors.New(`output has no "Executive Summary" heading`)
)

// MissingFieldsError is returned when a JSON object lacks declared keys.
type MissingFieldsError struct {
	Fields []string
}

func (err *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(err.Fields, ", ")
}

var (
	fencedBlockRe      = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\n?(.*?)```")
	executiveSummaryRe = regexp.MustCompile(`(?im)^[ \t]*(?:` +
		`#{1,6}[ \t]*(?:\*\*)?[ \t]*(?:\d+[.)][ \t]*)?(?:\*\*)?[ \t]*executive summary` +
		`|(?:\*\*|__)[ \t]*(?:\d+[.)][ \t]*)?executive summary[ \t]*:?[ \t]*(?:\*\*|__)[ \t]*:?[ \t]*$)`)
)

// FormatInstructions tells the model how to lay out a structured answer.
// It returns the empty string for plain text output types.
func FormatInstructions(ot OutputTypeInterface) (string, error) {
	if ot == nil || ot.IsPlainText() {
		return "", nil
	}
	schema, err := ot.JSONSchema()
	if err != nil {
		return "", err
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal output schema: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Respond with a single JSON object inside a markdown code block that starts with ```json and ends with ```.\n")
	sb.WriteString("The object must contain exactly these keys:\n")
	for _, f := range ot.Fields() {
		if f.Description != "" {
			_, _ = fmt.Fprintf(&sb, "- %q: %s\n", f.Name, f.Description)
		} else {
			_, _ = fmt.Fprintf(&sb, "- %q\n", f.Name)
		}
	}
	sb.WriteString("The object must validate against this JSON schema:\n")
	sb.Write(schemaJSON)
	return sb.String(), nil
}

// ExtractJSONObject returns the first JSON object in text. A fenced code
// block holding an object is preferred; otherwise the first balanced {...}
// span that is valid JSON is used.
func ExtractJSONObject(text string) (string, error) {
	for _, m := range fencedBlockRe.FindAllStringSubmatch(text, -1) {
		if obj, ok := firstValidObject(strings.TrimSpace(m[1])); ok {
			return obj, nil
		}
	}
	if obj, ok := firstValidObject(text); ok {
		return obj, nil
	}
	return "", ErrNoJSONObject
}

// firstValidObject scans s for balanced {...} spans and returns the first
// one that is valid JSON.
func firstValidObject(s string) (string, bool) {
	for i := strings.IndexByte(s, '{'); i >= 0; {
		if obj, ok := balancedObject(s[i:]); ok && json.Valid([]byte(obj)) {
			return obj, true
		}
		next := strings.IndexByte(s[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", false
}

// balancedObject returns the prefix of s (which starts with '{') up to the
// matching closing brace, ignoring braces inside JSON strings.
func balancedObject(s string) (string, bool) {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// ParseStructuredOutput turns raw model text into the value described by ot.
// Any failure is reported as an *OutputParseError.
func ParseStructuredOutput(ctx context.Context, task, raw string, ot OutputTypeInterface) (any, error) {
	if ot == nil || ot.IsPlainText() {
		return raw, nil
	}

	fail := func(err error) error {
		return &OutputParseError{Task: task, Raw: raw, Err: err}
	}

	block, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, fail(err)
	}

	var obj map[string]json.RawMessage
	if err = json.Unmarshal([]byte(block), &obj); err != nil {
		return nil, fail(fmt.Errorf("invalid JSON object: %w", err))
	}

	var missing []string
	for _, f := range ot.Fields() {
		if _, ok := obj[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fail(&MissingFieldsError{Fields: missing})
	}

	v, err := ot.ValidateJSON(ctx, block)
	if err != nil {
		return nil, fail(err)
	}
	return v, nil
}

// ParseRecommendation checks a markdown report against the recommender's
// format: it must contain an "Executive Summary" heading. Wrapping code
// fences and any text before the heading are dropped, so the result starts
// with the heading.
func ParseRecommendation(task, raw string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &OutputParseError{Task: task, Raw: raw, Err: err}
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return fail(ErrEmptyOutput)
	}
	text = stripWrappingFence(text)

	loc := executiveSummaryRe.FindStringIndex(text)
	if loc == nil {
		return fail(ErrMissingExecutiveSummary)
	}
	report := strings.TrimSpace(text[loc[0]:])
	if strings.Contains(text[:loc[0]], "```") {
		report = strings.TrimSpace(strings.TrimSuffix(report, "```"))
	}
	return report, nil
}

func stripWrappingFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return text
	}
	body := text[nl+1:]
	if end := strings.LastIndex(body, "```"); end >= 0 && strings.TrimSpace(body[end+3:]) == "" {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
