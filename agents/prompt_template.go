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
	"fmt"
	"slices"
	"strings"
)

// PromptTemplate is a prompt with {name} placeholders. Literal braces are
// written as {{ and }}.
type PromptTemplate string

type templatePart struct {
	literal  string
	variable string
}

func (t PromptTemplate) parse() ([]templatePart, error) {
	var (
		parts []templatePart
		lit   strings.Builder
		s     = string(t)
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '{' at offset %d", i)
			}
			name := s[i+1 : i+1+end]
			if !isIdentifier(name) {
				return nil, fmt.Errorf("invalid placeholder %q at offset %d", name, i)
			}
			flush()
			parts = append(parts, templatePart{variable: name})
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d", i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return parts, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Variables returns the distinct placeholder names in order of first use.
func (t PromptTemplate) Variables() ([]string, error) {
	parts, err := t.parse()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, p := range parts {
		if p.variable != "" && !slices.Contains(names, p.variable) {
			names = append(names, p.variable)
		}
	}
	return names, nil
}

// Render substitutes vars into the template. It returns the names of all
// placeholders without a value; the rendered text is only meaningful when
// that list is empty.
func (t PromptTemplate) Render(vars map[string]string) (string, []string, error) {
	parts, err := t.parse()
	if err != nil {
		return "", nil, err
	}

	var (
		sb      strings.Builder
		missing []string
	)
	for _, p := range parts {
		if p.variable == "" {
			sb.WriteString(p.literal)
			continue
		}
		v, ok := vars[p.variable]
		if !ok {
			if !slices.Contains(missing, p.variable) {
				missing = append(missing, p.variable)
			}
			continue
		}
		sb.WriteString(v)
	}
	return sb.String(), missing, nil
}
