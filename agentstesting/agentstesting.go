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

package agentstesting

import (
	"encoding/json"
	"fmt"
)

// PlanJSON returns a fenced planner answer asking the given questions.
func PlanJSON(understanding string, questions ...string) string {
	if questions == nil {
		questions = []string{}
	}
	return fenced(map[string]any{
		"problem_understanding": understanding,
		"solution_schema": map[string]any{
			"steps":      []string{"assess the current setup", "apply the changes"},
			"components": []string{"workspace", "routine"},
		},
		"research_questions": questions,
	})
}

// ResearchJSON returns a fenced researcher answer with one finding per
// question.
func ResearchJSON(insights string, questions ...string) string {
	findings := make([]map[string]string, 0, len(questions))
	for _, q := range questions {
		findings = append(findings, map[string]string{
			"question": q,
			"answer":   "answer to " + q,
		})
	}
	return fenced(map[string]any{
		"research_findings":   findings,
		"additional_insights": insights,
	})
}

// Recommendation returns a minimal markdown report with the expected headings.
func Recommendation(summary string) string {
	return "### Executive Summary\n" + summary + "\n\n" +
		"### Detailed Implementation Plan\n\n#### Setup\n**Objective:** get started\n\n---\n\n" +
		"### Next Steps\n1. Begin"
}

func fenced(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("```json\n%s\n```", b)
}
