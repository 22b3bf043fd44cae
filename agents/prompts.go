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

// PlanResult is the planner's structured breakdown of a problem.
type PlanResult struct {
	ProblemUnderstanding string         `json:"problem_understanding" yaml:"problem_understanding" jsonschema_description:"Brief analysis of the user's problem"`
	SolutionSchema       SolutionSchema `json:"solution_schema" yaml:"solution_schema" jsonschema_description:"Object containing the steps and components of the solution"`
	ResearchQuestions    []string       `json:"research_questions" yaml:"research_questions" jsonschema_description:"Questions that need to be researched on the web, most important first"`
}

type SolutionSchema struct {
	Steps      []string `json:"steps" yaml:"steps" jsonschema_description:"Ordered steps of the solution"`
	Components []string `json:"components" yaml:"components" jsonschema_description:"Building blocks the solution relies on"`
}

// ResearchResult is the researcher's synthesis of the search results.
type ResearchResult struct {
	ResearchFindings   []ResearchFinding `json:"research_findings" yaml:"research_findings" jsonschema_description:"One answer per research question, citing sources when possible"`
	AdditionalInsights string            `json:"additional_insights" yaml:"additional_insights" jsonschema_description:"Important information found that was not explicitly asked for"`
}

type ResearchFinding struct {
	Question string `json:"question" yaml:"question" jsonschema_description:"The original research question"`
	Answer   string `json:"answer" yaml:"answer" jsonschema_description:"Detailed answer to the question"`
}

// SearchRecord is the raw web search output for one research question.
type SearchRecord struct {
	Question     string `json:"question" yaml:"question"`
	SearchResult string `json:"search_result" yaml:"search_result"`
}

// Models often add keys of their own; the declared keys and their types
// are still enforced.
var lenientOutput = OutputTypeOpts{StrictJSONSchema: false}

const (
	PlannerTaskName     = "planner"
	ResearcherTaskName  = "researcher"
	RecommenderTaskName = "recommender"
)

const plannerInstructions = `You are a planning agent that turns a user's request into a solution plan.

Work through these points:
1. Understand the problem the user is facing.
2. Lay out a step-by-step plan that solves it.
3. Name the components the solution is built from.
4. List the questions that must be researched on the web before the plan can be turned into concrete advice.

Keep research questions specific enough to be typed into a search engine.`

const researcherInstructions = `You are a research agent. You receive the context of a problem, a list of research questions and the web search results gathered for each question.

For every question:
1. Read the search results collected for it.
2. Write a clear, concise answer grounded in those results.
3. Cite sources when the results name them.

Also report anything important you noticed that no question asked about.`

const recommenderInstructions = `You are a recommendation agent that writes detailed implementation reports in markdown.
You receive a problem, a solution schema and research findings. Turn them into a structured, actionable report.

Use exactly this header structure:

### Executive Summary
A short overview of the recommended approach.

### Detailed Implementation Plan

#### <Section title>
**Objective:** ...
**Key Components:** ...
**Implementation Details:** ...
**Challenges & Solutions:** ...
---
(one section per major part of the plan)

### Tools & Resources
- **Tool**: description

### Key Risks & Mitigations
- **Risk**: mitigation

### Expected Outcomes
- outcome

### Next Steps
1. step

Formatting rules:
- Use markdown only. No JSON and no code blocks.
- Do not wrap the report in a code fence.
- Keep the header structure exactly as shown.`

// NewPlannerTask returns the task that breaks a query into a PlanResult.
// It sees the caller's conversation history.
func NewPlannerTask(model Model) *Task {
	return &Task{
		Name:           PlannerTaskName,
		Instructions:   plannerInstructions,
		Template:       "{input}",
		OutputType:     OutputTypeWithOpts[PlanResult](lenientOutput),
		Model:          model,
		IncludeHistory: true,
	}
}

// NewResearcherTask returns the task that answers research questions from
// collected search results.
func NewResearcherTask(model Model) *Task {
	return &Task{
		Name:         ResearcherTaskName,
		Instructions: researcherInstructions,
		Template:     "Context: {context}\nResearch Questions: {questions}",
		OutputType:   OutputTypeWithOpts[ResearchResult](lenientOutput),
		Model:        model,
	}
}

// NewRecommenderTask returns the task that writes the final markdown report.
func NewRecommenderTask(model Model) *Task {
	return &Task{
		Name:         RecommenderTaskName,
		Instructions: recommenderInstructions,
		Template:     "Problem: {problem}\nSolution Schema: {schema}\nResearch Findings: {findings}",
		Model:        model,
	}
}
