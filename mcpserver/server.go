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

// Package mcpserver exposes the agent team as a Model Context Protocol tool.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/memory"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TeamFactory builds a fresh team for one tool call.
type TeamFactory func(ctx context.Context) (*agents.Team, error)

type HistoryTurn struct {
	Role    string `json:"role" jsonschema:"who wrote the turn: human or assistant"`
	Content string `json:"content" jsonschema:"the text of the turn"`
}

type SolveInput struct {
	Query   string        `json:"query" jsonschema:"the problem to plan, research and solve"`
	History []HistoryTurn `json:"history,omitempty" jsonschema:"earlier conversation turns, oldest first"`
}

type SolveOutput struct {
	RunID             string      `json:"run_id"`
	Recommendation    string      `json:"recommendation" jsonschema:"markdown implementation report"`
	ResearchQuestions []string    `json:"research_questions" jsonschema:"questions the planner searched for"`
	Usage             usage.Usage `json:"usage"`
}

type service struct {
	newTeam TeamFactory
}

func (s *service) Solve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SolveInput,
) (*mcp.CallToolResult, SolveOutput, error) {
	if input.Query == "" {
		return nil, SolveOutput{}, errors.New("query is required")
	}

	team, err := s.newTeam(ctx)
	if err != nil {
		return nil, SolveOutput{}, fmt.Errorf("cannot build team: %w", err)
	}
	for i, turn := range input.History {
		role, err := memory.ParseRole(turn.Role)
		if err != nil {
			return nil, SolveOutput{}, fmt.Errorf("history[%d]: %w", i, err)
		}
		if err = team.AddToHistory(ctx, role, turn.Content); err != nil {
			return nil, SolveOutput{}, fmt.Errorf("history[%d]: %w", i, err)
		}
	}

	res, err := team.Run(ctx, input.Query)
	if err != nil {
		agents.Logger().WarnContext(ctx, "MCP solve failed", slog.String("error", err.Error()))
		return nil, SolveOutput{}, err
	}

	out := SolveOutput{
		RunID:             res.RunID,
		Recommendation:    res.Recommendation,
		ResearchQuestions: res.Plan.ResearchQuestions,
		Usage:             res.Usage,
	}
	if out.ResearchQuestions == nil {
		out.ResearchQuestions = []string{}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Recommendation}},
	}, out, nil
}

// New creates an MCP server with the solve tool registered.
func New(newTeam TeamFactory, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "agent-team",
		Version: version,
	}, nil)

	svc := &service{newTeam: newTeam}
	mcp.AddTool(server, &mcp.Tool{
		Name: "solve",
		Description: "Break a problem down into a plan, research the open questions on the web " +
			"and return a markdown implementation report starting with an Executive Summary.",
	}, svc.Solve)

	return server
}

// Run serves the tools over stdin/stdout until ctx is done or the client
// disconnects.
func Run(ctx context.Context, newTeam TeamFactory, version string) error {
	return New(newTeam, version).Run(ctx, &mcp.StdioTransport{})
}
