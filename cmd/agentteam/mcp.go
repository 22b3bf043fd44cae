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

package main

import (
	"context"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the solve tool over MCP on stdin/stdout",
		Long: `Serve the agent team as a Model Context Protocol server on stdin/stdout.
Every tool call gets a fresh team. Conversation history is passed in the
call instead of being read from the session store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context(), a.mcpTeamFactory(), version)
		},
	}
}

func (a *app) mcpTeamFactory() mcpserver.TeamFactory {
	return func(ctx context.Context) (*agents.Team, error) {
		return a.newTeam(ctx, nil, agents.LoggingRunHooks{})
	}
}
