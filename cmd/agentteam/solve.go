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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/spf13/cobra"
)

func newSolveCmd(a *app) *cobra.Command {
	var (
		format   string
		quiet    bool
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "solve [query]",
		Short: "Plan, research and recommend a solution for a problem",
		Long: `Run the planner, researcher and recommender on a problem and print the
recommender's report. The query is read from standard input when no argument
is given.`,
		Example: `  agentteam solve "how do I increase efficiency in my work from home environment?"
  echo "how do I reduce cloud costs?" | agentteam solve --format json`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()

			query := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read query: %w", err)
				}
				query = string(b)
			}
			query = strings.TrimSpace(query)
			if query == "" {
				return errors.New("a query is required")
			}

			if format == "" {
				format = a.cfg.Output.Format
			}

			session, closeSession, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if e := closeSession(); e != nil {
					err = errors.Join(err, e)
				}
			}()

			hooks := agents.MultiRunHooks{agents.LoggingRunHooks{}}
			if !quiet {
				hooks = append(hooks, agents.NewProgressRunHooks(cmd.ErrOrStderr()))
			}

			team, err := a.newTeam(ctx, session, hooks)
			if err != nil {
				return err
			}
			res, err := team.Run(ctx, query)
			if err != nil {
				return err
			}

			if remember {
				if err = team.AddToHistory(ctx, agents.RoleHuman, query); err != nil {
					return err
				}
				if err = team.AddToHistory(ctx, agents.RoleAssistant, res.Recommendation); err != nil {
					return err
				}
			}

			return render(cmd.OutOrStdout(), res, format, a.cfg.Output.WordWrap)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: markdown, raw, json or yaml (default from output.format)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress to stderr")
	cmd.Flags().BoolVar(&remember, "remember", false, "append the query and the report to the conversation history")
	return cmd
}
