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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/memory"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errNoPersistentStore = errors.New(`history commands need a persistent session store: set session.store to "sqlite" or "postgres"`)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or edit the conversation history of a session",
	}
	cmd.AddCommand(
		newHistoryShowCmd(a),
		newHistoryAddCmd(a),
		newHistoryPopCmd(a),
		newHistoryClearCmd(a),
	)
	return cmd
}

// withSession runs fn with the configured persistent session.
func (a *app) withSession(ctx context.Context, fn func(memory.Session) error) (err error) {
	session, closeSession, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if e := closeSession(); e != nil {
			err = errors.Join(err, e)
		}
	}()
	if session == nil {
		return errNoPersistentStore
	}
	return fn(session)
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var (
		limit  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the conversation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s memory.Session) error {
				turns, err := s.GetTurns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printTurns(cmd.OutOrStdout(), turns, format)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the latest N turns")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func printTurns(w io.Writer, turns []memory.Turn, format string) error {
	if turns == nil {
		turns = []memory.Turn{}
	}
	switch format {
	case "text":
		for _, t := range turns {
			if _, err := fmt.Fprintf(w, "%s: %s\n", t.Role, t.Content); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(turns)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(turns); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown history format %q", format)
	}
}

func newHistoryAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <role> <content>...",
		Short: "Append a turn to the conversation history",
		Long:  `Append a turn to the conversation history. The role is "human" or "assistant".`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := memory.ParseRole(args[0])
			if err != nil {
				return err
			}
			turn := memory.Turn{Role: role, Content: strings.Join(args[1:], " ")}
			return a.withSession(cmd.Context(), func(s memory.Session) error {
				return s.AddTurns(cmd.Context(), []memory.Turn{turn})
			})
		},
	}
}

func newHistoryPopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pop",
		Short: "Remove the most recent turn and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s memory.Session) error {
				turn, err := s.PopTurn(cmd.Context())
				if err != nil || turn == nil {
					return err
				}
				return printTurns(cmd.OutOrStdout(), []memory.Turn{*turn}, "text")
			})
		},
	}
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every turn of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s memory.Session) error {
				return s.ClearSession(cmd.Context())
			})
		},
	}
}
