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
	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/config"
	"github.com/spf13/cobra"
)

type app struct {
	configFile string
	logLevel   string
	sessionID  string

	cfg *config.Config

	// Replace the configured backends, mainly for tests.
	modelProvider  agents.ModelProvider
	searchProvider agents.SearchProvider
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "agentteam",
		Short: "Plan, research and answer a problem with a team of LLM agents",
		Long: `agentteam runs three agents in sequence. A planner breaks the problem
down and lists research questions, a researcher answers them from web search
results, and a recommender writes a markdown implementation report.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.load() },
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default is "+config.ConfigFile()+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.sessionID, "session", "", "conversation session ID (overrides session.id)")

	root.AddCommand(newSolveCmd(a), newHistoryCmd(a), newMCPCmd(a))
	return root
}

// load reads the configuration and installs the logger.
func (a *app) load() error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		v.Set("logging.level", a.logLevel)
	}
	if a.sessionID != "" {
		v.Set("session.id", a.sessionID)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := agents.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	agents.SetLogger(logger)
	return nil
}
