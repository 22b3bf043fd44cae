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
	"io"
	"log/slog"
	"sync"
)

// Stage is the state of a team's pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StagePlanning
	StageResearching
	StageRecommending
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StagePlanning:
		return "planning"
	case StageResearching:
		return "researching"
	case StageRecommending:
		return "recommending"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// RunHooks is implemented by an object that receives callbacks on the
// lifecycle events of a team run. Hooks only observe: they cannot alter
// or abort the run.
type RunHooks interface {
	// OnStageStart is called when the pipeline enters a working stage.
	OnStageStart(ctx context.Context, stage Stage)

	// OnStageEnd is called with the output a stage produced.
	OnStageEnd(ctx context.Context, stage Stage, output any)

	// OnStageFailed is called once when a run aborts in the given stage.
	OnStageFailed(ctx context.Context, stage Stage, err error)

	// OnSearchStart is called before each web search. Index is zero-based.
	OnSearchStart(ctx context.Context, index, total int, question string)

	// OnSearchEnd is called after each successful web search.
	OnSearchEnd(ctx context.Context, index, total int, question, result string)
}

type NoOpRunHooks struct{}

func (NoOpRunHooks) OnStageStart(context.Context, Stage)                   {}
func (NoOpRunHooks) OnStageEnd(context.Context, Stage, any)                {}
func (NoOpRunHooks) OnStageFailed(context.Context, Stage, error)           {}
func (NoOpRunHooks) OnSearchStart(context.Context, int, int, string)       {}
func (NoOpRunHooks) OnSearchEnd(context.Context, int, int, string, string) {}

// LoggingRunHooks reports lifecycle events as structured log records.
// A nil Logger means the package Logger.
type LoggingRunHooks struct {
	Logger *slog.Logger
}

func (h LoggingRunHooks) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return Logger()
}

func (h LoggingRunHooks) OnStageStart(ctx context.Context, stage Stage) {
	h.logger().InfoContext(ctx, "Stage started", slog.String("stage", stage.String()))
}

func (h LoggingRunHooks) OnStageEnd(ctx context.Context, stage Stage, _ any) {
	h.logger().InfoContext(ctx, "Stage completed", slog.String("stage", stage.String()))
}

func (h LoggingRunHooks) OnStageFailed(ctx context.Context, stage Stage, err error) {
	h.logger().ErrorContext(ctx, "Stage failed", slog.String("stage", stage.String()), slog.String("error", err.Error()))
}

func (h LoggingRunHooks) OnSearchStart(ctx context.Context, index, total int, question string) {
	h.logger().InfoContext(ctx, "Searching",
		slog.Int("index", index+1), slog.Int("total", total), slog.String("question", question))
}

func (h LoggingRunHooks) OnSearchEnd(ctx context.Context, index, total int, _, result string) {
	attrs := []any{slog.Int("index", index+1), slog.Int("total", total)}
	if !DontLogSearchData {
		attrs = append(attrs, slog.String("result", result))
	}
	h.logger().DebugContext(ctx, "Search completed", attrs...)
}

// ProgressRunHooks writes one human-readable line per event to W.
type ProgressRunHooks struct {
	W  io.Writer
	mu sync.Mutex
}

func NewProgressRunHooks(w io.Writer) *ProgressRunHooks {
	return &ProgressRunHooks{W: w}
}

func (h *ProgressRunHooks) printf(format string, a ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = fmt.Fprintf(h.W, format+"\n", a...)
}

func (h *ProgressRunHooks) OnStageStart(_ context.Context, stage Stage) {
	switch stage {
	case StagePlanning:
		h.printf("Planning the solution...")
	case StageResearching:
		h.printf("Researching the questions...")
	case StageRecommending:
		h.printf("Writing the recommendation...")
	}
}

func (h *ProgressRunHooks) OnStageEnd(_ context.Context, stage Stage, output any) {
	if plan, ok := output.(*PlanResult); ok && stage == StagePlanning {
		h.printf("Plan ready with %d research questions.", len(plan.ResearchQuestions))
	}
}

func (h *ProgressRunHooks) OnStageFailed(_ context.Context, stage Stage, err error) {
	h.printf("Failed while %s: %v", stage, err)
}

func (h *ProgressRunHooks) OnSearchStart(_ context.Context, index, total int, question string) {
	h.printf("  [%d/%d] %s", index+1, total, question)
}

func (h *ProgressRunHooks) OnSearchEnd(context.Context, int, int, string, string) {}

// MultiRunHooks fans every event out to each of its members in order.
type MultiRunHooks []RunHooks

func (m MultiRunHooks) OnStageStart(ctx context.Context, stage Stage) {
	for _, h := range m {
		h.OnStageStart(ctx, stage)
	}
}

func (m MultiRunHooks) OnStageEnd(ctx context.Context, stage Stage, output any) {
	for _, h := range m {
		h.OnStageEnd(ctx, stage, output)
	}
}

func (m MultiRunHooks) OnStageFailed(ctx context.Context, stage Stage, err error) {
	for _, h := range m {
		h.OnStageFailed(ctx, stage, err)
	}
}

func (m MultiRunHooks) OnSearchStart(ctx context.Context, index, total int, question string) {
	for _, h := range m {
		h.OnSearchStart(ctx, index, total, question)
	}
}

func (m MultiRunHooks) OnSearchEnd(ctx context.Context, index, total int, question, result string) {
	for _, h := range m {
		h.OnSearchEnd(ctx, index, total, question, result)
	}
}
