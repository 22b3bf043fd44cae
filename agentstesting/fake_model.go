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
	"context"
	"errors"
	"sync"

	"github.com/berkePagnikli/Planner-AI-Agent-Team/agents"
	"github.com/berkePagnikli/Planner-AI-Agent-Team/usage"
)

// ErrNoMoreOutputs is returned by FakeModel when its queue is empty.
var ErrNoMoreOutputs = errors.New("fake model: no more outputs")

// FakeModel replays queued outputs, one per call, and records every request.
type FakeModel struct {
	mu             sync.Mutex
	TurnOutputs    []FakeModelTurnOutput
	Requests       []agents.ModelRequest
	HardcodedUsage *usage.Usage
}

type FakeModelTurnOutput struct {
	Text  string
	Error error
}

func NewFakeModel(outputs ...FakeModelTurnOutput) *FakeModel {
	return &FakeModel{TurnOutputs: outputs}
}

func (m *FakeModel) SetHardcodedUsage(u usage.Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HardcodedUsage = &u
}

func (m *FakeModel) SetNextOutput(output FakeModelTurnOutput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TurnOutputs = append(m.TurnOutputs, output)
}

func (m *FakeModel) AddMultipleTurnOutputs(outputs []FakeModelTurnOutput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TurnOutputs = append(m.TurnOutputs, outputs...)
}

// Calls returns the requests received so far.
func (m *FakeModel) Calls() []agents.ModelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]agents.ModelRequest(nil), m.Requests...)
}

// LastRequest returns the most recent request, or the zero value.
func (m *FakeModel) LastRequest() agents.ModelRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return agents.ModelRequest{}
	}
	return m.Requests[len(m.Requests)-1]
}

func (m *FakeModel) GetResponse(ctx context.Context, req agents.ModelRequest) (*agents.ModelResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.Messages = append([]agents.ConversationTurn(nil), req.Messages...)
	m.Requests = append(m.Requests, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.TurnOutputs) == 0 {
		return nil, ErrNoMoreOutputs
	}
	output := m.TurnOutputs[0]
	m.TurnOutputs = m.TurnOutputs[1:]
	if output.Error != nil {
		return nil, output.Error
	}

	u := &usage.Usage{Requests: 1}
	if m.HardcodedUsage != nil {
		hu := *m.HardcodedUsage
		u = &hu
	}
	return &agents.ModelResponse{
		Text:       output.Text,
		Usage:      u,
		ResponseID: "fake-response",
	}, nil
}

// FakeModelProvider returns the same model for every name.
type FakeModelProvider struct {
	Model agents.Model
	Names []string
}

func (p *FakeModelProvider) GetModel(name string) (agents.Model, error) {
	p.Names = append(p.Names, name)
	return p.Model, nil
}
