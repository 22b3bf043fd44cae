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

package memory

import (
	"context"
	"slices"
	"sync"
)

// InMemorySession keeps the conversation in process memory.
// It is the default store of a team that was not given a persistent one.
type InMemorySession struct {
	sessionID string
	turns     []Turn
	mu        sync.Mutex
}

func NewInMemorySession(sessionID string) *InMemorySession {
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	return &InMemorySession{sessionID: sessionID}
}

func (s *InMemorySession) SessionID(context.Context) string {
	return s.sessionID
}

func (s *InMemorySession) GetTurns(_ context.Context, limit int) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns
	if limit > 0 && limit < len(turns) {
		turns = turns[len(turns)-limit:]
	}
	return slices.Clone(turns), nil
}

func (s *InMemorySession) AddTurns(_ context.Context, turns []Turn) error {
	if err := validateTurns(turns); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
	return nil
}

func (s *InMemorySession) PopTurn(context.Context) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.turns) == 0 {
		return nil, nil
	}
	last := s.turns[len(s.turns)-1]
	s.turns = s.turns[:len(s.turns)-1]
	return &last, nil
}

func (s *InMemorySession) ClearSession(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	return nil
}
