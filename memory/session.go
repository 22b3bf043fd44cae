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
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// ParseRole converts a role name into a Role. "user" and "ai" are accepted
// as aliases of human and assistant.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "user":
		return RoleHuman, nil
	case "assistant", "ai":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("unknown conversation role %q", s)
	}
}

// Turn is one message of a conversation.
type Turn struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Validate reports whether the turn can be stored.
func (t Turn) Validate() error {
	if t.Role != RoleHuman && t.Role != RoleAssistant {
		return fmt.Errorf("invalid conversation role %q", t.Role)
	}
	return nil
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// A Session stores the conversation history of one agent team, so that a
// team can be rebuilt across process restarts with the same context.
type Session interface {
	SessionID(context.Context) string

	// GetTurns retrieves the conversation history for this session.
	//
	// `limit` is the maximum number of turns to retrieve. If <= 0, retrieves all turns.
	// When specified, returns the latest N turns in chronological order.
	GetTurns(ctx context.Context, limit int) ([]Turn, error)

	// AddTurns appends new turns to the conversation history.
	AddTurns(ctx context.Context, turns []Turn) error

	// PopTurn removes and returns the most recent turn from the session.
	// It returns nil if the session is empty.
	PopTurn(context.Context) (*Turn, error)

	// ClearSession clears all turns for this session.
	ClearSession(context.Context) error
}

func validateTurns(turns []Turn) error {
	for i, t := range turns {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("turn %d: %w", i, err)
		}
	}
	return nil
}
