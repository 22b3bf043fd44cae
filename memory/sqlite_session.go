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
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSession stores the conversation in a SQLite database.
//
// The default database is a shared in-memory one that is lost when the
// process ends. Pass a file path to keep the history across restarts.
type SQLiteSession struct {
	sessionID string
	db        *sql.DB
	sql       *statements
	mu        sync.Mutex
}

type SQLiteSessionParams struct {
	// Defaults to a random UUID.
	SessionID string

	// Database data source name, usually a file path.
	// Defaults to "file::memory:?cache=shared".
	DBDataSourceName string

	// Table names. Default to "team_sessions" and "team_turns".
	SessionTable string
	TurnsTable   string
}

// NewSQLiteSession opens the database and creates the schema if needed.
func NewSQLiteSession(ctx context.Context, params SQLiteSessionParams) (_ *SQLiteSession, err error) {
	stmts, err := newStatements(sqliteDialect,
		cmp.Or(params.SessionTable, "team_sessions"),
		cmp.Or(params.TurnsTable, "team_turns"))
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", cmp.Or(params.DBDataSourceName, "file::memory:?cache=shared"))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite3 database: %w", err)
	}
	s := &SQLiteSession{
		sessionID: cmp.Or(params.SessionID, NewSessionID()),
		db:        db,
		sql:       stmts,
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, s.Close())
		}
	}()

	if _, err = db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	for _, step := range stmts.schema {
		if _, err = db.ExecContext(ctx, step.sql); err != nil {
			return nil, fmt.Errorf("error creating %s: %w", step.what, err)
		}
	}
	return s, nil
}

func (s *SQLiteSession) SessionID(context.Context) string {
	return s.sessionID
}

func (s *SQLiteSession) GetTurns(ctx context.Context, limit int) (_ []Turn, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, s.sql.selectLatest, s.sessionID, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, s.sql.selectAll, s.sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying session turns: %w", err)
	}
	defer func() {
		if e := rows.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()
	return scanTurns(rows, limit > 0)
}

// AddTurns inserts the turns in one transaction.
func (s *SQLiteSession) AddTurns(ctx context.Context, turns []Turn) (err error) {
	if len(turns) == 0 {
		return nil
	}
	if err = validateTurns(turns); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, s.sql.ensureSession, s.sessionID); err != nil {
		return fmt.Errorf("error ensuring session exists: %w", err)
	}
	for _, turn := range turns {
		if _, err = tx.ExecContext(ctx, s.sql.insertTurn, s.sessionID, string(turn.Role), turn.Content); err != nil {
			return fmt.Errorf("error inserting turn: %w", err)
		}
	}
	if _, err = tx.ExecContext(ctx, s.sql.touchSession, s.sessionID); err != nil {
		return fmt.Errorf("error updating session timestamp: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteSession) PopTurn(ctx context.Context) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var role, content string
	err := s.db.QueryRowContext(ctx, s.sql.popTurn, s.sessionID).Scan(&role, &content)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("error popping turn: %w", err)
	}
	return &Turn{Role: Role(role), Content: content}, nil
}

func (s *SQLiteSession) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, s.sql.deleteTurns, s.sessionID); err != nil {
		return fmt.Errorf("error clearing turns: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.sql.deleteSession, s.sessionID); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	return nil
}

func (s *SQLiteSession) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
