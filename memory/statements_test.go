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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatements(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		s, err := newStatements(sqliteDialect, "sessions", "turns")
		require.NoError(t, err)

		assert.Equal(t, `SELECT role, content FROM "turns" WHERE session_id = ? ORDER BY id DESC LIMIT ?`, s.selectLatest)
		assert.Equal(t, `INSERT OR IGNORE INTO "sessions" (session_id) VALUES (?)`, s.ensureSession)
		assert.Equal(t, `UPDATE "sessions" SET updated_at = CURRENT_TIMESTAMP WHERE session_id = ?`, s.touchSession)
		require.Len(t, s.schema, 3)
		assert.Contains(t, s.schema[1].sql, "id INTEGER PRIMARY KEY AUTOINCREMENT")
		assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_turns_session_id" ON "turns" (session_id, id)`, s.schema[2].sql)
	})

	t.Run("postgres", func(t *testing.T) {
		s, err := newStatements(postgresDialect, "sessions", "turns")
		require.NoError(t, err)

		assert.Equal(t, `INSERT INTO "turns" (session_id, role, content) VALUES ($1, $2, $3)`, s.insertTurn)
		assert.Equal(t, `INSERT INTO "sessions" (session_id) VALUES ($1) ON CONFLICT (session_id) DO NOTHING`, s.ensureSession)
		assert.Contains(t, s.popTurn, "WHERE session_id = $1 ORDER BY id DESC LIMIT 1")
		assert.Contains(t, s.schema[1].sql, "id BIGSERIAL PRIMARY KEY")
		assert.Contains(t, s.schema[0].sql, "DEFAULT NOW()")
	})

	t.Run("table names are identifiers", func(t *testing.T) {
		for _, name := range []string{"", "1turns", `tu"rns`, "turns;", "a b"} {
			_, err := newStatements(sqliteDialect, "sessions", name)
			assert.ErrorContains(t, err, "invalid table name", name)
		}
	})
}

type fakeRows struct {
	turns []Turn
	pos   int
	err   error
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.turns)
}

func (r *fakeRows) Scan(dest ...any) error {
	t := r.turns[r.pos-1]
	*dest[0].(*string) = string(t.Role)
	*dest[1].(*string) = t.Content
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func TestScanTurns(t *testing.T) {
	turns := testTurns()

	got, err := scanTurns(&fakeRows{turns: turns}, false)
	require.NoError(t, err)
	assert.Equal(t, turns, got)

	got, err = scanTurns(&fakeRows{turns: []Turn{turns[2], turns[1]}}, true)
	require.NoError(t, err)
	assert.Equal(t, turns[1:], got)

	got, err = scanTurns(&fakeRows{}, false)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = scanTurns(&fakeRows{err: assert.AnError}, false)
	assert.ErrorIs(t, err, assert.AnError)
}
