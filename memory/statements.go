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
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// dialect captures the SQL differences between the supported databases.
type dialect struct {
	autoID       string
	now          string
	insertIgnore string // table, placeholder
	placeholder  func(n int) string
}

var (
	sqliteDialect = dialect{
		autoID:       "INTEGER PRIMARY KEY AUTOINCREMENT",
		now:          "CURRENT_TIMESTAMP",
		insertIgnore: `INSERT OR IGNORE INTO %s (session_id) VALUES (%s)`,
		placeholder:  func(int) string { return "?" },
	}
	postgresDialect = dialect{
		autoID:       "BIGSERIAL PRIMARY KEY",
		now:          "NOW()",
		insertIgnore: `INSERT INTO %s (session_id) VALUES (%s) ON CONFLICT (session_id) DO NOTHING`,
		placeholder:  func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// statements is the SQL a session store runs, rendered for one dialect and
// one pair of table names.
type statements struct {
	schema []schemaStep

	selectAll     string
	selectLatest  string
	ensureSession string
	insertTurn    string
	touchSession  string
	popTurn       string
	deleteTurns   string
	deleteSession string
}

type schemaStep struct {
	what string
	sql  string
}

func newStatements(d dialect, sessionTable, turnsTable string) (*statements, error) {
	for _, name := range []string{sessionTable, turnsTable} {
		if !identifierRe.MatchString(name) {
			return nil, fmt.Errorf("invalid table name %q", name)
		}
	}
	st, tt := strconv.Quote(sessionTable), strconv.Quote(turnsTable)
	p := d.placeholder

	return &statements{
		schema: []schemaStep{
			{"session table", fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	session_id TEXT PRIMARY KEY,
	created_at TIMESTAMP DEFAULT %s,
	updated_at TIMESTAMP DEFAULT %s
)`, st, d.now, d.now)},
			{"turns table", fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id %s,
	session_id TEXT NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT %s,
	FOREIGN KEY (session_id) REFERENCES %s (session_id) ON DELETE CASCADE
)`, tt, d.autoID, d.now, st)},
			{"index", fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (session_id, id)`,
				strconv.Quote("idx_"+turnsTable+"_session_id"), tt)},
		},

		selectAll: fmt.Sprintf(`SELECT role, content FROM %s WHERE session_id = %s ORDER BY id ASC`,
			tt, p(1)),
		selectLatest: fmt.Sprintf(`SELECT role, content FROM %s WHERE session_id = %s ORDER BY id DESC LIMIT %s`,
			tt, p(1), p(2)),
		ensureSession: fmt.Sprintf(d.insertIgnore, st, p(1)),
		insertTurn: fmt.Sprintf(`INSERT INTO %s (session_id, role, content) VALUES (%s, %s, %s)`,
			tt, p(1), p(2), p(3)),
		touchSession: fmt.Sprintf(`UPDATE %s SET updated_at = %s WHERE session_id = %s`,
			st, d.now, p(1)),
		popTurn: fmt.Sprintf(`DELETE FROM %s WHERE id = (
	SELECT id FROM %s WHERE session_id = %s ORDER BY id DESC LIMIT 1
) RETURNING role, content`, tt, tt, p(1)),
		deleteTurns:   fmt.Sprintf(`DELETE FROM %s WHERE session_id = %s`, tt, p(1)),
		deleteSession: fmt.Sprintf(`DELETE FROM %s WHERE session_id = %s`, st, p(1)),
	}, nil
}

// rowScanner is satisfied by *sql.Rows and pgx.Rows.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanTurns reads (role, content) rows. Rows selected newest first, as
// with a limit, are put back in chronological order.
func scanTurns(rows rowScanner, newestFirst bool) ([]Turn, error) {
	var turns []Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("error scanning turn: %w", err)
		}
		turns = append(turns, Turn{Role: Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading turns: %w", err)
	}
	if newestFirst {
		slices.Reverse(turns)
	}
	return turns, nil
}
