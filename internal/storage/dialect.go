package storage

import (
	"strconv"
	"strings"
	"time"
)

// dialect papers over the differences between the two supported databases.
type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// isPostgresDSN reports whether a --db value names a PostgreSQL server
// rather than a SQLite file.
func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// driver returns the database/sql driver name.
func (d dialect) driver() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (d dialect) schema() string {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	ts := "DATETIME DEFAULT CURRENT_TIMESTAMP"
	if d == dialectPostgres {
		id = "BIGSERIAL PRIMARY KEY"
		ts = "TIMESTAMPTZ DEFAULT NOW()"
	}
	r := strings.NewReplacer("{{id}}", id, "{{ts}}", ts)
	return r.Replace(`
		CREATE TABLE IF NOT EXISTS scores (
			id {{id}},
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL DEFAULT '',
			created_at {{ts}}
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS coop_runs (
			id {{id}},
			room_code TEXT NOT NULL,
			game_id TEXT NOT NULL,
			role TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at {{ts}}
		);
		CREATE INDEX IF NOT EXISTS idx_coop_runs_room ON coop_runs(room_code);

		CREATE TABLE IF NOT EXISTS relay_rooms (
			id {{id}},
			room_code TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at {{ts}}
		);
		CREATE INDEX IF NOT EXISTS idx_relay_rooms_code ON relay_rooms(room_code);
	`)
}

// parseTime normalizes a scanned timestamp; SQLite may hand back a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
