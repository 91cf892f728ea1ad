package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	sql     string
}

// migrations must stay ordered by version, starting at 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id          BIGINT PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	email       TEXT NOT NULL,
	first_name  TEXT,
	last_name   TEXT,
	avatar_url  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS teams (
	id         BIGINT PRIMARY KEY,
	name       TEXT NOT NULL,
	member_ids BIGINT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS messages (
	id                     BIGINT PRIMARY KEY,
	team_id                BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
	author_id              BIGINT NOT NULL,
	author_name            TEXT NOT NULL,
	content                TEXT NOT NULL DEFAULT '',
	message_type           TEXT NOT NULL,
	recipient_id           BIGINT,
	recipient_name         TEXT,
	attachment             JSONB,
	is_task                BOOLEAN NOT NULL DEFAULT FALSE,
	task_status            TEXT,
	task_assignee_id       BIGINT,
	task_assignee_name     TEXT,
	task_due_date          TIMESTAMPTZ,
	task_created_by        BIGINT,
	task_responded_by      BIGINT,
	task_responded_by_name TEXT,
	task_responded_at      TIMESTAMPTZ,
	reactions              JSONB NOT NULL DEFAULT '[]',
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tasks (
	id                BIGINT PRIMARY KEY,
	team_id           BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'todo',
	priority          TEXT NOT NULL DEFAULT 'medium',
	assignee_id       BIGINT NOT NULL,
	assignee_name     TEXT NOT NULL,
	created_by        BIGINT NOT NULL,
	due_date          TIMESTAMPTZ,
	original_message  TEXT,
	source_message_id BIGINT UNIQUE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS email_logs (
	id         BIGINT PRIMARY KEY,
	type       TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	subject    TEXT NOT NULL,
	status     TEXT NOT NULL,
	sent_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	message_id BIGINT,
	task_id    BIGINT,
	team_id    BIGINT,
	error      TEXT
);

CREATE INDEX IF NOT EXISTS idx_messages_team_created ON messages(team_id, created_at);
CREATE INDEX IF NOT EXISTS idx_tasks_team ON tasks(team_id);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee_due ON tasks(assignee_id, due_date);
CREATE INDEX IF NOT EXISTS idx_teams_members ON teams USING GIN (member_ids);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE messages ADD COLUMN IF NOT EXISTS task_id BIGINT;

UPDATE messages m SET task_id = t.id
FROM tasks t
WHERE t.source_message_id = m.id AND m.task_id IS NULL;

CREATE INDEX IF NOT EXISTS idx_messages_accepted_pending
	ON messages(id) WHERE is_task AND task_status = 'accepted' AND task_id IS NULL;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// Migrate applies every migration newer than the recorded schema version.
// It returns the number of migrations applied.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	current := 0

	var exists bool
	if err := db.QueryRowContext(ctx,
		`SELECT to_regclass('schema_version') IS NOT NULL`).Scan(&exists); err != nil {
		return 0, fmt.Errorf("checking schema_version table: %w", err)
	}
	if exists {
		if err := db.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
			return 0, fmt.Errorf("reading schema version: %w", err)
		}
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return applied, fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		applied++
	}
	return applied, nil
}
