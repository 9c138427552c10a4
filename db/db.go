// Package db persists the command catalog in a local sqlite database. The
// importer fills it, the TUI loads it, and usage counters are flushed back
// after each execute.
package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"launchbox/model"
)

type DB struct {
	conn *sql.DB
}

// New opens (and if needed creates) the catalog database at path. An empty
// path defaults to ~/.launchbox/catalog.db.
func New(path string) (*DB, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(home, ".launchbox")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "catalog.db")
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS commands (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			category TEXT DEFAULT '',
			kind TEXT NOT NULL,
			verb TEXT DEFAULT '',
			args TEXT DEFAULT '',
			aliases TEXT DEFAULT '',
			hit_count INTEGER DEFAULT 0,
			last_run_at DATETIME,
			icon_ref TEXT DEFAULT '',
			builtin INTEGER DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_commands_label ON commands(label);
	`)
	return err
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// Save upserts the given commands by id.
func (d *DB) Save(cmds []model.Command) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO commands (id, label, category, kind, verb, args, aliases, hit_count, last_run_at, icon_ref, builtin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			category = excluded.category,
			kind = excluded.kind,
			verb = excluded.verb,
			args = excluded.args,
			aliases = excluded.aliases,
			hit_count = excluded.hit_count,
			last_run_at = excluded.last_run_at,
			icon_ref = excluded.icon_ref,
			builtin = excluded.builtin
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range cmds {
		var lastRun any
		if c.LastRunAt != nil {
			lastRun = *c.LastRunAt
		}
		builtin := 0
		if c.IsBuiltIn {
			builtin = 1
		}
		if _, err := stmt.Exec(
			c.ID, c.Label, c.Category, c.Kind.String(), c.Verb, c.Args,
			strings.Join(c.Aliases, "\n"), c.HitCount, lastRun, c.IconRef, builtin,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load returns the whole catalog ordered by label.
func (d *DB) Load() ([]model.Command, error) {
	rows, err := d.conn.Query(`
		SELECT id, label, category, kind, verb, args, aliases, hit_count, last_run_at, icon_ref, builtin
		FROM commands
		ORDER BY label
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []model.Command
	for rows.Next() {
		var c model.Command
		var kind, aliases string
		var lastRun sql.NullTime
		var builtin int
		if err := rows.Scan(&c.ID, &c.Label, &c.Category, &kind, &c.Verb, &c.Args,
			&aliases, &c.HitCount, &lastRun, &c.IconRef, &builtin); err != nil {
			return nil, err
		}
		c.Kind = model.KindFromString(kind)
		if aliases != "" {
			c.Aliases = strings.Split(aliases, "\n")
		}
		if lastRun.Valid {
			t := lastRun.Time
			c.LastRunAt = &t
		}
		c.IsBuiltIn = builtin != 0
		cmds = append(cmds, c)
	}
	return cmds, rows.Err()
}

// UpdateUsage flushes one command's usage counters.
func (d *DB) UpdateUsage(id string, hitCount int64, lastRunAt *time.Time) error {
	var lastRun any
	if lastRunAt != nil {
		lastRun = *lastRunAt
	}
	_, err := d.conn.Exec(
		`UPDATE commands SET hit_count = ?, last_run_at = ? WHERE id = ?`,
		hitCount, lastRun, id,
	)
	return err
}
