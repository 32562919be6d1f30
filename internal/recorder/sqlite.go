package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the journal to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			email       TEXT NOT NULL,
			total       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_ts ON subscriptions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS tip_batches (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			source      TEXT NOT NULL,
			tip_count   INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS tips (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id    INTEGER NOT NULL REFERENCES tip_batches(id),
			position    INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			tip_type    TEXT,
			confidence  TEXT,
			price       TEXT,
			change_pct  TEXT,
			body        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tips_batch ON tips(batch_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSubscription(evt *SubscriptionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO subscriptions (id, timestamp, email, total) VALUES (?,?,?,?)`,
		evt.ID.String(), evt.At.Unix(), evt.Email, evt.Total,
	)
	return err
}

func (r *SQLiteRecorder) RecordTipBatch(evt *TipBatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO tip_batches (timestamp, source, tip_count) VALUES (?,?,?)`,
		evt.At.Unix(), evt.Source, len(evt.Tips))
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("batch id: %w", err)
	}
	for i, t := range evt.Tips {
		if _, err := tx.Exec(`INSERT INTO tips
			(batch_id, position, symbol, tip_type, confidence, price, change_pct, body)
			VALUES (?,?,?,?,?,?,?,?)`,
			batchID, i, t.Symbol, string(t.Type), string(t.Confidence), t.Price, t.Change, t.Tip,
		); err != nil {
			return fmt.Errorf("insert tip %s: %w", t.Symbol, err)
		}
	}
	return tx.Commit()
}

// Subscriptions returns the journaled subscriptions, oldest first.
func (r *SQLiteRecorder) Subscriptions() ([]SubscriptionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, email, total FROM subscriptions ORDER BY timestamp, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SubscriptionEvent
	for rows.Next() {
		var (
			id  string
			ts  int64
			evt SubscriptionEvent
		)
		if err := rows.Scan(&id, &ts, &evt.Email, &evt.Total); err != nil {
			return nil, err
		}
		if evt.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse id %q: %w", id, err)
		}
		evt.At = time.Unix(ts, 0)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
