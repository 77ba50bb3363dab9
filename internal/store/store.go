// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/inkbound/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for encounter history, ink and standings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS encounters (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			zone INTEGER NOT NULL,
			enemy TEXT NOT NULL,
			boss INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			turns INTEGER NOT NULL,
			words_completed INTEGER NOT NULL,
			words_clean INTEGER NOT NULL,
			words_failed INTEGER NOT NULL,
			max_combo INTEGER NOT NULL,
			damage_dealt INTEGER NOT NULL,
			damage_taken INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			typing_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS encounter_char_stats (
			encounter_id TEXT NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (encounter_id, char)
		);`,
		`CREATE TABLE IF NOT EXISTS ink_ledger (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			reason TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS faction_standings (
			faction TEXT PRIMARY KEY,
			standing INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_encounters_ended_at ON encounters(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_encounter_char_stats_char ON encounter_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertEncounter stores a finished encounter and its per-character stats.
func (s *Store) InsertEncounter(ctx context.Context, rec model.EncounterRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	boss := 0
	if rec.Boss {
		boss = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO encounters (id, run_id, started_at, ended_at, zone, enemy, boss, outcome, turns,
			words_completed, words_clean, words_failed, max_combo, damage_dealt, damage_taken, correct, incorrect, typing_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.RunID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Zone,
		rec.Enemy,
		boss,
		rec.Outcome,
		rec.Turns,
		rec.WordsCompleted,
		rec.WordsClean,
		rec.WordsFailed,
		rec.MaxCombo,
		rec.DamageDealt,
		rec.DamageTaken,
		rec.Correct,
		rec.Incorrect,
		rec.TypingMs,
	)
	if err != nil {
		return err
	}

	if len(rec.Chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO encounter_char_stats (encounter_id, char, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range rec.Chars {
			if _, err = stmt.ExecContext(ctx, rec.ID, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetWeakChars aggregates character stats over the most recent encounters.
func (s *Store) GetWeakChars(ctx context.Context, window int) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT id FROM encounters
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.correct) AS correct, SUM(cs.incorrect) AS incorrect,
		SUM(cs.latency_sum_ms) AS latency_sum_ms, SUM(cs.latency_count) AS latency_count
	FROM encounter_char_stats cs
	JOIN recent r ON r.id = cs.encounter_id
	GROUP BY cs.char`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	return scanCharAggregates(rows)
}

// ListEncounters returns encounter aggregates, oldest first.
func (s *Store) ListEncounters(ctx context.Context, cfg model.HistoryConfig) ([]model.EncounterAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, enemy, outcome, correct, incorrect, typing_ms, max_combo, damage_dealt
		FROM encounters
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.EncounterAggregate
	for rows.Next() {
		var agg model.EncounterAggregate
		var endedAt string
		if err := rows.Scan(&agg.ID, &endedAt, &agg.Enemy, &agg.Outcome, &agg.Correct, &agg.Incorrect, &agg.TypingMs, &agg.MaxCombo, &agg.DamageDealt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		out = append(out, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out, nil
}

// ListCharAggregates aggregates per-character stats across encounters.
func (s *Store) ListCharAggregates(ctx context.Context, encounterIDs []string) ([]model.CharAggregate, error) {
	if len(encounterIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(encounterIDs))
	args := make([]any, len(encounterIDs))
	for i, id := range encounterIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect,
		SUM(latency_sum_ms) AS latency_sum_ms, SUM(latency_count) AS latency_count
		FROM encounter_char_stats
		WHERE encounter_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	return scanCharAggregates(rows)
}

func scanCharAggregates(rows *sql.Rows) ([]model.CharAggregate, error) {
	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AddInk appends a ledger entry.
func (s *Store) AddInk(ctx context.Context, e model.InkEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ink_ledger (run_id, amount, reason, created_at) VALUES (?, ?, ?, ?)`,
		e.RunID, e.Amount, e.Reason, e.At.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert ink entry: %w", err)
	}
	return nil
}

// InkBalance sums the ledger.
func (s *Store) InkBalance(ctx context.Context) (int, error) {
	var total sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT SUM(amount) FROM ink_ledger`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum ink ledger: %w", err)
	}
	return int(total.Int64), nil
}

// SaveStandings replaces the stored faction standings.
func (s *Store) SaveStandings(ctx context.Context, standings map[string]int) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for faction, standing := range standings {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO faction_standings (faction, standing) VALUES (?, ?)
			 ON CONFLICT(faction) DO UPDATE SET standing = excluded.standing`, faction, standing); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadStandings returns the stored faction standings.
func (s *Store) LoadStandings(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT faction, standing FROM faction_standings`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	out := map[string]int{}
	for rows.Next() {
		var faction string
		var standing int
		if err := rows.Scan(&faction, &standing); err != nil {
			return nil, err
		}
		out[faction] = standing
	}
	return out, rows.Err()
}
