// Package store persists personas, user interactions, and command history
// in SQLite. The persona engine consumes it through the persona.Repository
// interface and degrades gracefully when it fails.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/maestrohq/maestro/pkg/command"
	"github.com/maestrohq/maestro/pkg/persona"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath. Use ":memory:"
// for an ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS personas (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			confidence_threshold REAL NOT NULL DEFAULT 0,
			verbosity TEXT,
			language TEXT,
			tone TEXT,
			expertise JSON,
			triggers JSON
		);`,
		`CREATE TABLE IF NOT EXISTS interactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			persona_id TEXT NOT NULL,
			success INTEGER NOT NULL,
			satisfaction INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS command_history (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			raw TEXT NOT NULL,
			success INTEGER NOT NULL,
			output TEXT,
			duration_ms INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_history_session ON command_history(session_id);`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// SavePersona inserts or replaces a persona.
func (s *Store) SavePersona(ctx context.Context, p *persona.Persona) error {
	expertise, err := json.Marshal(p.Expertise)
	if err != nil {
		return fmt.Errorf("marshal expertise: %w", err)
	}
	triggers, err := json.Marshal(p.ActivationTriggers)
	if err != nil {
		return fmt.Errorf("marshal triggers: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO personas
		 (id, name, type, active, confidence_threshold, verbosity, language, tone, expertise, triggers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Type, boolToInt(p.Settings.Active), p.Settings.ConfidenceThreshold,
		string(p.Style.Verbosity), p.Style.Language, p.Style.Tone,
		string(expertise), string(triggers))
	return err
}

// FindAllActive returns every active persona, ordered by id for stable
// fallback behavior.
func (s *Store) FindAllActive(ctx context.Context) ([]*persona.Persona, error) {
	return s.queryPersonas(ctx, `SELECT id, name, type, active, confidence_threshold,
		verbosity, language, tone, expertise, triggers
		FROM personas WHERE active = 1 ORDER BY id`)
}

// FindByTechnology returns personas with an expertise area covering tech.
// Expertise lives in a JSON column, so filtering happens in memory; persona
// pools are small.
func (s *Store) FindByTechnology(ctx context.Context, tech string) ([]*persona.Persona, error) {
	all, err := s.queryPersonas(ctx, `SELECT id, name, type, active, confidence_threshold,
		verbosity, language, tone, expertise, triggers
		FROM personas WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	var out []*persona.Persona
	for _, p := range all {
		if personaKnows(p, tech) {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindByID looks a persona up by id; sql.ErrNoRows surfaces as an error.
func (s *Store) FindByID(ctx context.Context, id string) (*persona.Persona, error) {
	rows, err := s.queryPersonas(ctx, `SELECT id, name, type, active, confidence_threshold,
		verbosity, language, tone, expertise, triggers
		FROM personas WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return rows[0], nil
}

// RecordInteraction stores one user/persona exchange for future
// past-performance scoring. Satisfaction is clamped to 1..5.
func (s *Store) RecordInteraction(ctx context.Context, userID, personaID string, success bool, satisfaction int) error {
	if satisfaction < 1 {
		satisfaction = 1
	}
	if satisfaction > 5 {
		satisfaction = 5
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, persona_id, success, satisfaction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, personaID, boolToInt(success), satisfaction, time.Now().UTC())
	return err
}

// UserHistory returns a user's interactions, newest first.
func (s *Store) UserHistory(ctx context.Context, userID string) ([]persona.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, persona_id, success, satisfaction, created_at
		 FROM interactions WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []persona.Interaction
	for rows.Next() {
		var rec persona.Interaction
		var success int
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PersonaID, &success, &rec.Satisfaction, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// HistoryEntry is one finished dispatch as recorded for a session.
type HistoryEntry struct {
	ID        string
	SessionID string
	Name      string
	Raw       string
	Success   bool
	Output    string
	Duration  time.Duration
	CreatedAt time.Time
}

// RecordCommand persists a finished dispatch. It satisfies
// router.HistoryRecorder.
func (s *Store) RecordCommand(ctx context.Context, cmd *command.Command, result *command.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_history (id, session_id, name, raw, success, output, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cmd.ID, cmd.SessionID, cmd.Name, cmd.Raw, boolToInt(result.Success),
		result.Output, result.Performance.Duration.Milliseconds(), time.Now().UTC())
	return err
}

// CommandHistory returns a session's dispatches, newest first.
func (s *Store) CommandHistory(ctx context.Context, sessionID string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, name, raw, success, output, duration_ms, created_at
		 FROM command_history WHERE session_id = ? ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var success int
		var durationMs int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &e.Raw, &success, &e.Output, &durationMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Success = success != 0
		e.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) queryPersonas(ctx context.Context, query string, args ...any) ([]*persona.Persona, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*persona.Persona
	for rows.Next() {
		var p persona.Persona
		var active int
		var verbosity string
		var expertise, triggers []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &active, &p.Settings.ConfidenceThreshold,
			&verbosity, &p.Style.Language, &p.Style.Tone, &expertise, &triggers); err != nil {
			return nil, err
		}
		p.Settings.Active = active != 0
		p.Style.Verbosity = persona.Verbosity(verbosity)
		if len(expertise) > 0 {
			if err := json.Unmarshal(expertise, &p.Expertise); err != nil {
				return nil, fmt.Errorf("unmarshal expertise for %s: %w", p.ID, err)
			}
		}
		if len(triggers) > 0 {
			if err := json.Unmarshal(triggers, &p.ActivationTriggers); err != nil {
				return nil, fmt.Errorf("unmarshal triggers for %s: %w", p.ID, err)
			}
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func personaKnows(p *persona.Persona, tech string) bool {
	for _, area := range p.Expertise {
		for _, t := range area.Technologies {
			if strings.EqualFold(t, tech) {
				return true
			}
		}
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
