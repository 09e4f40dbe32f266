// Package store is the SQLite persistence adapter for the tracker state and
// the gating provenance log. The core trackers run fully in memory; callers
// that want durability plug this in and restore histories on startup.
package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/psycore/internal/alliance"
	"github.com/danielpatrickdp/psycore/internal/attachment"
	"github.com/danielpatrickdp/psycore/internal/gating"
	"github.com/danielpatrickdp/psycore/internal/growth"
	"github.com/danielpatrickdp/psycore/internal/metapattern"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id     TEXT PRIMARY KEY,
	first_seen  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS alliance_measurements (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	payload      TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alliance_user ON alliance_measurements(user_id, created_at);

CREATE TABLE IF NOT EXISTS attachment_assessments (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	payload      TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attachment_user ON attachment_assessments(user_id, created_at);

CREATE TABLE IF NOT EXISTS growth_areas (
	user_id      TEXT NOT NULL,
	area_id      TEXT NOT NULL,
	payload      TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (user_id, area_id)
);

CREATE TABLE IF NOT EXISTS meta_patterns (
	user_id      TEXT NOT NULL,
	pattern_id   TEXT NOT NULL,
	payload      TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (user_id, pattern_id)
);

CREATE TABLE IF NOT EXISTS gating_log (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	tier         TEXT NOT NULL,
	allowed      INTEGER NOT NULL,
	reason       TEXT,
	alternative  TEXT,
	alliance     REAL NOT NULL,
	days         INTEGER NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_gating_user ON gating_log(user_id, created_at);
`

// #endregion

// #region store

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and runs the
// schema migration.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion

// #region users

// EnsureUser records the user's first-seen time if absent and returns it.
func (s *Store) EnsureUser(userID string, now time.Time) (time.Time, error) {
	var seen string
	err := s.db.QueryRow(`SELECT first_seen FROM users WHERE user_id = ?`, userID).Scan(&seen)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`INSERT INTO users (user_id, first_seen) VALUES (?, ?)`,
			userID, now.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return time.Time{}, fmt.Errorf("insert user: %w", err)
		}
		return now.UTC(), nil
	case err != nil:
		return time.Time{}, fmt.Errorf("query user: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, seen)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse first_seen: %w", err)
	}
	return t, nil
}

// #endregion

// #region alliance

// SaveAllianceMeasurement appends one measurement row for the user.
func (s *Store) SaveAllianceMeasurement(userID string, m alliance.Measurement) error {
	return s.insertPayload(`INSERT INTO alliance_measurements (id, user_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		userID, m, m.Timestamp)
}

// LoadAllianceHistory returns up to limit most recent measurements for the
// user, oldest first.
func (s *Store) LoadAllianceHistory(userID string, limit int) ([]alliance.Measurement, error) {
	rows, err := s.queryPayloads(`alliance_measurements`, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]alliance.Measurement, 0, len(rows))
	for _, raw := range rows {
		var m alliance.Measurement
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// #endregion

// #region attachment

// SaveAttachmentAssessment appends one assessment row for the user.
func (s *Store) SaveAttachmentAssessment(userID string, a attachment.Assessment) error {
	return s.insertPayload(`INSERT INTO attachment_assessments (id, user_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		userID, a, a.Timestamp)
}

// LoadAttachmentHistory returns up to limit most recent assessments for the
// user, oldest first.
func (s *Store) LoadAttachmentHistory(userID string, limit int) ([]attachment.Assessment, error) {
	rows, err := s.queryPayloads(`attachment_assessments`, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]attachment.Assessment, 0, len(rows))
	for _, raw := range rows {
		var a attachment.Assessment
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decode assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// #endregion

// #region growth

// SaveGrowthArea upserts one growth area keyed by (user, area).
func (s *Store) SaveGrowthArea(userID string, area growth.Area) error {
	payload, err := json.Marshal(area)
	if err != nil {
		return fmt.Errorf("encode area: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO growth_areas (user_id, area_id, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, area_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		userID, area.AreaID, string(payload), area.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save area: %w", err)
	}
	return nil
}

// LoadGrowthAreas returns all growth areas for the user.
func (s *Store) LoadGrowthAreas(userID string) ([]growth.Area, error) {
	rows, err := s.db.Query(`SELECT payload FROM growth_areas WHERE user_id = ? ORDER BY area_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query areas: %w", err)
	}
	defer rows.Close()

	var out []growth.Area
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		var a growth.Area
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decode area: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// #endregion

// #region meta-patterns

// SaveMetaPattern upserts one pattern keyed by (user, pattern).
func (s *Store) SaveMetaPattern(userID string, p metapattern.Pattern) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pattern: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO meta_patterns (user_id, pattern_id, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, pattern_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		userID, p.PatternID, string(payload), p.LastSeen.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}
	return nil
}

// LoadMetaPatterns returns all tracked patterns for the user.
func (s *Store) LoadMetaPatterns(userID string) ([]metapattern.Pattern, error) {
	rows, err := s.db.Query(`SELECT payload FROM meta_patterns WHERE user_id = ? ORDER BY pattern_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	var out []metapattern.Pattern
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		var p metapattern.Pattern
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode pattern: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// #endregion

// #region gating-log

// GatingLogEntry is one provenance row of a gating decision.
type GatingLogEntry struct {
	UserID    string
	Tier      gating.Tier
	Decision  gating.Decision
	Alliance  float64
	Days      int
	CreatedAt time.Time
}

// LogGatingDecision appends a provenance row for one decision.
func (s *Store) LogGatingDecision(e GatingLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	allowed := 0
	if e.Decision.Allowed {
		allowed = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO gating_log (id, user_id, tier, allowed, reason, alternative, alliance, days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), e.UserID, string(e.Tier), allowed,
		e.Decision.Reason, e.Decision.AlternativeAction,
		e.Alliance, e.Days, e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("log gating decision: %w", err)
	}
	return nil
}

// RecentGatingDecisions returns up to limit most recent log entries for the
// user, newest first.
func (s *Store) RecentGatingDecisions(userID string, limit int) ([]GatingLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT tier, allowed, reason, alternative, alliance, days, created_at
		FROM gating_log WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query gating log: %w", err)
	}
	defer rows.Close()

	var out []GatingLogEntry
	for rows.Next() {
		var e GatingLogEntry
		var tier, created string
		var allowed int
		if err := rows.Scan(&tier, &allowed, &e.Decision.Reason, &e.Decision.AlternativeAction, &e.Alliance, &e.Days, &created); err != nil {
			return nil, fmt.Errorf("scan gating log: %w", err)
		}
		e.UserID = userID
		e.Tier = gating.Tier(tier)
		e.Decision.Allowed = allowed == 1
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion

// #region helpers

func (s *Store) insertPayload(query, userID string, v any, at time.Time) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if _, err := s.db.Exec(query, uuid.New().String(), userID, string(payload), at.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("insert payload: %w", err)
	}
	return nil
}

func (s *Store) queryPayloads(table, userID string, limit int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM (
			SELECT payload, created_at FROM `+table+` WHERE user_id = ? ORDER BY created_at DESC LIMIT ?
		) ORDER BY created_at ASC`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

// #endregion
