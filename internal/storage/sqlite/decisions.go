// Package sqlite persists runway decision history.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

// DecisionRecord represents one stored runway decision
type DecisionRecord struct {
	ID          int64     `json:"id"`
	ICAO        string    `json:"icao"`
	Runways     []string  `json:"runways"`
	Mode        string    `json:"mode,omitempty"`
	Outcome     string    `json:"outcome"`
	Rationale   []string  `json:"rationale,omitempty"`
	HeadwindKt  *int      `json:"headwind_kt,omitempty"`
	CrosswindKt *int      `json:"crosswind_kt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DecisionStorage handles storage of runway decisions
type DecisionStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewDecisionStorage opens (creating if needed) a SQLite decision store
func NewDecisionStorage(path string, log *logger.Logger) (*DecisionStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open decision database: %w", err)
	}

	storage := &DecisionStorage{
		db:     db,
		logger: log.Named("sqlite-decisions"),
	}

	if err := storage.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *DecisionStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			icao TEXT NOT NULL,
			runways TEXT NOT NULL,
			mode TEXT,
			outcome TEXT NOT NULL,
			rationale TEXT,
			headwind_kt INTEGER,
			crosswind_kt INTEGER,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create decisions table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_decisions_icao ON decisions(icao)`)
	if err != nil {
		return fmt.Errorf("failed to create icao index: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create created_at index: %w", err)
	}

	return nil
}

// SaveDecision stores one runway decision
func (s *DecisionStorage) SaveDecision(decision runway.Decision, at time.Time) error {
	var headwind, crosswind *int
	if decision.Components != nil {
		headwind = &decision.Components.HeadwindKt
		crosswind = &decision.Components.CrosswindKt
	}

	_, err := s.db.Exec(`
		INSERT INTO decisions (icao, runways, mode, outcome, rationale, headwind_kt, crosswind_kt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		decision.ICAO,
		strings.Join(decision.Runways, ","),
		string(decision.Mode),
		string(decision.Outcome),
		strings.Join(decision.Rationale, "; "),
		headwind,
		crosswind,
		at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save decision for %s: %w", decision.ICAO, err)
	}

	s.logger.Debug("Decision saved",
		logger.String("airport", decision.ICAO),
		logger.Strings("runways", decision.Runways))
	return nil
}

// GetDecisions returns the most recent decisions for an airport, newest
// first
func (s *DecisionStorage) GetDecisions(icao string, limit int) ([]DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, icao, runways, mode, outcome, rationale, headwind_kt, crosswind_kt, created_at
		FROM decisions
		WHERE icao = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, icao, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions for %s: %w", icao, err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var (
			record    DecisionRecord
			runways   string
			rationale sql.NullString
			mode      sql.NullString
			headwind  sql.NullInt64
			crosswind sql.NullInt64
		)
		if err := rows.Scan(&record.ID, &record.ICAO, &runways, &mode, &record.Outcome,
			&rationale, &headwind, &crosswind, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}

		record.Runways = strings.Split(runways, ",")
		if mode.Valid {
			record.Mode = mode.String
		}
		if rationale.Valid && rationale.String != "" {
			record.Rationale = strings.Split(rationale.String, "; ")
		}
		if headwind.Valid {
			v := int(headwind.Int64)
			record.HeadwindKt = &v
		}
		if crosswind.Valid {
			v := int(crosswind.Int64)
			record.CrosswindKt = &v
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// Close closes the underlying database
func (s *DecisionStorage) Close() error {
	return s.db.Close()
}
