// Package history persists generated reports per user in sqlite so past
// lookups survive restarts and cache eviction.
package history

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"product-intel/pkg/logger"
	"product-intel/pkg/models"
)

// Entry is one saved report lookup.
type Entry struct {
	ID          string                     `json:"id"`
	UserID      string                     `json:"user_id"`
	ProductName string                     `json:"product_name"`
	Report      *models.IntelligenceReport `json:"report,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// Store wraps the sqlite history table. One row per (user, product); a
// repeat lookup replaces the stored report.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

func New(dbPath string, log logger.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS report_history (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			report TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, product_name)
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// Save upserts the report for one user+product pair. Failures are logged,
// not surfaced; history is best effort.
func (s *Store) Save(userID, productName string, report *models.IntelligenceReport) {
	data, err := json.Marshal(report)
	if err != nil {
		s.log.Warn("history marshal failed", logger.String("product", productName), logger.Err(err))
		return
	}

	_, err = s.db.Exec(
		`INSERT INTO report_history (id, user_id, product_name, report, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, product_name)
		 DO UPDATE SET report = excluded.report, created_at = excluded.created_at`,
		uuid.NewString(), userID, productName, string(data), time.Now().UTC(),
	)
	if err != nil {
		s.log.Warn("history save failed", logger.String("product", productName), logger.Err(err))
	}
}

// ForUser returns the user's saved lookups, most recent first.
func (s *Store) ForUser(userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, user_id, product_name, report, created_at
		 FROM report_history WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var data string
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductName, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		var report models.IntelligenceReport
		if err := json.Unmarshal([]byte(data), &report); err != nil {
			s.log.Warn("history unmarshal failed", logger.String("product", e.ProductName), logger.Err(err))
		} else {
			e.Report = &report
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the saved report for one user+product, or false.
func (s *Store) Get(userID, productName string) (*Entry, bool) {
	var e Entry
	var data string
	err := s.db.QueryRow(
		`SELECT id, user_id, product_name, report, created_at
		 FROM report_history WHERE user_id = ? AND product_name = ?`,
		userID, productName,
	).Scan(&e.ID, &e.UserID, &e.ProductName, &data, &e.CreatedAt)
	if err != nil {
		return nil, false
	}

	var report models.IntelligenceReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		s.log.Warn("history unmarshal failed", logger.String("product", productName), logger.Err(err))
		return nil, false
	}
	e.Report = &report
	return &e, true
}

func (s *Store) Close() error {
	return s.db.Close()
}
