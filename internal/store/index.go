package store

import (
	"database/sql"

	_ "github.com/glebarez/go-sqlite"
)

// IndexStore keeps a sqlite index of created documents and plan runs.
// It is bookkeeping only; the documents themselves live on disk.
type IndexStore struct {
	DB *sql.DB
}

func NewIndexStore(dbPath string) (*IndexStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT,
			title TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT,
			title TEXT,
			steps_total INTEGER,
			steps_done INTEGER DEFAULT 0,
			status TEXT DEFAULT 'running',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return nil, err
		}
	}

	return &IndexStore{DB: db}, nil
}

func (s *IndexStore) RecordDocument(documentID, title string) error {
	query := `INSERT INTO documents (document_id, title) VALUES (?, ?)`
	_, err := s.DB.Exec(query, documentID, title)
	return err
}

// StartRun records a new plan run and returns its row id.
func (s *IndexStore) StartRun(documentID, title string, stepsTotal int) (int64, error) {
	query := `INSERT INTO runs (document_id, title, steps_total) VALUES (?, ?, ?)`
	res, err := s.DB.Exec(query, documentID, title, stepsTotal)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *IndexStore) FinishRun(id int64, stepsDone int, status string) error {
	query := `UPDATE runs SET steps_done = ?, status = ?, finished_at = datetime('now') WHERE id = ?`
	_, err := s.DB.Exec(query, stepsDone, status, id)
	return err
}

// RecentRuns returns the newest runs first, up to limit.
func (s *IndexStore) RecentRuns(limit int) ([]map[string]any, error) {
	query := `
		SELECT id, document_id, title, steps_total, steps_done, status, started_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?`
	rows, err := s.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]any
	for rows.Next() {
		var id, total, done int
		var documentID, title, status, startedAt string
		if err := rows.Scan(&id, &documentID, &title, &total, &done, &status, &startedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]any{
			"id":          id,
			"document_id": documentID,
			"title":       title,
			"steps_total": total,
			"steps_done":  done,
			"status":      status,
			"started_at":  startedAt,
		})
	}
	return runs, rows.Err()
}

func (s *IndexStore) Close() error {
	return s.DB.Close()
}
