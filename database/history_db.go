package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// HistoryDB обертка для базы истории обновлений.
// Каждая примененная операция обновления фиксируется отдельной записью,
// чтобы можно было восстановить, какой файл, когда и с каким итогом
// обновлялся.
type HistoryDB struct {
	conn *sql.DB
}

// UpdateOperation запись об одной примененной операции обновления
type UpdateOperation struct {
	ID              string    `json:"id"` // UUID операции
	KMLFile         string    `json:"kml_file"`
	SpreadsheetFile string    `json:"spreadsheet_file"`
	MergeMode       bool      `json:"merge_mode"`
	UpdatedCount    int       `json:"updated_count"`
	UnmatchedCount  int       `json:"unmatched_count"`
	AmbiguousCount  int       `json:"ambiguous_count"`
	SkippedCount    int       `json:"skipped_count"`
	ImagesAdded     int       `json:"images_added"`
	TextsAdded      int       `json:"texts_added"`
	CreatedAt       time.Time `json:"created_at"`
}

// OpenHistoryDB открывает (и при необходимости создает) базу истории.
func OpenHistoryDB(path string) (*HistoryDB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db := &HistoryDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// migrate применяет недостающие миграции схемы.
// Примененные миграции фиксируются в schema_migrations по имени.
func (db *HistoryDB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	migrations := []struct {
		name string
		stmt string
	}{
		{
			name: "001_create_update_operations",
			stmt: `
				CREATE TABLE IF NOT EXISTS update_operations (
					id               TEXT PRIMARY KEY,
					kml_file         TEXT NOT NULL,
					spreadsheet_file TEXT NOT NULL DEFAULT '',
					merge_mode       INTEGER NOT NULL DEFAULT 1,
					updated_count    INTEGER NOT NULL DEFAULT 0,
					unmatched_count  INTEGER NOT NULL DEFAULT 0,
					ambiguous_count  INTEGER NOT NULL DEFAULT 0,
					skipped_count    INTEGER NOT NULL DEFAULT 0,
					images_added     INTEGER NOT NULL DEFAULT 0,
					texts_added      INTEGER NOT NULL DEFAULT 0,
					created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				)
			`,
		},
		{
			name: "002_index_update_operations_created_at",
			stmt: `CREATE INDEX IF NOT EXISTS idx_update_operations_created_at
			       ON update_operations(created_at DESC)`,
		},
	}

	for _, m := range migrations {
		var applied int
		err := db.conn.QueryRow(
			"SELECT COUNT(*) FROM schema_migrations WHERE name = ?", m.name,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.name, err)
		}
		if applied > 0 {
			continue
		}

		if _, err := db.conn.Exec(m.stmt); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
		if _, err := db.conn.Exec(
			"INSERT INTO schema_migrations (name) VALUES (?)", m.name,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.name, err)
		}
	}

	return nil
}

// RecordOperation сохраняет запись об операции и возвращает ее ID.
func (db *HistoryDB) RecordOperation(op UpdateOperation) (string, error) {
	if op.ID == "" {
		op.ID = uuid.New().String()
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.Exec(`
		INSERT INTO update_operations
			(id, kml_file, spreadsheet_file, merge_mode, updated_count,
			 unmatched_count, ambiguous_count, skipped_count, images_added,
			 texts_added, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID, op.KMLFile, op.SpreadsheetFile, op.MergeMode, op.UpdatedCount,
		op.UnmatchedCount, op.AmbiguousCount, op.SkippedCount, op.ImagesAdded,
		op.TextsAdded, op.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record update operation: %w", err)
	}
	return op.ID, nil
}

// ListOperations возвращает последние операции, новые первыми.
func (db *HistoryDB) ListOperations(limit int) ([]UpdateOperation, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.Query(`
		SELECT id, kml_file, spreadsheet_file, merge_mode, updated_count,
		       unmatched_count, ambiguous_count, skipped_count, images_added,
		       texts_added, created_at
		FROM update_operations
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query update operations: %w", err)
	}
	defer rows.Close()

	var ops []UpdateOperation
	for rows.Next() {
		var op UpdateOperation
		var createdAt string
		if err := rows.Scan(
			&op.ID, &op.KMLFile, &op.SpreadsheetFile, &op.MergeMode,
			&op.UpdatedCount, &op.UnmatchedCount, &op.AmbiguousCount,
			&op.SkippedCount, &op.ImagesAdded, &op.TextsAdded, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan update operation: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			op.CreatedAt = ts
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Close закрывает подключение к базе.
func (db *HistoryDB) Close() error {
	return db.conn.Close()
}
