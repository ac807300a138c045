package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/inkwell-ai/inkwell/pkg/models"
)

// DB is the SQLite-backed instance store.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// Compile-time verification that DB implements the store interface.
var _ InstanceStore = (*DB)(nil)

// DefaultDBPath returns the XDG data path for the instance database
// (~/.local/share/inkwell/inkwell.db).
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "inkwell", "inkwell.db")
}

// Open opens the SQLite database at path, creating parent directories,
// enabling WAL mode for concurrent reads, and applying migrations.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// migrate applies all pending schema migrations.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Instances},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}
	return nil
}

const migrationV1Instances = `
CREATE TABLE IF NOT EXISTS instances (
	id TEXT PRIMARY KEY,
	definition_name TEXT NOT NULL,
	definition_version TEXT NOT NULL,
	handler TEXT NOT NULL,
	status TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_instances_status ON instances(status);
CREATE INDEX IF NOT EXISTS idx_instances_handler ON instances(handler);
CREATE INDEX IF NOT EXISTS idx_instances_created_at ON instances(created_at);
`

// SaveInstance inserts or replaces an instance. The full instance is
// stored as a JSON payload; indexed columns carry the query surface.
func (db *DB) SaveInstance(instance *models.WorkflowInstance) error {
	payload, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("marshal instance %s: %w", instance.ID, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	_, err = db.conn.Exec(`
		INSERT INTO instances (id, definition_name, definition_version, handler, status, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			payload = excluded.payload
	`, instance.ID, instance.DefinitionName, instance.DefinitionVersion,
		instance.Handler, string(instance.Status), string(payload), instance.CreatedAt)
	if err != nil {
		return fmt.Errorf("save instance %s: %w", instance.ID, err)
	}
	return nil
}

// GetInstance returns the instance with the given ID.
func (db *DB) GetInstance(id string) (*models.WorkflowInstance, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var payload string
	row := db.conn.QueryRow("SELECT payload FROM instances WHERE id = ?", id)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get instance %s: %w", id, err)
	}

	var instance models.WorkflowInstance
	if err := json.Unmarshal([]byte(payload), &instance); err != nil {
		return nil, fmt.Errorf("unmarshal instance %s: %w", id, err)
	}
	return &instance, nil
}

// ListInstances returns instances newest first.
func (db *DB) ListInstances(limit int) ([]*models.WorkflowInstance, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	query := "SELECT payload FROM instances ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	var instances []*models.WorkflowInstance
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		var instance models.WorkflowInstance
		if err := json.Unmarshal([]byte(payload), &instance); err != nil {
			return nil, fmt.Errorf("unmarshal instance: %w", err)
		}
		instances = append(instances, &instance)
	}
	return instances, rows.Err()
}
