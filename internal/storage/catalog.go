package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/plant-visualizer/backend/internal/models"
)

// Catalog is the SQLite-backed metadata store for layouts. It records one
// row per layout and a single-row active selection.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens (or creates) the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("empty catalog path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS layouts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL,
			builtin INTEGER NOT NULL DEFAULT 0,
			uploaded_at TEXT NOT NULL,
			max_step INTEGER NOT NULL DEFAULT 0,
			unit_count INTEGER NOT NULL DEFAULT 0,
			pipe_count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS active_layout (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			layout_id TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("catalog schema: %w", err)
		}
	}
	return nil
}

// Put inserts or replaces a layout row.
func (c *Catalog) Put(info *models.LayoutInfo) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO layouts
		 (id, name, description, size, builtin, uploaded_at, max_step, unit_count, pipe_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.Name, info.Description, info.Size, boolInt(info.Builtin),
		info.UploadedAt.UTC().Format(time.RFC3339Nano),
		info.MaxStep, info.UnitCount, info.PipeCount,
	)
	return err
}

// Remove deletes a layout row.
func (c *Catalog) Remove(id string) error {
	_, err := c.db.Exec(`DELETE FROM layouts WHERE id = ?`, id)
	return err
}

// SetActive records the active layout selection.
func (c *Catalog) SetActive(id string) error {
	_, err := c.db.Exec(
		`INSERT INTO active_layout (slot, layout_id) VALUES (1, ?)
		 ON CONFLICT (slot) DO UPDATE SET layout_id = excluded.layout_id`, id)
	return err
}

// Load reads all layout rows and the active selection.
func (c *Catalog) Load() ([]*models.LayoutInfo, string, error) {
	rows, err := c.db.Query(
		`SELECT id, name, description, size, builtin, uploaded_at, max_step, unit_count, pipe_count
		 FROM layouts`)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var list []*models.LayoutInfo
	for rows.Next() {
		var info models.LayoutInfo
		var builtin int
		var uploaded string
		if err := rows.Scan(&info.ID, &info.Name, &info.Description, &info.Size,
			&builtin, &uploaded, &info.MaxStep, &info.UnitCount, &info.PipeCount); err != nil {
			return nil, "", err
		}
		info.Builtin = builtin != 0
		if t, perr := time.Parse(time.RFC3339Nano, uploaded); perr == nil {
			info.UploadedAt = t
		}
		list = append(list, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var active string
	err = c.db.QueryRow(`SELECT layout_id FROM active_layout WHERE slot = 1`).Scan(&active)
	if err != nil && err != sql.ErrNoRows {
		return nil, "", err
	}
	return list, active, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
