// Package db persists spot measurements to a SQLite database.
//
// The store is append-only: one row per surviving spot per image, tagged
// with the source file's metadata. A run recreates the database from
// scratch, so the schema carries no versioning.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/JHYUIHGY/Otegui-lab/internal/meta"
	"github.com/JHYUIHGY/Otegui-lab/internal/segment"
)

type DB struct {
	*sql.DB
}

// Reset removes a database file left over from a prior run. A missing file
// is not an error.
func Reset(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old database %s: %w", path, err)
	}
	return nil
}

// NewDB opens (or creates) the database at path and bootstraps the schema.
// Table creation is idempotent; opening an existing database twice is safe.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS spots (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			filename             TEXT,
			magnification        TEXT,
			zslice               TEXT,
			channel              TEXT,
			label                INTEGER,
			area_pixels          REAL,
			mean_intensity       REAL,
			integrated_intensity REAL
		);
		CREATE TABLE IF NOT EXISTS runs (
			run_id     TEXT,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			source_dir TEXT,
			params     TEXT
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &DB{db}, nil
}

// RecordRun appends one row identifying this run and its parameters.
func (db *DB) RecordRun(runID, sourceDir, params string) error {
	_, err := db.Exec(
		"INSERT INTO runs (run_id, source_dir, params) VALUES (?, ?, ?)",
		runID, sourceDir, params,
	)
	return err
}

// RecordSpots appends one row per measurement, each carrying the full
// metadata record. Rows are inserted in measurement order and each insert
// commits immediately, so completed files survive a later failure. There is
// no uniqueness constraint: repeated calls with identical data append
// duplicates, and callers must not reprocess a file within one run.
func (db *DB) RecordSpots(rec meta.Record, measurements []segment.Measurement) error {
	for _, m := range measurements {
		_, err := db.Exec(
			`INSERT INTO spots (
				filename, magnification, zslice, channel,
				label, area_pixels, mean_intensity, integrated_intensity
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.Filename, rec.Magnification, rec.ZSlice, rec.Channel,
			m.Label, m.AreaPixels, m.MeanIntensity, m.IntegratedIntensity,
		)
		if err != nil {
			return fmt.Errorf("insert spot %d for %s: %w", m.Label, rec.Filename, err)
		}
	}
	return nil
}

// SpotCount holds a per-file spot tally for the run report.
type SpotCount struct {
	Filename string
	Count    int
}

// SpotCounts returns the number of stored spots per filename, in insertion
// order of first appearance.
func (db *DB) SpotCounts() ([]SpotCount, error) {
	rows, err := db.Query(
		"SELECT filename, COUNT(*) FROM spots GROUP BY filename ORDER BY MIN(id)",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SpotCount
	for rows.Next() {
		var c SpotCount
		if err := rows.Scan(&c.Filename, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SpotAreas returns every stored spot area, in insertion order.
func (db *DB) SpotAreas() ([]float64, error) {
	rows, err := db.Query("SELECT area_pixels FROM spots ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []float64
	for rows.Next() {
		var a float64
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// SpotRow mirrors one stored spots row, optionals as NullString.
type SpotRow struct {
	ID                  int64
	Filename            string
	Magnification       sql.NullString
	ZSlice              sql.NullString
	Channel             sql.NullString
	Label               int
	AreaPixels          float64
	MeanIntensity       float64
	IntegratedIntensity float64
}

// Spots returns all stored rows in insertion order. Mainly for tests and
// ad-hoc inspection.
func (db *DB) Spots() ([]SpotRow, error) {
	rows, err := db.Query(`SELECT id, filename, magnification, zslice, channel,
		label, area_pixels, mean_intensity, integrated_intensity FROM spots ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SpotRow
	for rows.Next() {
		var r SpotRow
		if err := rows.Scan(
			&r.ID, &r.Filename, &r.Magnification, &r.ZSlice, &r.Channel,
			&r.Label, &r.AreaPixels, &r.MeanIntensity, &r.IntegratedIntensity,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Run mirrors one stored runs row. StartedAt keeps SQLite's text timestamp
// form; the pipeline only reports it, never computes with it.
type Run struct {
	RunID     string
	StartedAt string
	SourceDir string
	Params    string
}

// Runs returns all recorded runs.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query("SELECT run_id, started_at, source_dir, params FROM runs")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.SourceDir, &r.Params); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
