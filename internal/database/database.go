package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB holds the SQLite connection backing the local catalogue cache. The
// cache lets the daemon keep scheduling passes when the catalogue API is
// unreachable.
type DB struct {
	db *sql.DB
}

// New creates and initializes a new database connection.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := optimizeSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// optimizeSQLite applies performance settings suited to a Raspberry Pi with
// SD card storage.
func optimizeSQLite(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates the catalogue tables if they don't exist.
func (d *DB) initSchema() error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS satellites (
			name TEXT PRIMARY KEY,
			line1 TEXT NOT NULL,
			line2 TEXT NOT NULL,
			tle_group TEXT,
			auto_tracking INTEGER NOT NULL DEFAULT 0,
			orbit_status TEXT NOT NULL DEFAULT 'unknown',
			created_at TIMESTAMP,
			last_updated TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS ground_stations (
			name TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			altitude REAL NOT NULL,
			min_elevation REAL NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_satellites_trackable ON satellites(orbit_status, auto_tracking)`,
	}

	for _, schema := range schemas {
		if _, err := d.db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// SatelliteRepository returns the satellite catalogue repository.
func (d *DB) SatelliteRepository() SatelliteRepository {
	return &satelliteRepository{db: d.db}
}

// StationRepository returns the ground station repository.
func (d *DB) StationRepository() StationRepository {
	return &stationRepository{db: d.db}
}
