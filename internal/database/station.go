package database

import (
	"database/sql"
	"fmt"

	"sattrack/internal/models"
)

// StationRepository caches ground station records locally.
type StationRepository interface {
	Upsert(stations []models.Station) error
	ListActive() ([]models.Station, error)
}

type stationRepository struct {
	db *sql.DB
}

// Upsert inserts or replaces station records in a single transaction.
func (r *stationRepository) Upsert(stations []models.Station) error {
	if len(stations) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO ground_stations (
		name, latitude, longitude, altitude, min_elevation, is_active
	) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, st := range stations {
		if _, err := stmt.Exec(
			st.Name,
			st.Latitude,
			st.Longitude,
			st.Altitude,
			st.MinElevation,
			st.Active,
		); err != nil {
			return fmt.Errorf("failed to upsert station %s: %w", st.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListActive returns cached stations marked active, ordered by name.
func (r *stationRepository) ListActive() ([]models.Station, error) {
	rows, err := r.db.Query(`SELECT name, latitude, longitude, altitude, min_elevation, is_active
		FROM ground_stations
		WHERE is_active = 1
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(
			&st.Name,
			&st.Latitude,
			&st.Longitude,
			&st.Altitude,
			&st.MinElevation,
			&st.Active,
		); err != nil {
			return nil, fmt.Errorf("failed to scan station row: %w", err)
		}
		stations = append(stations, st)
	}

	return stations, rows.Err()
}
