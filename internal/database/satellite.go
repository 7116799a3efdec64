package database

import (
	"database/sql"
	"fmt"

	"sattrack/internal/models"
)

// SatelliteRepository caches catalogue entries locally so tracking keeps
// working across catalogue API outages.
type SatelliteRepository interface {
	Upsert(sats []models.Satellite) error
	ListTrackable() ([]models.Satellite, error)
}

type satelliteRepository struct {
	db *sql.DB
}

// Upsert inserts or replaces catalogue entries in a single transaction.
func (r *satelliteRepository) Upsert(sats []models.Satellite) error {
	if len(sats) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO satellites (
		name, line1, line2, tle_group, auto_tracking, orbit_status, created_at, last_updated
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sat := range sats {
		if _, err := stmt.Exec(
			sat.Name,
			sat.Line1,
			sat.Line2,
			sat.TLEGroup,
			sat.AutoTracking,
			string(sat.OrbitStatus),
			sat.CreatedAt,
			sat.LastUpdated,
		); err != nil {
			return fmt.Errorf("failed to upsert satellite %s: %w", sat.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListTrackable returns cached entries that are orbiting with auto-tracking
// enabled, the only ones that participate in scheduling.
func (r *satelliteRepository) ListTrackable() ([]models.Satellite, error) {
	rows, err := r.db.Query(`SELECT name, line1, line2, tle_group, auto_tracking, orbit_status, created_at, last_updated
		FROM satellites
		WHERE orbit_status = ? AND auto_tracking = 1
		ORDER BY name`, string(models.StatusOrbiting))
	if err != nil {
		return nil, fmt.Errorf("failed to query satellites: %w", err)
	}
	defer rows.Close()

	var sats []models.Satellite
	for rows.Next() {
		var sat models.Satellite
		var status string
		if err := rows.Scan(
			&sat.Name,
			&sat.Line1,
			&sat.Line2,
			&sat.TLEGroup,
			&sat.AutoTracking,
			&status,
			&sat.CreatedAt,
			&sat.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan satellite row: %w", err)
		}
		sat.OrbitStatus = models.OrbitStatus(status)
		sats = append(sats, sat)
	}

	return sats, rows.Err()
}
