package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sattrack/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	db, err := New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func TestNew(t *testing.T) {
	db := setupTestDB(t)
	assert.NotNil(t, db)
}

func TestSatelliteUpsertAndListTrackable(t *testing.T) {
	db := setupTestDB(t)
	repo := db.SatelliteRepository()

	now := time.Now().UTC().Truncate(time.Second)
	sats := []models.Satellite{
		{
			Name:         "NOAA-19",
			Line1:        "1 33591U 09005A   24100.50000000  .00000100  00000-0  10000-3 0  9991",
			Line2:        "2 33591  99.1000 100.0000 0013000   0.0000   0.0000 14.12000000    01",
			TLEGroup:     "weather",
			AutoTracking: true,
			OrbitStatus:  models.StatusOrbiting,
			CreatedAt:    now,
			LastUpdated:  now,
		},
		{
			Name:         "DECAYED-1",
			Line1:        "1 11111U 99001A   24100.50000000  .00000100  00000-0  10000-3 0  9992",
			Line2:        "2 11111  51.6000 100.0000 0001000   0.0000   0.0000 15.50000000    02",
			AutoTracking: true,
			OrbitStatus:  models.StatusDecayed,
		},
		{
			Name:         "MANUAL-1",
			Line1:        "1 22222U 99002A   24100.50000000  .00000100  00000-0  10000-3 0  9993",
			Line2:        "2 22222  51.6000 100.0000 0001000   0.0000   0.0000 15.50000000    03",
			AutoTracking: false,
			OrbitStatus:  models.StatusOrbiting,
		},
	}

	require.NoError(t, repo.Upsert(sats))

	trackable, err := repo.ListTrackable()
	require.NoError(t, err)
	require.Len(t, trackable, 1)
	assert.Equal(t, "NOAA-19", trackable[0].Name)
	assert.Equal(t, "weather", trackable[0].TLEGroup)
	assert.True(t, trackable[0].Trackable())
}

func TestSatelliteUpsertReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := db.SatelliteRepository()

	sat := models.Satellite{
		Name:         "ISS",
		Line1:        "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005",
		Line2:        "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09",
		AutoTracking: true,
		OrbitStatus:  models.StatusOrbiting,
	}
	require.NoError(t, repo.Upsert([]models.Satellite{sat}))

	sat.TLEGroup = "stations"
	require.NoError(t, repo.Upsert([]models.Satellite{sat}))

	trackable, err := repo.ListTrackable()
	require.NoError(t, err)
	require.Len(t, trackable, 1)
	assert.Equal(t, "stations", trackable[0].TLEGroup)
}

func TestSatelliteUpsertEmpty(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.SatelliteRepository().Upsert(nil))
}

func TestStationUpsertAndListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := db.StationRepository()

	stations := []models.Station{
		{Name: "maputo", Latitude: -25.9692, Longitude: 32.5732, Altitude: 47, MinElevation: 10, Active: true},
		{Name: "backup", Latitude: -26.1, Longitude: 32.9, Altitude: 12, MinElevation: 15, Active: false},
	}
	require.NoError(t, repo.Upsert(stations))

	active, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "maputo", active[0].Name)
	assert.Equal(t, 10.0, active[0].MinElevation)
}
