package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sattrack/internal/database"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestSource(t *testing.T, apiURL string) *Source {
	db, err := database.New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := NewClient(apiURL+"/satellites", apiURL+"/stations", 2*time.Second)
	return NewSource(client, db.SatelliteRepository(), db.StationRepository(), testLogger)
}

func catalogHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/satellites", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(satellitesJSON))
	})
	mux.HandleFunc("/stations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stationsJSON))
	})
	return mux
}

func TestTrackableObjectsFiltersAndCaches(t *testing.T) {
	server := httptest.NewServer(catalogHandler())
	defer server.Close()

	src := newTestSource(t, server.URL)

	objects, err := src.TrackableObjects(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 1, "only orbiting auto-tracking objects participate")
	assert.Equal(t, "NOAA-19", objects[0].Name)
}

func TestTrackableObjectsFallsBackToCache(t *testing.T) {
	server := httptest.NewServer(catalogHandler())
	src := newTestSource(t, server.URL)

	// Warm the cache while the API is up.
	_, err := src.TrackableObjects(context.Background())
	require.NoError(t, err)

	server.Close()

	objects, err := src.TrackableObjects(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "NOAA-19", objects[0].Name)
}

func TestActiveStationFallsBackToCache(t *testing.T) {
	server := httptest.NewServer(catalogHandler())
	src := newTestSource(t, server.URL)

	st, err := src.ActiveStation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "maputo", st.Name)

	server.Close()

	st, err = src.ActiveStation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "maputo", st.Name)
}

func TestActiveStationNoneConfigured(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/satellites", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	mux.HandleFunc("/stations", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	src := newTestSource(t, server.URL)
	_, err := src.ActiveStation(context.Background())
	assert.ErrorIs(t, err, ErrNoStation)
}

func TestRefreshWarmsCache(t *testing.T) {
	server := httptest.NewServer(catalogHandler())
	src := newTestSource(t, server.URL)

	require.NoError(t, src.Refresh(context.Background()))
	server.Close()

	objects, err := src.TrackableObjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, objects, 1)

	assert.Error(t, src.Refresh(context.Background()), "refresh with the API down must report the failure")
}
