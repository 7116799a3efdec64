package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sattrack/internal/database"
	"sattrack/internal/models"
)

// ErrNoStation means no active ground station exists in either the API or
// the local cache. The daemon cannot run without one.
var ErrNoStation = errors.New("no active ground station configured")

// Source provides catalogue data to the scheduler. It prefers the live API
// and writes fetched records through to the SQLite cache; when the API is
// unreachable it serves the cache instead, so an API outage degrades to
// slightly stale element sets rather than stopping the daemon.
type Source struct {
	client   *Client
	sats     database.SatelliteRepository
	stations database.StationRepository
	log      *slog.Logger
}

func NewSource(client *Client, sats database.SatelliteRepository, stations database.StationRepository, logger *slog.Logger) *Source {
	return &Source{
		client:   client,
		sats:     sats,
		stations: stations,
		log:      logger,
	}
}

// TrackableObjects returns the objects that participate in scheduling:
// orbiting, with auto-tracking enabled.
func (s *Source) TrackableObjects(ctx context.Context) ([]models.Satellite, error) {
	sats, err := s.client.FetchSatellites(ctx)
	if err != nil {
		s.log.Warn("Satellite API unavailable, using cached catalogue", "error", err)
		return s.sats.ListTrackable()
	}

	if err := s.sats.Upsert(sats); err != nil {
		// A cache write failure costs fallback freshness, not tracking.
		s.log.Error("Failed to cache satellite catalogue", "error", err)
	}

	var trackable []models.Satellite
	for _, sat := range sats {
		if sat.Trackable() {
			trackable = append(trackable, sat)
		}
	}
	return trackable, nil
}

// ActiveStation returns the station the daemon tracks from. With several
// active stations the first one returned wins; this daemon drives one antenna.
func (s *Source) ActiveStation(ctx context.Context) (models.Station, error) {
	stations, err := s.client.FetchStations(ctx)
	if err != nil {
		s.log.Warn("Station API unavailable, using cached stations", "error", err)
		cached, cacheErr := s.stations.ListActive()
		if cacheErr != nil {
			return models.Station{}, fmt.Errorf("station cache: %w", cacheErr)
		}
		return firstActive(cached)
	}

	if err := s.stations.Upsert(stations); err != nil {
		s.log.Error("Failed to cache ground stations", "error", err)
	}

	return firstActive(stations)
}

// Refresh re-fetches both catalogues to keep the cache warm. Used by the
// periodic refresh task; scheduling always re-reads on its own cycle.
func (s *Source) Refresh(ctx context.Context) error {
	sats, err := s.client.FetchSatellites(ctx)
	if err != nil {
		return fmt.Errorf("refreshing satellites: %w", err)
	}
	if err := s.sats.Upsert(sats); err != nil {
		return fmt.Errorf("caching satellites: %w", err)
	}

	stations, err := s.client.FetchStations(ctx)
	if err != nil {
		return fmt.Errorf("refreshing stations: %w", err)
	}
	if err := s.stations.Upsert(stations); err != nil {
		return fmt.Errorf("caching stations: %w", err)
	}

	s.log.Debug("Catalogue cache refreshed", "satellites", len(sats), "stations", len(stations))
	return nil
}

func firstActive(stations []models.Station) (models.Station, error) {
	for _, st := range stations {
		if st.Active {
			return st, nil
		}
	}
	return models.Station{}, ErrNoStation
}
