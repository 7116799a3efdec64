package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sattrack/internal/models"
)

// Client fetches catalogue records from the mission control HTTP API.
type Client struct {
	satellitesURL string
	stationsURL   string
	httpClient    *http.Client
}

func NewClient(satellitesURL, stationsURL string, timeout time.Duration) *Client {
	return &Client{
		satellitesURL: satellitesURL,
		stationsURL:   stationsURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type satellitePayload struct {
	Name         string `json:"name"`
	Line1        string `json:"line1"`
	Line2        string `json:"line2"`
	TLEGroup     string `json:"tle_group"`
	AutoTracking bool   `json:"auto_tracking"`
	OrbitStatus  string `json:"orbit_status"`
	CreatedAt    string `json:"created_at"`
	LastUpdated  string `json:"last_updated"`
}

type stationPayload struct {
	Name                   string  `json:"name"`
	Latitude               float64 `json:"latitude"`
	Longitude              float64 `json:"longitude"`
	Altitude               float64 `json:"altitude"`
	StartTrackingElevation float64 `json:"start_tracking_elevation"`
	IsActive               bool    `json:"is_active"`
}

// FetchSatellites retrieves the full satellite catalogue.
func (c *Client) FetchSatellites(ctx context.Context) ([]models.Satellite, error) {
	var payload []satellitePayload
	if err := c.get(ctx, c.satellitesURL, &payload); err != nil {
		return nil, err
	}

	sats := make([]models.Satellite, 0, len(payload))
	for _, p := range payload {
		sats = append(sats, models.Satellite{
			Name:         p.Name,
			Line1:        p.Line1,
			Line2:        p.Line2,
			TLEGroup:     p.TLEGroup,
			AutoTracking: p.AutoTracking,
			OrbitStatus:  models.OrbitStatus(p.OrbitStatus),
			CreatedAt:    parseTimestamp(p.CreatedAt),
			LastUpdated:  parseTimestamp(p.LastUpdated),
		})
	}
	return sats, nil
}

// FetchStations retrieves all configured ground stations.
func (c *Client) FetchStations(ctx context.Context) ([]models.Station, error) {
	var payload []stationPayload
	if err := c.get(ctx, c.stationsURL, &payload); err != nil {
		return nil, err
	}

	stations := make([]models.Station, 0, len(payload))
	for _, p := range payload {
		stations = append(stations, models.Station{
			Name:         p.Name,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			Altitude:     p.Altitude,
			MinElevation: p.StartTrackingElevation,
			Active:       p.IsActive,
		})
	}
	return stations, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// parseTimestamp tolerates absent or malformed timestamps; they are metadata
// only and never enter scheduling decisions.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
