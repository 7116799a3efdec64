package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	passesTracked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattrack_passes_tracked_total",
			Help: "Total number of passes the tracking loop has run.",
		},
	)

	pointingCommands = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattrack_pointing_commands_total",
			Help: "Total number of pointing commands sent to the mount.",
		},
	)

	ephemerisErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattrack_ephemeris_errors_total",
			Help: "Total number of failed ephemeris service calls.",
		},
	)

	actuatorFaults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattrack_actuator_faults_total",
			Help: "Total number of failed actuator commands.",
		},
	)

	catalogRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattrack_catalog_refreshes_total",
			Help: "Total number of catalogue refresh attempts by result.",
		},
		[]string{"result"},
	)

	currentElevation = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sattrack_current_elevation_degrees",
			Help: "Elevation of the object currently being tracked.",
		},
	)

	currentAzimuth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sattrack_current_azimuth_degrees",
			Help: "Azimuth of the object currently being tracked.",
		},
	)

	scheduleState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sattrack_schedule_state",
			Help: "Scheduler state: 0=idle, 1=waiting, 2=tracking, 3=cooldown.",
		},
	)
)

func init() {
	prometheus.MustRegister(passesTracked)
	prometheus.MustRegister(pointingCommands)
	prometheus.MustRegister(ephemerisErrors)
	prometheus.MustRegister(actuatorFaults)
	prometheus.MustRegister(catalogRefreshes)
	prometheus.MustRegister(currentElevation)
	prometheus.MustRegister(currentAzimuth)
	prometheus.MustRegister(scheduleState)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordPassStart()      { passesTracked.Inc() }
func RecordEphemerisError() { ephemerisErrors.Inc() }
func RecordActuatorFault()  { actuatorFaults.Inc() }

func RecordPointing(azimuth, elevation float64) {
	pointingCommands.Inc()
	currentAzimuth.Set(azimuth)
	currentElevation.Set(elevation)
}

func RecordCatalogRefresh(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	catalogRefreshes.WithLabelValues(result).Inc()
}

func SetScheduleState(state int) {
	scheduleState.Set(float64(state))
}
