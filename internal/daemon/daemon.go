package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sattrack/internal/actuator"
	"sattrack/internal/catalog"
	"sattrack/internal/clock"
	"sattrack/internal/config"
	"sattrack/internal/control"
	"sattrack/internal/database"
	"sattrack/internal/ephemeris"
	"sattrack/internal/metrics"
	"sattrack/internal/notify"
	"sattrack/internal/pass"
	"sattrack/internal/tasks"
)

// Daemon wires the tracking components together and manages their lifecycle.
type Daemon struct {
	log        *slog.Logger
	db         *database.DB
	driver     actuator.Driver
	scheduler  *control.Scheduler
	runner     *tasks.Runner
	metricsWeb *http.Server

	cancel context.CancelFunc
	done   chan error
}

// New builds a daemon from configuration. Startup fails when no actuator can
// be configured or no active ground station exists; these are the only fatal
// conditions, everything after Start degrades and retries.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	driver, err := newDriver(cfg.Actuator, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing actuator: %w", err)
	}

	client := catalog.NewClient(cfg.Catalog.SatellitesURL, cfg.Catalog.StationsURL, cfg.Tracking.CallTimeout)
	source := catalog.NewSource(client, db.SatelliteRepository(), db.StationRepository(), logger)

	// Fail fast on a missing station: the scheduler would only spin on it.
	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.Tracking.CallTimeout)
	station, err := source.ActiveStation(startupCtx)
	cancel()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("resolving ground station: %w", err)
	}
	logger.Info("Tracking from station", "station", station.String(), "min_elevation", station.MinElevation)

	eph := ephemeris.NewSGP4(logger)
	finder := pass.NewFinder(eph, cfg.Tracking.Horizon, logger)
	clk := clock.System{}

	tracker := control.NewTracker(eph, driver, clk, cfg.Tracking.PollInterval, cfg.Tracking.CallTimeout, logger)
	scheduler := control.NewScheduler(source, finder, eph, tracker, newNotifier(cfg, logger), clk, control.SchedulerConfig{
		LeadMargin:     cfg.Tracking.LeadMargin,
		TrailingMargin: cfg.Tracking.TrailingMargin,
		IdleRetry:      cfg.Tracking.IdleRetry,
		RetryBackoff:   cfg.Tracking.RetryBackoff,
		RetryLimit:     cfg.Tracking.RetryLimit,
		CallTimeout:    cfg.Tracking.CallTimeout,
	}, logger)

	runner := tasks.NewRunner(logger)
	runner.Add(tasks.NewCatalogRefresh(source, cfg.Catalog.RefreshInterval))

	d := &Daemon{
		log:       logger,
		db:        db,
		driver:    driver,
		scheduler: scheduler,
		runner:    runner,
		done:      make(chan error, 1),
	}

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		d.metricsWeb = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
	}

	return d, nil
}

func newDriver(cfg config.ActuatorConfig, logger *slog.Logger) (actuator.Driver, error) {
	switch cfg.Driver {
	case "pwm":
		return actuator.NewPWM(cfg.PWMChipPath, cfg.AzimuthChannel, cfg.ElevationChannel)
	case "log":
		return actuator.NewLog(logger), nil
	default:
		return nil, fmt.Errorf("unknown actuator driver %q", cfg.Driver)
	}
}

func newNotifier(cfg *config.Config, logger *slog.Logger) notify.Notifier {
	sinks := notify.Multi{notify.NewLog(logger)}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		sinks = append(sinks, notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger))
	}
	return sinks
}

// Start launches the background tasks, the metrics endpoint, and the
// scheduling loop.
func (d *Daemon) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	if d.metricsWeb != nil {
		go func() {
			d.log.Info("Metrics endpoint listening", "addr", d.metricsWeb.Addr)
			if err := d.metricsWeb.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.log.Error("Metrics endpoint failed", "error", err)
			}
		}()
	}

	d.runner.Start(ctx)

	go func() {
		d.done <- d.scheduler.Run(ctx)
	}()

	d.log.Info("Daemon started")
}

// Stop shuts everything down, parking the mount before returning. Park is
// idempotent, so parking here after the tracker's own park is safe.
func (d *Daemon) Stop() {
	d.log.Info("Stopping daemon")
	d.cancel()

	select {
	case err := <-d.done:
		if err != nil && !errors.Is(err, context.Canceled) {
			d.log.Error("Scheduler stopped with error", "error", err)
		}
	case <-time.After(30 * time.Second):
		d.log.Error("Scheduler did not stop in time")
	}

	d.runner.Stop()

	if err := d.driver.Park(); err != nil {
		d.log.Error("Failed to park mount on shutdown", "error", err)
	}

	if d.metricsWeb != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.metricsWeb.Shutdown(shutdownCtx); err != nil {
			d.log.Error("Error stopping metrics endpoint", "error", err)
		}
	}

	if err := d.db.Close(); err != nil {
		d.log.Error("Error closing database", "error", err)
	}

	d.log.Info("Daemon stopped")
}
