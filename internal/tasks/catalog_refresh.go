package tasks

import (
	"context"
	"time"

	"sattrack/internal/metrics"
)

// Refresher is the slice of the catalogue source this task needs.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefresh keeps the local catalogue cache warm so an API outage
// during scheduling degrades to slightly stale element sets instead of an
// empty fallback.
type CatalogRefresh struct {
	source   Refresher
	interval time.Duration
}

func NewCatalogRefresh(source Refresher, interval time.Duration) *CatalogRefresh {
	return &CatalogRefresh{source: source, interval: interval}
}

func (c *CatalogRefresh) Name() string {
	return "catalog_refresh"
}

func (c *CatalogRefresh) Interval() time.Duration {
	return c.interval
}

func (c *CatalogRefresh) Run(ctx context.Context) error {
	err := c.source.Refresh(ctx)
	metrics.RecordCatalogRefresh(err == nil)
	return err
}
