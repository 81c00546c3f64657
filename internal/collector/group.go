package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"brandmonitor/internal/domain"
	"brandmonitor/internal/ports"
)

const (
	defaultCollectorTimeout = 15 * time.Second
	defaultBatchTimeout     = 45 * time.Second
)

// Group fans a brand query out to every registered collector concurrently and
// merges whatever succeeded. One collector failing or timing out never aborts
// the others.
type Group struct {
	registry         *Registry
	collectorTimeout time.Duration
	batchTimeout     time.Duration
	logger           *slog.Logger
}

var _ ports.ReviewSource = (*Group)(nil)

// NewGroup wires the registry with per-collector and whole-batch deadlines.
// Zero durations fall back to defaults.
func NewGroup(registry *Registry, collectorTimeout, batchTimeout time.Duration, logger *slog.Logger) *Group {
	if collectorTimeout <= 0 {
		collectorTimeout = defaultCollectorTimeout
	}
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Group{
		registry:         registry,
		collectorTimeout: collectorTimeout,
		batchTimeout:     batchTimeout,
		logger:           logger,
	}
}

// Fetch runs all collectors and concatenates their results in registration
// order. Failures are logged and skipped; Fetch itself only reports what it
// gathered.
func (g *Group) Fetch(ctx context.Context, brand string) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, g.batchTimeout)
	defer cancel()

	names := g.registry.Names()
	perSlot := make([][]domain.Review, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		c, err := g.registry.Resolve(name)
		if err != nil {
			continue
		}

		wg.Add(1)
		go func(slot int, c Collector) {
			defer wg.Done()

			cctx, ccancel := context.WithTimeout(ctx, g.collectorTimeout)
			defer ccancel()

			reviews, err := c.Collect(cctx, brand)
			if err != nil {
				g.logger.Warn("collector failed", "collector", c.Name(), "error", err)
				return
			}
			perSlot[slot] = reviews
			g.logger.Debug("collector done", "collector", c.Name(), "count", len(reviews))
		}(i, c)
	}
	wg.Wait()

	var merged []domain.Review
	for _, reviews := range perSlot {
		merged = append(merged, reviews...)
	}
	return merged, nil
}
