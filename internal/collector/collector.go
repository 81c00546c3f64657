// Package collector gathers raw review items from external platforms. Every
// platform is unreliable: collectors time out, rate-limit, or change markup,
// so the fan-in keeps whatever arrived and logs the rest.
package collector

import (
	"context"
	"fmt"

	"brandmonitor/internal/domain"
)

// Collector captures a single platform strategy (Dcard, SerpAPI, Google).
type Collector interface {
	Name() string
	Collect(ctx context.Context, brand string) ([]domain.Review, error)
}

// Registry keeps collectors in registration order; the fan-in preserves that
// order so reports stay deterministic.
type Registry struct {
	order      []string
	collectors map[string]Collector
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{collectors: map[string]Collector{}}
}

// Register adds or replaces a collector.
func (r *Registry) Register(c Collector) {
	if r.collectors == nil {
		r.collectors = map[string]Collector{}
	}
	if _, exists := r.collectors[c.Name()]; !exists {
		r.order = append(r.order, c.Name())
	}
	r.collectors[c.Name()] = c
}

// Names lists registered collectors in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns a collector by name.
func (r *Registry) Resolve(name string) (Collector, error) {
	if c, ok := r.collectors[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("collector %s is not registered", name)
}
