package catalog

import (
	"context"
	"time"

	"github.com/evisdrenova/zonaei-skill/internal/metrics"
)

// Instrumented records latency and outcome of every call to the wrapped catalog.
type Instrumented struct {
	next Catalog
}

func NewInstrumented(next Catalog) *Instrumented {
	return &Instrumented{next: next}
}

func (c *Instrumented) ProgramByName(ctx context.Context, name string) (*Program, error) {
	start := time.Now()
	p, err := c.next.ProgramByName(ctx, name)
	observe("program_by_name", start, p != nil, err)
	return p, err
}

func (c *Instrumented) ProjectsByStage(ctx context.Context, stage string) ([]Project, error) {
	start := time.Now()
	ps, err := c.next.ProjectsByStage(ctx, stage)
	observe("projects_by_stage", start, len(ps) > 0, err)
	return ps, err
}

func (c *Instrumented) ProjectByName(ctx context.Context, name string) (*Project, error) {
	start := time.Now()
	p, err := c.next.ProjectByName(ctx, name)
	observe("project_by_name", start, p != nil, err)
	return p, err
}

func observe(op string, start time.Time, found bool, err error) {
	outcome := "found"
	switch {
	case err != nil:
		outcome = "error"
	case !found:
		outcome = "not_found"
	}
	metrics.CatalogDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}
