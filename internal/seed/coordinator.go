// Package seed coordinates the admin bulk load of the catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
)

// SelectorAll loads every collection.
const SelectorAll = "all"

// DefaultStepTimeout bounds the clear, each load step and the cache flush.
const DefaultStepTimeout = 30 * time.Second

// ErrUnknownSelector is returned for a type that names no collection.
var ErrUnknownSelector = errors.New("unknown seed type")

// Step loads one collection and returns how many rows it inserted.
type Step struct {
	Kind domain.Kind
	Load func(ctx context.Context) (int, error)
}

// Clearer empties every managed table.
type Clearer interface {
	ClearAll(ctx context.Context) error
}

// Flusher drops every cached catalog read.
type Flusher interface {
	FlushAll(ctx context.Context) error
}

// Report is the outcome of a run. Counts always carries every collection.
type Report struct {
	Success  bool           `json:"success"`
	Type     string         `json:"type"`
	Cleared  bool           `json:"cleared"`
	Counts   map[string]int `json:"counts"`
	Errors   []string       `json:"errors"`
	Duration string         `json:"duration"`
}

// Coordinator runs load steps in the fixed collection order.
type Coordinator struct {
	steps   map[domain.Kind]Step
	clearer Clearer
	flusher Flusher
	log     logger.Logger
	metrics *metrics.Collector
	timeout time.Duration
	now     func() time.Time
}

// NewCoordinator registers steps. A nil flusher disables cache invalidation.
func NewCoordinator(clearer Clearer, flusher Flusher, log logger.Logger, m *metrics.Collector, steps ...Step) *Coordinator {
	c := &Coordinator{
		steps:   make(map[domain.Kind]Step, len(steps)),
		clearer: clearer,
		flusher: flusher,
		log:     log,
		metrics: m,
		timeout: DefaultStepTimeout,
		now:     time.Now,
	}
	for _, s := range steps {
		c.steps[s.Kind] = s
	}
	return c
}

// SetStepTimeout changes how long the clear, each step and the flush may
// take. Non-positive values keep the current bound.
func (c *Coordinator) SetStepTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

func (c *Coordinator) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// ParseSelector normalizes the requested type. Empty means all.
func ParseSelector(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == SelectorAll {
		return SelectorAll, nil
	}
	if k, ok := domain.ParseKind(raw); ok {
		return string(k), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSelector, raw)
}

// Run optionally clears the catalog then loads the selected collections.
// A failing collection is recorded and does not stop the others.
func (c *Coordinator) Run(ctx context.Context, selector string, clearFirst bool) (Report, error) {
	selector, err := ParseSelector(selector)
	if err != nil {
		return Report{}, err
	}

	start := c.now()
	report := Report{
		Type:   selector,
		Counts: make(map[string]int, len(domain.Kinds)),
		Errors: []string{},
	}
	for _, k := range domain.Kinds {
		report.Counts[string(k)] = 0
	}

	c.log.Info("seed run started", logger.String("type", selector), logger.Bool("clear", clearFirst))

	if clearFirst {
		cctx, cancel := c.bounded(ctx)
		err := c.clearer.ClearAll(cctx)
		cancel()
		if err != nil {
			report.Errors = append(report.Errors, "clear: "+err.Error())
			return c.finish(ctx, report, start), nil
		}
		report.Cleared = true
	}

	for _, kind := range domain.Kinds {
		if selector != SelectorAll && selector != string(kind) {
			continue
		}
		step, ok := c.steps[kind]
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: no loader registered", kind))
			continue
		}

		sctx, cancel := c.bounded(ctx)
		n, err := runStep(sctx, step)
		cancel()
		if err != nil {
			c.log.Warn("seed step failed", logger.String("kind", string(kind)), logger.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", kind, err))
			continue
		}
		report.Counts[string(kind)] = n
	}

	return c.finish(ctx, report, start), nil
}

func runStep(ctx context.Context, step Step) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return step.Load(ctx)
}

func (c *Coordinator) finish(ctx context.Context, report Report, start time.Time) Report {
	if c.flusher != nil {
		fctx, cancel := c.bounded(ctx)
		if err := c.flusher.FlushAll(fctx); err != nil {
			c.log.Warn("cache flush after seed failed", logger.Error(err))
		}
		cancel()
	}

	report.Success = len(report.Errors) == 0
	report.Duration = c.now().Sub(start).Round(time.Millisecond).String()

	c.metrics.SeedRun(report.Type, report.Success, report.Counts)
	c.log.Info("seed run finished",
		logger.String("type", report.Type),
		logger.Bool("success", report.Success),
		logger.Int("errors", len(report.Errors)),
		logger.String("duration", report.Duration))
	return report
}

// Sink bulk-inserts the items of one collection.
type Sink[T any] interface {
	Load(ctx context.Context, items []T) (int, error)
}

// CollectionStep reads fixtures with read and hands them to sink.
func CollectionStep[T any](kind domain.Kind, read func() ([]T, error), sink Sink[T]) Step {
	return Step{Kind: kind, Load: func(ctx context.Context) (int, error) {
		items, err := read()
		if err != nil {
			return 0, err
		}
		return sink.Load(ctx, items)
	}}
}
