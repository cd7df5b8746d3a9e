// Package collector gathers workout events from multiple independent,
// unreliable relays. Queries are issued in windowed batches: queries within
// a batch run concurrently against every relay, batches run sequentially
// with a short pause between them. Each query has its own timeout; a timed
// out or failed query contributes whatever events it received and never
// aborts the pass. Results are deduplicated by the event's content-derived
// id, since the same logical event routinely arrives from several relays.
package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bohemia111/RUNSTR-sub012/internal/logging"
	"github.com/bohemia111/RUNSTR-sub012/internal/metrics"
	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/relay"
)

// Window is a relative query time window. Events qualify when their age is
// in [MinAge, MaxAge); MaxAge == 0 means unbounded. Recent, high-density
// windows carry smaller limits than older ones to balance completeness
// against per-query payload size.
type Window struct {
	MinAge time.Duration
	MaxAge time.Duration
	Limit  int
}

// DefaultWindows returns the default time-window strategy.
func DefaultWindows() []Window {
	day := 24 * time.Hour
	return []Window{
		{MinAge: 0, MaxAge: 7 * day, Limit: 100},
		{MinAge: 7 * day, MaxAge: 14 * day, Limit: 100},
		{MinAge: 14 * day, MaxAge: 30 * day, Limit: 150},
		{MinAge: 30 * day, MaxAge: 90 * day, Limit: 200},
		{MinAge: 90 * day, MaxAge: 365 * day, Limit: 300},
		{MinAge: 365 * day, MaxAge: 0, Limit: 500},
	}
}

// Config controls a collector's query strategy.
type Config struct {
	// QueryTimeout bounds each individual relay query.
	QueryTimeout time.Duration

	// BatchPause is the pause between window batches.
	BatchPause time.Duration

	// CompletenessThreshold triggers the fallback unbounded query when the
	// windowed queries return fewer unique events than this.
	CompletenessThreshold int

	// FallbackCaps are the escalating result-size caps for the fallback
	// query. Escalation stops once a cap is not filled.
	FallbackCaps []int

	Windows []Window
}

// DefaultConfig returns a Config with the default query strategy.
func DefaultConfig() Config {
	return Config{
		QueryTimeout:          8 * time.Second,
		BatchPause:            250 * time.Millisecond,
		CompletenessThreshold: 100,
		FallbackCaps:          []int{500, 1000, 2000},
		Windows:               DefaultWindows(),
	}
}

// Result is the deduplicated union of all queries in one collection pass,
// with per-query outcome counts so callers can tell partial data from
// complete data.
type Result struct {
	Events []models.RawEvent
	Stats  models.QueryStats
}

// Collector queries a fixed set of relays.
type Collector struct {
	relays []relay.Client
	cfg    Config
	log    *logging.Logger
	now    func() time.Time
}

// New creates a Collector over the given relays.
func New(relays []relay.Client, cfg Config, log *logging.Logger) *Collector {
	if log == nil {
		log = logging.Default()
	}
	return &Collector{
		relays: relays,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Collect gathers events authored by the given pubkeys with the given kind
// across all configured windows, falling back to an unbounded query when
// the windowed queries look incomplete. A pass that got zero events from
// every query returns an empty result, not an error; the only error
// returned is cancellation of ctx itself.
func (c *Collector) Collect(ctx context.Context, authors []string, kind int) (*Result, error) {
	res := &Result{}
	seen := make(map[string]struct{})
	now := c.now().Unix()

	for i, w := range c.cfg.Windows {
		if i > 0 && c.cfg.BatchPause > 0 {
			select {
			case <-time.After(c.cfg.BatchPause):
			case <-ctx.Done():
				return res, ctx.Err()
			}
		}

		f := c.windowFilter(w, now, authors, kind)
		c.runBatch(ctx, f, seen, res)

		if err := ctx.Err(); err != nil {
			return res, err
		}
	}

	if len(res.Events) < c.cfg.CompletenessThreshold {
		c.collectFallback(ctx, authors, kind, seen, res)
		if err := ctx.Err(); err != nil {
			return res, err
		}
	}

	metrics.EventsCollected.Add(float64(len(res.Events)))
	c.log.DebugContext(ctx, "collection pass complete",
		"events", len(res.Events),
		"queries", res.Stats.Queries,
		"succeeded", res.Stats.Succeeded,
		"timed_out", res.Stats.TimedOut,
		"failed", res.Stats.Failed,
	)
	return res, nil
}

// collectFallback issues unbounded queries with escalating caps to catch
// events relays failed to surface through their time index.
func (c *Collector) collectFallback(ctx context.Context, authors []string, kind int, seen map[string]struct{}, res *Result) {
	for _, limit := range c.cfg.FallbackCaps {
		metrics.FallbackQueries.Inc()
		f := relay.Filter{Kinds: []int{kind}, Authors: authors, Limit: limit}
		maxReturned := c.runBatch(ctx, f, seen, res)
		if ctx.Err() != nil || maxReturned < limit {
			return
		}
	}
}

// runBatch queries every relay concurrently with the same filter, merging
// deduplicated results into res. It returns the largest raw result count
// any single relay produced.
func (c *Collector) runBatch(ctx context.Context, f relay.Filter, seen map[string]struct{}, res *Result) int {
	type outcome struct {
		events []models.RawEvent
		err    error
	}

	outcomes := make([]outcome, len(c.relays))
	var wg sync.WaitGroup
	for i, rl := range c.relays {
		wg.Add(1)
		go func(i int, rl relay.Client) {
			defer wg.Done()
			qctx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
			defer cancel()
			events, err := rl.Query(qctx, f)
			outcomes[i] = outcome{events: events, err: err}
		}(i, rl)
	}
	wg.Wait()

	maxReturned := 0
	for i, o := range outcomes {
		res.Stats.Queries++
		switch {
		case o.err == nil:
			res.Stats.Succeeded++
			metrics.QueriesTotal.WithLabelValues(metrics.OutcomeSucceeded).Inc()
		case errors.Is(o.err, context.DeadlineExceeded):
			// Normal termination for a query with more data than time;
			// partial results are kept.
			res.Stats.TimedOut++
			metrics.QueriesTotal.WithLabelValues(metrics.OutcomeTimedOut).Inc()
			c.log.DebugContext(ctx, "relay query timed out",
				"relay", c.relays[i].Name(), "partial_events", len(o.events))
		default:
			res.Stats.Failed++
			metrics.QueriesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			c.log.WarnContext(ctx, "relay query failed",
				"relay", c.relays[i].Name(), "error", o.err)
		}

		if len(o.events) > maxReturned {
			maxReturned = len(o.events)
		}
		for _, ev := range o.events {
			if ev.ID == "" {
				continue
			}
			if _, dup := seen[ev.ID]; dup {
				metrics.DuplicatesDropped.Inc()
				continue
			}
			seen[ev.ID] = struct{}{}
			res.Events = append(res.Events, ev)
		}
	}
	return maxReturned
}

func (c *Collector) windowFilter(w Window, now int64, authors []string, kind int) relay.Filter {
	f := relay.Filter{
		Kinds:   []int{kind},
		Authors: authors,
		Limit:   w.Limit,
		Until:   now - int64(w.MinAge/time.Second),
	}
	if w.MaxAge > 0 {
		f.Since = now - int64(w.MaxAge/time.Second) + 1
	}
	return f
}
