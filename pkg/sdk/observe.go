package blogsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// op names an engine call in logs and the "operation" label.
type op string

const (
	opLoad    op = "load"
	opIndex   op = "index"
	opSearch  op = "search"
	opAuthors op = "authors"
	opTags    op = "tags"
	opSuggest op = "suggest"
)

// Values of the "status" label.
const (
	statusOK              = "ok"
	statusNotReady        = "not_ready"
	statusInvalid         = "invalid"
	statusNoFeed          = "no_feed"
	statusFeedUnavailable = "feed_unavailable"
	statusCanceled        = "canceled"
	statusError           = "error"
)

// status maps an engine error to its label value. Order matters: a failed
// reload wraps both the feed error and whatever the index reported.
func status(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrNoFeed):
		return statusNoFeed
	case errors.Is(err, ErrFeedUnavailable):
		return statusFeedUnavailable
	case errors.Is(err, ErrInvalidArgument):
		return statusInvalid
	case errors.Is(err, ErrNotReady):
		return statusNotReady
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusCanceled
	default:
		return statusError
	}
}

type engineMetrics struct {
	calls     *prometheus.CounterVec   // operation, status
	latency   *prometheus.HistogramVec // operation
	matches   *prometheus.HistogramVec // operation
	documents *prometheus.GaugeVec     // kind
}

func newEngineMetrics(reg prometheus.Registerer) (*engineMetrics, error) {
	var (
		m   engineMetrics
		err error
	)
	if m.calls, err = adopt(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blogsearch",
		Subsystem: "engine",
		Name:      "calls_total",
		Help:      "Engine calls by operation and outcome.",
	}, []string{"operation", "status"})); err != nil {
		return nil, err
	}
	if m.latency, err = adopt(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blogsearch",
		Subsystem: "engine",
		Name:      "call_duration_seconds",
		Help:      "Engine call latency.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, 1, 5},
	}, []string{"operation"})); err != nil {
		return nil, err
	}
	if m.matches, err = adopt(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blogsearch",
		Subsystem: "engine",
		Name:      "matches",
		Help:      "Results found per successful search call.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500},
	}, []string{"operation"})); err != nil {
		return nil, err
	}
	if m.documents, err = adopt(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blogsearch",
		Subsystem: "engine",
		Name:      "indexed_documents",
		Help:      "Documents currently indexed, by kind.",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	return &m, nil
}

// adopt registers c, or returns the collector already registered under the
// same descriptor so several engines can share one registry.
func adopt[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var dup prometheus.AlreadyRegisteredError
	if !errors.As(err, &dup) {
		return c, fmt.Errorf("blogsearch: register metric: %w", err)
	}
	prev, ok := dup.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("blogsearch: metric registered as %T", dup.ExistingCollector)
	}
	return prev, nil
}

// observer reports engine calls. Either field may be nil.
type observer struct {
	log     *slog.Logger
	metrics *engineMetrics
}

func newObserver(log *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{log: log}
	if reg == nil {
		return o, nil
	}
	m, err := newEngineMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

// call is one engine operation in flight. Use it as
//
//	defer func(c *call) { c.found(len(out)).end(err) }(e.obs.begin(opTags))
type call struct {
	obs   *observer
	op    op
	start time.Time
	hits  int // -1 when the operation returns no result list
}

func (o *observer) begin(name op) *call {
	if o == nil {
		return nil
	}
	return &call{obs: o, op: name, start: time.Now(), hits: -1}
}

// found records how many results the call produced.
func (c *call) found(n int) *call {
	if c != nil {
		c.hits = n
	}
	return c
}

func (c *call) end(err error) {
	if c == nil {
		return
	}
	took := time.Since(c.start)
	st := status(err)

	if m := c.obs.metrics; m != nil {
		m.calls.WithLabelValues(string(c.op), st).Inc()
		m.latency.WithLabelValues(string(c.op)).Observe(took.Seconds())
		if err == nil && c.hits >= 0 {
			m.matches.WithLabelValues(string(c.op)).Observe(float64(c.hits))
		}
	}

	log := c.obs.log
	if log == nil {
		return
	}
	attrs := []any{"op", string(c.op), "status", st, "took", took}
	switch {
	case err != nil:
		log.Warn("engine call failed", append(attrs, "error", err)...)
	case c.hits >= 0:
		log.Debug("engine call done", append(attrs, "hits", c.hits)...)
	default:
		log.Debug("engine call done", attrs...)
	}
}

// indexed publishes the index sizes after a load, index or clear.
func (o *observer) indexed(st Stats) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.documents.WithLabelValues("articles").Set(float64(st.Articles))
		o.metrics.documents.WithLabelValues("authors").Set(float64(st.Authors))
		o.metrics.documents.WithLabelValues("tags").Set(float64(st.Tags))
	}
	if o.log != nil {
		o.log.Info("index updated",
			"ready", st.Ready,
			"articles", st.Articles,
			"authors", st.Authors,
			"tags", st.Tags,
		)
	}
}
