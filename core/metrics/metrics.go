package metrics

import (
	"sync"

	"feed-sync/core/poller"
	"feed-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const namespace = "feed_sync"

var (
	registerOnce sync.Once

	passes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "passes_total",
			Help:      "Finished sync passes.",
		},
		[]string{"trigger", "result", "kind"},
	)
	passDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pass_duration_seconds",
			Help:      "Sync pass duration in seconds.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"trigger"},
	)
	packages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "packages_total",
			Help:      "Packages processed by outcome.",
		},
		[]string{"outcome"},
	)
	releaseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staging",
			Name:      "release_failures_total",
			Help:      "Staged artifacts that could not be deleted.",
		},
	)
)

// RegisterMetrics registers the pass metrics on the default registry.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(passes, passDuration, packages, releaseFailures)
	})
}

// RecordPass records the outcome of one pass. It has the poller completion hook signature.
func RecordPass(res poller.Result) {
	RegisterMetrics()

	result := "success"
	if res.Err != nil {
		result = "failure"
	}
	passes.WithLabelValues(res.Trigger, result, string(reconcile.KindOf(res.Err))).Inc()

	r := res.Report
	if r == nil {
		return
	}
	if !r.FinishedAt.IsZero() {
		passDuration.WithLabelValues(res.Trigger).Observe(r.Duration().Seconds())
	}
	packages.WithLabelValues("uploaded").Add(float64(r.Uploaded))
	packages.WithLabelValues("skipped").Add(float64(r.Skipped))
	packages.WithLabelValues("invalid").Add(float64(r.Invalid))
	packages.WithLabelValues("filtered").Add(float64(r.Filtered))
	releaseFailures.Add(float64(r.ReleaseFailures))
}

// StatusSource exposes the poller state.
type StatusSource interface {
	Status() poller.Status
}

// RegisterPoller exports the poller's own counters, read on every scrape.
func RegisterPoller(reg prometheus.Registerer, src StatusSource) error {
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "running",
			Help:      "1 while a sync pass holds the guard.",
		}, func() float64 {
			if src.Status().Running {
				return 1
			}
			return 0
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "dropped_ticks_total",
			Help:      "Ticks dropped because a pass was still running.",
		}, func() float64 {
			return float64(src.Status().DroppedTicks)
		}),
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}
