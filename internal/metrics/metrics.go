package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"searchrelay/internal/models"
)

// Provider outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	querySubmissionsDesc = prometheus.NewDesc(
		"searchrelay_query_submissions_total",
		"Total submissions of the most searched queries",
		[]string{"query"},
		nil,
	)
	historySizeDesc = prometheus.NewDesc(
		"searchrelay_history_queries",
		"Number of distinct queries in search history",
		nil,
		nil,
	)

	providerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchrelay_provider_requests_total",
			Help: "External provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	providerUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "searchrelay_provider_up",
			Help: "Whether the provider endpoint answered the last background probe",
		},
		[]string{"provider"},
	)
)

// QuerySource is the part of the history store the collector reads.
type QuerySource interface {
	TopQueries(ctx context.Context, limit int) ([]models.QueryRecord, error)
	AllQueries(ctx context.Context) ([]string, error)
}

// QueryCollector is a custom Prometheus collector that reads query
// submission counts from the history store on each scrape.
type QueryCollector struct {
	store QuerySource
	limit int
}

// NewQueryCollector creates a collector exporting the top limit queries.
func NewQueryCollector(store QuerySource, limit int) *QueryCollector {
	return &QueryCollector{store: store, limit: limit}
}

// Describe sends the metric descriptors to the channel.
func (c *QueryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- querySubmissionsDesc
	ch <- historySizeDesc
}

// Collect queries the store and emits submission counters and history size.
func (c *QueryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	top, err := c.store.TopQueries(ctx, c.limit)
	if err != nil {
		slog.Error("failed to collect query submission metrics", "error", err)
	} else {
		for _, r := range top {
			ch <- prometheus.MustNewConstMetric(
				querySubmissionsDesc,
				prometheus.CounterValue,
				float64(r.Count),
				r.Query,
			)
		}
	}

	all, err := c.store.AllQueries(ctx)
	if err != nil {
		slog.Error("failed to collect history size metric", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(historySizeDesc, prometheus.GaugeValue, float64(len(all)))
}

var initOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup.
func Init(store QuerySource, topQueries int) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewQueryCollector(store, topQueries), providerRequests, providerUp)
	})
}

// RecordProviderOutcome counts one external provider call.
func RecordProviderOutcome(provider, outcome string) {
	providerRequests.WithLabelValues(provider, outcome).Inc()
}

// SetProviderUp records the result of a provider reachability probe.
func SetProviderUp(provider string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	providerUp.WithLabelValues(provider).Set(v)
}
