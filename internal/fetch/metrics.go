package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "imdb"

const (
	OutcomeOK      = "ok"
	OutcomeStatus  = "http_status"
	OutcomeNetwork = "network"
	OutcomeReplay  = "replay"
)

// Metrics 汇总抓取与文档缓存的 Prometheus 指标。
type Metrics struct {
	Requests      *prometheus.CounterVec
	ParseFailures prometheus.Counter
	Duration      prometheus.Histogram
	CacheLookups  *prometheus.CounterVec
}

// NewMetrics 创建并注册指标；reg 为 nil 时使用 prometheus.DefaultRegisterer。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Page fetches by outcome",
		}, []string{"outcome"}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "parse_failures_total",
			Help:      "Fetched bodies that could not be parsed as HTML",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Time spent fetching and parsing one page",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "document_cache",
			Name:      "lookups_total",
			Help:      "Per-entity document cache lookups by page kind and result",
		}, []string{"kind", "result"}),
	}
}

func (m *Metrics) request(outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) parseFailure() {
	if m == nil {
		return
	}
	m.ParseFailures.Inc()
}

// ObserveLookup 适配 page.Cache.OnLookup。
func (m *Metrics) ObserveLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}
