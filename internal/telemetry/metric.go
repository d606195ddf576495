package telemetry

import (
	"strconv"
	"time"
	"travelmail/config"
	"travelmail/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	HttpRequestsTotal     *prometheus.CounterVec
	HttpRequestDuration   *prometheus.HistogramVec
	CompletionTotal       *prometheus.CounterVec
	CompletionDuration    *prometheus.HistogramVec
	ResolverProbeTotal    *prometheus.CounterVec
	RateLimitedTotal      prometheus.Counter
	HistoryRetentionTotal prometheus.Counter
	config                *config.Configuration
}

// NewMetric 建立所有指標（未啟用時回傳空殼，各方法皆可安全呼叫）
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	prefix := config.App.Name + "_"
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricHttpRequestDuration),
				Help:    "API request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		CompletionTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricCompletionTotal),
				Help: "Completion results by task and outcome (success or failure kind)",
			},
			labelNames(core.MetricLabelTask, core.MetricLabelOutcome),
		),
		CompletionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricCompletionDuration),
				Help:    "Model resolution plus generateContent duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelTask),
		),
		ResolverProbeTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricResolverProbeTotal),
				Help: "Model list probes by API version and outcome",
			},
			labelNames(core.MetricLabelVersion, core.MetricLabelOutcome),
		),
		RateLimitedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricRateLimitTotal),
				Help: "Requests rejected by the per-credential rate limiter",
			},
		),
		HistoryRetentionTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricHistoryRetentionTotal),
				Help: "Completion records removed by the retention job",
			},
		),
	}
}

func (m *Metric) ObserveRequest(endpoint string, status int, duration time.Duration) {
	if m == nil || m.HttpRequestsTotal == nil || m.HttpRequestDuration == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.HttpRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metric) ObserveCompletion(task, outcome string, duration time.Duration) {
	if m == nil || m.CompletionTotal == nil || m.CompletionDuration == nil {
		return
	}
	m.CompletionTotal.WithLabelValues(task, outcome).Inc()
	m.CompletionDuration.WithLabelValues(task).Observe(duration.Seconds())
}

func (m *Metric) ObserveProbe(version, outcome string) {
	if m == nil || m.ResolverProbeTotal == nil {
		return
	}
	m.ResolverProbeTotal.WithLabelValues(version, outcome).Inc()
}

func (m *Metric) IncRateLimited() {
	if m == nil || m.RateLimitedTotal == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

func (m *Metric) AddRetentionDeleted(n int64) {
	if m == nil || m.HistoryRetentionTotal == nil || n <= 0 {
		return
	}
	m.HistoryRetentionTotal.Add(float64(n))
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
