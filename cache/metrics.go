package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 用于 Prometheus 监控缓存命中、丢失、驱逐、过期等指标，按缓存名称区分
type Metrics struct {
	Hits        *prometheus.CounterVec
	Misses      *prometheus.CounterVec
	Evictions   *prometheus.CounterVec
	Expirations *prometheus.CounterVec
	Entries     *prometheus.GaugeVec
}

// NewMetrics 创建指标并注册到 reg，reg 为空时只创建不注册
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}, []string{"cache"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses, expired reads included",
		}, []string{"cache"}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Entries removed because the size bound was exceeded",
		}, []string{"cache"}),
		Expirations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_expirations_total",
			Help:      "Entries removed because their TTL passed",
		}, []string{"cache"}),
		Entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Current number of stored entries, expired but unswept ones included",
		}, []string{"cache"}),
	}
	if reg != nil {
		reg.MustRegister(m.Hits, m.Misses, m.Evictions, m.Expirations, m.Entries)
	}
	return m
}

func (m *Metrics) hit(name string) {
	if m == nil {
		return
	}
	m.Hits.WithLabelValues(name).Inc()
}

func (m *Metrics) miss(name string) {
	if m == nil {
		return
	}
	m.Misses.WithLabelValues(name).Inc()
}

func (m *Metrics) evict(name string) {
	if m == nil {
		return
	}
	m.Evictions.WithLabelValues(name).Inc()
}

func (m *Metrics) expire(name string, n int) {
	if m == nil {
		return
	}
	m.Expirations.WithLabelValues(name).Add(float64(n))
}

func (m *Metrics) setEntries(name string, n int) {
	if m == nil {
		return
	}
	m.Entries.WithLabelValues(name).Set(float64(n))
}
