// Package metrics exposes a Prometheus collector driven by the
// recovery core's congestion.Tracer callbacks, grounded on the
// constant-Desc-slice custom-Collector pattern used by the example
// pack's sockstats exporter (pkg/exporter/exporter.go).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flowquic/recovery/congestion"
	"github.com/flowquic/recovery/protocol"
)

// Collector implements prometheus.Collector and congestion.Tracer at
// once: every metrics-relevant callback updates an in-memory snapshot
// under a mutex, and Collect reports that snapshot on scrape, avoiding
// a channel or counter object per connection for a single-connection
// recovery core.
type Collector struct {
	mu sync.Mutex

	cwnd          prometheus.Gauge
	bytesInFlight prometheus.Gauge
	ssthresh      prometheus.Gauge
	ptoCount      prometheus.Gauge
	rttSmoothed   prometheus.Gauge
	rttLatest     prometheus.Gauge
	rttVar        prometheus.Gauge
	packetsLost   prometheus.Counter

	delegate congestion.Tracer
}

var _ congestion.Tracer = (*Collector)(nil)
var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector reporting under the given namespace.
// delegate, if non-nil, additionally receives every callback (use this
// to chain a qlogtrace.Tracer alongside metrics collection).
func NewCollector(namespace string, delegate congestion.Tracer) *Collector {
	labels := prometheus.Labels{}
	return &Collector{
		cwnd:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "congestion_window_bytes", Help: "Current congestion window in bytes.", ConstLabels: labels}),
		bytesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "bytes_in_flight", Help: "Bytes currently outstanding and unacknowledged.", ConstLabels: labels}),
		ssthresh:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "slow_start_threshold_bytes", Help: "Current slow start threshold in bytes.", ConstLabels: labels}),
		ptoCount:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pto_count", Help: "Consecutive probe timeouts since the last successful ACK.", ConstLabels: labels}),
		rttSmoothed:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "rtt_smoothed_seconds", Help: "Smoothed RTT estimate in seconds.", ConstLabels: labels}),
		rttLatest:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "rtt_latest_seconds", Help: "Most recent RTT sample in seconds.", ConstLabels: labels}),
		rttVar:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "rtt_variance_seconds", Help: "RTT variance estimate in seconds.", ConstLabels: labels}),
		packetsLost:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "packets_lost_total", Help: "Cumulative packets declared lost.", ConstLabels: labels}),
		delegate:      delegate,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cwnd.Desc()
	ch <- c.bytesInFlight.Desc()
	ch <- c.ssthresh.Desc()
	ch <- c.ptoCount.Desc()
	ch <- c.rttSmoothed.Desc()
	ch <- c.rttLatest.Desc()
	ch <- c.rttVar.Desc()
	ch <- c.packetsLost.Desc()
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch <- c.cwnd
	ch <- c.bytesInFlight
	ch <- c.ssthresh
	ch <- c.ptoCount
	ch <- c.rttSmoothed
	ch <- c.rttLatest
	ch <- c.rttVar
	ch <- c.packetsLost
}

func (c *Collector) OnRTTUpdated(stats *congestion.RTTStats) {
	c.mu.Lock()
	c.rttSmoothed.Set(stats.SmoothedRTT().Seconds())
	c.rttLatest.Set(stats.LatestRTT().Seconds())
	c.rttVar.Set(stats.RTTVariance().Seconds())
	c.mu.Unlock()

	if c.delegate != nil {
		c.delegate.OnRTTUpdated(stats)
	}
}

func (c *Collector) OnMetricsUpdated(cwnd, bytesInFlight, ssthresh protocol.ByteCount, ptoCount uint32) {
	c.mu.Lock()
	c.cwnd.Set(float64(cwnd))
	c.bytesInFlight.Set(float64(bytesInFlight))
	c.ssthresh.Set(float64(ssthresh))
	c.ptoCount.Set(float64(ptoCount))
	c.mu.Unlock()

	if c.delegate != nil {
		c.delegate.OnMetricsUpdated(cwnd, bytesInFlight, ssthresh, ptoCount)
	}
}

func (c *Collector) OnPacketLost(epoch protocol.Epoch, pktNum protocol.PacketNumber, bytes protocol.ByteCount) {
	c.mu.Lock()
	c.packetsLost.Inc()
	c.mu.Unlock()

	if c.delegate != nil {
		c.delegate.OnPacketLost(epoch, pktNum, bytes)
	}
}

func (c *Collector) OnUnsupportedAlgorithm(name string) {
	if c.delegate != nil {
		c.delegate.OnUnsupportedAlgorithm(name)
	}
}
