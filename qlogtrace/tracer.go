// Package qlogtrace implements congestion.Tracer by encoding each
// event as a qlog-style recovery:metrics_updated (or
// recovery:packet_lost) JSON object, written with gojay the same way
// the teacher's own qlog package encodes its wire structures.
package qlogtrace

import (
	"io"
	"sync"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/google/uuid"

	"github.com/flowquic/recovery/congestion"
	"github.com/flowquic/recovery/protocol"
)

// Tracer writes one JSON object per line to w, each carrying a
// wall-clock timestamp alongside the event fields. It is safe for
// concurrent use even though the recovery core itself is not, since a
// caller may want to flush trace output from a separate goroutine.
type Tracer struct {
	mu     sync.Mutex
	w      io.Writer
	now    func() time.Time
	connID string
}

var _ congestion.Tracer = (*Tracer)(nil)

// New returns a Tracer writing newline-delimited JSON to w, tagging
// every event with a freshly generated connection ID so a multi-connection
// log can be split back out per-connection on replay. now defaults to
// time.Now if nil; tests can supply a deterministic clock.
func New(w io.Writer, now func() time.Time) *Tracer {
	if now == nil {
		now = time.Now
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Tracer{w: w, now: now, connID: id.String()}
}

func (t *Tracer) encode(ev gojay.MarshalerJSONObject) {
	t.mu.Lock()
	defer t.mu.Unlock()

	enc := gojay.NewEncoder(t.w)
	if err := enc.EncodeObject(ev); err != nil {
		return
	}
	_, _ = t.w.Write([]byte("\n"))
}

func (t *Tracer) OnRTTUpdated(stats *congestion.RTTStats) {
	t.encode(rttUpdatedEvent{
		ConnID:      t.connID,
		Time:        t.now(),
		SmoothedRTT: stats.SmoothedRTT(),
		LatestRTT:   stats.LatestRTT(),
		RTTVariance: stats.RTTVariance(),
		MinRTT:      stats.MinRTT(),
	})
}

func (t *Tracer) OnMetricsUpdated(cwnd, bytesInFlight, ssthresh protocol.ByteCount, ptoCount uint32) {
	t.encode(metricsUpdatedEvent{
		ConnID:           t.connID,
		Time:             t.now(),
		CongestionWindow: cwnd,
		BytesInFlight:    bytesInFlight,
		SSThresh:         ssthresh,
		PTOCount:         ptoCount,
	})
}

func (t *Tracer) OnPacketLost(epoch protocol.Epoch, pktNum protocol.PacketNumber, bytes protocol.ByteCount) {
	t.encode(packetLostEvent{
		ConnID: t.connID,
		Time:   t.now(),
		Epoch:  epoch.String(),
		PktNum: int64(pktNum),
		Bytes:  bytes,
	})
}

func (t *Tracer) OnUnsupportedAlgorithm(name string) {
	t.encode(unsupportedAlgorithmEvent{ConnID: t.connID, Time: t.now(), Name: name})
}

type rttUpdatedEvent struct {
	ConnID      string
	Time        time.Time
	SmoothedRTT time.Duration
	LatestRTT   time.Duration
	RTTVariance time.Duration
	MinRTT      time.Duration
}

func (e rttUpdatedEvent) IsNil() bool { return false }

func (e rttUpdatedEvent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("event", "recovery:rtt_updated")
	enc.StringKey("connection_id", e.ConnID)
	enc.StringKey("time", e.Time.Format(time.RFC3339Nano))
	enc.Float64Key("smoothed_rtt_ms", float64(e.SmoothedRTT.Microseconds())/1000)
	enc.Float64Key("latest_rtt_ms", float64(e.LatestRTT.Microseconds())/1000)
	enc.Float64Key("rtt_variance_ms", float64(e.RTTVariance.Microseconds())/1000)
	enc.Float64Key("min_rtt_ms", float64(e.MinRTT.Microseconds())/1000)
}

type metricsUpdatedEvent struct {
	ConnID           string
	Time             time.Time
	CongestionWindow protocol.ByteCount
	BytesInFlight    protocol.ByteCount
	SSThresh         protocol.ByteCount
	PTOCount         uint32
}

func (e metricsUpdatedEvent) IsNil() bool { return false }

func (e metricsUpdatedEvent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("event", "recovery:metrics_updated")
	enc.StringKey("connection_id", e.ConnID)
	enc.StringKey("time", e.Time.Format(time.RFC3339Nano))
	enc.Int64Key("congestion_window", int64(e.CongestionWindow))
	enc.Int64Key("bytes_in_flight", int64(e.BytesInFlight))
	enc.Int64Key("ssthresh", int64(e.SSThresh))
	enc.Uint32Key("pto_count", e.PTOCount)
}

type packetLostEvent struct {
	ConnID string
	Time   time.Time
	Epoch  string
	PktNum int64
	Bytes  protocol.ByteCount
}

func (e packetLostEvent) IsNil() bool { return false }

func (e packetLostEvent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("event", "recovery:packet_lost")
	enc.StringKey("connection_id", e.ConnID)
	enc.StringKey("time", e.Time.Format(time.RFC3339Nano))
	enc.StringKey("packet_number_space", e.Epoch)
	enc.Int64Key("packet_number", e.PktNum)
	enc.Int64Key("bytes_lost", int64(e.Bytes))
}

type unsupportedAlgorithmEvent struct {
	ConnID string
	Time   time.Time
	Name   string
}

func (e unsupportedAlgorithmEvent) IsNil() bool { return false }

func (e unsupportedAlgorithmEvent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("event", "recovery:unsupported_algorithm_fallback")
	enc.StringKey("connection_id", e.ConnID)
	enc.StringKey("time", e.Time.Format(time.RFC3339Nano))
	enc.StringKey("name", e.Name)
}
