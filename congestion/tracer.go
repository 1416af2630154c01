package congestion

import (
	"time"

	"github.com/flowquic/recovery/protocol"
)

// Tracer is the one "only their interface is specified" collaborator
// spec.md §1 carves diagnostic logging out into. The recovery core and
// the congestion controller call it opportunistically; a production
// binary wires a concrete implementation (e.g. package qlogtrace) or
// leaves it as NoopTracer.
type Tracer interface {
	// OnRTTUpdated is called whenever a new RTT sample is folded in.
	OnRTTUpdated(stats *RTTStats)

	// OnMetricsUpdated is called after any change to cwnd, bytes in
	// flight, ssthresh, or pto_count worth reporting.
	OnMetricsUpdated(cwnd, bytesInFlight, ssthresh protocol.ByteCount, ptoCount uint32)

	// OnPacketLost is called once per packet the loss detector declares
	// lost, before frames are released for retransmission.
	OnPacketLost(epoch protocol.Epoch, pktNum protocol.PacketNumber, bytes protocol.ByteCount)

	// OnUnsupportedAlgorithm is called when the configured algorithm name
	// parses but has no dedicated implementation (currently "bbr", which
	// falls back to CUBIC per spec.md §9) so a consumer can choose to log
	// the fallback without this package depending on a logger to do it.
	OnUnsupportedAlgorithm(name string)
}

// NoopTracer implements Tracer with no-ops. It is the default when no
// tracer is configured.
type NoopTracer struct{}

var _ Tracer = NoopTracer{}

func (NoopTracer) OnRTTUpdated(*RTTStats)                                           {}
func (NoopTracer) OnMetricsUpdated(protocol.ByteCount, protocol.ByteCount, protocol.ByteCount, uint32) {}
func (NoopTracer) OnPacketLost(protocol.Epoch, protocol.PacketNumber, protocol.ByteCount)              {}
func (NoopTracer) OnUnsupportedAlgorithm(string)                                     {}
