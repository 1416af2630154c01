package congestion

import (
	"time"

	"github.com/flowquic/recovery/protocol"
)

// Acked describes a packet the loss detector newly classified as acked,
// handed to the congestion controller in a single batch per
// on_congestion_event call.
type Acked struct {
	PktNum   protocol.PacketNumber
	TimeSent time.Time
	Size     protocol.ByteCount
	InFlight bool
}

// Lost describes a packet the loss detector newly classified as lost.
type Lost struct {
	PacketNumber protocol.PacketNumber
	BytesLost    protocol.ByteCount
}

// SendAlgorithm is the narrow contract the recovery core consumes from
// a congestion controller (spec.md §4.5). CUBIC's own math is pluggable
// behind this interface; a specific implementation is not mandated by
// the spec, but CubicSender in this package is the one wired by
// default.
type SendAlgorithm interface {
	// GetCongestionWindow returns the current congestion window in bytes.
	GetCongestionWindow() protocol.ByteCount

	// CanSend reports whether the sender may transmit right now, given
	// bytesInFlight bytes are already outstanding.
	CanSend(bytesInFlight protocol.ByteCount) bool

	// OnPacketSent records bytes sent to the wire. bytesInFlight is the
	// value prior to this packet; ackElicitingWithData is the Sent
	// record's has_data flag (the PTO probe eligibility flag).
	OnPacketSent(now time.Time, priorInFlight protocol.ByteCount, pktNum protocol.PacketNumber, bytes protocol.ByteCount, ackElicitingWithData bool)

	// OnPacketAcked is called once per newly acked packet.
	OnPacketAcked(pktNum protocol.PacketNumber, ackedBytes protocol.ByteCount, priorInFlight protocol.ByteCount, eventTime time.Time, minRTT time.Duration)

	// OnCongestionEvent is called once per ACK or loss-timeout event that
	// produced at least one newly acked or lost packet.
	OnCongestionEvent(rttUpdated bool, priorInFlight protocol.ByteCount, now time.Time, acked []Acked, lost []Lost, rttStats *RTTStats)

	// OnRetransmissionTimeout is called on every PTO firing.
	OnRetransmissionTimeout(packetsRetransmitted bool)

	// OnConnectionMigration resets congestion state back to the initial
	// window, as required when the connection migrates path.
	OnConnectionMigration()

	// IsCwndLimited reports whether the sender is currently limited by
	// the congestion window rather than application data availability.
	IsCwndLimited(bytesInFlight protocol.ByteCount) bool

	// IsAppLimited is the negation of IsCwndLimited.
	IsAppLimited(bytesInFlight protocol.ByteCount) bool

	// UpdateMSS propagates a (monotonically shrinking) change of
	// max_datagram_size into the congestion window bookkeeping. In
	// CubicSender, PRR keeps its fixed segment size.
	UpdateMSS(mss protocol.ByteCount)

	// InRecovery reports whether the controller is in the recovery
	// period (used by tests and by PTO probe pacing decisions above this
	// layer).
	InRecovery() bool

	// SlowStartThreshold exposes ssthresh in bytes for diagnostics.
	SlowStartThreshold() protocol.ByteCount
}
