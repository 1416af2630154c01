package protocol

// DefaultMaxDatagramSize is the MSS assumed before path MTU discovery or
// transport parameters say otherwise, mirroring the teacher's
// protocol.DefaultTCPMSS.
const DefaultMaxDatagramSize ByteCount = 1200

// InitialWindowPackets is the number of max_datagram_size-sized packets
// the initial congestion window holds.
const InitialWindowPackets = 10

// MaxCongestionWindowPackets caps the congestion window, expressed in
// packets of max_datagram_size.
const MaxCongestionWindowPackets = 100_000

// MaxOutstandingNonAckElicitingPackets is the number of consecutive
// non-ack-eliciting packets sent before a PING must be scheduled to
// solicit an ACK (named after quiche's
// MAX_OUTSTANDING_NON_ACK_ELICITING).
const MaxOutstandingNonAckElicitingPackets = 24
