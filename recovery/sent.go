package recovery

import (
	"time"

	"github.com/flowquic/recovery/frame"
	"github.com/flowquic/recovery/protocol"
)

// Sent is the caller-supplied description of a packet as it is handed
// to OnPacketSent, grounded on the original implementation's Sent
// struct in congestion.rs.
type Sent struct {
	PacketNumber protocol.PacketNumber
	TimeSent     time.Time
	AckEliciting bool
	InFlight     bool
	// HasData marks a packet as carrying CRYPTO or STREAM data, making it
	// eligible to have its frames reissued on a PTO probe rather than
	// merely padding the probe out.
	HasData bool
	Size    protocol.ByteCount
	Frames  []frame.Frame
}

// sentStatus is the tagged variant a tracked packet moves through:
// sent (outstanding), acked, or lost. Once a packet reaches acked or
// lost it carries no further payload and is only kept around long
// enough to be drained from the front of the queue.
type sentStatus int

const (
	statusSent sentStatus = iota
	statusAcked
	statusLost
)

// sentPacket is one entry in an epoch's outstanding-packet queue.
type sentPacket struct {
	pktNum protocol.PacketNumber
	status sentStatus

	timeSent     time.Time
	ackEliciting bool
	inFlight     bool
	hasData      bool
	sentBytes    protocol.ByteCount
	frames       []frame.Frame
}

// ack transitions a Sent packet to Acked, returning the record's prior
// state for the caller to fold into acked-byte/frame bookkeeping. A
// packet already in statusAcked is left alone — the loss detector never
// walks the same range twice, but this keeps the transition idempotent
// exactly like the original implementation's SentStatus::ack.
func (p *sentPacket) ack() sentPacket {
	prior := *p
	p.status = statusAcked
	p.frames = nil
	return prior
}

// lose transitions a Sent packet to Lost, unless it was already Acked
// (an already-acked packet can never retroactively become lost).
func (p *sentPacket) lose() sentPacket {
	prior := *p
	if p.status != statusAcked {
		p.status = statusLost
	}
	p.frames = nil
	return prior
}
