package congestion

import "github.com/flowquic/recovery/protocol"

// prrSender paces the sender through a recovery period by Proportional
// Rate Reduction (RFC 6937), a direct generalization of the teacher's
// loss-period pacer, ported from the original implementation's
// congestion/prr.rs (PrrSender). Its limited-transmit and PRR-SSRB
// checks use the fixed maxSegmentSize, not the live max_datagram_size.
type prrSender struct {
	bytesSentSinceLoss     protocol.ByteCount
	bytesDeliveredSinceLoss protocol.ByteCount
	ackCountSinceLoss      int
	bytesInFlightBeforeLoss protocol.ByteCount
}

// onPacketLost resets PRR bookkeeping at the start of a new recovery
// period, seeding bytesInFlightBeforeLoss for the conservation-phase test.
func (p *prrSender) onPacketLost(priorInFlight protocol.ByteCount) {
	p.bytesSentSinceLoss = 0
	p.bytesInFlightBeforeLoss = priorInFlight
	p.bytesDeliveredSinceLoss = 0
	p.ackCountSinceLoss = 0
}

func (p *prrSender) onPacketSent(sentBytes protocol.ByteCount) {
	p.bytesSentSinceLoss += sentBytes
}

func (p *prrSender) onPacketAcked(ackedBytes protocol.ByteCount) {
	p.bytesDeliveredSinceLoss += ackedBytes
	p.ackCountSinceLoss++
}

// canSend implements spec.md §4.5's PRR gating: limited-transmit forward
// progress, PRR-SSRB while cwnd exceeds bytesInFlight, and division-free
// packet conservation otherwise.
func (p *prrSender) canSend(congestionWindow, bytesInFlight, slowstartThreshold protocol.ByteCount) bool {
	if p.bytesSentSinceLoss == 0 || bytesInFlight < maxSegmentSize {
		return true
	}

	if congestionWindow > bytesInFlight {
		// PRR-SSRB: allow up to one extra MSS per ack while refilling the
		// window, instead of releasing the entire available window at
		// once.
		if p.bytesDeliveredSinceLoss+protocol.ByteCount(p.ackCountSinceLoss)*maxSegmentSize <= p.bytesSentSinceLoss {
			return false
		}
		return true
	}

	// Packet conservation: CEIL(prr_delivered*ssthresh/BIF@loss) - prr_out > 0,
	// rewritten without division.
	return p.bytesDeliveredSinceLoss*slowstartThreshold > p.bytesSentSinceLoss*p.bytesInFlightBeforeLoss
}
