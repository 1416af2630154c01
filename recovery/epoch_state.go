package recovery

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/flowquic/recovery/congestion"
	"github.com/flowquic/recovery/frame"
	"github.com/flowquic/recovery/protocol"
	"github.com/flowquic/recovery/rangeset"
	"github.com/flowquic/recovery/utils"
)

// epochState is the per-packet-number-space bookkeeping the original
// implementation keeps in its RecoveryEpoch: the outstanding-packet
// queue, the loss timer deadline, and the frames released to the
// caller since the last drain.
type epochState struct {
	timeOfLastAckEliciting time.Time
	largestAcked           protocol.PacketNumber
	hasLargestAcked        bool
	lossTime               time.Time

	sentPackets []sentPacket

	lossProbes   int
	pktsInFlight int

	ackedFrames []frame.Frame
	lostFrames  []frame.Frame
}

// discard drops every tracked packet in the epoch (called when keys for
// it are dropped) and returns the bytes-in-flight it held.
func (e *epochState) discard() protocol.ByteCount {
	var unacked protocol.ByteCount
	for _, p := range e.sentPackets {
		if p.status == statusSent && p.inFlight {
			unacked += p.sentBytes
		}
	}
	e.sentPackets = nil
	e.timeOfLastAckEliciting = time.Time{}
	e.lossTime = time.Time{}
	e.lossProbes = 0
	e.pktsInFlight = 0
	return unacked
}

// detectAckedResult is everything a single detectAndRemoveAcked pass
// produces.
type detectAckedResult struct {
	ackedBytes        protocol.ByteCount
	acked             []congestion.Acked
	spuriousLosses    int
	spuriousPktThresh protocol.PacketNumber
	hasSpuriousThresh bool
	hasAckEliciting   bool
}

// detectAndRemoveAcked walks every packet number range in acked, marking
// matching outstanding packets as Acked. A packet found already Lost is
// a spurious loss: the reorder threshold that declared it lost was too
// tight, and its distance from largest_acked becomes a candidate for
// widening pkt_thresh (spec.md §4.3's adaptive reorder threshold).
func (e *epochState) detectAndRemoveAcked(acked *rangeset.RangeSet) detectAckedResult {
	var result detectAckedResult
	largestAcked := e.largestAcked

	for _, r := range acked.Ranges() {
		start, _ := slices.BinarySearchFunc(e.sentPackets, r.Start, func(p sentPacket, target protocol.PacketNumber) int {
			return int(p.pktNum - target)
		})

		for i := start; i < len(e.sentPackets); i++ {
			p := &e.sentPackets[i]
			if p.pktNum >= r.End {
				break
			}

			priorStatus := p.status
			prior := p.ack() // always transitions to Acked; priorStatus says what it was before.

			switch priorStatus {
			case statusSent:
				if prior.inFlight {
					e.pktsInFlight--
					result.ackedBytes += prior.sentBytes
				}
				result.acked = append(result.acked, congestion.Acked{
					PktNum:   prior.pktNum,
					TimeSent: prior.timeSent,
					Size:     prior.sentBytes,
					InFlight: prior.inFlight,
				})
				e.ackedFrames = append(e.ackedFrames, prior.frames...)
				result.hasAckEliciting = result.hasAckEliciting || prior.ackEliciting

			case statusLost:
				// An acked packet had already been declared lost: the
				// reorder threshold that declared it was too tight.
				result.spuriousLosses++
				if !result.hasSpuriousThresh {
					result.spuriousPktThresh = largestAcked - p.pktNum + 1
					result.hasSpuriousThresh = true
				}

			case statusAcked:
				// Already handled by an earlier, overlapping range.
			}
		}
	}

	e.drainAckedAndLost()
	return result
}

// detectAndRemoveLost walks outstanding packets up to largestAcked and
// declares lost any packet sent far enough in the past (time threshold)
// or far enough behind largestAcked in packet-number order (packet
// threshold), per spec.md §4.3.
func (e *epochState) detectAndRemoveLost(lossDelay time.Duration, pktThresh protocol.PacketNumber, now time.Time) (protocol.ByteCount, []congestion.Lost) {
	var lostBytes protocol.ByteCount
	var lost []congestion.Lost
	e.lossTime = time.Time{}

	lostSendTime := utils.SatSub(now, lossDelay)
	largestAcked := e.largestAcked

	for i := range e.sentPackets {
		p := &e.sentPackets[i]
		if p.pktNum > largestAcked {
			break
		}
		if p.status != statusSent {
			continue
		}

		if !p.timeSent.After(lostSendTime) || largestAcked >= p.pktNum+pktThresh {
			prior := p.lose()
			if prior.inFlight {
				e.pktsInFlight--
				lostBytes += prior.sentBytes
			}
			lost = append(lost, congestion.Lost{
				PacketNumber: prior.pktNum,
				BytesLost:    prior.sentBytes,
			})
			e.lostFrames = append(e.lostFrames, prior.frames...)
		} else {
			e.lossTime = p.timeSent.Add(lossDelay)
			break
		}
	}

	return lostBytes, lost
}

// drainAckedAndLost pops every Acked/Lost record off the front of the
// queue, leaving Sent records (and whatever Acked/Lost records sit
// behind them, avoiding a mid-queue compaction) untouched.
func (e *epochState) drainAckedAndLost() {
	i := 0
	for i < len(e.sentPackets) && e.sentPackets[i].status != statusSent {
		i++
	}
	e.sentPackets = e.sentPackets[i:]
}
