// Package recovery implements the loss-detection and probe-timeout
// core of a QUIC sender: per-epoch outstanding-packet tracking, ACK
// processing with spurious-loss-driven reorder-threshold adaptation,
// time- and packet-threshold loss detection, and the PTO state machine
// that arms retransmissions and anti-deadlock probes. Congestion
// control (package congestion) is driven from the events this package
// produces but is not itself part of it.
package recovery

import (
	"fmt"
	"math"
	"time"

	"github.com/flowquic/recovery/congestion"
	"github.com/flowquic/recovery/frame"
	"github.com/flowquic/recovery/protocol"
	"github.com/flowquic/recovery/rangeset"
	"github.com/flowquic/recovery/utils"
)

const (
	initialPacketThreshold protocol.PacketNumber = 3
	maxPacketThreshold     protocol.PacketNumber = 20

	initialTimeThreshold = 9.0 / 8.0

	// granularity is the assumed system timer granularity, a floor under
	// every delay this package computes.
	granularity = time.Millisecond

	maxPTOProbesCount = 2
)

// Recovery is the loss-detection and PTO engine for one connection. It
// is not safe for concurrent use: callers serialize access the same way
// the rest of a QUIC connection's send-side state is serialized
// (spec.md §5).
type Recovery struct {
	epochs   [protocol.NumEpochs]epochState
	rttStats *congestion.RTTStats
	cc       congestion.SendAlgorithm

	lossDetectionTimer time.Time
	hasLossTimer       bool
	ptoCount           uint32

	maxAckDelay time.Duration

	lostCount        int
	lostSpuriousCount int

	pktThresh  protocol.PacketNumber
	timeThresh float64

	bytesInFlight protocol.ByteCount
	bytesSent     protocol.ByteCount
	bytesLost     protocol.ByteCount

	maxDatagramSize protocol.ByteCount
	sendQuantum     protocol.ByteCount

	outstandingNonAckEliciting int

	tracer congestion.Tracer
}

// NewWithConfig builds a Recovery instance from a RecoveryConfig, the
// way the original implementation's Recovery::new_with_config does.
func NewWithConfig(cfg RecoveryConfig) *Recovery {
	mss := cfg.MaxSendUDPPayloadSize
	if mss <= 0 {
		mss = protocol.DefaultMaxDatagramSize
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = congestion.NoopTracer{}
	}

	rttStats := congestion.NewRTTStats()

	algo := cfg.CCAlgorithm
	reno := algo == congestion.AlgorithmReno
	if algo == congestion.AlgorithmBBR {
		// No dedicated BBR implementation in this core (spec.md §9);
		// CUBIC is the documented fallback.
		tracer.OnUnsupportedAlgorithm(algo.String())
		reno = false
	}
	sender := congestion.NewCubicSender(rttStats, reno, mss, protocol.MaxCongestionWindowPackets)
	sender.SetTracer(tracer)

	r := &Recovery{
		rttStats:        rttStats,
		cc:              sender,
		maxAckDelay:     cfg.MaxAckDelay,
		pktThresh:       initialPacketThreshold,
		timeThresh:      initialTimeThreshold,
		maxDatagramSize: mss,
		sendQuantum:     mss * protocol.InitialWindowPackets,
		tracer:          tracer,
	}
	return r
}

// CwndAvailable returns the number of bytes that may still be sent
// under the congestion window. While any epoch has an outstanding loss
// probe, the window is ignored entirely — probes must go out regardless
// of cwnd (spec.md §4.4).
func (r *Recovery) CwndAvailable() protocol.ByteCount {
	for i := range r.epochs {
		if r.epochs[i].lossProbes > 0 {
			return protocol.ByteCount(math.MaxInt64)
		}
	}
	return protocol.SatSubByteCount(r.cc.GetCongestionWindow(), r.bytesInFlight)
}

// Cwnd returns the current congestion window in bytes.
func (r *Recovery) Cwnd() protocol.ByteCount { return r.cc.GetCongestionWindow() }

// BytesInFlight returns the number of bytes currently outstanding.
func (r *Recovery) BytesInFlight() protocol.ByteCount { return r.bytesInFlight }

// LossDetectionTimer returns the deadline the caller should arm a timer
// for, and whether one is armed at all.
func (r *Recovery) LossDetectionTimer() (time.Time, bool) {
	return r.lossDetectionTimer, r.hasLossTimer
}

// RTT returns the current smoothed RTT estimate.
func (r *Recovery) RTT() time.Duration { return r.rttStats.SmoothedRTT() }

// RTTStats exposes the full RTT estimator for diagnostics.
func (r *Recovery) RTTStats() *congestion.RTTStats { return r.rttStats }

// LostCount and LostSpuriousCount report cumulative counters.
func (r *Recovery) LostCount() int         { return r.lostCount }
func (r *Recovery) LostSpuriousCount() int { return r.lostSpuriousCount }
func (r *Recovery) BytesLost() protocol.ByteCount { return r.bytesLost }

// PacketThreshold exposes the current (possibly widened) reorder
// threshold, for diagnostics and tests.
func (r *Recovery) PacketThreshold() protocol.PacketNumber { return r.pktThresh }

// SendQuantum is the maximum size of a data aggregate that may be
// scheduled and transmitted together (used by the packetizer to decide
// GSO batch size; not interpreted by this package).
func (r *Recovery) SendQuantum() protocol.ByteCount { return r.sendQuantum }

// MaxDatagramSize returns the current max_datagram_size.
func (r *Recovery) MaxDatagramSize() protocol.ByteCount { return r.maxDatagramSize }

// UpdateMaxDatagramSize shrinks max_datagram_size (it only ever
// decreases, following a path MTU reduction) and propagates it to the
// congestion controller.
func (r *Recovery) UpdateMaxDatagramSize(newSize protocol.ByteCount) {
	r.maxDatagramSize = protocol.MinByteCount(r.maxDatagramSize, newSize)
	r.cc.UpdateMSS(r.maxDatagramSize)
}

// ShouldElicitAck reports whether the caller should force an
// ack-eliciting packet even if it would not otherwise have built one:
// either a loss probe is outstanding in this epoch, or enough
// non-ack-eliciting packets have accumulated that an ACK must be
// solicited to avoid stalling loss detection (spec.md §4.4).
func (r *Recovery) ShouldElicitAck(epoch protocol.Epoch) bool {
	return r.epochs[epoch].lossProbes > 0 ||
		r.outstandingNonAckEliciting >= protocol.MaxOutstandingNonAckElicitingPackets
}

// LossProbes returns the number of outstanding loss probes for epoch.
func (r *Recovery) LossProbes(epoch protocol.Epoch) int { return r.epochs[epoch].lossProbes }

// PingSent notifies Recovery that a PING-carrying probe was sent for
// epoch, consuming one outstanding loss probe slot.
func (r *Recovery) PingSent(epoch protocol.Epoch) {
	if r.epochs[epoch].lossProbes > 0 {
		r.epochs[epoch].lossProbes--
	}
}

// GetAckedFrames drains and returns the frames released by packets
// acked in epoch since the last call.
func (r *Recovery) GetAckedFrames(epoch protocol.Epoch) []frame.Frame {
	e := &r.epochs[epoch]
	frames := e.ackedFrames
	e.ackedFrames = nil
	return frames
}

// GetLostFrames drains and returns the frames released by packets lost
// (or scheduled for PTO retransmission) in epoch since the last call.
func (r *Recovery) GetLostFrames(epoch protocol.Epoch) []frame.Frame {
	e := &r.epochs[epoch]
	frames := e.lostFrames
	e.lostFrames = nil
	return frames
}

// HasLostFrames reports whether epoch has frames pending retransmission.
func (r *Recovery) HasLostFrames(epoch protocol.Epoch) bool {
	return len(r.epochs[epoch].lostFrames) > 0
}

// OnPacketSent records a newly sent packet and, if it counts toward the
// congestion window, notifies the congestion controller and rearms the
// loss detection timer.
func (r *Recovery) OnPacketSent(pkt Sent, epoch protocol.Epoch, hs HandshakeStatus, now time.Time) {
	e := &r.epochs[epoch]

	if n := len(e.sentPackets); n > 0 && e.sentPackets[n-1].pktNum >= pkt.PacketNumber {
		panic(fmt.Sprintf("recovery: BUG: packet numbers must increase (epoch %s, got %d after %d)", epoch, pkt.PacketNumber, e.sentPackets[n-1].pktNum))
	}

	e.sentPackets = append(e.sentPackets, sentPacket{
		pktNum:       pkt.PacketNumber,
		status:       statusSent,
		timeSent:     pkt.TimeSent,
		ackEliciting: pkt.AckEliciting,
		inFlight:     pkt.InFlight,
		hasData:      pkt.HasData,
		sentBytes:    pkt.Size,
		frames:       pkt.Frames,
	})

	if pkt.AckEliciting {
		e.timeOfLastAckEliciting = now
		r.outstandingNonAckEliciting = 0
	} else {
		r.outstandingNonAckEliciting++
	}

	if pkt.InFlight {
		r.cc.OnPacketSent(now, r.bytesInFlight, pkt.PacketNumber, pkt.Size, pkt.HasData)
		r.bytesInFlight += pkt.Size
		e.pktsInFlight++
		r.setLossDetectionTimer(hs, now)
	}

	r.bytesSent += pkt.Size
}

// OnAckReceived processes a newly received ACK frame's range set for
// epoch, returning the number of packets and bytes newly declared lost
// as a side effect of time- or packet-threshold detection.
func (r *Recovery) OnAckReceived(acked *rangeset.RangeSet, ackDelay time.Duration, epoch protocol.Epoch, hs HandshakeStatus, now time.Time) (lostPackets int, lostBytes protocol.ByteCount) {
	largestAcked := acked.Largest()

	e := &r.epochs[epoch]
	if !e.hasLargestAcked || largestAcked > e.largestAcked {
		e.largestAcked = largestAcked
		e.hasLargestAcked = true
	}

	result := e.detectAndRemoveAcked(acked)

	r.lostSpuriousCount += result.spuriousLosses
	if result.hasSpuriousThresh {
		widened := protocol.MaxPacketNumber(r.pktThresh, protocol.MinPacketNumber(result.spuriousPktThresh, maxPacketThreshold))
		if widened != r.pktThresh {
			utils.Infof("recovery: widening packet reorder threshold on %s from %d to %d after a spurious loss", epoch, r.pktThresh, widened)
		}
		r.pktThresh = widened
	}

	if len(result.acked) == 0 {
		return 0, 0
	}

	largestNewlyAcked := result.acked[len(result.acked)-1]
	updateRTT := largestNewlyAcked.PktNum == largestAcked && result.hasAckEliciting
	if updateRTT {
		latestRTT := now.Sub(largestNewlyAcked.TimeSent)
		r.rttStats.UpdateRTT(latestRTT, ackDelay, now)
		r.tracer.OnRTTUpdated(r.rttStats)
	}

	lossDelay := r.lossDelay()
	lb, lost := e.detectAndRemoveLost(lossDelay, r.pktThresh, now)

	r.cc.OnCongestionEvent(updateRTT, r.bytesInFlight, now, result.acked, lost, r.rttStats)
	for _, l := range lost {
		r.tracer.OnPacketLost(epoch, l.PacketNumber, l.BytesLost)
	}

	r.ptoCount = 0
	r.bytesInFlight = protocol.SatSubByteCount(r.bytesInFlight, result.ackedBytes+lb)
	r.bytesLost += lb
	r.lostCount += len(lost)

	r.setLossDetectionTimer(hs, now)
	r.tracer.OnMetricsUpdated(r.cc.GetCongestionWindow(), r.bytesInFlight, r.cc.SlowStartThreshold(), r.ptoCount)

	return len(lost), lb
}

// lossDelay is the time-threshold loss detection delay: max(latest,
// smoothed) * time_thresh, floored at one timer tick (spec.md §4.3).
func (r *Recovery) lossDelay() time.Duration {
	rtt := r.rttStats.LatestRTT()
	if r.rttStats.SmoothedRTT() > rtt {
		rtt = r.rttStats.SmoothedRTT()
	}
	delay := time.Duration(float64(rtt) * r.timeThresh)
	if delay < granularity {
		return granularity
	}
	return delay
}

// OnLossDetectionTimeout fires when the armed loss detection timer
// expires: it either performs time-threshold loss detection for the
// earliest-deadline epoch, or — if no loss timer was pending — declares
// a probe timeout and schedules up to two probe packets (spec.md §4.4).
func (r *Recovery) OnLossDetectionTimeout(hs HandshakeStatus, now time.Time) (lostPackets int, lostBytes protocol.ByteCount) {
	_, lossEpoch, hasLossTime := r.lossTimeAndSpace()

	if hasLossTime {
		lb, lost := r.epochs[lossEpoch].detectAndRemoveLost(r.lossDelay(), r.pktThresh, now)

		r.cc.OnCongestionEvent(false, r.bytesInFlight, now, nil, lost, r.rttStats)
		for _, l := range lost {
			r.tracer.OnPacketLost(lossEpoch, l.PacketNumber, l.BytesLost)
		}

		r.bytesInFlight = protocol.SatSubByteCount(r.bytesInFlight, lb)
		r.bytesLost += lb
		r.lostCount += len(lost)
		utils.Debugf("recovery: time-threshold loss detection on %s declared %d packets lost (%d bytes)", lossEpoch, len(lost), lb)

		r.setLossDetectionTimer(hs, now)
		return len(lost), lb
	}

	var probeEpoch protocol.Epoch
	if r.bytesInFlight > 0 {
		_, probeEpoch, _ = r.ptoTimeAndSpace(hs, now)
	} else if hs.HasHandshakeKeys {
		probeEpoch = protocol.EpochHandshake
	} else {
		probeEpoch = protocol.EpochInitial
	}

	r.ptoCount++
	utils.Infof("recovery: probe timeout #%d fired for %s, bytesInFlight=%d", r.ptoCount, probeEpoch, r.bytesInFlight)

	e := &r.epochs[probeEpoch]
	e.lossProbes = minInt(maxPTOProbesCount, int(r.ptoCount))

	taken := 0
	for i := range e.sentPackets {
		if taken >= e.lossProbes {
			break
		}
		p := &e.sentPackets[i]
		if p.status == statusSent && p.hasData {
			for _, f := range p.frames {
				e.lostFrames = append(e.lostFrames, f.Clone())
			}
			taken++
		}
	}

	r.cc.OnRetransmissionTimeout(true)

	r.setLossDetectionTimer(hs, now)
	return 0, 0
}

// OnPktNumSpaceDiscarded discards all tracked state for epoch (called
// when that epoch's packet-protection keys are dropped) and rearms the
// loss detection timer.
func (r *Recovery) OnPktNumSpaceDiscarded(epoch protocol.Epoch, hs HandshakeStatus, now time.Time) {
	freed := r.epochs[epoch].discard()
	r.bytesInFlight = protocol.SatSubByteCount(r.bytesInFlight, freed)
	utils.Debugf("recovery: discarded %s packet number space, freeing %d bytes in flight", epoch, freed)
	r.setLossDetectionTimer(hs, now)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
