package congestion

import (
	"time"

	"github.com/flowquic/recovery/protocol"
)

// Hybrid slow start parameters, as used by the teacher's cubic_sender
// (HybridSlowStart.ShouldExitSlowStart call site) and generalized here
// with the standard Linux/TCP hystart++ constants: a round ends when an
// ACK for the packet number recorded at round start arrives, and within
// a round a minimum of hystartMinSamples RTT samples must show a delay
// increase of at least 1/8 of the connection's min RTT (clamped to
// [4ms,16ms]) before slow start exits early.
const (
	hystartMinSamples   = 8
	hystartDelayFactor  = 8 // increase threshold is minRTT/hystartDelayFactor
	hystartDelayMinMs   = 4 * time.Millisecond
	hystartDelayMaxMs   = 16 * time.Millisecond
)

// HybridSlowStart detects queue buildup during slow start by comparing
// the minimum RTT observed within the current round to the connection's
// overall minimum RTT, exiting slow start before an ordinary packet loss
// would (spec.md §4.5).
type HybridSlowStart struct {
	started       bool
	endPacketNum  protocol.PacketNumber
	rttSampleCount int
	lastSampleRTT time.Duration
	currentMinRTT time.Duration
}

// OnPacketSent marks the end of the current round once packetNum's ACK
// arrives.
func (h *HybridSlowStart) OnPacketSent(packetNum protocol.PacketNumber) {
	if !h.started || packetNum > h.endPacketNum {
		h.startNewRound(packetNum)
	}
}

func (h *HybridSlowStart) startNewRound(packetNum protocol.PacketNumber) {
	h.started = true
	h.endPacketNum = packetNum
	h.currentMinRTT = 0
	h.rttSampleCount = 0
}

// Restart clears all round state, called on RTO (PTO firing with
// retransmitted data, per the teacher's OnRetransmissionTimeout).
func (h *HybridSlowStart) Restart() {
	*h = HybridSlowStart{}
}

// OnPacketAcked folds an ACK's RTT sample into the current round. Call
// this only while InSlowStart is true.
func (h *HybridSlowStart) OnPacketAcked(ackedPacketNum protocol.PacketNumber, latestRTT time.Duration) bool {
	if h.IsEndOfRound(ackedPacketNum) {
		h.started = false
	}
	h.rttSampleCount++
	if h.currentMinRTT == 0 || latestRTT < h.currentMinRTT {
		h.currentMinRTT = latestRTT
	}
	h.lastSampleRTT = latestRTT
	return h.started
}

// IsEndOfRound reports whether ackedPacketNum completes the round
// started at the last OnPacketSent call.
func (h *HybridSlowStart) IsEndOfRound(ackedPacketNum protocol.PacketNumber) bool {
	return h.endPacketNum <= ackedPacketNum
}

// ShouldExitSlowStart implements the delay-increase heuristic: once
// enough RTT samples have been collected in a round, and the round's
// minimum RTT exceeds the connection's overall MinRTT by at least
// minRTT/8 (clamped to [4ms,16ms]), slow start should exit even though
// no loss has occurred yet.
func (h *HybridSlowStart) ShouldExitSlowStart(latestRTT, minRTT time.Duration, congestionWindowPackets protocol.ByteCount) bool {
	if !h.started {
		h.startNewRound(0)
	}
	if h.rttSampleCount >= hystartMinSamples {
		increase := minRTT / hystartDelayFactor
		if increase < hystartDelayMinMs {
			increase = hystartDelayMinMs
		}
		if increase > hystartDelayMaxMs {
			increase = hystartDelayMaxMs
		}
		if h.currentMinRTT > minRTT+increase {
			return true
		}
	}
	return false
}
