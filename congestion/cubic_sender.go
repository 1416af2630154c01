package congestion

import (
	"time"

	"github.com/flowquic/recovery/protocol"
)

// maxSegmentSize is the fixed segment size PRR's "ensure limited
// transmit" check compares bytesInFlight against, matching the
// original implementation's congestion.rs MAX_SEGMENT_SIZE. It is
// intentionally distinct from the live, configurable max_datagram_size
// the rest of CubicSender uses: PRR's forward-progress guarantee should
// not itself start failing just because a path lowered its MTU.
const maxSegmentSize protocol.ByteCount = 1460

// minCongestionWindowSegments is the floor cwnd is never reduced below.
const minCongestionWindowSegments = 2

// congestionState is one of the three states spec.md §4.5 names.
type congestionState int

const (
	stateSlowStart congestionState = iota
	stateRecovery
	stateCongestionAvoidance
)

// CubicSender is the CUBIC/Reno congestion controller behind
// congestion.SendAlgorithm: hybrid-slow-start exit, a recovery period
// that ends once the ack for a packet sent after the last cutback
// arrives, and PRR pacing while recovering. It is a generalization of
// the teacher's congestion/cubic_sender.go,
// reworked from packet-counted windows to byte-counted ones (QUIC
// packets are not uniformly sized) and from the teacher's N-connection
// Reno emulation to the plain Reno rule spec.md §4.5 specifies (see
// DESIGN.md's REDESIGN FLAG entry).
type CubicSender struct {
	hybridSlowStart HybridSlowStart
	prr             prrSender
	rttStats        *RTTStats
	cubic           *Cubic
	tracer          Tracer

	reno bool // true selects Reno's congestion-avoidance rule, false CUBIC's.
	beta float64

	congestionWindow    protocol.ByteCount
	slowstartThreshold  protocol.ByteCount
	minCongestionWindow protocol.ByteCount
	maxCongestionWindow protocol.ByteCount
	mss                 protocol.ByteCount

	cs congestionState

	largestSentPacketNumber  protocol.PacketNumber
	largestAckedPacketNumber protocol.PacketNumber
	// largestSentAtLastCutback is the largest packet number sent at the
	// time of the last congestion-window cutback. InRecovery compares
	// largestAckedPacketNumber against it: the recovery period spec.md
	// §4.5 describes ends once the ack for a packet sent after the
	// cutback arrives, not merely because time has passed.
	largestSentAtLastCutback protocol.PacketNumber
}

// NewCubicSender builds a CubicSender. reno selects Reno's
// congestion-avoidance growth rule (beta=0.5); otherwise CUBIC is used
// (beta=0.7), per spec.md §4.5.
func NewCubicSender(rttStats *RTTStats, reno bool, mss protocol.ByteCount, maxWindowPackets int) *CubicSender {
	initial := mss * protocol.InitialWindowPackets
	maxWindow := mss * protocol.ByteCount(maxWindowPackets)
	beta := cubicBeta
	if reno {
		beta = 0.5
	}
	return &CubicSender{
		rttStats:                 rttStats,
		congestionWindow:         initial,
		slowstartThreshold:       maxWindow,
		minCongestionWindow:      mss * minCongestionWindowSegments,
		maxCongestionWindow:      maxWindow,
		mss:                      mss,
		cubic:                    NewCubic(mss),
		reno:                     reno,
		beta:                     beta,
		tracer:                   NoopTracer{},
		largestSentPacketNumber:  protocol.InvalidPacketNumber,
		largestAckedPacketNumber: protocol.InvalidPacketNumber,
		largestSentAtLastCutback: protocol.InvalidPacketNumber,
	}
}

// SetTracer installs a diagnostics sink; nil restores the no-op tracer.
func (c *CubicSender) SetTracer(t Tracer) {
	if t == nil {
		t = NoopTracer{}
	}
	c.tracer = t
}

func (c *CubicSender) GetCongestionWindow() protocol.ByteCount { return c.congestionWindow }

func (c *CubicSender) SlowStartThreshold() protocol.ByteCount { return c.slowstartThreshold }

func (c *CubicSender) InSlowStart() bool { return c.congestionWindow < c.slowstartThreshold }

// InRecovery reports whether the sender is still within the recovery
// period opened by its last congestion-window cutback: true until the
// ack for a packet sent after that cutback arrives (spec.md §4.5).
func (c *CubicSender) InRecovery() bool {
	return c.largestAckedPacketNumber != protocol.InvalidPacketNumber &&
		c.largestAckedPacketNumber <= c.largestSentAtLastCutback
}

func (c *CubicSender) CanSend(bytesInFlight protocol.ByteCount) bool {
	if c.InRecovery() {
		return c.prr.canSend(c.congestionWindow, bytesInFlight, c.slowstartThreshold)
	}
	return bytesInFlight < c.congestionWindow
}

func (c *CubicSender) OnPacketSent(now time.Time, priorInFlight protocol.ByteCount, pktNum protocol.PacketNumber, bytes protocol.ByteCount, ackElicitingWithData bool) {
	if !ackElicitingWithData {
		return
	}
	if c.InRecovery() {
		c.prr.onPacketSent(bytes)
	}
	c.largestSentPacketNumber = pktNum
	c.hybridSlowStart.OnPacketSent(pktNum)
}

func (c *CubicSender) OnPacketAcked(pktNum protocol.PacketNumber, ackedBytes protocol.ByteCount, priorInFlight protocol.ByteCount, eventTime time.Time, minRTT time.Duration) {
	c.largestAckedPacketNumber = protocol.MaxPacketNumber(pktNum, c.largestAckedPacketNumber)
	if c.InRecovery() {
		c.prr.onPacketAcked(ackedBytes)
		return
	}
	if c.cs == stateRecovery {
		// The ack above just cleared largestSentAtLastCutback: the
		// recovery period has ended.
		c.cs = stateCongestionAvoidance
	}
	c.maybeIncreaseCwnd(ackedBytes, priorInFlight, eventTime, minRTT)
	if c.InSlowStart() {
		c.hybridSlowStart.OnPacketAcked(pktNum, c.rttStats.LatestRTT())
	}
}

// OnCongestionEvent is the single entry point the loss detector calls
// after every ACK and loss-timeout with a non-empty acked/lost set,
// exactly matching spec.md §4.3 step 7's contract.
func (c *CubicSender) OnCongestionEvent(rttUpdated bool, priorInFlight protocol.ByteCount, now time.Time, acked []Acked, lost []Lost, rttStats *RTTStats) {
	if rttUpdated && c.InSlowStart() && c.hybridSlowStart.ShouldExitSlowStart(rttStats.LatestRTT(), rttStats.MinRTT(), c.congestionWindow/c.mss) {
		c.exitSlowStart()
	}

	for _, l := range lost {
		c.onPacketLost(l, priorInFlight)
	}
	for _, a := range acked {
		if !a.InFlight {
			continue
		}
		c.OnPacketAcked(a.PktNum, a.Size, priorInFlight, now, rttStats.MinRTT())
	}

	c.tracer.OnMetricsUpdated(c.congestionWindow, priorInFlight, c.slowstartThreshold, 0)
}

func (c *CubicSender) exitSlowStart() {
	c.slowstartThreshold = c.congestionWindow
}

// onPacketLost enters (or stays within) a single recovery period per
// loss burst: a lost packet sent at or before largestSentAtLastCutback
// is part of the loss event that triggered the current cutback (RFC
// 6582) and causes no further reduction; only a loss for a packet sent
// after the last cutback opens a new one (spec.md §4.5). This is what
// lets InRecovery eventually read false again once later, independent
// loss events arrive — a cutback is not permanent.
func (c *CubicSender) onPacketLost(l Lost, priorInFlight protocol.ByteCount) {
	if l.PacketNumber <= c.largestSentAtLastCutback {
		return
	}

	c.cs = stateRecovery
	c.largestSentAtLastCutback = c.largestSentPacketNumber

	if c.reno {
		c.congestionWindow = protocol.ByteCount(float64(c.congestionWindow) * c.beta)
	} else {
		c.congestionWindow = c.cubic.CongestionWindowAfterPacketLoss(c.congestionWindow)
	}
	if c.congestionWindow < c.minCongestionWindow {
		c.congestionWindow = c.minCongestionWindow
	}
	c.slowstartThreshold = protocol.MaxByteCount(c.congestionWindow, 2*c.mss)
	c.congestionWindow = c.slowstartThreshold

	c.prr.onPacketLost(priorInFlight)
}

// maybeIncreaseCwnd grows cwnd outside of recovery: exponentially in
// slow start, and via Reno or CUBIC's congestion-avoidance rule
// otherwise, only while the sender is actually cwnd-limited.
func (c *CubicSender) maybeIncreaseCwnd(ackedBytes, priorInFlight protocol.ByteCount, now time.Time, minRTT time.Duration) {
	if !c.IsCwndLimited(priorInFlight) {
		return
	}
	if c.congestionWindow >= c.maxCongestionWindow {
		return
	}
	if c.InSlowStart() {
		c.congestionWindow += ackedBytes
		return
	}
	if c.reno {
		// cwnd += MSS^2/cwnd per ack, spec.md §4.5's Reno rule.
		c.congestionWindow += c.mss * c.mss / c.congestionWindow
		return
	}
	c.congestionWindow = protocol.MinByteCount(c.maxCongestionWindow, c.cubic.CongestionWindowAfterAck(c.congestionWindow, minRTT, now))
}

func (c *CubicSender) IsCwndLimited(bytesInFlight protocol.ByteCount) bool {
	if bytesInFlight >= c.congestionWindow {
		return true
	}
	available := c.congestionWindow - bytesInFlight
	slowStartLimited := c.InSlowStart() && bytesInFlight > c.congestionWindow/2
	return slowStartLimited || available <= 3*c.mss
}

func (c *CubicSender) IsAppLimited(bytesInFlight protocol.ByteCount) bool {
	return !c.IsCwndLimited(bytesInFlight)
}

func (c *CubicSender) OnRetransmissionTimeout(packetsRetransmitted bool) {
	c.cs = stateSlowStart
	c.largestSentAtLastCutback = protocol.InvalidPacketNumber
	if !packetsRetransmitted {
		return
	}
	c.hybridSlowStart.Restart()
	c.cubic.Reset()
	c.slowstartThreshold = c.congestionWindow / 2
	c.congestionWindow = c.minCongestionWindow
}

// OnConnectionMigration resets congestion state back to the initial
// window (spec.md §4.5).
func (c *CubicSender) OnConnectionMigration() {
	c.hybridSlowStart.Restart()
	c.cubic.Reset()
	c.prr = prrSender{}
	c.cs = stateSlowStart
	c.largestSentPacketNumber = protocol.InvalidPacketNumber
	c.largestAckedPacketNumber = protocol.InvalidPacketNumber
	c.largestSentAtLastCutback = protocol.InvalidPacketNumber
	c.congestionWindow = c.mss * protocol.InitialWindowPackets
	c.slowstartThreshold = c.maxCongestionWindow
}

// UpdateMSS monotonically shrinks max_datagram_size and propagates it
// to CUBIC's window math.
func (c *CubicSender) UpdateMSS(mss protocol.ByteCount) {
	if mss >= c.mss {
		return
	}
	c.mss = mss
	c.minCongestionWindow = mss * minCongestionWindowSegments
	c.cubic.UpdateMSS(mss)
}
