package congestion

import (
	"math"
	"time"

	"github.com/flowquic/recovery/protocol"
)

// cubicC and cubicBeta are RFC 8312's C and the CUBIC backoff factor
// (spec.md §4.5: W_cubic(t) = C*(t-K)^3 + W_max, beta = 0.7 for CUBIC).
const (
	cubicC    = 0.4
	cubicBeta = 0.7
)

// cubicFastConvergence additionally shrinks W_max when cwnd shrinks
// before reaching its previous maximum again, RFC 8312 §4.6, the
// standard refinement quiche (and every other CUBIC implementation)
// carries; omitting it would make this module converge to a less fair
// share of the bottleneck than what "CUBIC" conventionally means.
const cubicFastConvergence = true

// Cubic implements the congestion-avoidance window growth function
// behind congestion.CubicSender. It is deliberately a narrow, pluggable
// component (spec.md §1: "the CUBIC math itself is treated as a
// pluggable controller behind a narrow contract"); no pack example
// carries a cubic.rs/cubic.go of its own (the teacher's cubic_sender.go
// references a *Cubic type without defining it), so this type is
// written directly from RFC 8312 and spec.md §4.5's formulas.
type Cubic struct {
	mss protocol.ByteCount

	wMax       protocol.ByteCount
	wLastMax   protocol.ByteCount
	epoch      time.Time
	originCwnd protocol.ByteCount
	k          float64 // seconds

	ackCount int
}

// NewCubic returns a Cubic state machine for the given max_datagram_size.
func NewCubic(mss protocol.ByteCount) *Cubic {
	return &Cubic{mss: mss}
}

// Reset clears all congestion-avoidance state, called on RTO and on
// connection migration.
func (c *Cubic) Reset() {
	c.wMax = 0
	c.wLastMax = 0
	c.epoch = time.Time{}
	c.originCwnd = 0
	c.k = 0
	c.ackCount = 0
}

// UpdateMSS propagates a new max_datagram_size into the window math.
func (c *Cubic) UpdateMSS(mss protocol.ByteCount) {
	c.mss = mss
}

// CongestionWindowAfterPacketLoss computes the post-loss cwnd and
// records W_max for the next congestion-avoidance epoch.
func (c *Cubic) CongestionWindowAfterPacketLoss(currentCwnd protocol.ByteCount) protocol.ByteCount {
	if cubicFastConvergence && currentCwnd < c.wLastMax {
		// The flow gave back bandwidth before reaching its previous
		// maximum: shrink the target so convergence with competing flows
		// is faster next time around.
		c.wLastMax = protocol.ByteCount(float64(currentCwnd) * (1 + cubicBeta) / 2)
	} else {
		c.wLastMax = currentCwnd
	}
	c.wMax = c.wLastMax
	c.epoch = time.Time{} // force a fresh epoch on the next ack
	return protocol.ByteCount(float64(currentCwnd) * cubicBeta)
}

// CongestionWindowAfterAck computes cwnd for the next ack in congestion
// avoidance: max(W_cubic(t), w_tcp(t)), per spec.md §4.5.
func (c *Cubic) CongestionWindowAfterAck(currentCwnd protocol.ByteCount, minRTT time.Duration, now time.Time) protocol.ByteCount {
	c.ackCount++

	if c.epoch.IsZero() {
		c.epoch = now
		c.originCwnd = currentCwnd
		if c.wMax <= currentCwnd {
			c.k = 0
		} else {
			c.k = math.Cbrt(float64(c.wMax-currentCwnd) / cubicC / float64(c.mss))
		}
	}

	t := now.Sub(c.epoch).Seconds() + rttToSeconds(minRTT)
	target := float64(c.mss)*cubicC*cube(t-c.k) + float64(c.wMax)

	wCubic := protocol.ByteCount(target)

	// Reno-friendly region: w_tcp(t) = W_max*beta + 3*(1-beta)/(1+beta) * t/RTT,
	// expressed in segments then converted to bytes.
	wTCP := currentCwnd
	if minRTT > 0 {
		rttSeconds := minRTT.Seconds()
		segs := float64(c.wMax)/float64(c.mss)*cubicBeta + 3*(1-cubicBeta)/(1+cubicBeta)*(now.Sub(c.epoch).Seconds()/rttSeconds)
		wTCP = protocol.ByteCount(segs * float64(c.mss))
	}

	return protocol.MaxByteCount(wCubic, wTCP)
}

func cube(x float64) float64 { return x * x * x }

func rttToSeconds(d time.Duration) float64 { return d.Seconds() }
