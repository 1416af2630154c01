package congestion

import (
	"fmt"
	"time"
)

// InitialRTT is the smoothed RTT estimate assumed before any sample has
// been taken.
const InitialRTT = 333 * time.Millisecond

// rttWindow is the span over which MinRTT is tracked.
const rttWindow = 300 * time.Second

// RTTStats tracks latest/smoothed RTT, RTT variance, and a windowed
// minimum RTT, exactly as spec.md §4.1 and the teacher's original
// (quiche's RttStats) specify.
type RTTStats struct {
	latestRTT   time.Duration
	smoothedRTT time.Duration
	rttvar      time.Duration
	minRTT      minmaxRTT

	hasFirstSample bool
}

// NewRTTStats returns an estimator in its pre-sample state.
func NewRTTStats() *RTTStats {
	return &RTTStats{
		smoothedRTT: InitialRTT,
		rttvar:      InitialRTT / 2,
	}
}

// LatestRTT is the most recent RTT sample.
func (r *RTTStats) LatestRTT() time.Duration { return r.latestRTT }

// SmoothedRTT is the exponentially weighted moving average RTT.
func (r *RTTStats) SmoothedRTT() time.Duration { return r.smoothedRTT }

// RTTVariance is the mean deviation of RTT samples from SmoothedRTT.
func (r *RTTStats) RTTVariance() time.Duration { return r.rttvar }

// MinRTT is the minimum RTT observed within the last 300s.
func (r *RTTStats) MinRTT() time.Duration { return r.minRTT.Get() }

// PTO is smoothed_rtt + max(4*rttvar, 1ms), the base probe timeout
// before backoff.
func (r *RTTStats) PTO() time.Duration {
	return r.smoothedRTT + maxDuration(4*r.rttvar, time.Millisecond)
}

// UpdateRTT folds a new RTT sample into the estimator. ackDelay is the
// peer-reported delay between receipt and ACK transmission.
//
// TODO: once the handshake is confirmed, ackDelay should be clamped to
// max_ack_delay before use here; the clamp is not implemented, matching
// the original implementation's documented gap (spec.md §9).
func (r *RTTStats) UpdateRTT(latestRTT, ackDelay time.Duration, now time.Time) {
	if latestRTT < 0 {
		return
	}

	r.latestRTT = latestRTT

	if !r.hasFirstSample {
		r.smoothedRTT = latestRTT
		r.rttvar = latestRTT / 2
		r.minRTT.Reset(now, latestRTT)
		r.hasFirstSample = true
		return
	}

	// min_rtt ignores acknowledgment delay.
	r.minRTT.RunningMin(rttWindow, now, latestRTT)

	adjusted := latestRTT
	if latestRTT >= r.minRTT.Get()+ackDelay {
		adjusted = latestRTT - ackDelay
	}

	r.rttvar = r.rttvar*3/4 + absDuration(r.smoothedRTT-adjusted)/4
	r.smoothedRTT = r.smoothedRTT*7/8 + adjusted/8
}

func (r *RTTStats) String() string {
	return fmt.Sprintf("latest=%s smoothed=%s rttvar=%s min=%s", r.latestRTT, r.smoothedRTT, r.rttvar, r.MinRTT())
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
