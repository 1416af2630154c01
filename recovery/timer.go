package recovery

import (
	"time"

	"github.com/flowquic/recovery/protocol"
)

// PTO returns the base probe timeout, smoothed_rtt + max(4*rttvar, 1ms),
// before the exponential backoff applied per outstanding probe (spec.md
// §4.4).
func (r *Recovery) PTO() time.Duration {
	return r.rttStats.PTO()
}

// lossTimeAndSpace finds the epoch with the earliest pending
// time-threshold loss deadline, iterating Initial, Handshake,
// Application in that order so that ties favor the earlier space
// exactly as the original implementation's loss_time_and_space does.
func (r *Recovery) lossTimeAndSpace() (time.Time, protocol.Epoch, bool) {
	epoch := protocol.EpochInitial
	deadline := r.epochs[epoch].lossTime
	has := !deadline.IsZero()

	for _, e := range []protocol.Epoch{protocol.EpochHandshake, protocol.EpochApplication} {
		t := r.epochs[e].lossTime
		if t.IsZero() {
			continue
		}
		if !has || t.Before(deadline) {
			deadline = t
			epoch = e
			has = true
		}
	}

	return deadline, epoch, has
}

// ptoTimeAndSpace computes the next probe-timeout deadline and which
// epoch it belongs to, applying exponential backoff (2^pto_count) and,
// for Application space once the handshake has completed, the peer's
// max_ack_delay (spec.md §4.4).
func (r *Recovery) ptoTimeAndSpace(hs HandshakeStatus, now time.Time) (time.Time, protocol.Epoch, bool) {
	duration := r.PTO() * time.Duration(1<<r.ptoCount)

	if r.bytesInFlight == 0 {
		if hs.HasHandshakeKeys {
			return now.Add(duration), protocol.EpochHandshake, true
		}
		return now.Add(duration), protocol.EpochInitial, true
	}

	var (
		ptoTimeout time.Time
		ptoSpace   = protocol.EpochInitial
		has        bool
	)

	for _, e := range protocol.Epochs() {
		es := &r.epochs[e]
		if es.pktsInFlight == 0 {
			continue
		}

		d := duration
		if e == protocol.EpochApplication {
			if !hs.Completed {
				// Skip Application Data until the handshake completes.
				return ptoTimeout, ptoSpace, has
			}
			d += r.maxAckDelay * time.Duration(1<<r.ptoCount)
		}

		if es.timeOfLastAckEliciting.IsZero() {
			continue
		}
		newTime := es.timeOfLastAckEliciting.Add(d)
		if !has || newTime.Before(ptoTimeout) {
			ptoTimeout = newTime
			ptoSpace = e
			has = true
		}
	}

	return ptoTimeout, ptoSpace, has
}

// setLossDetectionTimer arms (or clears) the single loss-detection
// timer the caller polls via LossDetectionTimer: time-threshold loss
// takes priority, then the PTO deadline, unless there is nothing
// outstanding and the peer's address is already verified (spec.md
// §4.4).
func (r *Recovery) setLossDetectionTimer(hs HandshakeStatus, now time.Time) {
	if t, _, has := r.lossTimeAndSpace(); has {
		r.lossDetectionTimer = t
		r.hasLossTimer = true
		return
	}

	if r.bytesInFlight == 0 && hs.PeerVerifiedAddress {
		r.lossDetectionTimer = time.Time{}
		r.hasLossTimer = false
		return
	}

	if t, _, has := r.ptoTimeAndSpace(hs, now); has {
		r.lossDetectionTimer = t
		r.hasLossTimer = true
	}
}
