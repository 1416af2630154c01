package recovery

import (
	"time"

	"github.com/flowquic/recovery/congestion"
	"github.com/flowquic/recovery/protocol"
)

// RecoveryConfig configures a Recovery instance at construction time,
// generalizing the original implementation's RecoveryConfig (there
// built from a connection-wide Config, here taken directly since the
// wider connection configuration surface is out of scope).
type RecoveryConfig struct {
	// MaxSendUDPPayloadSize bootstraps max_datagram_size and the initial
	// congestion window. Defaults to protocol.DefaultMaxDatagramSize if
	// zero.
	MaxSendUDPPayloadSize protocol.ByteCount

	// MaxAckDelay is the peer's advertised max_ack_delay transport
	// parameter, applied to Application-space PTO per spec.md §4.4.
	MaxAckDelay time.Duration

	// CCAlgorithm selects Reno, CUBIC, or BBR. BBR has no dedicated
	// implementation in this core; Recovery falls back to CUBIC and
	// reports the substitution via Tracer.OnUnsupportedAlgorithm
	// (spec.md §6 and §9 — ADDED: the original implementation's "_ =>
	// Cubic" branch silently substitutes, this core makes the
	// substitution observable instead).
	CCAlgorithm congestion.Algorithm

	// Tracer receives diagnostic callbacks. Defaults to
	// congestion.NoopTracer{} if nil.
	Tracer congestion.Tracer
}

// HandshakeStatus reports the three handshake-progress flags the timer
// and PTO engine need, mirroring the original implementation's
// HandshakeStatus tri-flag struct exactly.
type HandshakeStatus struct {
	// HasHandshakeKeys is true once Handshake-space keys are installed.
	HasHandshakeKeys bool
	// PeerVerifiedAddress is true once the peer's address has been
	// validated (a client proves this implicitly by using Handshake
	// keys; a server needs an explicit signal).
	PeerVerifiedAddress bool
	// Completed is true once the handshake has finished.
	Completed bool
}
